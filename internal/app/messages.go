package app

import "github.com/mull-sh/mull/internal/stream"

// ConnectedMsg is sent when the daemon connection is established.
type ConnectedMsg struct {
	Client *stream.Client
}

// ConnectErrorMsg is sent when the daemon connection fails.
type ConnectErrorMsg struct {
	Err error
}

// StreamEventMsg wraps one event from the daemon or the replayer.
type StreamEventMsg struct {
	Event stream.Event
}

// StreamErrorMsg is sent when the event stream breaks.
type StreamErrorMsg struct {
	Err error
}

// ReconnectTickMsg triggers a reconnection attempt.
type ReconnectTickMsg struct{}

// ReplayDoneMsg is sent when a replay file is exhausted.
type ReplayDoneMsg struct {
	Err error
}

// thinkTickMsg is one firing of the elapsed-time repaint ticker. The
// generation lets an in-flight tick be dropped after the ticker was
// stopped and restarted.
type thinkTickMsg struct {
	gen int
}
