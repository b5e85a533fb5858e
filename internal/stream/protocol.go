// Package stream provides the client and protocol types for consuming
// an agent daemon's event feed over a Unix socket using NDJSON, plus a
// replayer that drives the same events from a recorded file.
package stream

// Command is sent from a client to the daemon.
type Command struct {
	Cmd    string   `json:"cmd"`
	Events []string `json:"events,omitempty"`
}

// Response is returned by the daemon after processing a command.
type Response struct {
	OK        bool   `json:"ok"`
	SessionID string `json:"sessionId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Event is one line of the daemon's event feed. The Event field
// discriminates the shape; all other fields are optional and only
// populated where the event type calls for them. Unknown event types
// and extra fields are tolerated so a daemon may send a superset.
type Event struct {
	Event     string         `json:"event"`
	SessionID string         `json:"sessionId,omitempty"`
	Title     string         `json:"title,omitempty"`
	MessageTS int64          `json:"messageTs,omitempty"`
	Role      string         `json:"role,omitempty"`
	Segment   *int           `json:"segment,omitempty"`
	Text      *string        `json:"text,omitempty"`
	Content   []ContentBlock `json:"content,omitempty"`
	Message   string         `json:"message,omitempty"`
	TS        int64          `json:"ts,omitempty"`
}

// ContentBlock is one entry of a message_end event's full content
// list.
type ContentBlock struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
}

// IntPtr returns a pointer to an int value. Convenience for building events.
func IntPtr(i int) *int { return &i }

// StrPtr returns a pointer to a string value. Convenience for building events.
func StrPtr(s string) *string { return &s }
