// Package db archives finished sessions and their thinking spans in
// SQLite.
package db

import "time"

// Session is one archived conversation session.
type Session struct {
	ID         string
	Title      string
	StartedAt  time.Time
	EndedAt    time.Time
	Messages   int
	ThinkingMS int64
}

// Span is one finalized thinking duration within a session.
type Span struct {
	SessionID    string
	MessageTS    int64
	SegmentIndex int
	DurationMS   int64
}
