// Package conv holds the conversation data the event stream builds
// and the transcript renders.
package conv

// SegmentKind discriminates the content blocks inside a message.
type SegmentKind string

const (
	KindText     SegmentKind = "text"
	KindThinking SegmentKind = "thinking"
	KindTool     SegmentKind = "tool"
)

// Segment is one content block of a message.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Message is a single conversation turn, identified by its start
// timestamp in Unix milliseconds.
type Message struct {
	TS       int64
	Role     string
	Segments []Segment
	Done     bool
}

// Segment returns the i'th segment, or nil when out of range.
func (m *Message) Segment(i int) *Segment {
	if m == nil || i < 0 || i >= len(m.Segments) {
		return nil
	}
	return &m.Segments[i]
}

// EnsureSegment grows the message until segment i exists, then
// returns it. Gap segments created along the way are empty text
// blocks; a later event for them fixes their kind.
func (m *Message) EnsureSegment(i int) *Segment {
	if m == nil || i < 0 {
		return nil
	}
	for len(m.Segments) <= i {
		m.Segments = append(m.Segments, Segment{Kind: KindText})
	}
	return &m.Segments[i]
}

// ThinkingIndices returns the positions of thinking segments, in
// order.
func (m *Message) ThinkingIndices() []int {
	if m == nil {
		return nil
	}
	var idx []int
	for i, s := range m.Segments {
		if s.Kind == KindThinking {
			idx = append(idx, i)
		}
	}
	return idx
}
