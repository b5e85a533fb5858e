// Package thinktrack correlates thinking lifecycle events with the
// collapsed headers that display their elapsed time. Segments may
// overlap freely, end signals may never arrive, and labels are
// rebuilt whenever the transcript redraws; the tracker keeps timing
// truth independent of all three.
package thinktrack

import (
	"sort"
	"time"

	"github.com/mull-sh/mull/internal/theme"
	"github.com/mull-sh/mull/internal/timefmt"
	"github.com/mull-sh/mull/internal/ui"
)

// SegmentKey identifies one thinking segment: the owning message's
// start timestamp in Unix milliseconds plus the segment index within
// that message.
type SegmentKey struct {
	MsgTS int64
	Seg   int
}

// Span is one finalized thinking duration, ready for archiving.
type Span struct {
	MsgTS      int64
	Seg        int
	DurationMS int64
}

// Tracker owns all per-segment timing state. It is not safe for
// concurrent use; every method must be called from the program's
// update loop.
type Tracker struct {
	active map[SegmentKey]time.Time
	final  map[SegmentKey]time.Duration
	labels map[SegmentKey]ui.TextSetter
	theme  *theme.Theme
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{
		active: make(map[SegmentKey]time.Time),
		final:  make(map[SegmentKey]time.Duration),
		labels: make(map[SegmentKey]ui.TextSetter),
	}
}

// SetTheme swaps the theme used when painting labels. A nil theme
// paints plain text.
func (tr *Tracker) SetTheme(t *theme.Theme) { tr.theme = t }

// Begin marks a segment active as of now. Repeated starts for a
// running segment keep the original instant. Starting a segment that
// already finished silently reopens it.
func (tr *Tracker) Begin(key SegmentKey, now time.Time) {
	if _, ok := tr.active[key]; ok {
		return
	}
	delete(tr.final, key)
	tr.active[key] = now
}

// Finish finalizes a running segment at now and repaints its label
// with the frozen duration. Durations clamp at zero so a skewed clock
// can never show negative time. Keys that are not running are
// ignored.
func (tr *Tracker) Finish(key SegmentKey, now time.Time) {
	start, ok := tr.active[key]
	if !ok {
		return
	}
	d := now.Sub(start)
	if d < 0 {
		d = 0
	}
	delete(tr.active, key)
	tr.final[key] = d
	tr.Repaint(key, now)
}

// FinishMessage finalizes every still-running segment of the given
// message. The message-end event is the safety net for thinking ends
// the stream never delivered.
func (tr *Tracker) FinishMessage(msgTS int64, now time.Time) {
	for key := range tr.active {
		if key.MsgTS == msgTS {
			tr.Finish(key, now)
		}
	}
}

// Bind points a segment at the label that currently displays it and
// paints it immediately when timing is known. The newest binding
// wins; labels from a previous redraw are simply forgotten.
func (tr *Tracker) Bind(key SegmentKey, label ui.TextSetter, now time.Time) {
	if label == nil {
		return
	}
	tr.labels[key] = label
	tr.Repaint(key, now)
}

// Repaint rewrites the bound label for one key. Keys without a label
// or without timing info are left alone, so default rendering
// survives any correlation miss.
func (tr *Tracker) Repaint(key SegmentKey, now time.Time) {
	label, ok := tr.labels[key]
	if !ok {
		return
	}
	text, ok := tr.DisplayValue(key, now)
	if !ok {
		return
	}
	label.SetText(text)
}

// RepaintActive refreshes every running segment's label. Called on
// each tick.
func (tr *Tracker) RepaintActive(now time.Time) {
	for key := range tr.active {
		tr.Repaint(key, now)
	}
}

// DisplayValue returns the header text for a key: the frozen duration
// when final, the elapsed time against now while running. The second
// return is false for unknown keys.
func (tr *Tracker) DisplayValue(key SegmentKey, now time.Time) (string, bool) {
	if d, ok := tr.final[key]; ok {
		return tr.theme.ThinkingDone(timefmt.Format(d)), true
	}
	if start, ok := tr.active[key]; ok {
		return tr.theme.ThinkingActive(timefmt.Format(now.Sub(start))), true
	}
	return "", false
}

// HasActive reports whether any segment is still running.
func (tr *Tracker) HasActive() bool { return len(tr.active) > 0 }

// ActiveCount returns the number of running segments.
func (tr *Tracker) ActiveCount() int { return len(tr.active) }

// FinalizedSpans returns every finalized duration, ordered by message
// timestamp then segment index.
func (tr *Tracker) FinalizedSpans() []Span {
	spans := make([]Span, 0, len(tr.final))
	for key, d := range tr.final {
		spans = append(spans, Span{MsgTS: key.MsgTS, Seg: key.Seg, DurationMS: d.Milliseconds()})
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].MsgTS != spans[j].MsgTS {
			return spans[i].MsgTS < spans[j].MsgTS
		}
		return spans[i].Seg < spans[j].Seg
	})
	return spans
}

// Reset drops all timing state and label bindings. Called when the
// session changes.
func (tr *Tracker) Reset() {
	clear(tr.active)
	clear(tr.final)
	clear(tr.labels)
}
