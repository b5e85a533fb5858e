package thinktrack

import (
	"strings"
	"time"

	"github.com/mull-sh/mull/internal/conv"
	"github.com/mull-sh/mull/internal/ui"
)

// Binder matches a message's thinking segments to the header labels
// currently on screen. Rendered elements carry no back-reference to
// their source segment, so the pairing is positional: the j'th
// thinking segment gets the j'th settable header. That only holds as
// long as the view renders thinking blocks in segment order.
type Binder struct {
	tracker *Tracker
}

// NewBinder returns a binder feeding the given tracker.
func NewBinder(tr *Tracker) *Binder {
	return &Binder{tracker: tr}
}

// Rebind runs after a message's elements have been rebuilt. It pairs
// thinking segments with collapsed headers and binds each pair into
// the tracker, which paints the label when timing is known. Any shape
// it does not expect makes it return without touching anything;
// rendering must never break because correlation failed.
func (b *Binder) Rebind(msg *conv.Message, els []ui.Element, now time.Time) {
	if b == nil || b.tracker == nil || msg == nil {
		return
	}
	if len(msg.Segments) == 0 || len(els) == 0 {
		return
	}

	var thinks []int
	for _, i := range msg.ThinkingIndices() {
		if strings.TrimSpace(msg.Segments[i].Text) != "" {
			thinks = append(thinks, i)
		}
	}

	var labels []ui.TextSetter
	for _, el := range els {
		setter, ok := el.(ui.TextSetter)
		if !ok {
			continue
		}
		if strings.Contains(setter.Text(), ui.CollapsedMarker) {
			labels = append(labels, setter)
		}
	}

	// Extra segments or extra labels are left unpaired. The shorter
	// list wins.
	n := len(thinks)
	if len(labels) < n {
		n = len(labels)
	}
	for j := 0; j < n; j++ {
		key := SegmentKey{MsgTS: msg.TS, Seg: thinks[j]}
		b.tracker.Bind(key, labels[j], now)
	}
}
