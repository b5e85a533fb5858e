package thinktrack

import (
	"strings"
	"testing"
	"time"
)

// fakeLabel records every text written to it.
type fakeLabel struct {
	text   string
	writes int
}

func (f *fakeLabel) Text() string     { return f.text }
func (f *fakeLabel) SetText(s string) { f.text = s; f.writes++ }

var base = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func TestBeginIsIdempotent(t *testing.T) {
	tr := New()
	key := SegmentKey{MsgTS: 100, Seg: 0}

	tr.Begin(key, base)
	tr.Begin(key, base.Add(500*time.Millisecond))
	tr.Begin(key, base.Add(time.Second))

	tr.Finish(key, base.Add(2*time.Second))

	got, ok := tr.DisplayValue(key, base.Add(time.Hour))
	if !ok {
		t.Fatal("finalized key has no display value")
	}
	if !strings.Contains(got, "2.0s") {
		t.Errorf("duration = %q, want the original start to win (2.0s)", got)
	}
}

func TestFinishClampsNegative(t *testing.T) {
	tr := New()
	key := SegmentKey{MsgTS: 100, Seg: 0}

	tr.Begin(key, base)
	tr.Finish(key, base.Add(-3*time.Second))

	got, _ := tr.DisplayValue(key, base)
	if !strings.Contains(got, "0.0s") {
		t.Errorf("skewed clock duration = %q, want 0.0s", got)
	}
}

func TestFinishUnknownKeyIgnored(t *testing.T) {
	tr := New()
	tr.Finish(SegmentKey{MsgTS: 1, Seg: 0}, base)

	if tr.HasActive() {
		t.Error("tracker should have nothing active")
	}
	if len(tr.FinalizedSpans()) != 0 {
		t.Error("finishing an unknown key must not create a span")
	}
}

func TestFinalizedValueStableAcrossRepaints(t *testing.T) {
	tr := New()
	key := SegmentKey{MsgTS: 100, Seg: 1}
	label := &fakeLabel{}

	tr.Begin(key, base)
	tr.Bind(key, label, base)
	tr.Finish(key, base.Add(6500*time.Millisecond))

	frozen := label.text
	if !strings.Contains(frozen, "6.5s") {
		t.Fatalf("finalized label = %q, want 6.5s", frozen)
	}

	for i := 1; i <= 5; i++ {
		tr.Repaint(key, base.Add(time.Duration(i)*time.Minute))
		if label.text != frozen {
			t.Fatalf("repaint %d changed a finalized label: %q -> %q", i, frozen, label.text)
		}
	}
}

func TestFinishMessageFinalizesOnlyThatMessage(t *testing.T) {
	tr := New()
	a := SegmentKey{MsgTS: 100, Seg: 0}
	b := SegmentKey{MsgTS: 100, Seg: 2}
	other := SegmentKey{MsgTS: 200, Seg: 0}

	tr.Begin(a, base)
	tr.Begin(b, base.Add(50*time.Millisecond))
	tr.Begin(other, base)

	tr.FinishMessage(100, base.Add(time.Second))

	if tr.ActiveCount() != 1 {
		t.Fatalf("active = %d, want 1 (only the other message)", tr.ActiveCount())
	}
	if _, ok := tr.DisplayValue(other, base.Add(time.Second)); !ok {
		t.Error("other message's segment should still be active")
	}
	spans := tr.FinalizedSpans()
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	if spans[0].DurationMS != 1000 || spans[1].DurationMS != 950 {
		t.Errorf("span durations = %d, %d, want 1000, 950", spans[0].DurationMS, spans[1].DurationMS)
	}
}

func TestConcurrentSegmentsKeepSeparateDurations(t *testing.T) {
	tr := New()
	first := SegmentKey{MsgTS: 100, Seg: 0}
	second := SegmentKey{MsgTS: 100, Seg: 1}
	l1 := &fakeLabel{}
	l2 := &fakeLabel{}

	tr.Begin(first, base)
	tr.Begin(second, base.Add(50*time.Millisecond))
	tr.Bind(first, l1, base.Add(60*time.Millisecond))
	tr.Bind(second, l2, base.Add(60*time.Millisecond))

	tr.Finish(first, base.Add(1000*time.Millisecond))
	tr.Finish(second, base.Add(1200*time.Millisecond))

	if !strings.Contains(l1.text, "1.0s") {
		t.Errorf("first label = %q, want 1.0s", l1.text)
	}
	if !strings.Contains(l2.text, "1.1s") {
		t.Errorf("second label = %q, want 1.1s (1150ms truncated)", l2.text)
	}
}

func TestRepaintActiveElapsedIncreases(t *testing.T) {
	tr := New()
	key := SegmentKey{MsgTS: 100, Seg: 0}
	label := &fakeLabel{}

	tr.Begin(key, base)
	tr.Bind(key, label, base.Add(200*time.Millisecond))
	at200 := label.text

	tr.RepaintActive(base.Add(700 * time.Millisecond))
	at700 := label.text

	if !strings.Contains(at200, "0.2s") || !strings.Contains(at700, "0.7s") {
		t.Errorf("elapsed readouts = %q then %q, want 0.2s then 0.7s", at200, at700)
	}
}

func TestLatestBindWins(t *testing.T) {
	tr := New()
	key := SegmentKey{MsgTS: 100, Seg: 0}
	old := &fakeLabel{}
	fresh := &fakeLabel{}

	tr.Begin(key, base)
	tr.Bind(key, old, base)
	tr.Bind(key, fresh, base.Add(100*time.Millisecond))

	oldWrites := old.writes
	tr.RepaintActive(base.Add(time.Second))

	if old.writes != oldWrites {
		t.Error("repaint wrote to a stale label")
	}
	if !strings.Contains(fresh.text, "1.0s") {
		t.Errorf("fresh label = %q, want 1.0s", fresh.text)
	}
}

func TestBindNilLabelIgnored(t *testing.T) {
	tr := New()
	key := SegmentKey{MsgTS: 100, Seg: 0}
	tr.Begin(key, base)
	tr.Bind(key, nil, base)
	tr.RepaintActive(base.Add(time.Second))
}

func TestReopenFinalizedKey(t *testing.T) {
	tr := New()
	key := SegmentKey{MsgTS: 100, Seg: 0}

	tr.Begin(key, base)
	tr.Finish(key, base.Add(time.Second))
	tr.Begin(key, base.Add(5*time.Second))

	if !tr.HasActive() {
		t.Fatal("re-begun key should be active again")
	}
	got, _ := tr.DisplayValue(key, base.Add(6*time.Second))
	if !strings.Contains(got, "1.0s") {
		t.Errorf("reopened display = %q, want elapsed since re-begin (1.0s)", got)
	}
	if len(tr.FinalizedSpans()) != 0 {
		t.Error("reopening must drop the stale finalized entry")
	}
}

func TestDisplayValueUnknownKey(t *testing.T) {
	tr := New()
	if _, ok := tr.DisplayValue(SegmentKey{MsgTS: 1, Seg: 0}, base); ok {
		t.Error("unknown key should have no display value")
	}
}

func TestResetDropsEverything(t *testing.T) {
	tr := New()
	active := SegmentKey{MsgTS: 100, Seg: 0}
	done := SegmentKey{MsgTS: 100, Seg: 1}
	label := &fakeLabel{}

	tr.Begin(active, base)
	tr.Begin(done, base)
	tr.Finish(done, base.Add(time.Second))
	tr.Bind(active, label, base)

	tr.Reset()

	if tr.HasActive() || tr.ActiveCount() != 0 {
		t.Error("reset left active entries")
	}
	if len(tr.FinalizedSpans()) != 0 {
		t.Error("reset left finalized entries")
	}
	writes := label.writes
	tr.Begin(active, base)
	tr.RepaintActive(base.Add(time.Second))
	if label.writes != writes {
		t.Error("reset left a label binding behind")
	}
}

func TestFinalizedSpansOrdered(t *testing.T) {
	tr := New()
	keys := []SegmentKey{
		{MsgTS: 200, Seg: 1},
		{MsgTS: 100, Seg: 3},
		{MsgTS: 200, Seg: 0},
		{MsgTS: 100, Seg: 0},
	}
	for _, k := range keys {
		tr.Begin(k, base)
		tr.Finish(k, base.Add(time.Second))
	}

	spans := tr.FinalizedSpans()
	want := []SegmentKey{
		{MsgTS: 100, Seg: 0},
		{MsgTS: 100, Seg: 3},
		{MsgTS: 200, Seg: 0},
		{MsgTS: 200, Seg: 1},
	}
	for i, w := range want {
		if spans[i].MsgTS != w.MsgTS || spans[i].Seg != w.Seg {
			t.Fatalf("spans[%d] = (%d,%d), want (%d,%d)", i, spans[i].MsgTS, spans[i].Seg, w.MsgTS, w.Seg)
		}
	}
}
