package timefmt

import (
	"testing"
	"time"
)

func TestFormatSubMinute(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0.0s"},
		{40, "0.0s"},
		{900, "0.9s"},
		{1000, "1.0s"},
		{6500, "6.5s"},
		{6549, "6.5s"},
		{59999, "59.9s"},
	}
	for _, c := range cases {
		if got := Millis(c.ms); got != c.want {
			t.Errorf("Millis(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}

func TestFormatMinuteAndUp(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{60000, "1:00.0"},
		{65000, "1:05.0"},
		{90500, "1:30.5"},
		{600000, "10:00.0"},
		{3723400, "62:03.4"},
	}
	for _, c := range cases {
		if got := Millis(c.ms); got != c.want {
			t.Errorf("Millis(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}

func TestFormatNegativeClamps(t *testing.T) {
	if got := Format(-5 * time.Second); got != "0.0s" {
		t.Errorf("Format(-5s) = %q, want %q", got, "0.0s")
	}
}

func TestFormatTruncatesTenths(t *testing.T) {
	// 6.99s must show 6.9s, never round up to 7.0s.
	if got := Millis(6990); got != "6.9s" {
		t.Errorf("Millis(6990) = %q, want %q", got, "6.9s")
	}
}
