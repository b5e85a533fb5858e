// Package timefmt renders elapsed thinking durations the way the
// transcript displays them: fractional seconds under a minute,
// minutes and seconds from a minute up.
package timefmt

import (
	"fmt"
	"time"
)

// Format renders a duration as "6.5s" below one minute and "1:05.0"
// at one minute or above. Tenths are truncated, not rounded, so the
// readout never runs ahead of the clock. Negative durations render as
// zero.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	tenths := d.Milliseconds() / 100
	if d < time.Minute {
		return fmt.Sprintf("%d.%ds", tenths/10, tenths%10)
	}
	minutes := tenths / 600
	rem := tenths % 600
	return fmt.Sprintf("%d:%02d.%d", minutes, rem/10, rem%10)
}

// Millis formats a millisecond count.
func Millis(ms int64) string {
	return Format(time.Duration(ms) * time.Millisecond)
}
