// Package durationutil formats time.Duration values for human-readable run
// summaries. It is used only at the CLI boundary — the kernel itself works
// exclusively in time.Time/time.Duration and never needs a string form.
package durationutil

import (
	"fmt"
	"time"
)

// FormatHMS renders d as "H:MM:SS", matching the original kernel's
// timedelta_to_str convention.
func FormatHMS(d time.Duration) string {
	totalSeconds := int64(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds - hours*3600) / 60
	seconds := totalSeconds - hours*3600 - minutes*60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}
