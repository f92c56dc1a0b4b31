package timer

import (
	"fmt"
	"time"
)

// Decompose splits a millisecond count into display fields. Hours are not
// wrapped at 24.
func Decompose(ms int64) (hours, minutes, seconds int64) {
	if ms < 0 {
		ms = 0
	}
	hours = ms / 3_600_000
	minutes = (ms / 60_000) % 60
	seconds = (ms / 1_000) % 60
	return hours, minutes, seconds
}

// Format renders d as zero-padded HH:MM:SS.
func Format(d time.Duration) string {
	h, m, s := Decompose(d.Milliseconds())
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
