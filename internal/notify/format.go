package notify

import (
	"fmt"
	"time"
)

// descriptionLimit is the display threshold beyond which a description is
// collapsed behind the expand toggle.
const descriptionLimit = 100

func truncate(s string, expanded bool) (string, bool) {
	r := []rune(s)
	if expanded || len(r) <= descriptionLimit {
		return s, false
	}
	return string(r[:descriptionLimit]) + "...", true
}

// RelativeTime renders the largest nonzero unit among days, hours and
// minutes elapsed since t, or "just now" under one minute.
func RelativeTime(t, now time.Time) string {
	elapsed := now.Sub(t)
	switch {
	case elapsed >= 24*time.Hour:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours())/24)
	case elapsed >= time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	case elapsed >= time.Minute:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	default:
		return "just now"
	}
}
