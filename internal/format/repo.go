package format

import (
	"fmt"
	"time"
)

// RelativeTime formats a timestamp as a compact age like "3h ago".
// Zero times render as "-".
func RelativeTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	d := time.Since(t)
	if d < 0 {
		d = 0
	}

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/(24*30)))
	default:
		return fmt.Sprintf("%dy ago", int(d.Hours()/(24*365)))
	}
}

// DiskSize formats a size reported in KiB.
func DiskSize(kib int) string {
	switch {
	case kib < 0:
		return "-"
	case kib < 1024:
		return fmt.Sprintf("%d KB", kib)
	case kib < 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(kib)/1024)
	default:
		return fmt.Sprintf("%.1f GB", float64(kib)/(1024*1024))
	}
}

// CompactCount renders counts like stars and forks in at most five runes.
func CompactCount(n int) string {
	switch {
	case n < 0:
		return "0"
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 10000:
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	case n < 1000000:
		return fmt.Sprintf("%dk", n/1000)
	default:
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}
