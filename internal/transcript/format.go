package transcript

import "fmt"

// Timestamp formats seconds as MM:SS, or HH:MM:SS for offsets of an hour or more.
func Timestamp(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// TimestampRange renders a segment's span as [start–end].
func TimestampRange(start, end float64) string {
	return fmt.Sprintf("[%s–%s]", Timestamp(start), Timestamp(end))
}

// FormatDuration formats a duration in seconds for display, e.g. 3:05 or 1:02:09.
func FormatDuration(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
