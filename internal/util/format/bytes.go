// Package format renders values for humans.
package format

import "fmt"

var byteUnits = []string{"KB", "MB", "GB", "TB", "PB"}

// HumanizeBytes renders a byte count with one decimal in binary units,
// e.g. 1536 -> "1.5 KB". Negative counts are shown as-is in bytes.
func HumanizeBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	v := float64(b) / unit
	i := 0
	for v >= unit && i < len(byteUnits)-1 {
		v /= unit
		i++
	}
	return fmt.Sprintf("%.1f %s", v, byteUnits[i])
}

// Plural returns "1 file" or "3 files".
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
