package util

import (
	"fmt"

	"github.com/google/uuid"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize formats a file size in bytes to a human-readable string.
// The largest unit whose scaled value is at least 1 is used, capped at GB.
// Negative sizes are treated as zero.
func FormatSize(size int64) string {
	if size <= 0 {
		return "0 Bytes"
	}

	unitIndex := 0
	floatSize := float64(size)

	for floatSize >= 1024 && unitIndex < len(sizeUnits)-1 {
		floatSize /= 1024
		unitIndex++
	}

	return fmt.Sprintf("%.2f %s", floatSize, sizeUnits[unitIndex])
}

// IsUUID reports whether str is a UUID in canonical 8-4-4-4-12 form
func IsUUID(str string) bool {
	if len(str) != 36 {
		return false
	}
	_, err := uuid.Parse(str)
	return err == nil
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
