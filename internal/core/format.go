package core

import "fmt"

// sizeUnits are the binary (1024-based) units used by FormatSize.
var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count with one decimal place and a 1024-based
// unit, e.g. 500 → "500.0 B", 1536 → "1.5 KB", 1073741824 → "1.0 GB".
// Values beyond the terabyte range are expressed in PB.
func FormatSize(bytes int64) string {
	size := float64(bytes)
	for _, unit := range sizeUnits {
		if size < 1024 && size > -1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f PB", size)
}

// MB converts a decimal megabyte threshold into bytes.
func MB(v float64) int64 {
	return int64(v * 1e6)
}

// GB converts a decimal gigabyte threshold into bytes.
func GB(v float64) int64 {
	return int64(v * 1e9)
}
