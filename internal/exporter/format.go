package exporter

import (
	"strconv"
)

// formatValue writes aggregate values without a trailing ".0" for whole
// numbers, so counts stay integers in the file.
func formatValue(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
