package dagform

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseStringArray parses a JSON array of strings. Malformed input yields nil.
func ParseStringArray(text string) []string {
	var out []string
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil
	}
	return out
}

// ParseIntArray parses a JSON array of integers. Any JSON number with an
// integral value is accepted, so 1.0 and 1e2 read as 1 and 100. Malformed
// input, fractions and values outside int32 yield nil.
func ParseIntArray(text string) []int {
	var values []float64
	if err := json.Unmarshal([]byte(text), &values); err != nil || values == nil {
		return nil
	}

	out := make([]int, 0, len(values))
	for _, v := range values {
		if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
			return nil
		}
		out = append(out, int(v))
	}
	return out
}

// ParseBackoffLimit parses a non-negative integer, returning 0 otherwise
func ParseBackoffLimit(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FormatStringArray renders a slice the way ParseStringArray reads it back
func FormatStringArray(values []string) string {
	if values == nil {
		return ""
	}
	data, _ := json.Marshal(values)
	return string(data)
}

// FormatIntArray renders a slice the way ParseIntArray reads it back
func FormatIntArray(values []int) string {
	if values == nil {
		return ""
	}
	data, _ := json.Marshal(values)
	return string(data)
}
