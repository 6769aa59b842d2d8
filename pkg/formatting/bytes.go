// Package formatting converts byte sizes between human-readable strings
// and byte counts for request body limits.
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const base = 1024.0

var units = []string{"B", "KB", "MB", "GB", "TB", "PB"}

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z]*)$`)

// ParseBytes parses a size such as "1MB", "512 kb" or "2048" into bytes.
// Units are base-1024 and case-insensitive. A bare number is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}

	exp := 0
	if unit := strings.ToUpper(m[2]); unit != "" {
		exp = slices.Index(units, unit)
		if exp < 0 {
			return 0, fmt.Errorf("unknown byte size unit: %q", m[2])
		}
	}

	return int64(n * math.Pow(base, float64(exp))), nil
}

// FormatBytes renders n with the largest unit that keeps the value >= 1.
func FormatBytes(n int64) string {
	if n < int64(base) {
		return fmt.Sprintf("%d B", n)
	}

	v := float64(n)
	exp := 0
	for v >= base && exp < len(units)-1 {
		v /= base
		exp++
	}

	return strconv.FormatFloat(v, 'f', -1, 64) + " " + units[exp]
}
