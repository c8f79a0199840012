package utils

import (
	"strconv"
	"strings"
)

// ParseQuantity normalizes a quantity value arriving from any call site
// (persisted JSON, CLI arguments, API responses) into a non-negative int.
// Strings are trimmed and parsed; negative values and garbage clamp to 0
// rather than propagating NaN-style corruption into the basket.
func ParseQuantity(value interface{}) int {
	switch v := value.(type) {
	case int:
		return clampQuantity(v)
	case int64:
		return clampQuantity(int(v))
	case float64:
		// JSON numbers decode as float64
		return clampQuantity(int(v))
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			// Tolerate decimal strings like "3.0"
			f, ferr := strconv.ParseFloat(trimmed, 64)
			if ferr != nil {
				return 0
			}
			return clampQuantity(int(f))
		}
		return clampQuantity(n)
	default:
		return 0
	}
}

func clampQuantity(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
