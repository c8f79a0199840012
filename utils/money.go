package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatPence formats an amount in pence as a plain decimal string like
// "12.59". This is the representation used in the persisted basket and in
// quote request bodies.
func FormatPence(pence int64) string {
	neg := pence < 0
	if neg {
		pence = -pence
	}

	s := fmt.Sprintf("%d.%02d", pence/100, pence%100)
	if neg {
		return "-" + s
	}
	return s
}

// FormatGBP formats an amount in pence for display, like "£12.59"
func FormatGBP(pence int64) string {
	if pence < 0 {
		return "-£" + FormatPence(-pence)
	}
	return "£" + FormatPence(pence)
}

// ParsePence parses a decimal price string ("12.59", "£12.59", "12") into
// pence. Returns an error for malformed input; callers at trusted
// boundaries usually fall back to 0.
func ParsePence(s string) (int64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "£")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty price string")
	}

	neg := false
	if strings.HasPrefix(cleaned, "-") {
		neg = true
		cleaned = cleaned[1:]
	}

	parts := strings.SplitN(cleaned, ".", 2)
	pounds, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}

	var pence int64
	if len(parts) == 2 {
		frac := parts[1]
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		pence, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q: %w", s, err)
		}
	}

	total := pounds*100 + pence
	if neg {
		total = -total
	}
	return total, nil
}

// ParsePenceOr parses a price string, returning fallback on any error
func ParsePenceOr(s string, fallback int64) int64 {
	pence, err := ParsePence(s)
	if err != nil {
		return fallback
	}
	return pence
}
