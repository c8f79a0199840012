package utils

import (
	"strings"
)

// MapPositionToSlug maps decoration position display names to their slugs.
// Input is normalized to lowercase before mapping.
// Returns the slug used in persisted baskets and multipart part names
// (e.g. "logo_left-breast").
func MapPositionToSlug(position string) string {
	positionLower := strings.ToLower(strings.TrimSpace(position))

	positionMap := map[string]string{
		"left breast":  "left-breast",
		"right breast": "right-breast",
		"large back":   "large-back",
		"small back":   "small-back",
		"left sleeve":  "left-sleeve",
		"right sleeve": "right-sleeve",
		"nape of neck": "nape-of-neck",
		"front centre": "front-centre",
	}

	if slug, exists := positionMap[positionLower]; exists {
		return slug
	}

	// If not found, slugify the input
	return strings.ReplaceAll(positionLower, " ", "-")
}

// MapSlugToPosition maps position slugs back to their readable names.
// Returns a title-cased display name.
func MapSlugToPosition(slug string) string {
	slugLower := strings.ToLower(strings.TrimSpace(slug))

	slugMap := map[string]string{
		"left-breast":  "Left Breast",
		"right-breast": "Right Breast",
		"large-back":   "Large Back",
		"small-back":   "Small Back",
		"left-sleeve":  "Left Sleeve",
		"right-sleeve": "Right Sleeve",
		"nape-of-neck": "Nape of Neck",
		"front-centre": "Front Centre",
	}

	if name, exists := slugMap[slugLower]; exists {
		return name
	}

	// If not found, de-slugify the input
	words := strings.Split(slugLower, "-")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// NormalizeSize normalizes garment size values to standard uppercase codes.
// "Small" -> "S", "2XL"/"XXL" -> "XXL"
func NormalizeSize(size string) string {
	sizeUpper := strings.ToUpper(strings.TrimSpace(size))

	sizeMap := map[string]string{
		"X-SMALL":  "XS",
		"SMALL":    "S",
		"MEDIUM":   "M",
		"LARGE":    "L",
		"X-LARGE":  "XL",
		"XLARGE":   "XL",
		"2XL":      "XXL",
		"XX-LARGE": "XXL",
		"3XL":      "XXXL",
	}

	if normalized, exists := sizeMap[sizeUpper]; exists {
		return normalized
	}

	return sizeUpper
}
