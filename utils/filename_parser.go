package utils

import (
	"bytes"
	"path/filepath"
	"strings"
)

// DetectImageFormat sniffs the format of an uploaded logo from its magic
// bytes, falling back to the file extension. Returns "png", "jpeg", "gif",
// "webp" or "" when unknown.
func DetectImageFormat(fileName string, data []byte) string {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case len(data) >= 3 && bytes.Equal(data[:3], []byte("\xff\xd8\xff")):
		return "jpeg"
	case len(data) >= 6 && (bytes.Equal(data[:6], []byte("GIF87a")) || bytes.Equal(data[:6], []byte("GIF89a"))):
		return "gif"
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "webp"
	}

	// Fall back to the extension for truncated or unusual files
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	switch ext {
	case "jpg":
		return "jpeg"
	case "png", "jpeg", "gif", "webp":
		return ext
	}
	return ""
}

// IsAllowedLogoFormat reports whether an uploaded file is a supported logo
// image type
func IsAllowedLogoFormat(format string) bool {
	switch format {
	case "png", "jpeg", "gif", "webp":
		return true
	}
	return false
}
