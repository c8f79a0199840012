package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log"

	"github.com/disintegration/imaging"
)

const (
	// Quality settings
	qualityUpload = 70
	// Size settings (max width for recompressed quote attachments)
	maxWidthUpload = 1200
)

// RecompressForUpload shrinks a logo file for a retried quote submission:
// resize to at most maxWidthUpload pixels wide (aspect ratio preserved)
// and re-encode as JPEG. The server receives the smaller file; the local
// asset keeps its original bytes.
// imageData: raw image bytes (PNG, JPEG, etc.)
// Returns recompressed JPEG image bytes
func RecompressForUpload(imageData []byte) ([]byte, error) {
	// Decode the image
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	log.Printf("📸 Image decoded for recompression: format=%s, bounds=%v", format, img.Bounds())

	// Resize image if needed
	bounds := img.Bounds()
	width := bounds.Dx()

	var resizedImg image.Image = img
	if width > maxWidthUpload {
		log.Printf("🔄 Resizing image: width %d -> %d", width, maxWidthUpload)
		resizedImg = imaging.Resize(img, maxWidthUpload, 0, imaging.Lanczos)
	}

	// Encode to JPEG
	var buf bytes.Buffer
	opts := &jpeg.Options{
		Quality: qualityUpload,
	}
	if err := jpeg.Encode(&buf, resizedImg, opts); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	recompressed := buf.Bytes()

	log.Printf("✓ Image recompressed: quality=%d, %d -> %d bytes", qualityUpload, len(imageData), len(recompressed))
	return recompressed, nil
}
