package models

// LogoAsset represents an uploaded logo and its processed variant.
// The asset is owned exclusively by its Position. OriginalImage is retained
// for undo as long as the asset exists, so RestoreOriginalBackground can
// return an image byte-for-byte equal to the upload.
type LogoAsset struct {
	FileName          string `json:"fileName"`
	Format            string `json:"format"` // "png", "jpeg", ...
	OriginalImage     []byte `json:"-"`
	ProcessedImage    []byte `json:"-"`
	BackgroundRemoved bool   `json:"backgroundRemoved"`
}

// CurrentImage returns the image that should be displayed and submitted:
// the processed buffer when background removal has run, else the original.
func (a *LogoAsset) CurrentImage() []byte {
	if a.BackgroundRemoved && len(a.ProcessedImage) > 0 {
		return a.ProcessedImage
	}
	return a.OriginalImage
}

// IsJPEG reports whether the uploaded image was a JPEG. JPEG uploads on
// embroidery positions trigger automatic background removal.
func (a *LogoAsset) IsJPEG() bool {
	return a.Format == "jpeg" || a.Format == "jpg"
}
