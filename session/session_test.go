package session

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandeduk-store/config"
	"brandeduk-store/models"
	"brandeduk-store/service"
)

func testStoreConfig() *config.StoreConfig {
	return &config.StoreConfig{
		VATRate:       0.2,
		DigitizingFee: "15.00",
		Positions: []config.PositionEntry{
			{Slug: "left-breast", Name: "Left Breast"},
			{Slug: "right-breast", Name: "Right Breast"},
			{Slug: "large-back", Name: "Large Back"},
		},
		Methods: map[string]config.MethodEntry{
			"embroidery": {Price: "4.95"},
			"print":      {Price: "3.50"},
			"applique":   {POA: true},
		},
	}
}

func newTestSession() *CustomizationSession {
	s := NewCustomizationSession("UC101", testStoreConfig(), service.NewLogoProcessor())
	s.SetAutoRemoveDelay(0)
	return s
}

func solidImageBytes(t *testing.T, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return buf.Bytes()
}

func pngBytes(t *testing.T) []byte {
	return solidImageBytes(t, func(buf *bytes.Buffer, img image.Image) error {
		return png.Encode(buf, img)
	})
}

func jpegBytes(t *testing.T) []byte {
	return solidImageBytes(t, func(buf *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(buf, img, nil)
	})
}

func TestSessionStartsWithStorePositions(t *testing.T) {
	s := newTestSession()

	positions := s.Positions()
	require.Len(t, positions, 3)
	assert.Equal(t, "left-breast", positions[0].ID)
	assert.Equal(t, "Left Breast", positions[0].Name)
	assert.False(t, positions[0].HasMethod())
}

func TestSelectMethodReclickTogglesToEmpty(t *testing.T) {
	s := newTestSession()

	require.NoError(t, s.SelectMethod("left-breast", models.MethodEmbroidery))
	p, err := s.Position("left-breast")
	require.NoError(t, err)
	assert.Equal(t, models.MethodEmbroidery, p.SelectedMethod)

	// Re-clicking the active method on an uncustomized position resets it
	require.NoError(t, s.SelectMethod("left-breast", models.MethodEmbroidery))
	p, err = s.Position("left-breast")
	require.NoError(t, err)
	assert.Equal(t, models.MethodNone, p.SelectedMethod)
}

func TestSelectMethodReclickKeepsCustomizedPosition(t *testing.T) {
	s := newTestSession()

	require.NoError(t, s.SelectMethod("left-breast", models.MethodPrint))
	require.NoError(t, s.AttachLogo("left-breast", "crest.png", pngBytes(t)))

	// Once a logo is attached a re-click must not toggle back to empty
	require.NoError(t, s.SelectMethod("left-breast", models.MethodPrint))
	p, err := s.Position("left-breast")
	require.NoError(t, err)
	assert.Equal(t, models.MethodPrint, p.SelectedMethod)
	assert.NotNil(t, p.Logo)
}

func TestSelectMethodRejectsPOAAndUnknown(t *testing.T) {
	s := newTestSession()

	assert.Error(t, s.SelectMethod("left-breast", models.Method("applique")))
	assert.Error(t, s.SelectMethod("left-breast", models.Method("laser")))
	assert.Error(t, s.SelectMethod("nowhere", models.MethodEmbroidery))
}

func TestDeselectRefusesCustomizedPosition(t *testing.T) {
	s := newTestSession()

	require.NoError(t, s.SelectMethod("left-breast", models.MethodEmbroidery))
	require.NoError(t, s.AttachText("left-breast", "ACME Ltd"))

	err := s.Deselect("left-breast")
	assert.ErrorIs(t, err, ErrPositionCustomized)

	// Uncustomized positions deselect freely
	require.NoError(t, s.SelectMethod("right-breast", models.MethodPrint))
	require.NoError(t, s.Deselect("right-breast"))
	p, err := s.Position("right-breast")
	require.NoError(t, err)
	assert.Equal(t, models.MethodNone, p.SelectedMethod)
}

func TestResetClearsEverything(t *testing.T) {
	s := newTestSession()

	require.NoError(t, s.SelectMethod("left-breast", models.MethodEmbroidery))
	require.NoError(t, s.AttachLogo("left-breast", "crest.png", pngBytes(t)))

	require.NoError(t, s.Reset("left-breast"))
	p, err := s.Position("left-breast")
	require.NoError(t, err)
	assert.Equal(t, models.MethodNone, p.SelectedMethod)
	assert.Nil(t, p.Logo)
	assert.Empty(t, p.CustomizationText)
}

func TestCompleteUploadRejectsStaleToken(t *testing.T) {
	s := newTestSession()

	first, err := s.BeginUpload("left-breast")
	require.NoError(t, err)

	// A second upload supersedes the first; the late first result is stale
	second, err := s.BeginUpload("right-breast")
	require.NoError(t, err)

	err = s.CompleteUpload(first, "old.png", pngBytes(t))
	assert.ErrorIs(t, err, ErrStaleUpload)

	require.NoError(t, s.CompleteUpload(second, "new.png", pngBytes(t)))
	p, err := s.Position("right-breast")
	require.NoError(t, err)
	require.NotNil(t, p.Logo)
	assert.Equal(t, "new.png", p.Logo.FileName)

	left, err := s.Position("left-breast")
	require.NoError(t, err)
	assert.Nil(t, left.Logo)
}

func TestCancelUploadDiscardsPendingResult(t *testing.T) {
	s := newTestSession()

	token, err := s.BeginUpload("left-breast")
	require.NoError(t, err)
	s.CancelUpload(token)

	err = s.CompleteUpload(token, "crest.png", pngBytes(t))
	assert.ErrorIs(t, err, ErrStaleUpload)
}

func TestCompleteUploadValidatesFile(t *testing.T) {
	s := newTestSession()

	token, err := s.BeginUpload("left-breast")
	require.NoError(t, err)
	assert.Error(t, s.CompleteUpload(token, "empty.png", nil))

	token, err = s.BeginUpload("left-breast")
	require.NoError(t, err)
	assert.Error(t, s.CompleteUpload(token, "notes.txt", []byte("plain text")))
}

func TestAttachLogoDefaultsToEmbroidery(t *testing.T) {
	s := newTestSession()

	require.NoError(t, s.AttachLogo("left-breast", "crest.png", pngBytes(t)))
	p, err := s.Position("left-breast")
	require.NoError(t, err)
	assert.Equal(t, models.MethodEmbroidery, p.SelectedMethod)

	// PNG uploads never trigger automatic background removal
	assert.False(t, p.Logo.BackgroundRemoved)
}

func TestJPEGOnEmbroideryAutoRemovesBackground(t *testing.T) {
	s := newTestSession()

	require.NoError(t, s.AttachLogo("left-breast", "photo.jpg", jpegBytes(t)))
	p, err := s.Position("left-breast")
	require.NoError(t, err)
	require.NotNil(t, p.Logo)
	assert.True(t, p.Logo.BackgroundRemoved)
	assert.NotEmpty(t, p.Logo.ProcessedImage)
}

func TestJPEGOnPrintLeavesBackground(t *testing.T) {
	s := newTestSession()

	require.NoError(t, s.SelectMethod("left-breast", models.MethodPrint))
	require.NoError(t, s.AttachLogo("left-breast", "photo.jpg", jpegBytes(t)))

	p, err := s.Position("left-breast")
	require.NoError(t, err)
	assert.False(t, p.Logo.BackgroundRemoved)
}

func TestAttachTextReplacesLogo(t *testing.T) {
	s := newTestSession()

	require.NoError(t, s.AttachLogo("left-breast", "crest.png", pngBytes(t)))
	require.NoError(t, s.AttachText("left-breast", "  ACME Ltd  "))

	p, err := s.Position("left-breast")
	require.NoError(t, err)
	assert.Nil(t, p.Logo)
	assert.Equal(t, "ACME Ltd", p.CustomizationText)

	assert.Error(t, s.AttachText("left-breast", "   "))
}

func TestBadgeStates(t *testing.T) {
	s := newTestSession()

	badges, err := s.Badges("left-breast")
	require.NoError(t, err)
	assert.Equal(t, models.BadgeDefault, badges[models.MethodEmbroidery])
	assert.Equal(t, models.BadgeDefault, badges[models.MethodPrint])

	require.NoError(t, s.SelectMethod("left-breast", models.MethodEmbroidery))
	badges, err = s.Badges("left-breast")
	require.NoError(t, err)
	assert.Equal(t, models.BadgeActive, badges[models.MethodEmbroidery])
	assert.Equal(t, models.BadgeAddLogo, badges[models.MethodPrint])

	require.NoError(t, s.AttachLogo("left-breast", "crest.png", pngBytes(t)))
	badges, err = s.Badges("left-breast")
	require.NoError(t, err)
	assert.Equal(t, models.BadgeActive, badges[models.MethodEmbroidery])
	assert.Equal(t, models.BadgeLogoAdded, badges[models.MethodPrint])
}

func TestCustomizationsSnapshot(t *testing.T) {
	s := newTestSession()

	require.NoError(t, s.AttachLogo("left-breast", "crest.png", pngBytes(t)))
	require.NoError(t, s.SelectMethod("large-back", models.MethodPrint))
	require.NoError(t, s.AttachText("large-back", "ACME Ltd"))

	// A method without a logo or text is not a customization
	require.NoError(t, s.SelectMethod("right-breast", models.MethodPrint))

	customizations := s.Customizations()
	require.Len(t, customizations, 2)

	assert.Equal(t, "left-breast", customizations[0].Position)
	assert.Equal(t, models.MethodEmbroidery, customizations[0].Method)
	assert.Equal(t, "logo", customizations[0].Type)
	assert.True(t, customizations[0].UploadedLogo)
	assert.Equal(t, "crest.png", customizations[0].LogoName)
	assert.Equal(t, "4.95", customizations[0].Price)

	assert.Equal(t, "large-back", customizations[1].Position)
	assert.Equal(t, "text", customizations[1].Type)
	assert.Equal(t, "ACME Ltd", customizations[1].Text)
	assert.Equal(t, "3.50", customizations[1].Price)
}

func TestRestoreRebuildsFromPersistedCustomizations(t *testing.T) {
	s := newTestSession()

	s.Restore([]models.PositionCustomization{
		{Position: "left-breast", Method: models.MethodEmbroidery, Type: "logo", UploadedLogo: true, LogoName: "crest.png"},
		{Position: "large-back", Method: models.MethodPrint, Type: "text", Text: "ACME Ltd"},
		{Position: "unknown-slot", Method: models.MethodPrint, Type: "text", Text: "ignored"},
	})

	p, err := s.Position("left-breast")
	require.NoError(t, err)
	assert.Equal(t, models.MethodEmbroidery, p.SelectedMethod)
	require.NotNil(t, p.Logo)
	assert.Equal(t, "crest.png", p.Logo.FileName)
	// Image bytes are not persisted, only the name survives a restore
	assert.Empty(t, p.Logo.OriginalImage)

	back, err := s.Position("large-back")
	require.NoError(t, err)
	assert.Equal(t, "ACME Ltd", back.CustomizationText)
}

func TestLogoFilesAndHasEmbroidery(t *testing.T) {
	s := newTestSession()
	assert.False(t, s.HasEmbroidery())
	assert.Empty(t, s.LogoFiles())

	logo := pngBytes(t)
	require.NoError(t, s.AttachLogo("left-breast", "crest.png", logo))

	files := s.LogoFiles()
	require.Len(t, files, 1)
	assert.Equal(t, logo, files["left-breast"])
	assert.True(t, s.HasEmbroidery())
}
