package session

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"brandeduk-store/config"
	"brandeduk-store/models"
	"brandeduk-store/service"
	"brandeduk-store/utils"
)

// ErrStaleUpload indicates an upload completed after its target position
// stopped being the current upload target (modal closed, another upload
// started). The result is discarded.
var ErrStaleUpload = errors.New("upload target is no longer current")

// ErrPositionCustomized indicates an implicit deselection was attempted on
// a position that carries a logo or text. Only the explicit delete control
// may reset such a position.
var ErrPositionCustomized = errors.New("position carries a customization; use the delete control")

// defaultAutoRemoveDelay is the debounce before automatic background
// removal runs on a JPEG upload to an embroidery position
const defaultAutoRemoveDelay = 150 * time.Millisecond

// maxLogoUploadBytes caps accepted logo uploads at 8MB
const maxLogoUploadBytes = 8 << 20

// currentUpload tracks the in-flight upload so late decode callbacks can
// verify they still target the right position
type currentUpload struct {
	token      string
	positionID string
}

// CustomizationSession holds the per-position customization state for one
// product flow. It replaces the page-level mutable globals of old: one
// session is created per product being customized and passed explicitly to
// every operation.
type CustomizationSession struct {
	mu sync.Mutex

	productCode string
	store       *config.StoreConfig
	processor   *service.LogoProcessor

	positions map[string]*models.Position
	order     []string

	upload          currentUpload
	autoRemoveDelay time.Duration
}

// NewCustomizationSession creates a session for a product, with one empty
// position per decoration position the store offers
func NewCustomizationSession(productCode string, store *config.StoreConfig, processor *service.LogoProcessor) *CustomizationSession {
	s := &CustomizationSession{
		productCode:     productCode,
		store:           store,
		processor:       processor,
		positions:       make(map[string]*models.Position),
		autoRemoveDelay: defaultAutoRemoveDelay,
	}

	for _, entry := range store.Positions {
		s.positions[entry.Slug] = &models.Position{ID: entry.Slug, Name: entry.Name}
		s.order = append(s.order, entry.Slug)
	}

	return s
}

// SetAutoRemoveDelay overrides the auto background-removal debounce.
// Zero makes the removal run synchronously inside CompleteUpload.
func (s *CustomizationSession) SetAutoRemoveDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoRemoveDelay = d
}

// ProductCode returns the product this session customizes
func (s *CustomizationSession) ProductCode() string {
	return s.productCode
}

// Position returns the state of one position
func (s *CustomizationSession) Position(positionID string) (*models.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position(positionID)
}

func (s *CustomizationSession) position(positionID string) (*models.Position, error) {
	p, exists := s.positions[positionID]
	if !exists {
		return nil, fmt.Errorf("unknown position %q", positionID)
	}
	return p, nil
}

// Positions returns all positions in the store's configured order
func (s *CustomizationSession) Positions() []*models.Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Position, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.positions[id])
	}
	return out
}

// Restore rebuilds position state from persisted basket customizations
// (page-load path). Logo image bytes are not persisted; a restored logo
// position keeps its name and customized flag only.
func (s *CustomizationSession) Restore(customizations []models.PositionCustomization) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range customizations {
		p, exists := s.positions[c.Position]
		if !exists {
			log.Printf("⚠️  Session: Skipping persisted customization for unknown position %q", c.Position)
			continue
		}
		p.SelectedMethod = c.Method
		if c.Type == "text" {
			p.CustomizationText = c.Text
		} else if c.UploadedLogo {
			p.Logo = &models.LogoAsset{FileName: c.LogoName}
		}
	}
}

// SelectMethod applies a method badge click. Re-clicking the selected
// method on a position without a logo or text toggles the position back to
// empty, resetting both badges; otherwise the method is set and both
// badges re-render around it. POA methods cannot be auto-selected.
func (s *CustomizationSession) SelectMethod(positionID string, method models.Method) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.position(positionID)
	if err != nil {
		return err
	}

	entry, exists := s.store.Methods[string(method)]
	if !exists {
		return fmt.Errorf("unknown decoration method %q", method)
	}
	if entry.POA {
		return fmt.Errorf("method %q is priced on application and requires a manual quote", method)
	}

	if p.SelectedMethod == method && !p.IsCustomized() {
		// Toggle back to empty: full reset of both badges
		p.SelectedMethod = models.MethodNone
		log.Printf("🔄 Session: Position %s toggled back to empty", positionID)
		return nil
	}

	p.SelectedMethod = method
	log.Printf("✓ Session: Position %s method set to %s", positionID, method)
	return nil
}

// Deselect applies a background click on the garment preview. Positions
// carrying a logo or text refuse implicit deselection - uploaded art must
// not be lost to a stray click.
func (s *CustomizationSession) Deselect(positionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.position(positionID)
	if err != nil {
		return err
	}

	if p.IsCustomized() {
		return fmt.Errorf("%w: %s", ErrPositionCustomized, positionID)
	}

	p.SelectedMethod = models.MethodNone
	return nil
}

// Reset clears method, logo and text for a position atomically. This is
// the explicit delete action and the only way to clear a customized
// position.
func (s *CustomizationSession) Reset(positionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.position(positionID)
	if err != nil {
		return err
	}

	p.SelectedMethod = models.MethodNone
	p.Logo = nil
	p.CustomizationText = ""
	s.upload = currentUpload{}

	log.Printf("🗑  Session: Position %s reset", positionID)
	return nil
}

// BeginUpload marks a position as the current upload target and returns
// the token the eventual decode result must present
func (s *CustomizationSession) BeginUpload(positionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.position(positionID); err != nil {
		return "", err
	}

	token := uuid.NewString()
	s.upload = currentUpload{token: token, positionID: positionID}
	return token, nil
}

// CancelUpload discards the pending upload (modal closed mid-decode).
// Tokens other than the current one are ignored.
func (s *CustomizationSession) CancelUpload(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.upload.token == token {
		s.upload = currentUpload{}
	}
}

// CompleteUpload applies a decoded upload to its target position. Stale
// tokens are rejected: the decode may have finished after the user closed
// the modal or started another upload.
//
// A position without a chosen method defaults to embroidery. JPEG uploads
// on embroidery positions schedule automatic background removal after a
// short debounce; other formats and methods leave removal to the user.
func (s *CustomizationSession) CompleteUpload(token, fileName string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.upload.token == "" || s.upload.token != token {
		log.Printf("⚠️  Session: Discarding stale upload result (token %s)", token)
		return ErrStaleUpload
	}

	positionID := s.upload.positionID
	s.upload = currentUpload{}

	p, err := s.position(positionID)
	if err != nil {
		return err
	}

	if len(data) == 0 {
		return fmt.Errorf("uploaded logo %q is empty", fileName)
	}
	if len(data) > maxLogoUploadBytes {
		return fmt.Errorf("uploaded logo %q is too large (%d bytes, limit %d)", fileName, len(data), maxLogoUploadBytes)
	}
	format := utils.DetectImageFormat(fileName, data)
	if !utils.IsAllowedLogoFormat(format) {
		return fmt.Errorf("unsupported logo file type for %q", fileName)
	}

	// Attaching requires a method; embroidery is the default
	if !p.HasMethod() {
		p.SelectedMethod = models.MethodEmbroidery
	}

	p.Logo = &models.LogoAsset{
		FileName:      fileName,
		Format:        format,
		OriginalImage: data,
	}
	p.CustomizationText = ""

	log.Printf("✅ Session: Logo %s attached to %s (%s, %d bytes)", fileName, positionID, p.Logo.Format, len(data))

	if p.Logo.IsJPEG() && p.SelectedMethod == models.MethodEmbroidery {
		s.scheduleAutoRemove(positionID, p.Logo)
	}
	return nil
}

// AttachLogo is the synchronous convenience path: begin and complete an
// upload in one step
func (s *CustomizationSession) AttachLogo(positionID, fileName string, data []byte) error {
	token, err := s.BeginUpload(positionID)
	if err != nil {
		return err
	}
	return s.CompleteUpload(token, fileName, data)
}

// scheduleAutoRemove triggers background removal for a JPEG upload on an
// embroidery position. Callers hold the session lock. The asset pointer is
// re-checked when the debounce fires so a reset or replacement upload in
// between drops the work.
func (s *CustomizationSession) scheduleAutoRemove(positionID string, asset *models.LogoAsset) {
	if s.autoRemoveDelay == 0 {
		s.removeBackgroundLocked(positionID, asset)
		return
	}

	time.AfterFunc(s.autoRemoveDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		p, err := s.position(positionID)
		if err != nil || p.Logo != asset {
			log.Printf("⚠️  Session: Skipping auto background removal for %s, position changed", positionID)
			return
		}
		s.removeBackgroundLocked(positionID, asset)
	})
}

func (s *CustomizationSession) removeBackgroundLocked(positionID string, asset *models.LogoAsset) {
	if err := s.processor.RemoveBackground(asset); err != nil {
		// Decode failures keep the original image; the flow continues
		log.Printf("❌ Session: Background removal failed for %s: %v", positionID, err)
	}
}

// AttachText attaches customization text to a position. Like logos, text
// requires a method and defaults to embroidery.
func (s *CustomizationSession) AttachText(positionID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.position(positionID)
	if err != nil {
		return err
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("customization text is required")
	}

	if !p.HasMethod() {
		p.SelectedMethod = models.MethodEmbroidery
	}

	p.CustomizationText = trimmed
	p.Logo = nil

	log.Printf("✅ Session: Text %q attached to %s", trimmed, positionID)
	return nil
}

// RemoveBackground runs background removal for a position's logo on demand
// (the manual trigger for non-JPEG uploads and print positions)
func (s *CustomizationSession) RemoveBackground(positionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.position(positionID)
	if err != nil {
		return err
	}
	if p.Logo == nil {
		return fmt.Errorf("position %s has no logo attached", positionID)
	}
	return s.processor.RemoveBackground(p.Logo)
}

// RestoreBackground undoes background removal, returning the original
// upload bytes
func (s *CustomizationSession) RestoreBackground(positionID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.position(positionID)
	if err != nil {
		return nil, err
	}
	if p.Logo == nil {
		return nil, fmt.Errorf("position %s has no logo attached", positionID)
	}
	return s.processor.RestoreOriginalBackground(p.Logo)
}

// Badges derives the UI badge state for both method badges of a position.
// One atomic read per user action: state mutation and its UI reflection
// never interleave.
func (s *CustomizationSession) Badges(positionID string) (map[models.Method]models.BadgeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.position(positionID)
	if err != nil {
		return nil, err
	}

	badges := map[models.Method]models.BadgeState{
		models.MethodEmbroidery: models.BadgeDefault,
		models.MethodPrint:      models.BadgeDefault,
	}

	if !p.HasMethod() {
		return badges, nil
	}

	for method := range badges {
		switch {
		case method == p.SelectedMethod:
			badges[method] = models.BadgeActive
		case p.IsCustomized():
			badges[method] = models.BadgeLogoAdded
		default:
			// Inactive badge becomes the "Add Logo" affordance carrying
			// the active method
			badges[method] = models.BadgeAddLogo
		}
	}

	return badges, nil
}

// Customizations returns the persistable snapshot of every customized
// position, priced per unit from the store config
func (s *CustomizationSession) Customizations() []models.PositionCustomization {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.PositionCustomization
	for _, id := range s.order {
		p := s.positions[id]
		if !p.IsCustomized() {
			continue
		}

		c := models.PositionCustomization{
			Position: p.ID,
			Method:   p.SelectedMethod,
		}
		if price, ok := s.store.MethodPrice(p.SelectedMethod); ok {
			c.Price = utils.FormatPence(price)
		}
		if p.Logo != nil {
			c.Type = "logo"
			c.UploadedLogo = true
			c.LogoName = p.Logo.FileName
		} else {
			c.Type = "text"
			c.Text = p.CustomizationText
		}
		out = append(out, c)
	}
	return out
}

// LogoFiles returns the current image bytes of every attached logo, keyed
// by position slug. These become the multipart file parts of a quote
// submission.
func (s *CustomizationSession) LogoFiles() map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := make(map[string][]byte)
	for _, id := range s.order {
		p := s.positions[id]
		if p.Logo != nil && len(p.Logo.CurrentImage()) > 0 {
			files[p.ID] = p.Logo.CurrentImage()
		}
	}
	return files
}

// HasEmbroidery reports whether any customized position uses embroidery
// (the trigger for the one-time digitizing fee)
func (s *CustomizationSession) HasEmbroidery() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.positions {
		if p.IsCustomized() && p.SelectedMethod == models.MethodEmbroidery {
			return true
		}
	}
	return false
}
