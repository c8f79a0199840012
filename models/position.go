package models

// Method represents a decoration technique applied to a position.
// Methods are mutually exclusive per position.
type Method string

const (
	MethodNone       Method = ""
	MethodEmbroidery Method = "embroidery"
	MethodPrint      Method = "print"
)

// IsValid reports whether the method is one of the known decoration techniques
func (m Method) IsValid() bool {
	return m == MethodEmbroidery || m == MethodPrint
}

// BadgeState represents the UI-facing state of a method badge on a position
type BadgeState string

const (
	// BadgeDefault: no method chosen, badge shows the plain method name
	BadgeDefault BadgeState = "default"
	// BadgeActive: this badge's method is the selected one
	BadgeActive BadgeState = "active"
	// BadgeAddLogo: the other method is selected; badge becomes an "Add Logo"
	// affordance carrying the active method
	BadgeAddLogo BadgeState = "add_logo"
	// BadgeLogoAdded: a logo or text is attached to the position
	BadgeLogoAdded BadgeState = "logo_added"
)

// Position represents a named print/embroidery location on a garment
// (e.g. "left-breast", "large-back") and its current customization state.
type Position struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	SelectedMethod    Method     `json:"selectedMethod"`
	Logo              *LogoAsset `json:"-"`
	CustomizationText string     `json:"customizationText,omitempty"`
}

// IsCustomized reports whether the position carries a logo or text.
// Customized positions cannot be silently deselected; they require an
// explicit delete action.
func (p *Position) IsCustomized() bool {
	return p.Logo != nil || p.CustomizationText != ""
}

// HasMethod reports whether a decoration method has been chosen
func (p *Position) HasMethod() bool {
	return p.SelectedMethod.IsValid()
}
