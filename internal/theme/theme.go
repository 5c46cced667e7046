package theme

import (
	"errors"
	"fmt"
	"strings"
)

// Mode identifies the light/dark display preference.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// PaletteRef is a named color identifier. It is a constant reference, never
// computed at runtime; the renderer maps it to concrete colors.
type PaletteRef string

const (
	RefPurple PaletteRef = "purple"
	RefBlue   PaletteRef = "blue"
	RefGreen  PaletteRef = "green"
	RefRed    PaletteRef = "red"
	RefOrange PaletteRef = "orange"
	RefGrey   PaletteRef = "grey"
)

// PrimaryRef is the primary color used by every resolved configuration.
const PrimaryRef = RefPurple

// Variant is the default visual variant of a text input.
type Variant string

const (
	VariantFilled   Variant = "filled"
	VariantOutlined Variant = "outlined"
	VariantStandard Variant = "standard"
)

// App identifies one of the two form applications.
type App string

const (
	AppAdmin  App = "admin"
	AppClient App = "client"
)

var (
	// ErrUnknownApp is returned when an application name is not known.
	ErrUnknownApp = errors.New("unknown app")
	// ErrInvalidOverride is returned when an override layer holds values
	// outside the closed domains of this package.
	ErrInvalidOverride = errors.New("invalid theme override")
)

var (
	modes    = [...]Mode{ModeLight, ModeDark}
	variants = [...]Variant{VariantFilled, VariantOutlined, VariantStandard}
	apps     = [...]App{AppAdmin, AppClient}
)

// Valid reports whether v is one of the known variants.
func (v Variant) Valid() bool {
	for _, known := range variants {
		if v == known {
			return true
		}
	}
	return false
}

// Apps lists the known applications in routing order.
func Apps() []App {
	out := make([]App, len(apps))
	copy(out, apps[:])
	return out
}

// ParseApp maps a name to a known App.
func ParseApp(name string) (App, error) {
	norm := App(strings.ToLower(strings.TrimSpace(name)))
	for _, app := range apps {
		if norm == app {
			return app, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownApp, name)
}

// NormalizeMode maps raw input onto the closed Mode domain.
//
// Only the exact strings "light" and "dark" are recognized; anything else,
// including the empty string and differently cased input, becomes ModeLight.
// The boolean is false when a substitution happened so callers can surface
// a warning; normalization itself never fails.
func NormalizeMode(raw string) (Mode, bool) {
	for _, m := range modes {
		if raw == string(m) {
			return m, true
		}
	}
	return ModeLight, false
}

// ResolveBase builds the base configuration for a mode.
//
// Example:
//
//	theme.ResolveBase("dark")
//	// Config{Palette: {Mode: dark, Primary: purple}, TextInput: {DefaultVariant: filled}}
func ResolveBase(raw string) Config {
	mode, _ := NormalizeMode(raw)
	return Config{
		Palette:   Palette{Mode: mode, Primary: PrimaryRef},
		TextInput: &TextInput{DefaultVariant: VariantFilled},
	}
}

// ExtendedOverrides is the override layer the client app places on top of
// the base configuration.
func ExtendedOverrides() Config {
	return Config{
		TextInput:     &TextInput{DefaultVariant: VariantOutlined},
		OutlinedInput: &OutlinedInput{BorderRadius: intPtr(0)},
		FormControl:   &FormControl{MarginTop: intPtr(1), MarginBottom: intPtr(1)},
		InputBase:     &InputBase{FontSize: intPtr(18)},
	}
}

// DeriveExtended resolves the base configuration for a mode and layers
// ExtendedOverrides on top. The palette is inherited from the base.
func DeriveExtended(raw string) Config {
	return Layer(ResolveBase(raw), ExtendedOverrides())
}

// ForApp resolves the configuration an application renders with.
// Unknown apps get the base configuration.
func ForApp(app App, raw string) Config {
	if app == AppClient {
		return DeriveExtended(raw)
	}
	return ResolveBase(raw)
}

func intPtr(v int) *int {
	return &v
}
