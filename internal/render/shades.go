package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"mosaic-theme/internal/theme"
)

// Shades are the concrete colors derived from a palette reference.
type Shades struct {
	Main     string
	Light    string
	Dark     string
	Contrast string
}

var namedColors = map[theme.PaletteRef]string{
	theme.RefPurple: "#9C27B0",
	theme.RefBlue:   "#1976D2",
	theme.RefGreen:  "#2E7D32",
	theme.RefRed:    "#D32F2F",
	theme.RefOrange: "#ED6C02",
	theme.RefGrey:   "#757575",
}

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	black = colorful.Color{R: 0, G: 0, B: 0}
)

// ShadesFor resolves a palette reference to its main color and derives the
// light, dark and contrast-text shades. Unknown references resolve as the
// default primary.
func ShadesFor(ref theme.PaletteRef) Shades {
	hex, ok := namedColors[ref]
	if !ok {
		hex = namedColors[theme.PrimaryRef]
	}
	main, err := colorful.Hex(hex)
	if err != nil {
		main = black
	}

	contrast := "#FFFFFF"
	if _, _, l := main.Lab(); l > 0.6 {
		contrast = "#000000"
	}

	return Shades{
		Main:     main.Hex(),
		Light:    main.BlendLab(white, 0.3).Clamped().Hex(),
		Dark:     main.BlendLab(black, 0.3).Clamped().Hex(),
		Contrast: contrast,
	}
}

// surface returns a faint tint of c for the given mode, used behind filled
// inputs.
func surface(c string, mode theme.Mode) string {
	main, err := colorful.Hex(c)
	if err != nil {
		return ""
	}
	if mode == theme.ModeDark {
		return main.BlendLab(black, 0.75).Clamped().Hex()
	}
	return main.BlendLab(white, 0.88).Clamped().Hex()
}
