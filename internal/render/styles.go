// Package render turns a theme.Config into lipgloss styles for the form
// applications.
package render

import (
	"github.com/charmbracelet/lipgloss"

	"mosaic-theme/internal/theme"
)

// emphasisFontSize is the font size, in pixels, at or above which input text
// is rendered bold. Terminals have no font sizes.
const emphasisFontSize = 16

// Styles provides strongly-typed styles for the form surfaces.
type Styles struct {
	Title        lipgloss.Style
	Badge        lipgloss.Style
	Label        lipgloss.Style
	Input        lipgloss.Style
	Placeholder  lipgloss.Style
	Field        lipgloss.Style
	FieldFocused lipgloss.Style
	Container    lipgloss.Style
	Link         lipgloss.Style
	Help         lipgloss.Style

	Variant theme.Variant
	Shades  Shades
}

type surfaceColors struct {
	text   string
	muted  string
	label  string
	filled string
}

func colorsFor(mode theme.Mode, shades Shades) surfaceColors {
	if mode == theme.ModeDark {
		return surfaceColors{text: "#F2F2F2", muted: "#8F8F8F", label: shades.Light, filled: surface(shades.Dark, mode)}
	}
	return surfaceColors{text: "#1A1A1A", muted: "#6B6B6B", label: shades.Main, filled: surface(shades.Main, mode)}
}

// New builds the styles for cfg using renderer r. A nil renderer uses the
// lipgloss default renderer.
func New(cfg theme.Config, r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	shades := ShadesFor(cfg.Palette.Primary)
	mode, _ := theme.NormalizeMode(string(cfg.Palette.Mode))
	colors := colorsFor(mode, shades)
	variant := cfg.Variant()

	s := Styles{
		Title:       r.NewStyle().Bold(true).Foreground(lipgloss.Color(shades.Main)),
		Badge:       r.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color(shades.Contrast)).Background(lipgloss.Color(shades.Main)),
		Label:       r.NewStyle().Foreground(lipgloss.Color(colors.label)),
		Input:       r.NewStyle().Foreground(lipgloss.Color(colors.text)),
		Placeholder: r.NewStyle().Foreground(lipgloss.Color(colors.muted)),
		Container:   r.NewStyle(),
		Link:        r.NewStyle().Underline(true).Foreground(lipgloss.Color(shades.Main)),
		Help:        r.NewStyle().Foreground(lipgloss.Color(colors.muted)),
		Variant:     variant,
		Shades:      shades,
	}

	if cfg.InputBase != nil && cfg.InputBase.FontSize != nil && *cfg.InputBase.FontSize >= emphasisFontSize {
		s.Input = s.Input.Bold(true)
	}

	if fc := cfg.FormControl; fc != nil {
		if fc.MarginTop != nil {
			s.Container = s.Container.MarginTop(*fc.MarginTop)
		}
		if fc.MarginBottom != nil {
			s.Container = s.Container.MarginBottom(*fc.MarginBottom)
		}
	}

	switch variant {
	case theme.VariantOutlined:
		border := lipgloss.RoundedBorder()
		if cfg.OutlinedInput != nil && cfg.OutlinedInput.BorderRadius != nil && *cfg.OutlinedInput.BorderRadius == 0 {
			border = lipgloss.NormalBorder()
		}
		s.Field = r.NewStyle().Border(border).BorderForeground(lipgloss.Color(colors.muted)).Padding(0, 1)
		s.FieldFocused = s.Field.BorderForeground(lipgloss.Color(shades.Main))
	case theme.VariantStandard:
		s.Field = r.NewStyle().Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(lipgloss.Color(colors.muted))
		s.FieldFocused = s.Field.BorderForeground(lipgloss.Color(shades.Main))
	default:
		bg := lipgloss.Color(colors.filled)
		s.Input = s.Input.Background(bg)
		s.Placeholder = s.Placeholder.Background(bg)
		s.Field = r.NewStyle().Background(bg).Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color(colors.muted))
		s.FieldFocused = s.Field.BorderForeground(lipgloss.Color(shades.Main))
	}

	return s
}
