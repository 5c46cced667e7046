package theme

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var paletteRefs = [...]PaletteRef{RefPurple, RefBlue, RefGreen, RefRed, RefOrange, RefGrey}

// Valid reports whether r is one of the known palette references.
func (r PaletteRef) Valid() bool {
	for _, known := range paletteRefs {
		if r == known {
			return true
		}
	}
	return false
}

// LoadOverrides reads an override layer from a YAML file.
//
// Example file:
//
//	textInput:
//	  defaultVariant: outlined
//	outlinedInput:
//	  borderRadius: 0
func LoadOverrides(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read overrides %s: %w", path, err)
	}
	return ParseOverrides(data)
}

// ParseOverrides decodes and validates an override layer. Unknown keys are
// rejected. A palette, when present, must name both mode and primary; its
// mode is normalized like any other mode input.
func ParseOverrides(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidOverride, err)
	}

	if cfg.Palette != (Palette{}) {
		if cfg.Palette.Mode == "" || cfg.Palette.Primary == "" {
			return Config{}, fmt.Errorf("%w: palette needs both mode and primary", ErrInvalidOverride)
		}
		cfg.Palette.Mode, _ = NormalizeMode(string(cfg.Palette.Mode))
		if !cfg.Palette.Primary.Valid() {
			return Config{}, fmt.Errorf("%w: unknown palette primary %q", ErrInvalidOverride, cfg.Palette.Primary)
		}
	}
	if cfg.TextInput != nil && !cfg.TextInput.DefaultVariant.Valid() {
		return Config{}, fmt.Errorf("%w: unknown text input variant %q", ErrInvalidOverride, cfg.TextInput.DefaultVariant)
	}
	if cfg.OutlinedInput != nil {
		if err := nonNegative("outlinedInput.borderRadius", cfg.OutlinedInput.BorderRadius); err != nil {
			return Config{}, err
		}
	}
	if cfg.FormControl != nil {
		if err := nonNegative("formControl.marginTop", cfg.FormControl.MarginTop); err != nil {
			return Config{}, err
		}
		if err := nonNegative("formControl.marginBottom", cfg.FormControl.MarginBottom); err != nil {
			return Config{}, err
		}
	}
	if cfg.InputBase != nil && cfg.InputBase.FontSize != nil && *cfg.InputBase.FontSize <= 0 {
		return Config{}, fmt.Errorf("%w: inputBase.fontSize must be greater than 0", ErrInvalidOverride)
	}
	return cfg, nil
}

func nonNegative(key string, v *int) error {
	if v != nil && *v < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidOverride, key)
	}
	return nil
}
