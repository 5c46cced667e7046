package theme

import "reflect"

// Palette holds the color settings of a configuration.
type Palette struct {
	Mode    Mode       `json:"mode" yaml:"mode"`
	Primary PaletteRef `json:"primary" yaml:"primary"`
}

// TextInput holds defaults for every text input.
type TextInput struct {
	DefaultVariant Variant `json:"defaultVariant" yaml:"defaultVariant"`
}

// OutlinedInput holds defaults for the container of outlined inputs.
type OutlinedInput struct {
	BorderRadius *int `json:"borderRadius,omitempty" yaml:"borderRadius,omitempty"`
}

// FormControl holds spacing for the container wrapping label and input.
// Margins are in spacing units (one terminal row).
type FormControl struct {
	MarginTop    *int `json:"marginTop,omitempty" yaml:"marginTop,omitempty"`
	MarginBottom *int `json:"marginBottom,omitempty" yaml:"marginBottom,omitempty"`
}

// InputBase holds typography of the input text itself. FontSize is in pixels.
type InputBase struct {
	FontSize *int `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
}

// Config is a Style Configuration: a palette plus one record per component
// category. A nil category means the category is not configured.
type Config struct {
	Palette       Palette        `json:"palette" yaml:"palette"`
	TextInput     *TextInput     `json:"textInput,omitempty" yaml:"textInput,omitempty"`
	OutlinedInput *OutlinedInput `json:"outlinedInput,omitempty" yaml:"outlinedInput,omitempty"`
	FormControl   *FormControl   `json:"formControl,omitempty" yaml:"formControl,omitempty"`
	InputBase     *InputBase     `json:"inputBase,omitempty" yaml:"inputBase,omitempty"`
}

// Layer returns a new Config with override placed on top of base.
//
// Precedence is per category and shallow: a non-nil override record replaces
// the base record for that category as a whole, it is not merged field by
// field. A nil override record inherits the base record. The palette is
// inherited when the override palette is the zero value and replaced whole
// otherwise. Neither argument is modified and the result shares no memory
// with them.
func Layer(base, override Config) Config {
	out := base.Clone()
	if override.Palette != (Palette{}) {
		out.Palette = override.Palette
	}
	if override.TextInput != nil {
		v := *override.TextInput
		out.TextInput = &v
	}
	if override.OutlinedInput != nil {
		out.OutlinedInput = override.OutlinedInput.clone()
	}
	if override.FormControl != nil {
		out.FormControl = override.FormControl.clone()
	}
	if override.InputBase != nil {
		out.InputBase = override.InputBase.clone()
	}
	return out
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := Config{Palette: c.Palette}
	if c.TextInput != nil {
		v := *c.TextInput
		out.TextInput = &v
	}
	out.OutlinedInput = c.OutlinedInput.clone()
	out.FormControl = c.FormControl.clone()
	out.InputBase = c.InputBase.clone()
	return out
}

// Equal reports deep value equality.
func (c Config) Equal(other Config) bool {
	return reflect.DeepEqual(c, other)
}

// Variant returns the text input default variant, falling back to filled
// when the category is not configured.
func (c Config) Variant() Variant {
	if c.TextInput == nil || c.TextInput.DefaultVariant == "" {
		return VariantFilled
	}
	return c.TextInput.DefaultVariant
}

func (o *OutlinedInput) clone() *OutlinedInput {
	if o == nil {
		return nil
	}
	return &OutlinedInput{BorderRadius: cloneInt(o.BorderRadius)}
}

func (f *FormControl) clone() *FormControl {
	if f == nil {
		return nil
	}
	return &FormControl{MarginTop: cloneInt(f.MarginTop), MarginBottom: cloneInt(f.MarginBottom)}
}

func (b *InputBase) clone() *InputBase {
	if b == nil {
		return nil
	}
	return &InputBase{FontSize: cloneInt(b.FontSize)}
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
