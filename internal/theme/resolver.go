package theme

// Resolver resolves application configurations and places an optional
// operator override layer on top. The zero value applies no overrides.
type Resolver struct {
	overrides *Config
}

// NewResolver returns a Resolver layering overrides on every result.
// A nil overrides pointer disables the extra layer.
func NewResolver(overrides *Config) Resolver {
	if overrides == nil {
		return Resolver{}
	}
	c := overrides.Clone()
	return Resolver{overrides: &c}
}

// Resolve returns the configuration for app in mode raw. The boolean is false
// when raw was not a recognized mode and was normalized to light.
func (r Resolver) Resolve(app App, raw string) (Config, bool) {
	_, ok := NormalizeMode(raw)
	cfg := ForApp(app, raw)
	if r.overrides != nil {
		cfg = Layer(cfg, *r.overrides)
	}
	return cfg, ok
}

// HasOverrides reports whether an operator layer is configured.
func (r Resolver) HasOverrides() bool {
	return r.overrides != nil
}
