package config

import "sort"

// Presets are named starting configurations for the CLI and the live view.
var presets = map[string]*Config{
	"gas": func() *Config {
		c := DefaultConfig()
		c.Particles = 80
		c.Mix = ChargeMix{Positive: 0.45, Negative: 0.45, Neutral: 0.10}
		return c
	}(),
	"plasma": func() *Config {
		c := DefaultConfig()
		c.Particles = 120
		c.ForceScale = 8000
		c.Damping = 0.99
		c.Mix = ChargeMix{Positive: 0.5, Negative: 0.5}
		return c
	}(),
	"crystal": func() *Config {
		c := DefaultConfig()
		c.Particles = 50
		c.ForceScale = 3000
		c.Damping = 0.95 // heavy dissipation so the lattice settles
		c.Restitution = 0.6
		c.Mix = ChargeMix{Positive: 0.5, Negative: 0.5}
		return c
	}(),
	"atom": func() *Config {
		c := DefaultConfig()
		c.Particles = 12 // electrons; the nucleus is built separately
		c.Mix = ChargeMix{Negative: 1.0}
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil if unknown.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
