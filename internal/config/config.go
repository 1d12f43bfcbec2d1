package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultParticles   = 60
	DefaultWidth       = 800.0
	DefaultHeight      = 600.0
	DefaultForceScale  = 5000.0
	DefaultMinDistance = 20.0
	DefaultMaxForce    = 1000.0
	DefaultDamping     = 0.995
	DefaultRestitution = 1.0
	DefaultMaxDt       = 0.1
	DefaultTimeScale   = 1.0

	mixTolerance = 1e-6
)

var (
	ErrParticleCount = errors.New("config: particle count must be positive")
	ErrChargeMix     = errors.New("config: charge mix must be non-negative and sum to 1.0")
)

// ChargeMix is the probability of each charge sign when assigning particles.
// The three probabilities must sum to 1.0.
type ChargeMix struct {
	Positive float64 `yaml:"positive"`
	Negative float64 `yaml:"negative"`
	Neutral  float64 `yaml:"neutral"`
}

func (m ChargeMix) Validate() error {
	if m.Positive < 0 || m.Negative < 0 || m.Neutral < 0 {
		return ErrChargeMix
	}
	if math.Abs(m.Positive+m.Negative+m.Neutral-1.0) > mixTolerance {
		return fmt.Errorf("%w: got sum %f", ErrChargeMix, m.Positive+m.Negative+m.Neutral)
	}
	return nil
}

type Config struct {
	Particles   int       `yaml:"particles"`
	Width       float64   `yaml:"width"`
	Height      float64   `yaml:"height"`
	ForceScale  float64   `yaml:"force_scale"`
	MinDistance float64   `yaml:"min_distance"`
	MaxForce    float64   `yaml:"max_force"`
	Damping     float64   `yaml:"damping"`
	Restitution float64   `yaml:"restitution"`
	MaxDt       float64   `yaml:"max_dt"`
	TimeScale   float64   `yaml:"time_scale"`
	Seed        int64     `yaml:"seed"`
	Mix         ChargeMix `yaml:"charge_mix"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles:   DefaultParticles,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		ForceScale:  DefaultForceScale,
		MinDistance: DefaultMinDistance,
		MaxForce:    DefaultMaxForce,
		Damping:     DefaultDamping,
		Restitution: DefaultRestitution,
		MaxDt:       DefaultMaxDt,
		TimeScale:   DefaultTimeScale,
		Mix:         ChargeMix{Positive: 0.45, Negative: 0.45, Neutral: 0.10},
	}
}

func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("%w: got %d", ErrParticleCount, c.Particles)
	}
	if err := c.Mix.Validate(); err != nil {
		return err
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: domain must be positive, got %fx%f", c.Width, c.Height)
	}
	if c.MinDistance <= 0 {
		return fmt.Errorf("config: min distance must be positive, got %f", c.MinDistance)
	}
	if c.MaxDt <= 0 {
		return fmt.Errorf("config: max dt must be positive, got %f", c.MaxDt)
	}
	if c.Damping <= 0 || c.Damping > 1 {
		return fmt.Errorf("config: damping must be in (0, 1], got %f", c.Damping)
	}
	if c.Restitution < 0 || c.Restitution > 1 {
		return fmt.Errorf("config: restitution must be in [0, 1], got %f", c.Restitution)
	}
	return nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
