// Package stats aggregates per-tick simulation statistics.
package stats

import (
	"math"

	"github.com/rmalhotra/chargelab/internal/field"
	"github.com/rmalhotra/chargelab/internal/particle"
)

const (
	DefaultWindow = 60
	fpsEpsilon    = 0.001
)

// Summary is the aggregate view handed to displays. Every field except FPS is
// a pure function of current particle state.
type Summary struct {
	ParticleCount   int     `json:"particle_count"`
	KineticEnergy   float64 `json:"kinetic_energy"`
	PotentialEnergy float64 `json:"potential_energy"`
	TotalEnergy     float64 `json:"total_energy"`
	AverageSpeed    float64 `json:"average_speed"`
	FPS             int     `json:"fps"`
}

// Collector recomputes the summary from scratch each tick and keeps a rolling
// window of wall-clock dt samples for the FPS figure.
type Collector struct {
	model   *field.Model
	window  int
	samples []float64
	summary Summary
}

func NewCollector(m *field.Model) *Collector {
	return &Collector{
		model:   m,
		window:  DefaultWindow,
		samples: make([]float64, 0, DefaultWindow),
	}
}

// Update recomputes all aggregates. dt is the wall-clock time since the last
// tick and only feeds the FPS window; pass 0 to skip the sample.
func (c *Collector) Update(ps []*particle.Particle, dt float64) {
	s := Summary{ParticleCount: len(ps)}

	speedSum := 0.0
	for _, p := range ps {
		s.KineticEnergy += p.KineticEnergy()
		speedSum += p.Speed()
	}
	s.AverageSpeed = speedSum / math.Max(float64(len(ps)), 1)

	for i := 0; i < len(ps); i++ {
		if ps[i].Charge == 0 {
			continue
		}
		for j := i + 1; j < len(ps); j++ {
			if ps[j].Charge == 0 {
				continue
			}
			s.PotentialEnergy += c.model.PairPotential(ps[i], ps[j])
		}
	}
	s.TotalEnergy = s.KineticEnergy + s.PotentialEnergy

	if dt > 0 {
		c.samples = append(c.samples, dt)
		if len(c.samples) > c.window {
			c.samples = c.samples[1:]
		}
	}
	s.FPS = c.fps()

	c.summary = s
}

func (c *Collector) fps() int {
	if len(c.samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, dt := range c.samples {
		sum += dt
	}
	mean := sum / float64(len(c.samples))
	return int(math.Round(1 / math.Max(mean, fpsEpsilon)))
}

func (c *Collector) Summary() Summary { return c.summary }

// Reset drops the FPS window and the last summary, for a fresh run.
func (c *Collector) Reset() {
	c.samples = c.samples[:0]
	c.summary = Summary{}
}
