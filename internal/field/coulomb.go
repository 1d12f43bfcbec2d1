// Package field computes Coulomb-style pairwise forces between point charges.
// The force constant is tuned for numeric stability, not physical accuracy.
package field

import (
	"math"

	"github.com/rmalhotra/chargelab/internal/particle"
)

const (
	DefaultScale       = 5000.0
	DefaultMinDistance = 20.0
	DefaultMaxForce    = 1000.0
)

// Model holds the force parameters. Scale is the k in F = k·q1·q2/r².
// MinDistance clamps r to avoid the singularity; MaxForce bounds the
// per-tick force magnitude.
type Model struct {
	Scale       float64
	MinDistance float64
	MaxForce    float64
}

func New(scale float64) *Model {
	return &Model{
		Scale:       scale,
		MinDistance: DefaultMinDistance,
		MaxForce:    DefaultMaxForce,
	}
}

// PairForce returns the force (fx, fy) acting on a due to b, and the clamped
// distance between them. Positive k·q1·q2 (same-sign charges) pushes a away
// from b. The magnitude uses the clamped distance; the direction is the true
// unit vector, so two particles closer than MinDistance feel exactly the
// force they would at MinDistance.
func (m *Model) PairForce(a, b *particle.Particle) (fx, fy, r float64) {
	dx := a.Pos.X - b.Pos.X
	dy := a.Pos.Y - b.Pos.Y
	dist := math.Sqrt(dx*dx + dy*dy)

	r = dist
	if r < m.MinDistance {
		r = m.MinDistance
	}

	if dist == 0 {
		// Coincident particles have no defined direction.
		return 0, 0, r
	}

	f := m.Scale * a.Charge * b.Charge / (r * r)
	if f > m.MaxForce {
		f = m.MaxForce
	} else if f < -m.MaxForce {
		f = -m.MaxForce
	}

	return f * dx / dist, f * dy / dist, r
}

// PairPotential returns k·q1·q2/r for the pair, with the same min-distance
// clamp as PairForce but without the MaxForce clamp. Energy is reported
// exactly, not capped, so total energy stays meaningful as a diagnostic even
// though the force clamp makes it non-conserved near the clamp region.
func (m *Model) PairPotential(a, b *particle.Particle) float64 {
	r := a.Pos.Sub(b.Pos).Len()
	if r < m.MinDistance {
		r = m.MinDistance
	}
	return m.Scale * a.Charge * b.Charge / r
}

// ApplyAll zeroes every particle's force accumulator, then visits every
// unordered pair exactly once and applies equal and opposite forces. O(n²),
// a known scaling limit; no spatial partitioning.
func (m *Model) ApplyAll(ps []*particle.Particle) {
	for _, p := range ps {
		p.Force = particle.Vec2{}
	}

	for i := 0; i < len(ps); i++ {
		if ps[i].Charge == 0 {
			continue
		}
		for j := i + 1; j < len(ps); j++ {
			if ps[j].Charge == 0 {
				continue
			}
			fx, fy, _ := m.PairForce(ps[i], ps[j])
			ps[i].Force.X += fx
			ps[i].Force.Y += fy
			ps[j].Force.X -= fx
			ps[j].Force.Y -= fy
		}
	}
}

// At samples the electric field at (x, y): the force per unit positive test
// charge, summed over all particles. Renderer collaborators use this for
// field lines and arrows; the engine itself never calls it.
func (m *Model) At(ps []*particle.Particle, x, y float64) (ex, ey float64) {
	for _, p := range ps {
		if p.Charge == 0 {
			continue
		}
		dx := x - p.Pos.X
		dy := y - p.Pos.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist == 0 {
			continue
		}
		r := dist
		if r < m.MinDistance {
			r = m.MinDistance
		}
		e := m.Scale * p.Charge / (r * r)
		ex += e * dx / dist
		ey += e * dy / dist
	}
	return ex, ey
}
