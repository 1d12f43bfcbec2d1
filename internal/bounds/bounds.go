// Package bounds reflects particles elastically off a rectangular domain.
package bounds

import "github.com/rmalhotra/chargelab/internal/particle"

const DefaultRestitution = 1.0

// Policy clamps out-of-bounds particles to the wall and inverts the
// perpendicular velocity component. Restitution < 1 scales both velocity
// components on a bounce, modeling energy loss.
type Policy struct {
	Restitution float64
}

func New(restitution float64) *Policy {
	return &Policy{Restitution: restitution}
}

// Enforce corrects one particle against the [0,width] x [0,height] domain.
// The x and y walls are handled independently so corners resolve in one call,
// and an in-bounds particle passes through unchanged, making repeated calls
// idempotent. Orbital and fixed particles are exempt: their position is
// anchor-derived.
func (b *Policy) Enforce(p *particle.Particle, width, height float64) {
	if p.Mode != particle.Free {
		return
	}

	if p.Pos.X-p.Radius < 0 {
		p.Pos.X = p.Radius
		if p.Vel.X < 0 {
			p.Vel.X = -p.Vel.X * b.Restitution
			p.Vel.Y *= b.Restitution
		}
	} else if p.Pos.X+p.Radius > width {
		p.Pos.X = width - p.Radius
		if p.Vel.X > 0 {
			p.Vel.X = -p.Vel.X * b.Restitution
			p.Vel.Y *= b.Restitution
		}
	}

	if p.Pos.Y-p.Radius < 0 {
		p.Pos.Y = p.Radius
		if p.Vel.Y < 0 {
			p.Vel.Y = -p.Vel.Y * b.Restitution
			p.Vel.X *= b.Restitution
		}
	} else if p.Pos.Y+p.Radius > height {
		p.Pos.Y = height - p.Radius
		if p.Vel.Y > 0 {
			p.Vel.Y = -p.Vel.Y * b.Restitution
			p.Vel.X *= b.Restitution
		}
	}
}

// EnforceAll applies Enforce to every particle.
func (b *Policy) EnforceAll(ps []*particle.Particle, width, height float64) {
	for _, p := range ps {
		b.Enforce(p, width, height)
	}
}
