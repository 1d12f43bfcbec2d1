// Package motion advances particle state over a timestep.
package motion

import (
	"math"

	"github.com/rmalhotra/chargelab/internal/particle"
)

const DefaultDamping = 0.995

// Integrator is a semi-implicit Euler stepper with per-tick velocity damping.
// Damping is a numeric/visual dissipation knob, not a drag law.
type Integrator struct {
	Damping float64
}

func New(damping float64) *Integrator {
	return &Integrator{Damping: damping}
}

// Step advances one particle by dt seconds. dt must already be clamped by the
// caller; dt <= 0 is a no-op. Free particles integrate their accumulated
// force and clear it; orbital particles advance their phase angle; fixed
// particles do not move.
func (g *Integrator) Step(p *particle.Particle, dt float64) {
	if dt <= 0 {
		return
	}

	switch p.Mode {
	case particle.Free:
		p.Vel.X += p.Force.X / p.Mass * dt
		p.Vel.Y += p.Force.Y / p.Mass * dt
		p.Vel.X *= g.Damping
		p.Vel.Y *= g.Damping
		p.Pos.X += p.Vel.X * dt
		p.Pos.Y += p.Vel.Y * dt
		p.Force = particle.Vec2{}

	case particle.Orbital:
		p.Angle += p.AngularSpeed * dt
		p.Pos.X = p.Anchor.Pos.X + p.OrbitRadius*math.Cos(p.Angle)
		p.Pos.Y = p.Anchor.Pos.Y + p.OrbitRadius*math.Sin(p.Angle)

	case particle.Fixed:
	}
}

// StepAll advances every particle. Fixed anchors are stepped before their
// dependents would matter only if anchors moved; they do not, so order is
// irrelevant here.
func (g *Integrator) StepAll(ps []*particle.Particle, dt float64) {
	for _, p := range ps {
		g.Step(p, dt)
	}
}
