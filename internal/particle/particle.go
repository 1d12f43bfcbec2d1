package particle

import "math"

// Vec2 is a 2D vector in simulation units.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) LenSq() float64       { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64         { return math.Sqrt(v.LenSq()) }

// Mode is the closed set of motion behaviors a particle can have.
type Mode int

const (
	// Free particles are driven by accumulated forces and integration.
	Free Mode = iota
	// Orbital particles follow a phase angle around an anchor; forces and
	// boundaries do not apply.
	Orbital
	// Fixed particles ignore forces entirely (e.g. nucleons held in formation).
	Fixed
)

func (m Mode) String() string {
	switch m {
	case Free:
		return "free"
	case Orbital:
		return "orbital"
	case Fixed:
		return "fixed"
	}
	return "unknown"
}

// Particle is a point mass/charge. Pos and Vel are mutated only by the
// integrator and the boundary policy. Force is per-tick scratch: zeroed at the
// start of each force pass, summed across pairwise contributions, consumed by
// the integrator.
type Particle struct {
	Pos    Vec2
	Vel    Vec2
	Force  Vec2
	Charge float64
	Mass   float64
	Radius float64
	Mode   Mode

	// Orbital state. Anchor is a non-owning reference; the anchor must
	// outlive this particle, enforced by construction order.
	Anchor       *Particle
	OrbitRadius  float64
	AngularSpeed float64
	Angle        float64
}

// NewFree returns a force-driven particle.
func NewFree(pos Vec2, charge, mass, radius float64) *Particle {
	return &Particle{Pos: pos, Charge: charge, Mass: mass, Radius: radius, Mode: Free}
}

// NewFixed returns a particle pinned at pos.
func NewFixed(pos Vec2, charge, mass, radius float64) *Particle {
	return &Particle{Pos: pos, Charge: charge, Mass: mass, Radius: radius, Mode: Fixed}
}

// NewOrbital returns a particle whose position is a deterministic function of
// a phase angle around anchor. Its initial position is computed from phase.
func NewOrbital(anchor *Particle, orbitRadius, angularSpeed, phase, charge, mass, radius float64) *Particle {
	p := &Particle{
		Charge:       charge,
		Mass:         mass,
		Radius:       radius,
		Mode:         Orbital,
		Anchor:       anchor,
		OrbitRadius:  orbitRadius,
		AngularSpeed: angularSpeed,
		Angle:        phase,
	}
	p.Pos = anchor.Pos.Add(Vec2{orbitRadius * math.Cos(phase), orbitRadius * math.Sin(phase)})
	return p
}

// Speed is the particle's scalar speed as used by statistics. Orbital
// particles report the tangential speed r·|ω| since their Vel is never
// integrated; fixed particles report zero.
func (p *Particle) Speed() float64 {
	switch p.Mode {
	case Free:
		return p.Vel.Len()
	case Orbital:
		return p.OrbitRadius * math.Abs(p.AngularSpeed)
	}
	return 0
}

// KineticEnergy is ½·m·v² with the same speed policy as Speed.
func (p *Particle) KineticEnergy() float64 {
	s := p.Speed()
	return 0.5 * p.Mass * s * s
}

// State is a read-only snapshot handed to renderers and other external
// readers between ticks.
type State struct {
	Pos    Vec2
	Vel    Vec2
	Charge float64
	Radius float64
	Mode   Mode
}

func (p *Particle) State() State {
	return State{Pos: p.Pos, Vel: p.Vel, Charge: p.Charge, Radius: p.Radius, Mode: p.Mode}
}
