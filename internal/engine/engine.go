// Package engine owns the particle collection and sequences the per-tick
// pipeline: forces, integration, boundary correction, statistics.
package engine

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rmalhotra/chargelab/internal/bounds"
	"github.com/rmalhotra/chargelab/internal/config"
	"github.com/rmalhotra/chargelab/internal/field"
	"github.com/rmalhotra/chargelab/internal/motion"
	"github.com/rmalhotra/chargelab/internal/particle"
	"github.com/rmalhotra/chargelab/internal/stats"
)

const (
	freeMass   = 1.0
	freeRadius = 4.0

	nucleonMass   = 10.0
	nucleonRadius = 6.0
	electronMass  = 1.0
	// Electron shells start here and widen per shell.
	firstShellRadius = 60.0
	shellSpacing     = 35.0
	electronsPer     = 8
)

// Engine is single-threaded by design: all particle mutation happens inside
// Tick, and external readers snapshot state between ticks.
type Engine struct {
	cfg    *config.Config
	model  *field.Model
	step   *motion.Integrator
	walls  *bounds.Policy
	stats  *stats.Collector
	clock  *Clock
	rng    *rand.Rand
	mix    config.ChargeMix
	bodies []*particle.Particle

	timeScale float64
	// Knob changes land here and apply at the start of the next tick.
	pendingForceScale *float64
	pendingTimeScale  *float64
}

func New(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := field.New(cfg.ForceScale)
	m.MinDistance = cfg.MinDistance
	m.MaxForce = cfg.MaxForce

	return &Engine{
		cfg:       cfg,
		model:     m,
		step:      motion.New(cfg.Damping),
		walls:     bounds.New(cfg.Restitution),
		stats:     stats.NewCollector(m),
		clock:     NewClock(cfg.MaxDt),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		mix:       cfg.Mix,
		timeScale: cfg.TimeScale,
	}, nil
}

// Initialize replaces the whole particle collection with count free particles
// whose charges follow independent Bernoulli draws against mix. On any
// validation error the prior collection is left untouched.
func (e *Engine) Initialize(count int, mix config.ChargeMix) error {
	if count <= 0 {
		return fmt.Errorf("%w: got %d", config.ErrParticleCount, count)
	}
	if err := mix.Validate(); err != nil {
		return err
	}

	ps := make([]*particle.Particle, 0, count)
	for i := 0; i < count; i++ {
		pos := particle.Vec2{
			X: freeRadius + e.rng.Float64()*(e.cfg.Width-2*freeRadius),
			Y: freeRadius + e.rng.Float64()*(e.cfg.Height-2*freeRadius),
		}
		ps = append(ps, particle.NewFree(pos, e.drawCharge(mix), freeMass, freeRadius))
	}

	e.mix = mix
	e.bodies = ps
	e.stats.Reset()
	return nil
}

func (e *Engine) drawCharge(mix config.ChargeMix) float64 {
	r := e.rng.Float64()
	switch {
	case r < mix.Positive:
		return 1
	case r < mix.Positive+mix.Negative:
		return -1
	default:
		return 0
	}
}

// InitializeAtom replaces the collection with a fixed nucleus at the domain
// center and electrons orbiting it in shells. The nucleus holds electrons
// protons plus as many neutrons, arranged on a small ring so the formation
// reads as a cluster.
func (e *Engine) InitializeAtom(electrons int) error {
	if electrons <= 0 {
		return fmt.Errorf("%w: got %d", config.ErrParticleCount, electrons)
	}

	center := particle.Vec2{X: e.cfg.Width / 2, Y: e.cfg.Height / 2}
	ps := make([]*particle.Particle, 0, 2*electrons+electrons)

	nucleons := 2 * electrons
	for i := 0; i < nucleons; i++ {
		charge := 0.0
		if i%2 == 0 {
			charge = 1 // protons alternate with neutrons
		}
		angle := float64(i) * 2 * math.Pi / float64(nucleons)
		pos := center.Add(particle.Vec2{
			X: nucleonRadius * 1.5 * math.Cos(angle),
			Y: nucleonRadius * 1.5 * math.Sin(angle),
		})
		ps = append(ps, particle.NewFixed(pos, charge, nucleonMass, nucleonRadius))
	}
	anchor := particle.NewFixed(center, 0, nucleonMass, nucleonRadius)

	for i := 0; i < electrons; i++ {
		shell := i / electronsPer
		radius := firstShellRadius + shellSpacing*float64(shell)
		// Outer shells sweep slower, inner ones faster.
		speed := 2.0 / (1.0 + float64(shell))
		phase := float64(i%electronsPer) * 2 * math.Pi / electronsPer
		ps = append(ps, particle.NewOrbital(anchor, radius, speed, phase, -1, electronMass, 2))
	}

	e.bodies = ps
	e.stats.Reset()
	return nil
}

// Load replaces the collection with an explicit particle set. Scenario setup
// and tests use this; Initialize covers the random case.
func (e *Engine) Load(ps []*particle.Particle) {
	e.bodies = ps
	e.stats.Reset()
}

// Start transitions the clock to Running with now as the reference time.
func (e *Engine) Start(now float64) { e.clock.Start(now) }

// Pause stops the clock; the tick in flight (if any) completes, and further
// Tick calls are no-ops until Start.
func (e *Engine) Pause() { e.clock.Stop() }

func (e *Engine) Running() bool { return e.clock.Running() }

// Reset replaces the particles using the current charge mix and keeps the
// clock state as-is.
func (e *Engine) Reset(count int) error {
	return e.Initialize(count, e.mix)
}

// SetForceScale updates the Coulomb constant k on the next tick.
func (e *Engine) SetForceScale(k float64) {
	v := k
	e.pendingForceScale = &v
}

// SetTimeScale updates the simulated-time multiplier on the next tick.
func (e *Engine) SetTimeScale(mult float64) {
	v := mult
	e.pendingTimeScale = &v
}

// Tick advances exactly one step for a wake-up at now (seconds). No-op while
// paused. The wall dt is clamped before the time-scale multiplier so a long
// stall never turns into a teleport.
func (e *Engine) Tick(now float64) {
	if !e.clock.Running() {
		return
	}
	if e.pendingForceScale != nil {
		e.model.Scale = *e.pendingForceScale
		e.pendingForceScale = nil
	}
	if e.pendingTimeScale != nil {
		e.timeScale = *e.pendingTimeScale
		e.pendingTimeScale = nil
	}

	wallDt := e.clock.Delta(now)
	dt := wallDt * e.timeScale

	e.model.ApplyAll(e.bodies)
	e.step.StepAll(e.bodies, dt)
	e.walls.EnforceAll(e.bodies, e.cfg.Width, e.cfg.Height)
	e.stats.Update(e.bodies, wallDt)
}

// Particles returns value snapshots for renderers. Safe to hold across ticks.
func (e *Engine) Particles() []particle.State {
	out := make([]particle.State, len(e.bodies))
	for i, p := range e.bodies {
		out[i] = p.State()
	}
	return out
}

func (e *Engine) Count() int { return len(e.bodies) }

func (e *Engine) Stats() stats.Summary { return e.stats.Summary() }

// Bounds reports the simulation domain for renderers.
func (e *Engine) Bounds() (width, height float64) {
	return e.cfg.Width, e.cfg.Height
}

// FieldAt samples the electric field at a point, for field-line overlays.
func (e *Engine) FieldAt(x, y float64) (ex, ey float64) {
	return e.model.At(e.bodies, x, y)
}

// ForceScale reports the active Coulomb constant.
func (e *Engine) ForceScale() float64 { return e.model.Scale }

// TimeScale reports the active simulated-time multiplier.
func (e *Engine) TimeScale() float64 { return e.timeScale }
