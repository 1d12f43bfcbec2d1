package stats

import (
	"math"
	"testing"

	"github.com/rmalhotra/chargelab/internal/field"
	"github.com/rmalhotra/chargelab/internal/particle"
)

func TestEnergyAndSpeed(t *testing.T) {
	c := NewCollector(field.New(5000))

	a := particle.NewFree(particle.Vec2{X: 0}, 1, 2, 4)
	a.Vel = particle.Vec2{X: 3, Y: 4} // speed 5, KE 25
	b := particle.NewFree(particle.Vec2{X: 25}, -1, 1, 4)

	c.Update([]*particle.Particle{a, b}, 0)
	s := c.Summary()

	if s.ParticleCount != 2 {
		t.Errorf("expected count 2, got %d", s.ParticleCount)
	}
	if math.Abs(s.KineticEnergy-25) > 1e-9 {
		t.Errorf("expected KE 25, got %f", s.KineticEnergy)
	}
	wantPE := -5000.0 / 25.0
	if math.Abs(s.PotentialEnergy-wantPE) > 1e-9 {
		t.Errorf("expected PE %f, got %f", wantPE, s.PotentialEnergy)
	}
	if math.Abs(s.TotalEnergy-(25+wantPE)) > 1e-9 {
		t.Errorf("expected total %f, got %f", 25+wantPE, s.TotalEnergy)
	}
	if math.Abs(s.AverageSpeed-2.5) > 1e-9 {
		t.Errorf("expected average speed 2.5, got %f", s.AverageSpeed)
	}
}

func TestZeroChargePairsSkipped(t *testing.T) {
	c := NewCollector(field.New(5000))

	a := particle.NewFree(particle.Vec2{X: 0}, 1, 1, 4)
	n := particle.NewFree(particle.Vec2{X: 30}, 0, 1, 4)

	c.Update([]*particle.Particle{a, n}, 0)

	if c.Summary().PotentialEnergy != 0 {
		t.Errorf("neutral pair should contribute no PE, got %f", c.Summary().PotentialEnergy)
	}
}

func TestEmptyCollectionIsSafe(t *testing.T) {
	c := NewCollector(field.New(5000))
	c.Update(nil, 0)
	s := c.Summary()

	if math.IsNaN(s.AverageSpeed) || math.IsInf(s.AverageSpeed, 0) {
		t.Error("average speed must be finite for an empty collection")
	}
	if s.FPS != 0 {
		t.Errorf("expected fps 0 with no samples, got %d", s.FPS)
	}
}

func TestFPSRollingWindow(t *testing.T) {
	c := NewCollector(field.New(5000))

	for i := 0; i < 100; i++ {
		c.Update(nil, 1.0/60.0)
	}
	if got := c.Summary().FPS; got != 60 {
		t.Errorf("expected 60 fps, got %d", got)
	}

	// Window keeps only the last 60 samples, so a sustained slowdown
	// fully displaces the old rate.
	for i := 0; i < 60; i++ {
		c.Update(nil, 0.1)
	}
	if got := c.Summary().FPS; got != 10 {
		t.Errorf("expected 10 fps after slowdown, got %d", got)
	}
}

func TestFPSGuardsDivisionByZero(t *testing.T) {
	c := NewCollector(field.New(5000))
	c.Update(nil, 1e-12)

	fps := c.Summary().FPS
	if fps != 1000 {
		t.Errorf("tiny dt should clamp to epsilon (1000 fps), got %d", fps)
	}
}

func TestOrbitalSpeedContribution(t *testing.T) {
	c := NewCollector(field.New(5000))

	anchor := particle.NewFixed(particle.Vec2{X: 100, Y: 100}, 1, 10, 6)
	orb := particle.NewOrbital(anchor, 30, 2.0, 0, -1, 1, 2)

	c.Update([]*particle.Particle{anchor, orb}, 0)
	s := c.Summary()

	// anchor contributes 0, orbital contributes r*w = 60
	if math.Abs(s.AverageSpeed-30) > 1e-9 {
		t.Errorf("expected average speed 30, got %f", s.AverageSpeed)
	}
	wantKE := 0.5 * 1 * 60 * 60
	if math.Abs(s.KineticEnergy-wantKE) > 1e-9 {
		t.Errorf("expected KE %f, got %f", wantKE, s.KineticEnergy)
	}
}

func TestReset(t *testing.T) {
	c := NewCollector(field.New(5000))
	c.Update(nil, 0.016)
	c.Reset()

	if c.Summary().FPS != 0 {
		t.Error("reset should drop the fps window")
	}
}
