package engine_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rmalhotra/chargelab/internal/config"
	"github.com/rmalhotra/chargelab/internal/engine"
	"github.com/rmalhotra/chargelab/internal/particle"
)

func exactCfg() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Damping = 1.0 // keep the arithmetic in specs exact
	cfg.Restitution = 1.0
	cfg.Seed = 42
	return cfg
}

func pairAt(sep float64, q1, q2 float64) []*particle.Particle {
	a := particle.NewFree(particle.Vec2{X: 400 - sep/2, Y: 300}, q1, 1, 4)
	b := particle.NewFree(particle.Vec2{X: 400 + sep/2, Y: 300}, q2, 1, 4)
	return []*particle.Particle{a, b}
}

var _ = Describe("Engine", func() {
	var e *engine.Engine

	BeforeEach(func() {
		var err error
		e, err = engine.New(exactCfg())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("rejects an invalid config", func() {
			cfg := config.DefaultConfig()
			cfg.MaxDt = -1
			_, err := engine.New(cfg)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Initialize", func() {
		It("rejects a non-positive particle count", func() {
			err := e.Initialize(0, config.ChargeMix{Positive: 1})
			Expect(err).To(MatchError(config.ErrParticleCount))
		})

		It("rejects a charge mix that does not sum to 1", func() {
			err := e.Initialize(10, config.ChargeMix{Positive: 0.5, Negative: 0.2})
			Expect(err).To(MatchError(config.ErrChargeMix))
		})

		It("leaves prior particles untouched on a configuration error", func() {
			Expect(e.Initialize(7, config.ChargeMix{Positive: 1})).To(Succeed())
			Expect(e.Initialize(0, config.ChargeMix{Positive: 1})).NotTo(Succeed())
			Expect(e.Count()).To(Equal(7))
		})

		It("creates free particles at rest inside the domain", func() {
			Expect(e.Initialize(50, config.ChargeMix{Positive: 0.5, Negative: 0.5})).To(Succeed())

			w, h := e.Bounds()
			for _, p := range e.Particles() {
				Expect(p.Mode).To(Equal(particle.Free))
				Expect(p.Vel).To(Equal(particle.Vec2{}))
				Expect(p.Pos.X).To(BeNumerically(">=", 0))
				Expect(p.Pos.X).To(BeNumerically("<=", w))
				Expect(p.Pos.Y).To(BeNumerically(">=", 0))
				Expect(p.Pos.Y).To(BeNumerically("<=", h))
			}
		})

		It("honors a degenerate all-positive mix", func() {
			Expect(e.Initialize(30, config.ChargeMix{Positive: 1})).To(Succeed())
			for _, p := range e.Particles() {
				Expect(p.Charge).To(Equal(1.0))
			}
		})

		It("draws all three charge kinds from a mixed distribution", func() {
			Expect(e.Initialize(300, config.ChargeMix{Positive: 0.4, Negative: 0.4, Neutral: 0.2})).To(Succeed())

			seen := map[float64]int{}
			for _, p := range e.Particles() {
				seen[p.Charge]++
			}
			Expect(seen).To(HaveKey(1.0))
			Expect(seen).To(HaveKey(-1.0))
			Expect(seen).To(HaveKey(0.0))
		})
	})

	Describe("Tick", func() {
		It("pushes two like charges apart with the expected force", func() {
			// k·q1·q2/r² = 5000/400 = 12.5 at 20 units apart.
			e.Load(pairAt(20, 1, 1))
			e.Start(0)
			e.Tick(0.016)

			ps := e.Particles()
			left, right := ps[0], ps[1]

			Expect(left.Vel.X).To(BeNumerically("<", 0))
			Expect(right.Vel.X).To(BeNumerically(">", 0))
			Expect(left.Vel.Y).To(BeZero())

			wantSpeed := 12.5 * 0.016
			Expect(left.Vel.Len()).To(BeNumerically("~", wantSpeed, 1e-9))
			Expect(right.Vel.Len()).To(BeNumerically("~", wantSpeed, 1e-9))
		})

		It("clamps a stalled frame to the dt ceiling", func() {
			a, err := engine.New(exactCfg())
			Expect(err).NotTo(HaveOccurred())
			b, err := engine.New(exactCfg())
			Expect(err).NotTo(HaveOccurred())

			a.Load(pairAt(50, 1, -1))
			b.Load(pairAt(50, 1, -1))
			a.Start(0)
			b.Start(0)

			a.Tick(5.0) // 5 second stall
			b.Tick(0.1) // exactly the ceiling

			Expect(a.Particles()).To(Equal(b.Particles()))
		})

		It("does nothing before Start or after Pause", func() {
			e.Load(pairAt(20, 1, 1))
			before := e.Particles()

			e.Tick(1.0)
			Expect(e.Particles()).To(Equal(before))

			e.Start(1.0)
			e.Pause()
			e.Tick(2.0)
			Expect(e.Particles()).To(Equal(before))
		})

		It("applies SetTimeScale on the next tick", func() {
			slow, err := engine.New(exactCfg())
			Expect(err).NotTo(HaveOccurred())
			fast, err := engine.New(exactCfg())
			Expect(err).NotTo(HaveOccurred())

			slow.Load(pairAt(30, 1, 1))
			fast.Load(pairAt(30, 1, 1))
			fast.SetTimeScale(2.0)

			slow.Start(0)
			fast.Start(0)
			slow.Tick(0.01)
			fast.Tick(0.01)

			vSlow := slow.Particles()[0].Vel.Len()
			vFast := fast.Particles()[0].Vel.Len()
			Expect(vFast).To(BeNumerically("~", 2*vSlow, 1e-9))
		})

		It("applies SetForceScale on the next tick", func() {
			e.Load(pairAt(30, 1, 1))
			e.SetForceScale(0) // switch the interaction off before the first step
			e.Start(0)
			e.Tick(0.016)

			Expect(e.Particles()[0].Vel.Len()).To(BeZero())
			Expect(e.ForceScale()).To(BeZero())
		})

		It("keeps particles inside the domain", func() {
			Expect(e.Initialize(40, config.ChargeMix{Positive: 0.5, Negative: 0.5})).To(Succeed())
			e.Start(0)
			now := 0.0
			for i := 0; i < 200; i++ {
				now += 0.016
				e.Tick(now)
			}

			w, h := e.Bounds()
			for _, p := range e.Particles() {
				Expect(p.Pos.X).To(BeNumerically(">=", 0))
				Expect(p.Pos.X).To(BeNumerically("<=", w))
				Expect(p.Pos.Y).To(BeNumerically(">=", 0))
				Expect(p.Pos.Y).To(BeNumerically("<=", h))
			}
		})
	})

	Describe("energy accounting", func() {
		It("trades potential for kinetic energy as opposite charges fall together", func() {
			e.Load(pairAt(100, 1, -1))
			e.Start(0)

			e.Tick(0.004)
			prev := e.Stats()
			initialTotal := prev.TotalEnergy

			now := 0.004
			for i := 0; i < 5; i++ {
				now += 0.004
				e.Tick(now)
				cur := e.Stats()

				Expect(cur.KineticEnergy).To(BeNumerically(">=", prev.KineticEnergy))
				Expect(cur.PotentialEnergy).To(BeNumerically("<=", prev.PotentialEnergy))
				prev = cur
			}

			// Undamped and far from the clamp region the total drifts only
			// by integration error.
			Expect(prev.TotalEnergy).To(BeNumerically("~", initialTotal, math.Abs(initialTotal)*0.05+0.5))
		})
	})

	Describe("statistics", func() {
		It("reports a summary after one tick", func() {
			Expect(e.Initialize(10, config.ChargeMix{Positive: 0.5, Negative: 0.5})).To(Succeed())
			e.Start(0)
			e.Tick(0.02)

			s := e.Stats()
			Expect(s.ParticleCount).To(Equal(10))
			Expect(s.FPS).To(Equal(50))
			Expect(math.IsNaN(s.AverageSpeed)).To(BeFalse())
		})
	})

	Describe("Reset", func() {
		It("replaces the collection with the current mix", func() {
			Expect(e.Initialize(10, config.ChargeMix{Positive: 1})).To(Succeed())
			Expect(e.Reset(5)).To(Succeed())

			Expect(e.Count()).To(Equal(5))
			for _, p := range e.Particles() {
				Expect(p.Charge).To(Equal(1.0))
			}
		})

		It("rejects a non-positive count", func() {
			Expect(e.Reset(-1)).To(MatchError(config.ErrParticleCount))
		})
	})

	Describe("InitializeAtom", func() {
		It("builds a fixed nucleus with orbiting electrons", func() {
			Expect(e.InitializeAtom(3)).To(Succeed())

			var fixed, orbital int
			for _, p := range e.Particles() {
				switch p.Mode {
				case particle.Fixed:
					fixed++
				case particle.Orbital:
					orbital++
				}
			}
			Expect(fixed).To(Equal(6))
			Expect(orbital).To(Equal(3))
		})

		It("advances electrons deterministically around the nucleus", func() {
			Expect(e.InitializeAtom(1)).To(Succeed())
			e.Start(0)

			before := e.Particles()
			e.Tick(0.05)
			after := e.Particles()

			moved := false
			for i := range after {
				if after[i].Mode == particle.Orbital && after[i].Pos != before[i].Pos {
					moved = true
				}
				if after[i].Mode == particle.Fixed {
					Expect(after[i].Pos).To(Equal(before[i].Pos))
				}
			}
			Expect(moved).To(BeTrue())
		})

		It("rejects a non-positive electron count", func() {
			Expect(e.InitializeAtom(0)).To(MatchError(config.ErrParticleCount))
		})
	})

	Describe("FieldAt", func() {
		It("points away from a positive charge", func() {
			e.Load([]*particle.Particle{particle.NewFree(particle.Vec2{X: 100, Y: 100}, 1, 1, 4)})

			ex, ey := e.FieldAt(200, 100)
			Expect(ex).To(BeNumerically(">", 0))
			Expect(ey).To(BeZero())
		})
	})
})
