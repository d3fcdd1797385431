package control_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"suspensim/internal/control"
	"suspensim/internal/dynamo"
	"suspensim/internal/qcar"
)

const dt = 0.005

func newSkyhook(p qcar.Params) *control.Skyhook {
	s, err := control.NewSkyhook(p, control.DefaultGains(),
		control.DefaultBodyCutoffHz, control.DefaultWheelCutoffHz, dt)
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("Skyhook", func() {
	var params qcar.Params

	BeforeEach(func() {
		params = qcar.DefaultParams()
	})

	It("rejects a filter cutoff at the Nyquist bound", func() {
		_, err := control.NewSkyhook(params, control.DefaultGains(), 100, 5.2, dt)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	It("rejects negative gains", func() {
		bad := control.DefaultGains()
		bad.Ground = -1
		_, err := control.NewSkyhook(params, bad, 1.6, 5.2, dt)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	It("keeps the coefficient inside the damper bounds for arbitrary inputs", func() {
		s := newSkyhook(params)

		for i := 0; i < 5000; i++ {
			t := float64(i) * dt
			x := dynamo.State{
				0.05 * math.Sin(3*t),
				2.0 * math.Sin(7*t),
				0.01 * math.Cos(11*t),
				3.0 * math.Cos(23*t),
			}
			cmd := s.Command(x, 50*math.Sin(17*t), t)

			Expect(cmd.Coefficient).To(BeNumerically(">=", params.CMin))
			Expect(cmd.Coefficient).To(BeNumerically("<=", params.CMax))
		}
	})

	It("always opposes the relative velocity (passivity)", func() {
		s := newSkyhook(params)

		for i := 0; i < 5000; i++ {
			t := float64(i) * dt
			x := dynamo.State{
				0.02 * math.Sin(t),
				1.5 * math.Sin(5*t),
				0.005 * math.Sin(13*t),
				2.5 * math.Cos(5*t),
			}
			relVel := x[qcar.IxSprungVel] - x[qcar.IxUnsprungVel]
			cmd := s.Command(x, 10*math.Cos(3*t), t)

			Expect(cmd.Force * relVel).To(BeNumerically(">=", 0))
			Expect(control.ValidateCommand(cmd, relVel, params)).To(Succeed())
		}
	})

	It("commands zero force at rest", func() {
		s := newSkyhook(params)
		cmd := s.Command(dynamo.State{0, 0, 0, 0}, 0, 0)
		Expect(cmd.Force).To(BeZero())
	})

	It("stiffens when low-frequency body motion and relative velocity agree", func() {
		soft := newSkyhook(params)
		stiff := newSkyhook(params)

		// same wheel motion; the stiff case adds sustained body velocity
		// in the direction of the relative velocity
		var softCmd, stiffCmd control.Command
		for i := 0; i < 400; i++ {
			t := float64(i) * dt
			softCmd = soft.Command(dynamo.State{0, 0, 0, -0.2}, 0, t)
			stiffCmd = stiff.Command(dynamo.State{0, 0.8, 0, -0.2}, 0, t)
		}
		Expect(stiffCmd.Coefficient).To(BeNumerically(">", softCmd.Coefficient))
	})

	It("is tunable through the Configurable interface", func() {
		s := newSkyhook(params)

		Expect(s.SetParam("skyhook_lf", 2400)).To(Succeed())
		Expect(s.GetParams()).To(HaveKeyWithValue("skyhook_lf", 2400.0))

		Expect(s.SetParam("skyhook_lf", -5)).NotTo(Succeed())
		Expect(s.SetParam("warp", 1)).NotTo(Succeed())
	})

	It("resets its filter memory between runs", func() {
		s := newSkyhook(params)
		for i := 0; i < 200; i++ {
			s.Command(dynamo.State{0, 1.0, 0, -1.0}, 5, float64(i)*dt)
		}
		s.Reset()

		cmd := s.Command(dynamo.State{0, 0, 0, 0}, 0, 0)
		Expect(cmd.Force).To(BeZero())
	})
})

var _ = Describe("Passive", func() {
	It("rejects a coefficient outside the damper bounds", func() {
		_, err := control.NewPassive(10, qcar.DefaultParams())
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	It("applies a constant coefficient", func() {
		p, err := control.NewPassive(1200, qcar.DefaultParams())
		Expect(err).NotTo(HaveOccurred())

		cmd := p.Command(dynamo.State{0, 1.0, 0, 0.25}, 0, 0)
		Expect(cmd.Coefficient).To(Equal(1200.0))
		Expect(cmd.Force).To(BeNumerically("~", 1200*0.75, 1e-9))
	})
})

var _ = Describe("ValidateCommand", func() {
	params := qcar.Params{Ms: 250, Mu: 35, Ks: 16000, Kt: 190000, CMin: 0, CMax: 3000}

	It("accepts a command within the clamp", func() {
		cmd := control.Command{Coefficient: 1500, Force: 1500 * 0.4}
		Expect(control.ValidateCommand(cmd, 0.4, params)).To(Succeed())
	})

	It("rejects a coefficient above the upper bound", func() {
		cmd := control.Command{Coefficient: 3500, Force: 3500 * 0.4}
		Expect(control.ValidateCommand(cmd, 0.4, params)).To(MatchError(dynamo.ErrInvariantViolation))
	})

	It("rejects a force that injects energy", func() {
		cmd := control.Command{Coefficient: 1500, Force: -600}
		Expect(control.ValidateCommand(cmd, 0.4, params)).To(MatchError(dynamo.ErrInvariantViolation))
	})

	It("rejects non-zero force at zero relative velocity", func() {
		cmd := control.Command{Coefficient: 1500, Force: 1}
		Expect(control.ValidateCommand(cmd, 0, params)).To(MatchError(dynamo.ErrInvariantViolation))
	})

	It("rejects an effective coefficient below the floor", func() {
		floored := qcar.DefaultParams() // CMin = 800
		cmd := control.Command{Coefficient: 800, Force: 100 * 0.5}
		Expect(control.ValidateCommand(cmd, 0.5, floored)).To(MatchError(dynamo.ErrInvariantViolation))
	})
})

var _ = Describe("SoftClip", func() {
	It("stays strictly inside the bounds", func() {
		for _, x := range []float64{-1e6, 0, 800, 2000, 3500, 1e6} {
			y := control.SoftClip(x, 800, 3500)
			Expect(y).To(BeNumerically(">", 800-1e-9))
			Expect(y).To(BeNumerically("<", 3500+1e-9))
		}
	})

	It("is monotonic", func() {
		prev := math.Inf(-1)
		for x := -5000.0; x <= 9000; x += 100 {
			y := control.SoftClip(x, 800, 3500)
			Expect(y).To(BeNumerically(">", prev))
			prev = y
		}
	})

	It("collapses to the floor for degenerate bounds", func() {
		Expect(control.SoftClip(123, 900, 900)).To(Equal(900.0))
	})
})
