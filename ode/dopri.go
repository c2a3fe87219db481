// SPDX-License-Identifier: MIT
//
// File: dopri.go
// Role: Dormand–Prince 5(4) tableau and a single trial step.
// Notes:
//   - the 5th-order solution propagates (local extrapolation);
//   - e = b5 - b4 gives the embedded error estimate directly.

package ode

import "math"

// Butcher tableau.
const (
	c2 = 1.0 / 5
	c3 = 3.0 / 10
	c4 = 4.0 / 5
	c5 = 8.0 / 9

	a21 = 1.0 / 5

	a31 = 3.0 / 40
	a32 = 9.0 / 40

	a41 = 44.0 / 45
	a42 = -56.0 / 15
	a43 = 32.0 / 9

	a51 = 19372.0 / 6561
	a52 = -25360.0 / 2187
	a53 = 64448.0 / 6561
	a54 = -212.0 / 729

	a61 = 9017.0 / 3168
	a62 = -355.0 / 33
	a63 = 46732.0 / 5247
	a64 = 49.0 / 176
	a65 = -5103.0 / 18656

	// 5th-order weights; also the 7th stage row (FSAL).
	b1 = 35.0 / 384
	b3 = 500.0 / 1113
	b4 = 125.0 / 192
	b5 = -2187.0 / 6784
	b6 = 11.0 / 84

	e1 = 71.0 / 57600
	e3 = -71.0 / 16695
	e4 = 71.0 / 1920
	e5 = -17253.0 / 339200
	e6 = 22.0 / 525
	e7 = -1.0 / 40
)

// Step-size controller constants.
const (
	safety    = 0.9
	minFactor = 0.2
	maxFactor = 5.0
	errExp    = -1.0 / 5
)

// stepper owns the stage buffers so a run allocates once.
type stepper struct {
	f                          Func
	k1, k2, k3, k4, k5, k6, k7 []float64
	tmp, ynew                  []float64
	rtol, atol                 float64
	evals                      int
}

func newStepper(f Func, dim int, o Options) *stepper {
	buf := make([]float64, 9*dim)
	return &stepper{
		f:    f,
		k1:   buf[0*dim : 1*dim],
		k2:   buf[1*dim : 2*dim],
		k3:   buf[2*dim : 3*dim],
		k4:   buf[3*dim : 4*dim],
		k5:   buf[4*dim : 5*dim],
		k6:   buf[5*dim : 6*dim],
		k7:   buf[6*dim : 7*dim],
		tmp:  buf[7*dim : 8*dim],
		ynew: buf[8*dim : 9*dim],
		rtol: o.RelTol,
		atol: o.AbsTol,
	}
}

func (s *stepper) eval(t float64, y, dydt []float64) {
	s.f(t, y, dydt)
	s.evals++
}

// try computes a trial step of size h from (t, y) assuming s.k1 = f(t, y).
// The candidate lands in s.ynew, f at the candidate in s.k7. It returns the
// scaled RMS error norm; <= 1 means the step is acceptable.
func (s *stepper) try(t, h float64, y []float64) float64 {
	var i int
	n := len(y)

	for i = 0; i < n; i++ {
		s.tmp[i] = y[i] + h*a21*s.k1[i]
	}
	s.eval(t+c2*h, s.tmp, s.k2)

	for i = 0; i < n; i++ {
		s.tmp[i] = y[i] + h*(a31*s.k1[i]+a32*s.k2[i])
	}
	s.eval(t+c3*h, s.tmp, s.k3)

	for i = 0; i < n; i++ {
		s.tmp[i] = y[i] + h*(a41*s.k1[i]+a42*s.k2[i]+a43*s.k3[i])
	}
	s.eval(t+c4*h, s.tmp, s.k4)

	for i = 0; i < n; i++ {
		s.tmp[i] = y[i] + h*(a51*s.k1[i]+a52*s.k2[i]+a53*s.k3[i]+a54*s.k4[i])
	}
	s.eval(t+c5*h, s.tmp, s.k5)

	for i = 0; i < n; i++ {
		s.tmp[i] = y[i] + h*(a61*s.k1[i]+a62*s.k2[i]+a63*s.k3[i]+a64*s.k4[i]+a65*s.k5[i])
	}
	s.eval(t+h, s.tmp, s.k6)

	for i = 0; i < n; i++ {
		s.ynew[i] = y[i] + h*(b1*s.k1[i]+b3*s.k3[i]+b4*s.k4[i]+b5*s.k5[i]+b6*s.k6[i])
	}
	s.eval(t+h, s.ynew, s.k7)

	var sum, ei, sc float64
	for i = 0; i < n; i++ {
		ei = h * (e1*s.k1[i] + e3*s.k3[i] + e4*s.k4[i] + e5*s.k5[i] + e6*s.k6[i] + e7*s.k7[i])
		sc = s.atol + s.rtol*math.Max(math.Abs(y[i]), math.Abs(s.ynew[i]))
		ei /= sc
		sum += ei * ei
	}

	return math.Sqrt(sum / float64(n))
}

// factor returns the step multiplier suggested by an error norm.
func factor(errNorm float64) float64 {
	if errNorm == 0 {
		return maxFactor
	}
	fac := safety * math.Pow(errNorm, errExp)

	return math.Min(maxFactor, math.Max(minFactor, fac))
}

// initialStep picks a starting step (Hairer, Nørsett & Wanner, II.4)
// using s.k1 = f(t0, y0). It uses s.tmp and s.k2 as scratch.
func (s *stepper) initialStep(t0 float64, y0 []float64) float64 {
	n := len(y0)
	var d0, d1, sc float64
	var i int
	for i = 0; i < n; i++ {
		sc = s.atol + s.rtol*math.Abs(y0[i])
		d0 += (y0[i] / sc) * (y0[i] / sc)
		d1 += (s.k1[i] / sc) * (s.k1[i] / sc)
	}
	d0 = math.Sqrt(d0 / float64(n))
	d1 = math.Sqrt(d1 / float64(n))

	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}

	for i = 0; i < n; i++ {
		s.tmp[i] = y0[i] + h0*s.k1[i]
	}
	s.eval(t0+h0, s.tmp, s.k2)

	var d2, di float64
	for i = 0; i < n; i++ {
		sc = s.atol + s.rtol*math.Abs(y0[i])
		di = (s.k2[i] - s.k1[i]) / sc
		d2 += di * di
	}
	d2 = math.Sqrt(d2/float64(n)) / h0

	var h1 float64
	if m := math.Max(d1, d2); m <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/m, 1.0/5)
	}

	return math.Min(100*h0, h1)
}
