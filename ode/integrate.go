// SPDX-License-Identifier: MIT

package ode

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/ctmc/matrix"
)

// Stats reports the work done by one Integrate call.
type Stats struct {
	Accepted    int `json:"accepted"`
	Rejected    int `json:"rejected"`
	Evaluations int `json:"evaluations"`
}

// Solution holds the sampled trajectory. Y has one row per entry of T and
// one column per state component.
type Solution struct {
	T     []float64
	Y     *matrix.Dense
	Stats Stats
}

// Integrate solves dy/dt = f(t, y), y(times[0]) = y0, and samples y at every
// entry of times.
//
// Implementation:
//   - Stage 1 (Validate): f, y0, grid and options; nothing is evaluated on error.
//   - Stage 2 (Prepare): allocate the solution and stage buffers; pick h0.
//   - Stage 3 (Execute): for each sample interval check ctx, then take adaptive
//     Dormand–Prince steps, truncating the final one onto the sample time.
//   - Stage 4 (Finalize): store the row; repeat.
//
// Complexity: O(steps · (cost(f) + dim)) time, O(len(times)·dim) memory.
func Integrate(ctx context.Context, f Func, y0 []float64, times []float64, opts Options) (*Solution, error) {
	// Stage 1: Validate
	if f == nil {
		return nil, fmt.Errorf("nil func: %w", ErrBadInitial)
	}
	if len(y0) == 0 {
		return nil, fmt.Errorf("empty y0: %w", ErrBadInitial)
	}
	for i, v := range y0 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("y0[%d]=%g: %w", i, v, ErrBadInitial)
		}
	}
	if err := validateGrid(times); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// Stage 2: Prepare
	dim := len(y0)
	out, err := matrix.NewDense(len(times), dim)
	if err != nil {
		return nil, err
	}
	sol := &Solution{T: append([]float64(nil), times...), Y: out}
	if err = out.SetRow(0, y0); err != nil {
		return nil, err
	}
	if len(times) == 1 {
		return sol, nil
	}

	s := newStepper(f, dim, opts)
	y := append([]float64(nil), y0...)
	t := times[0]
	s.eval(t, y, s.k1)

	h := opts.InitialStep
	if h == 0 {
		h = s.initialStep(t, y)
	}
	if opts.MaxStep > 0 && h > opts.MaxStep {
		h = opts.MaxStep
	}

	fail := func(e error) (*Solution, error) {
		sol.Stats.Evaluations = s.evals
		return nil, &IntegrationError{Time: t, Step: sol.Stats.Accepted, Err: e}
	}

	// Stage 3: Execute
	var (
		attempts int
		target   float64
		hStep    float64
		errNorm  float64
		landing  bool
		minStep  float64
		k        int
		fac      float64
	)
	for k = 1; k < len(times); k++ {
		if err = ctx.Err(); err != nil {
			return fail(err)
		}
		target = times[k]

		for t < target {
			minStep = opts.MinStep
			if floor := 16 * epsilon * math.Abs(t); minStep < floor {
				minStep = floor
			}
			if h < minStep {
				return fail(fmt.Errorf("h=%g < %g: %w", h, minStep, ErrStepTooSmall))
			}
			if attempts >= opts.MaxSteps {
				return fail(fmt.Errorf("limit %d: %w", opts.MaxSteps, ErrMaxSteps))
			}
			attempts++

			hStep, landing = h, false
			if t+h >= target {
				hStep, landing = target-t, true
			}

			errNorm = s.try(t, hStep, y)
			if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) {
				return fail(fmt.Errorf("error estimate %g: %w", errNorm, ErrNonFinite))
			}
			fac = factor(errNorm)

			if errNorm > 1 {
				sol.Stats.Rejected++
				h = hStep * math.Min(1, fac)
				continue
			}

			for i, v := range s.ynew {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return fail(fmt.Errorf("y[%d]=%g: %w", i, v, ErrNonFinite))
				}
			}
			copy(y, s.ynew)
			s.k1, s.k7 = s.k7, s.k1
			sol.Stats.Accepted++

			if landing {
				t = target
				// a truncated step says nothing new about the step size
				if hStep < h {
					continue
				}
			} else {
				t += hStep
			}
			h = hStep * fac
			if opts.MaxStep > 0 && h > opts.MaxStep {
				h = opts.MaxStep
			}
		}

		// Stage 4: Finalize sample k
		if err = out.SetRow(k, y); err != nil {
			return fail(fmt.Errorf("%v: %w", err, ErrNonFinite))
		}
	}
	sol.Stats.Evaluations = s.evals

	return sol, nil
}

const epsilon = 2.220446049250313e-16
