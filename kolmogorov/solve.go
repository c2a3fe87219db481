// SPDX-License-Identifier: MIT

package kolmogorov

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/ctmc/ode"
)

// DefaultMassTolerance bounds |Σ_i y_i(t) - 1| for every sampled row.
const DefaultMassTolerance = 1e-6

// SolveOption configures one Solve call.
type SolveOption func(*solveConfig)

type solveConfig struct {
	solver  ode.Options
	massTol float64
}

// WithSolver overrides the integrator options (ode.DefaultOptions otherwise).
func WithSolver(o ode.Options) SolveOption {
	return func(c *solveConfig) { c.solver = o }
}

// WithMassTolerance overrides DefaultMassTolerance.
func WithMassTolerance(tol float64) SolveOption {
	return func(c *solveConfig) { c.massTol = tol }
}

// Solve integrates the system from Initial() over [0, horizon] and samples
// it at points evenly spaced times (points == 1 yields only t = 0).
//
// Implementation:
//   - Stage 1 (Validate): horizon, points and options.
//   - Stage 2 (Execute): ode.Integrate with Derivative.
//   - Stage 3 (Verify): every row finite and within the mass tolerance.
//
// Errors: ErrBadHorizon, ErrBadPoints, ErrBadTolerance (input);
// ode errors and ErrMassDrift (numerical); ctx errors on cancellation.
func (s *System) Solve(ctx context.Context, horizon float64, points int, opts ...SolveOption) (*Trajectory, error) {
	cfg := solveConfig{solver: ode.DefaultOptions(), massTol: DefaultMassTolerance}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Stage 1: Validate
	if math.IsNaN(horizon) || math.IsInf(horizon, 0) || horizon <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrBadHorizon, horizon)
	}
	if points < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadPoints, points)
	}
	if math.IsNaN(cfg.massTol) || math.IsInf(cfg.massTol, 0) || cfg.massTol <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrBadTolerance, cfg.massTol)
	}
	times, err := ode.Linspace(0, horizon, points)
	if err != nil {
		return nil, err
	}

	// Stage 2: Execute
	sol, err := ode.Integrate(ctx, s.Derivative, s.Initial(), times, cfg.solver)
	if err != nil {
		return nil, fmt.Errorf("kolmogorov: integrate: %w", err)
	}

	// Stage 3: Verify
	for i, m := range sol.Y.RowSums() {
		if math.Abs(m-1) > cfg.massTol {
			return nil, fmt.Errorf("%w: t=%g mass=%.12g tolerance=%g", ErrMassDrift, times[i], m, cfg.massTol)
		}
	}

	return &Trajectory{
		Times:         sol.T,
		Probabilities: sol.Y,
		Stats:         sol.Stats,
		Mode:          s.mode,
	}, nil
}
