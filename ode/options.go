// SPDX-License-Identifier: MIT

package ode

import (
	"fmt"
	"math"
)

// Func evaluates dy/dt at (t, y) into dydt. len(dydt) == len(y); dydt must
// be fully overwritten. y must not be retained or modified.
type Func func(t float64, y, dydt []float64)

// Options controls step-size adaptation.
type Options struct {
	// RelTol and AbsTol bound the local error per component:
	// |err_i| <= AbsTol + RelTol·max(|y_i|, |y_i'|).
	RelTol float64 `mapstructure:"rel_tol" yaml:"rel_tol" json:"rel_tol"`
	AbsTol float64 `mapstructure:"abs_tol" yaml:"abs_tol" json:"abs_tol"`

	// InitialStep is the first trial step; 0 selects it automatically.
	InitialStep float64 `mapstructure:"initial_step" yaml:"initial_step" json:"initial_step"`

	// MinStep is the smallest step accepted before failing with
	// ErrStepTooSmall; 0 uses a bound relative to machine precision.
	MinStep float64 `mapstructure:"min_step" yaml:"min_step" json:"min_step"`

	// MaxStep caps the step size; 0 means unbounded.
	MaxStep float64 `mapstructure:"max_step" yaml:"max_step" json:"max_step"`

	// MaxSteps bounds the number of attempted steps over the whole run.
	MaxSteps int `mapstructure:"max_steps" yaml:"max_steps" json:"max_steps"`
}

// DefaultOptions returns tight tolerances suited to probability vectors.
func DefaultOptions() Options {
	return Options{
		RelTol:   1e-8,
		AbsTol:   1e-10,
		MaxSteps: 500000,
	}
}

// Validate checks every field against its domain.
func (o Options) Validate() error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	switch {
	case !finite(o.RelTol) || o.RelTol <= 0:
		return fmt.Errorf("RelTol=%g: %w", o.RelTol, ErrBadOptions)
	case !finite(o.AbsTol) || o.AbsTol < 0:
		return fmt.Errorf("AbsTol=%g: %w", o.AbsTol, ErrBadOptions)
	case !finite(o.InitialStep) || o.InitialStep < 0:
		return fmt.Errorf("InitialStep=%g: %w", o.InitialStep, ErrBadOptions)
	case !finite(o.MinStep) || o.MinStep < 0:
		return fmt.Errorf("MinStep=%g: %w", o.MinStep, ErrBadOptions)
	case !finite(o.MaxStep) || o.MaxStep < 0:
		return fmt.Errorf("MaxStep=%g: %w", o.MaxStep, ErrBadOptions)
	case o.MaxStep > 0 && o.MaxStep < o.MinStep:
		return fmt.Errorf("MaxStep=%g < MinStep=%g: %w", o.MaxStep, o.MinStep, ErrBadOptions)
	case o.MaxSteps <= 0:
		return fmt.Errorf("MaxSteps=%d: %w", o.MaxSteps, ErrBadOptions)
	}

	return nil
}

// Linspace returns n evenly spaced points over [start, end]. The last point
// is exactly end. n == 1 yields [start].
func Linspace(start, end float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("Linspace(n=%d): %w", n, ErrBadTimeGrid)
	}
	if math.IsNaN(start) || math.IsInf(start, 0) || math.IsNaN(end) || math.IsInf(end, 0) {
		return nil, fmt.Errorf("Linspace(%g,%g): %w", start, end, ErrBadTimeGrid)
	}
	if n == 1 {
		return []float64{start}, nil
	}
	if end <= start {
		return nil, fmt.Errorf("Linspace(%g,%g): end must exceed start: %w", start, end, ErrBadTimeGrid)
	}

	out := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := 0; i < n-1; i++ {
		out[i] = start + float64(i)*step
	}
	out[n-1] = end

	return out, nil
}

func validateGrid(times []float64) error {
	if len(times) == 0 {
		return fmt.Errorf("empty grid: %w", ErrBadTimeGrid)
	}
	for i, t := range times {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("times[%d]=%g: %w", i, t, ErrBadTimeGrid)
		}
		if i > 0 && t <= times[i-1] {
			return fmt.Errorf("times[%d]=%g not after %g: %w", i, t, times[i-1], ErrBadTimeGrid)
		}
	}

	return nil
}
