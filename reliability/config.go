// SPDX-License-Identifier: MIT

package reliability

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/ctmc/combination"
	"github.com/katalvlaran/ctmc/kolmogorov"
	"github.com/katalvlaran/ctmc/ode"
)

// ErrBadConfig is returned by New for an invalid Config.
var ErrBadConfig = errors.New("reliability: invalid config")

// Config bounds and parameterises an Engine.
type Config struct {
	// MaxComponents is the practical limit on n (at most combination.MaxComponents).
	MaxComponents int
	// MaxPoints is the largest accepted sample count.
	MaxPoints int
	// MaxGraphStates is the largest state count for which Result.Graph is
	// exported; larger systems are solved without the graph view.
	MaxGraphStates int
	// DefaultHorizon and DefaultPoints fill zero-valued request fields.
	DefaultHorizon float64
	DefaultPoints  int
	// MassTolerance bounds |Σ y - 1| on every sampled row.
	MassTolerance float64
	// RepairMode is the default repair semantics.
	RepairMode kolmogorov.RepairMode
	// Solver configures the integrator.
	Solver ode.Options
}

// DefaultConfig returns the limits used by the CLI and server defaults.
func DefaultConfig() Config {
	return Config{
		MaxComponents:  16,
		MaxPoints:      10000,
		MaxGraphStates: 1024,
		DefaultHorizon: 10,
		DefaultPoints:  100,
		MassTolerance:  kolmogorov.DefaultMassTolerance,
		RepairMode:     kolmogorov.RepairMirrored,
		Solver:         ode.DefaultOptions(),
	}
}

// Validate checks every field.
func (c Config) Validate() error {
	switch {
	case c.MaxComponents < 1 || c.MaxComponents > combination.MaxComponents:
		return fmt.Errorf("%w: max components %d not in [1,%d]", ErrBadConfig, c.MaxComponents, combination.MaxComponents)
	case c.MaxPoints < 1:
		return fmt.Errorf("%w: max points %d", ErrBadConfig, c.MaxPoints)
	case c.MaxGraphStates < 0:
		return fmt.Errorf("%w: max graph states %d", ErrBadConfig, c.MaxGraphStates)
	case math.IsNaN(c.DefaultHorizon) || math.IsInf(c.DefaultHorizon, 0) || c.DefaultHorizon <= 0:
		return fmt.Errorf("%w: default horizon %g", ErrBadConfig, c.DefaultHorizon)
	case c.DefaultPoints < 1 || c.DefaultPoints > c.MaxPoints:
		return fmt.Errorf("%w: default points %d not in [1,%d]", ErrBadConfig, c.DefaultPoints, c.MaxPoints)
	case math.IsNaN(c.MassTolerance) || c.MassTolerance <= 0:
		return fmt.Errorf("%w: mass tolerance %g", ErrBadConfig, c.MassTolerance)
	case c.RepairMode != kolmogorov.RepairMirrored && c.RepairMode != kolmogorov.RepairRestoring:
		return fmt.Errorf("%w: repair mode %v", ErrBadConfig, c.RepairMode)
	}
	if err := c.Solver.Validate(); err != nil {
		return fmt.Errorf("%w: solver: %v", ErrBadConfig, err)
	}

	return nil
}
