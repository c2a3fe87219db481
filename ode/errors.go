// SPDX-License-Identifier: MIT

package ode

import (
	"errors"
	"fmt"
)

// Sentinel errors. Match them with errors.Is; integration-time failures are
// wrapped in *IntegrationError.
var (
	// ErrBadTimeGrid indicates an empty, non-finite or non-increasing grid.
	ErrBadTimeGrid = errors.New("ode: invalid time grid")

	// ErrBadOptions indicates tolerances or step limits outside their domain.
	ErrBadOptions = errors.New("ode: invalid options")

	// ErrBadInitial indicates a nil function or an empty/non-finite y0.
	ErrBadInitial = errors.New("ode: invalid initial value")

	// ErrStepTooSmall indicates the adaptive step fell below MinStep.
	ErrStepTooSmall = errors.New("ode: adaptive step below minimum")

	// ErrMaxSteps indicates the step budget was exhausted before the last sample.
	ErrMaxSteps = errors.New("ode: maximum number of steps exceeded")

	// ErrNonFinite indicates the state or the error estimate became NaN/Inf.
	ErrNonFinite = errors.New("ode: non-finite state")
)

// IntegrationError wraps a failure with the integration context.
type IntegrationError struct {
	Time float64 // time reached when the failure occurred
	Step int     // accepted steps so far
	Err  error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("ode: t=%g after %d steps: %v", e.Time, e.Step, e.Err)
}

func (e *IntegrationError) Unwrap() error {
	return e.Err
}
