// SPDX-License-Identifier: MIT

package reliability

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/ctmc/combination"
	"github.com/katalvlaran/ctmc/kolmogorov"
	"github.com/katalvlaran/ctmc/ode"
)

// Error kinds.
var (
	// ErrInvalidInput marks a request that can never succeed as given.
	ErrInvalidInput = errors.New("reliability: invalid input")

	// ErrResourceExhaustion marks a request above the configured limits.
	ErrResourceExhaustion = errors.New("reliability: resource limit exceeded")

	// ErrNumericalFailure marks an integration that could not meet its
	// tolerances or lost probability mass.
	ErrNumericalFailure = errors.New("reliability: numerical failure")

	// ErrInternal marks a pipeline failure that no request can cause, such
	// as integrator options or a time grid the engine built wrongly.
	ErrInternal = errors.New("reliability: internal error")
)

// Request parameter names used in Error.Param.
const (
	ParamComponents = "components"
	ParamLambda     = kolmogorov.ParamLambda
	ParamMu         = kolmogorov.ParamMu
	ParamHorizon    = "horizon"
	ParamPoints     = "points"
	ParamShowCount  = "show_count"
	ParamRepairMode = "repair_mode"
)

// Error is a classified engine failure.
type Error struct {
	Kind  error  // one of the Err* kind sentinels above
	Param string // offending request parameter, empty when not applicable
	Err   error
}

func (e *Error) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Param, e.Err)
	}

	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports a match on the kind sentinel.
func (e *Error) Is(target error) bool { return target == e.Kind }

func invalid(param string, err error) *Error {
	return &Error{Kind: ErrInvalidInput, Param: param, Err: err}
}

func exhausted(param string, err error) *Error {
	return &Error{Kind: ErrResourceExhaustion, Param: param, Err: err}
}

// classify maps a pipeline error onto the taxonomy. Context errors and
// already classified errors are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var rateErr *kolmogorov.RateError
	switch {
	case errors.As(err, &rateErr):
		return invalid(rateErr.Param, err)
	case errors.Is(err, combination.ErrTooLarge), errors.Is(err, kolmogorov.ErrGeneratorTooLarge):
		return exhausted(ParamComponents, err)
	case errors.Is(err, combination.ErrInvalidSize):
		return invalid(ParamComponents, err)
	case errors.Is(err, kolmogorov.ErrBadHorizon):
		return invalid(ParamHorizon, err)
	case errors.Is(err, kolmogorov.ErrBadPoints):
		return invalid(ParamPoints, err)
	case errors.Is(err, kolmogorov.ErrBadBatchSize):
		return invalid(ParamShowCount, err)
	case errors.Is(err, kolmogorov.ErrMassDrift),
		errors.Is(err, ode.ErrStepTooSmall),
		errors.Is(err, ode.ErrMaxSteps),
		errors.Is(err, ode.ErrNonFinite):
		return &Error{Kind: ErrNumericalFailure, Err: err}
	}

	// ode.ErrBadOptions, ode.ErrBadTimeGrid and anything unknown
	return &Error{Kind: ErrInternal, Err: err}
}
