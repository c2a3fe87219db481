// SPDX-License-Identifier: MIT

package kolmogorov

import (
	"errors"
	"fmt"
)

var (
	// ErrNilGraph is returned when New receives a nil graph.
	ErrNilGraph = errors.New("kolmogorov: graph is nil")

	// ErrRateLength indicates a rate vector whose length differs from n.
	ErrRateLength = errors.New("kolmogorov: rate vector length does not match component count")

	// ErrBadRate indicates a negative, NaN or infinite rate.
	ErrBadRate = errors.New("kolmogorov: rate must be finite and non-negative")

	// ErrBadHorizon indicates a non-positive or non-finite time horizon.
	ErrBadHorizon = errors.New("kolmogorov: horizon must be finite and > 0")

	// ErrBadPoints indicates a sample count below 1.
	ErrBadPoints = errors.New("kolmogorov: point count must be >= 1")

	// ErrBadTolerance indicates a non-positive mass tolerance.
	ErrBadTolerance = errors.New("kolmogorov: mass tolerance must be finite and > 0")

	// ErrMassDrift indicates a sampled row whose probabilities no longer sum to 1.
	ErrMassDrift = errors.New("kolmogorov: probability mass not conserved")

	// ErrGeneratorTooLarge indicates a dense generator request above MaxGeneratorStates.
	ErrGeneratorTooLarge = errors.New("kolmogorov: too many states for a dense generator")

	// ErrBadBatchSize indicates a batch size below 1.
	ErrBadBatchSize = errors.New("kolmogorov: batch size must be >= 1")

	// ErrUnknownState indicates a state index outside [0, States()).
	ErrUnknownState = errors.New("kolmogorov: state index out of range")
)

// RateError names the offending rate parameter ("lambda" or "mu").
// Index is -1 for a length mismatch.
type RateError struct {
	Param string
	Index int
	Value float64
	Err   error
}

func (e *RateError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", e.Param, e.Err)
	}

	return fmt.Sprintf("%s[%d]=%g: %v", e.Param, e.Index, e.Value, e.Err)
}

func (e *RateError) Unwrap() error { return e.Err }
