// SPDX-License-Identifier: MIT
// Package: ctmc/combination
//
// errors.go: sentinel errors for the combination package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Context (offending value) is attached with %w at the return site.

package combination

import "errors"

var (
	// ErrInvalidSize indicates a component count below 1.
	ErrInvalidSize = errors.New("combination: component count must be >= 1")

	// ErrTooLarge indicates a component count above MaxComponents; the 2^n
	// state tables would not fit in a sane amount of memory.
	ErrTooLarge = errors.New("combination: component count exceeds supported maximum")

	// ErrBadSubset indicates a subset that is unsorted, has duplicates or
	// references a component outside [0, n).
	ErrBadSubset = errors.New("combination: malformed subset")

	// ErrUnknownID indicates a state id outside [0, 2^n).
	ErrUnknownID = errors.New("combination: state id out of range")

	// ErrComponentRange indicates a component index outside [0, n).
	ErrComponentRange = errors.New("combination: component index out of range")
)
