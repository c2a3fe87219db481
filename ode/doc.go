// SPDX-License-Identifier: MIT

// Package ode integrates systems of ordinary differential equations
// dy/dt = f(t, y) with the Dormand–Prince 5(4) embedded Runge–Kutta pair.
//
// What
//
//   - Integrate advances y0 over a strictly increasing time grid and records
//     the state at every grid point in a matrix.Dense (one row per sample).
//   - Adaptive step control keeps the local error estimate within
//     AbsTol + RelTol·|y| (RMS norm over components). Steps are truncated so
//     that every sample time is hit exactly; no interpolation is involved.
//   - The last stage of an accepted step is reused as the first stage of the
//     next one (FSAL), so an accepted step costs six evaluations of f.
//
// Errors
//
//	Invalid inputs fail fast with ErrBadTimeGrid, ErrBadOptions or
//	ErrBadInitial. Failures during integration (ErrStepTooSmall,
//	ErrMaxSteps, ErrNonFinite, context cancellation) are returned as
//	*IntegrationError carrying the time and step count where they occurred.
//
// Cancellation
//
//	The context is checked between sample intervals only; a step in
//	progress always completes.
//
// Linear invariants
//
//	Any Runge–Kutta method preserves linear invariants of f exactly (up to
//	rounding). For probability flows with Σ dy = 0 the total mass stays 1.
package ode
