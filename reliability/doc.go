// SPDX-License-Identifier: MIT

// Package reliability is the request-level facade over the CTMC pipeline
// combination → transition → kolmogorov → ode.
//
// An Engine validates a Request eagerly (before any state space is built),
// builds or reuses the transition graph for n, integrates the forward
// equations and returns a Result carrying the trajectory, its chart batches
// and the exported graph.
//
// Failures are reported as *Error whose Kind is one of ErrInvalidInput,
// ErrResourceExhaustion or ErrNumericalFailure; errors.Is matches both the
// kind and the underlying package sentinel. Context cancellation is passed
// through unclassified.
//
// Engines are safe for concurrent use. Graphs are immutable and cached per
// n; trajectories are never cached.
package reliability
