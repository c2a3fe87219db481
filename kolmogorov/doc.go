// SPDX-License-Identifier: MIT

// Package kolmogorov assembles and integrates the Kolmogorov forward
// equations of a repairable system over its transition graph.
//
// Model
//
//	y_i(t) is the probability of state i (a set of failed components). Every
//	arc of the transition graph contributes one paired mass transfer
//	(-r·y_x on one endpoint, +r·y_x on the other), so Σ_i dy_i/dt is zero
//	identically and the total mass stays 1:
//
//	  failure arc i→k, component j:   i loses λ_j·y_i, k gains λ_j·y_i
//	  repair  arc i→k, component j:
//	    RepairMirrored  (default):     k loses μ_j·y_k, i gains μ_j·y_k
//	    RepairRestoring:               i loses μ_j·y_i, k gains μ_j·y_i
//
//	RepairMirrored reproduces the historical behaviour of the tool, in which
//	repair pushes mass from the "component up" neighbour into the "component
//	down" state. RepairRestoring is the textbook repair flow.
//
// Pipeline
//
//	New validates the rates and precomputes the flow list of every state
//	once; Derivative iterates those lists only. Solve samples a linspace grid
//	over [0, horizon], integrates with package ode and verifies finiteness
//	and mass conservation before returning a Trajectory.
//
// Complexity
//
//	New O(n·2^n); Derivative O(n·2^n) per call; Generator O(4^n) memory.
package kolmogorov
