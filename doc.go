// Package ctmc computes time-dependent state probabilities of a repairable
// system of n components.
//
// Every component fails with its own rate λ_j and is repaired with its own
// rate μ_j. The system state is the set of failed components, so there are
// 2^n states; the probability of each one evolves under the Kolmogorov
// forward equations of the resulting continuous-time Markov chain.
//
// The pipeline is split into small packages, each usable on its own:
//
//	combination/  canonical enumeration of failed-component subsets (size, then lexicographic)
//	transition/   the directed n-cube of failure and repair transitions; DOT, Mermaid and JSON views
//	bfs/          breadth-first traversal used for connectivity and level checks
//	matrix/       dense row-major matrices for generators and sampled trajectories
//	ode/          adaptive Dormand–Prince 5(4) integrator with exact landing on sample times
//	kolmogorov/   forward equations over a transition graph, mass checks, chart batches
//	reliability/  validated, cached, instrumented engine and its error taxonomy
//
// The ctmc binary (cmd/ctmc) serves the engine over HTTP and WebSocket and
// offers solve and graph commands on the command line.
//
// Quick start:
//
//	e, _ := reliability.New(reliability.DefaultConfig())
//	res, err := e.Solve(ctx, reliability.Request{
//		Components: 2,
//		Lambda:     []float64{1, 1},
//		Mu:         []float64{0.5, 0.5},
//		Horizon:    5,
//		Points:     50,
//	})
//
// res.Trajectory holds one row of 2^n probabilities per sample time;
// res.Batches pages the per-state curves for charting.
package ctmc
