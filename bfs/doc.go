// SPDX-License-Identifier: MIT

// Package bfs provides breadth-first search over dense, integer-indexed
// graphs such as the state graphs built by package transition.
//
// What
//
//   - Explore vertices 0..Order()-1 in non-decreasing distance (edge count)
//     from a start vertex.
//   - Returns a Result containing:
//   - Order:  visit sequence
//   - Depth:  per-vertex distance from start (-1 when unreached)
//   - Parent: per-vertex predecessor in the BFS tree (-1 for start/unreached)
//   - Hooks: OnVisit (may abort with an error); neighbour filtering via
//     WithFilterNeighbor; depth limit via WithMaxDepth.
//
// Why
//
//   - Reachability/connectivity checks in O(V + E).
//   - Level layering: on a component-failure hypercube the BFS depth of a
//     state from the all-up state equals the number of failed components.
//
// Determinism
//
//	Neighbours are enqueued in the order Graph.Neighbors returns them, so the
//	visit sequence is fully reproducible for deterministic graphs.
//
// Cancellation
//
//	The context passed via WithContext is polled once per dequeued vertex.
package bfs
