// SPDX-License-Identifier: MIT

// Package transition builds the state-transition graph of a repairable
// system of n components.
//
// What
//
//   - One vertex per subset of failed components, ids taken from a
//     combination.Indexer (size ascending, then lexicographic).
//   - From every state s and every component j exactly one outgoing arc:
//     a Failure arc to s∪{j} when j∉s, a Repair arc to s\{j} when j∈s.
//     The graph is therefore the directed n-cube with 2^n vertices and
//     n·2^n arcs, and every state is reachable from the all-up state 0.
//   - Arcs are laid out in one flat arena, n per state, in component order.
//
// Rendering
//
//	Export flattens a graph into a JSON-friendly GraphView; DOT and Mermaid
//	render it as text for Graphviz and Mermaid. Edge labels λ_{j+1} / μ_{j+1}
//	are emitted only when WithEdgeLabels(true) is given.
//
// Concurrency
//
//	A Graph is immutable after Build and safe for concurrent readers.
package transition
