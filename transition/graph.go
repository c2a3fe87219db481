// SPDX-License-Identifier: MIT
//
// File: graph.go
// Role: construction of the n-cube transition graph and read-only queries.
// Determinism:
//   - arcs of a state are ordered by component index;
//   - Edges() is ordered by source id, then component.

package transition

import (
	"context"
	"fmt"

	"github.com/katalvlaran/ctmc/bfs"
	"github.com/katalvlaran/ctmc/combination"
)

// Graph is the immutable transition graph over all 2^n failure states.
type Graph struct {
	idx  *combination.Indexer
	n    int
	arcs []Arc // arcs[id*n : (id+1)*n]
	nbrs []int // nbrs[id*n+j] == arcs[id*n+j].To
}

var _ bfs.Graph = (*Graph)(nil)

// Build derives the transition graph from an indexer.
//
// Implementation:
//   - Stage 1: validate idx.
//   - Stage 2: for every state id and component j, toggle j through the
//     indexer's mask table; the kind follows from whether j was present.
//
// Complexity: O(n·2^n) time and memory.
func Build(idx *combination.Indexer) (*Graph, error) {
	if idx == nil {
		return nil, ErrNilIndexer
	}

	n, total := idx.Components(), idx.Len()
	g := &Graph{
		idx:  idx,
		n:    n,
		arcs: make([]Arc, n*total),
		nbrs: make([]int, n*total),
	}

	var id, j, to, off int
	var err error
	for id = 0; id < total; id++ {
		off = id * n
		for j = 0; j < n; j++ {
			if to, err = idx.Toggle(id, j); err != nil {
				return nil, fmt.Errorf("transition: Build state %d component %d: %w", id, j, err)
			}
			kind := Failure
			if idx.Contains(id, j) {
				kind = Repair
			}
			g.arcs[off+j] = Arc{To: to, Component: j, Kind: kind}
			g.nbrs[off+j] = to
		}
	}

	return g, nil
}

// New is shorthand for combination.New followed by Build.
func New(n int) (*Graph, error) {
	idx, err := combination.New(n)
	if err != nil {
		return nil, err
	}

	return Build(idx)
}

// Indexer returns the indexer the graph was built from.
func (g *Graph) Indexer() *combination.Indexer { return g.idx }

// Components returns n.
func (g *Graph) Components() int { return g.n }

// Order returns the number of states, 2^n.
func (g *Graph) Order() int { return g.idx.Len() }

// Size returns the number of arcs, n·2^n.
func (g *Graph) Size() int { return len(g.arcs) }

// Out returns the outgoing arcs of id in component order, or nil for an
// unknown id. The slice aliases the graph's arena and must not be modified.
func (g *Graph) Out(id int) []Arc {
	if id < 0 || id >= g.Order() {
		return nil
	}
	lo, hi := id*g.n, (id+1)*g.n

	return g.arcs[lo:hi:hi]
}

// Neighbors returns the successor ids of id in component order, or nil for
// an unknown id. The slice must not be modified.
func (g *Graph) Neighbors(id int) []int {
	if id < 0 || id >= g.Order() {
		return nil
	}
	lo, hi := id*g.n, (id+1)*g.n

	return g.nbrs[lo:hi:hi]
}

// Edges returns every arc with its source, ordered by source then component.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.arcs))
	var id int
	for i, a := range g.arcs {
		id = i / g.n
		out = append(out, Edge{From: id, To: a.To, Component: a.Component, Kind: a.Kind})
	}

	return out
}

// Subset returns the failed components of state id.
func (g *Graph) Subset(id int) (combination.Subset, error) {
	s, err := g.idx.Subset(id)
	if err != nil {
		return nil, fmt.Errorf("transition: %w: %v", ErrUnknownState, err)
	}

	return s, nil
}

// Connected reports whether every state is reachable from the all-up state.
// Always true for a graph produced by Build; exported as a structural check.
func (g *Graph) Connected(ctx context.Context) (bool, error) {
	res, err := bfs.BFS(g, 0, bfs.WithContext(ctx))
	if err != nil {
		return false, err
	}

	return len(res.Order) == g.Order(), nil
}

// Levels returns the BFS distance of every state from state 0. On the
// n-cube it equals the number of failed components.
func (g *Graph) Levels(ctx context.Context) ([]int, error) {
	res, err := bfs.BFS(g, 0, bfs.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	return res.Depth, nil
}

// FailurePath returns a shortest chain of states from the all-up state to id
// that uses failure transitions only, both ends included.
func (g *Graph) FailurePath(ctx context.Context, id int) ([]int, error) {
	if id < 0 || id >= g.Order() {
		return nil, fmt.Errorf("transition: FailurePath(%d): %w", id, ErrUnknownState)
	}
	failureOnly := func(curr, nbr int) bool {
		for _, a := range g.Out(curr) {
			if a.To == nbr {
				return a.Kind == Failure
			}
		}
		return false
	}
	res, err := bfs.BFS(g, 0, bfs.WithContext(ctx), bfs.WithFilterNeighbor(failureOnly))
	if err != nil {
		return nil, err
	}

	return res.PathTo(id)
}
