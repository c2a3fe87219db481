// SPDX-License-Identifier: MIT
//
// File: system.go
// Role: rate validation, precomputed per-state flow lists, the derivative
//       function and the dense generator view.
// Determinism:
//   - flows are stored by source state id, then component; Derivative
//     accumulates in that fixed order.

package kolmogorov

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/ctmc/matrix"
	"github.com/katalvlaran/ctmc/transition"
)

// RepairMode selects how repair arcs move probability mass.
type RepairMode uint8

const (
	// RepairMirrored: on repair arc i→k, mass μ_j·y_k moves from k into i.
	RepairMirrored RepairMode = iota
	// RepairRestoring: on repair arc i→k, mass μ_j·y_i moves from i into k.
	RepairRestoring
)

// String returns "mirrored" or "restoring".
func (m RepairMode) String() string {
	switch m {
	case RepairMirrored:
		return "mirrored"
	case RepairRestoring:
		return "restoring"
	default:
		return fmt.Sprintf("RepairMode(%d)", uint8(m))
	}
}

// MarshalText encodes the mode by name.
func (m RepairMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name via ParseRepairMode.
func (m *RepairMode) UnmarshalText(b []byte) error {
	v, err := ParseRepairMode(string(b))
	if err != nil {
		return err
	}
	*m = v

	return nil
}

// ParseRepairMode accepts "mirrored" (or "") and "restoring", case-insensitively.
func ParseRepairMode(s string) (RepairMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mirrored":
		return RepairMirrored, nil
	case "restoring":
		return RepairRestoring, nil
	default:
		return 0, fmt.Errorf("kolmogorov: unknown repair mode %q", s)
	}
}

// MaxGeneratorStates bounds Generator: 4096 states is a 128 MiB matrix.
const MaxGeneratorStates = 1 << 12

// Flow is one precomputed mass transfer: Rate·y[From] leaves From and
// enters To. Kind and Component identify the arc it was derived from.
type Flow struct {
	From      int
	To        int
	Rate      float64
	Kind      transition.Kind
	Component int
}

// Option configures a System.
type Option func(*System)

// WithRepairMode selects the repair semantics; the default is RepairMirrored.
func WithRepairMode(m RepairMode) Option {
	return func(s *System) { s.mode = m }
}

// System is the assembled right-hand side of the forward equations.
// It is immutable after New and safe for concurrent use.
type System struct {
	graph *transition.Graph
	rates Rates
	mode  RepairMode
	n     int
	flows []Flow // flows[id*n+j] for arc j of state id
}

// New validates r against g and precomputes every state's flow list.
//
// Implementation:
//   - Stage 1 (Validate): g non-nil; len(λ)=len(μ)=n; every rate finite, >= 0.
//   - Stage 2 (Execute): one Flow per arc, oriented by kind and repair mode.
//
// Complexity: O(n·2^n) time and memory.
func New(g *transition.Graph, r Rates, opts ...Option) (*System, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	n := g.Components()
	if err := r.Validate(n); err != nil {
		return nil, err
	}

	s := &System{graph: g, rates: r.clone(), n: n}
	for _, opt := range opts {
		opt(s)
	}

	total := g.Order()
	s.flows = make([]Flow, 0, n*total)
	var id int
	for id = 0; id < total; id++ {
		for _, a := range g.Out(id) {
			s.flows = append(s.flows, s.flowOf(id, a))
		}
	}

	return s, nil
}

func (s *System) flowOf(id int, a transition.Arc) Flow {
	f := Flow{Kind: a.Kind, Component: a.Component}
	switch {
	case a.Kind == transition.Failure:
		f.From, f.To, f.Rate = id, a.To, s.rates.Failure[a.Component]
	case s.mode == RepairRestoring:
		f.From, f.To, f.Rate = id, a.To, s.rates.Repair[a.Component]
	default:
		f.From, f.To, f.Rate = a.To, id, s.rates.Repair[a.Component]
	}

	return f
}

// States returns the state count, 2^n.
func (s *System) States() int { return s.graph.Order() }

// Graph returns the underlying transition graph.
func (s *System) Graph() *transition.Graph { return s.graph }

// Mode returns the configured repair semantics.
func (s *System) Mode() RepairMode { return s.mode }

// Flows returns the flows contributed by the arcs of state id, or nil for
// an unknown id. The slice must not be modified.
func (s *System) Flows(id int) []Flow {
	if id < 0 || id >= s.States() {
		return nil
	}
	lo, hi := id*s.n, (id+1)*s.n

	return s.flows[lo:hi:hi]
}

// Initial returns the distribution with all mass on the all-up state.
func (s *System) Initial() []float64 {
	y := make([]float64, s.States())
	y[0] = 1

	return y
}

// Derivative writes dy/dt at y into dy. It has the signature of ode.Func.
// len(y) and len(dy) must equal States().
func (s *System) Derivative(_ float64, y, dy []float64) {
	for i := range dy {
		dy[i] = 0
	}
	var amount float64
	for k := range s.flows {
		f := &s.flows[k]
		amount = f.Rate * y[f.From]
		dy[f.From] -= amount
		dy[f.To] += amount
	}
}

// Generator returns the dense matrix Q with dy/dt = y·Q. Every row of Q sums
// to zero. Fails with ErrGeneratorTooLarge above MaxGeneratorStates.
func (s *System) Generator() (*matrix.Dense, error) {
	total := s.States()
	if total > MaxGeneratorStates {
		return nil, fmt.Errorf("%w: %d states, limit %d", ErrGeneratorTooLarge, total, MaxGeneratorStates)
	}
	q, err := matrix.NewDense(total, total)
	if err != nil {
		return nil, err
	}
	for _, f := range s.flows {
		if err = q.Add(f.From, f.From, -f.Rate); err != nil {
			return nil, err
		}
		if err = q.Add(f.From, f.To, f.Rate); err != nil {
			return nil, err
		}
	}

	return q, nil
}
