// SPDX-License-Identifier: MIT

package transition

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph construction and queries.
var (
	// ErrNilIndexer is returned when Build receives a nil indexer.
	ErrNilIndexer = errors.New("transition: indexer is nil")

	// ErrUnknownState is returned when a state id is outside [0, Order()).
	ErrUnknownState = errors.New("transition: state id out of range")

	// ErrUnknownKind is returned when decoding a kind name other than
	// "failure" or "repair".
	ErrUnknownKind = errors.New("transition: unknown transition kind")

	// ErrDisconnected reports a graph with states unreachable from state 0.
	ErrDisconnected = errors.New("transition: graph is not connected")
)

// Kind distinguishes the two transition families.
type Kind uint8

const (
	// Failure moves a state s to s∪{j}.
	Failure Kind = iota
	// Repair moves a state s to s\{j}.
	Repair
)

// String returns "failure" or "repair".
func (k Kind) String() string {
	switch k {
	case Failure:
		return "failure"
	case Repair:
		return "repair"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Symbol returns the rate symbol of the kind: λ for failures, μ for repairs.
func (k Kind) Symbol() string {
	if k == Repair {
		return "μ"
	}

	return "λ"
}

// MarshalText lets Kind appear as "failure"/"repair" in JSON and YAML.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "failure":
		*k = Failure
	case "repair":
		*k = Repair
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, b)
	}

	return nil
}

// Arc is one precomputed outgoing transition of a state.
type Arc struct {
	To        int
	Component int
	Kind      Kind
}

// Edge is an Arc together with its source state.
type Edge struct {
	From      int
	To        int
	Component int
	Kind      Kind
}

// Label returns the rate label of e, 1-based on the component:
// "λ_1" for a failure of component 0, "μ_3" for a repair of component 2.
func (e Edge) Label() string {
	return Label(e.Kind, e.Component)
}

// Label formats the rate label for kind k on component j (0-based).
func Label(k Kind, j int) string {
	return fmt.Sprintf("%s_%d", k.Symbol(), j+1)
}
