// SPDX-License-Identifier: MIT
//
// File: indexer.go
// Role: canonical enumeration of all subsets of {0..n-1} and the O(1)
//       subset<->id tables built from it.
// Determinism:
//   - ids are assigned by size ascending, then lexicographic order of the
//     sorted elements; no map iteration is involved anywhere.
// Concurrency:
//   - an Indexer is immutable after New and safe for concurrent readers.

package combination

import (
	"fmt"
	"math/bits"
)

// Indexer is the bijection between subsets of an n-element component set and
// the dense ids [0, 2^n).
//
// masks[id] is the canonical subset (as a bitmask) for id; byMask[mask] is the
// inverse. Both have 2^n entries.
type Indexer struct {
	n      int
	masks  []uint64
	byMask []uint32
}

// New enumerates all 2^n subsets of {0..n-1} in canonical order.
//
// Implementation:
//   - Stage 1: validate n (ErrInvalidSize / ErrTooLarge).
//   - Stage 2: for every size k = 0..n walk the k-combinations in
//     lexicographic order (same order as itertools-style generators) and
//     assign consecutive ids.
//   - Stage 3: fill the reverse table.
//
// Complexity: O(n·2^n) time, O(2^n) memory.
func New(n int) (*Indexer, error) {
	if n < 1 {
		return nil, fmt.Errorf("New(%d): %w", n, ErrInvalidSize)
	}
	if n > MaxComponents {
		return nil, fmt.Errorf("New(%d): limit %d: %w", n, MaxComponents, ErrTooLarge)
	}

	total := 1 << uint(n)
	idx := &Indexer{
		n:      n,
		masks:  make([]uint64, 0, total),
		byMask: make([]uint32, total),
	}

	comb := make([]int, n)
	var k, i int
	for k = 0; k <= n; k++ {
		// first k-combination: 0,1,...,k-1
		for i = 0; i < k; i++ {
			comb[i] = i
		}
		for {
			idx.masks = append(idx.masks, Subset(comb[:k]).Mask())
			if !nextCombination(comb[:k], n) {
				break
			}
		}
	}

	var id int
	var m uint64
	for id, m = range idx.masks {
		idx.byMask[m] = uint32(id)
	}

	return idx, nil
}

// nextCombination advances c to the lexicographically next k-combination of
// {0..n-1} in place. It returns false when c was the last one.
func nextCombination(c []int, n int) bool {
	k := len(c)
	i := k - 1
	for i >= 0 && c[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	c[i]++
	for j := i + 1; j < k; j++ {
		c[j] = c[j-1] + 1
	}

	return true
}

// Components returns n.
func (x *Indexer) Components() int { return x.n }

// Len returns the number of states, 2^n.
func (x *Indexer) Len() int { return len(x.masks) }

// Full returns the id of the full subset (all components failed), 2^n-1.
func (x *Indexer) Full() int { return len(x.masks) - 1 }

// Subset returns a fresh copy of the canonical subset for id.
// Complexity: O(n).
func (x *Indexer) Subset(id int) (Subset, error) {
	m, err := x.Mask(id)
	if err != nil {
		return nil, err
	}

	return FromMask(m), nil
}

// Mask returns the bitmask form of the subset for id.
// Complexity: O(1).
func (x *Indexer) Mask(id int) (uint64, error) {
	if id < 0 || id >= len(x.masks) {
		return 0, fmt.Errorf("Mask(%d): %w", id, ErrUnknownID)
	}

	return x.masks[id], nil
}

// Size returns |subset(id)|, i.e. the number of failed components in that
// state. It returns -1 for an unknown id.
func (x *Indexer) Size(id int) int {
	if id < 0 || id >= len(x.masks) {
		return -1
	}

	return bits.OnesCount64(x.masks[id])
}

// ID returns the id of s. The subset must be sorted, duplicate-free and
// within [0, n).
// Complexity: O(|s|).
func (x *Indexer) ID(s Subset) (int, error) {
	if err := s.validate(x.n); err != nil {
		return 0, fmt.Errorf("ID(%v): %w", []int(s), err)
	}

	return int(x.byMask[s.Mask()]), nil
}

// IDOfMask returns the id of the subset given as a bitmask.
// Complexity: O(1).
func (x *Indexer) IDOfMask(mask uint64) (int, error) {
	if mask >= uint64(len(x.byMask)) {
		return 0, fmt.Errorf("IDOfMask(%#x): %w", mask, ErrBadSubset)
	}

	return int(x.byMask[mask]), nil
}

// Contains reports whether component j is part of the subset for id.
// Out-of-range arguments report false.
func (x *Indexer) Contains(id, j int) bool {
	if id < 0 || id >= len(x.masks) || j < 0 || j >= x.n {
		return false
	}

	return x.masks[id]&(1<<uint(j)) != 0
}

// Toggle returns the id of the state that differs from id only in component j:
// subset(id) ∪ {j} when j is absent, subset(id) \ {j} when it is present.
// Complexity: O(1).
func (x *Indexer) Toggle(id, j int) (int, error) {
	if id < 0 || id >= len(x.masks) {
		return 0, fmt.Errorf("Toggle(%d,%d): %w", id, j, ErrUnknownID)
	}
	if j < 0 || j >= x.n {
		return 0, fmt.Errorf("Toggle(%d,%d): %w", id, j, ErrComponentRange)
	}

	return int(x.byMask[x.masks[id]^(1<<uint(j))]), nil
}

// Offset returns the id of the first subset of size k, i.e. Σ_{i<k} C(n,i).
// It returns -1 when k is outside [0, n].
func (x *Indexer) Offset(k int) int {
	if k < 0 || k > x.n {
		return -1
	}
	off := 0
	for i := 0; i < k; i++ {
		off += Binomial(x.n, i)
	}

	return off
}
