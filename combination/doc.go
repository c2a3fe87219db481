// SPDX-License-Identifier: MIT

// Package combination enumerates every subset of an n-element component set
// and assigns each one a dense integer id in canonical order.
//
// 🚀 What is the canonical order?
//
//	Subsets are ordered by size ascending, then lexicographically by their
//	sorted elements inside each size class. For n = 3:
//
//	  id: 0   1    2    3    4      5      6      7
//	      {}  {0}  {1}  {2}  {0,1}  {0,2}  {1,2}  {0,1,2}
//
//	so id 0 is always the empty subset ("all components up") and the last id,
//	2^n-1, is always the full subset ("all components down").
//
// ✨ Key features:
//   - Indexer keeps an arena of canonical subsets (as bitmasks) indexed by id
//     and a dense reverse table indexed by bitmask: O(1) in both directions.
//   - Rank computes the same id from the combinatorial number system without
//     any table, which is handy for spot checks and for callers that do not
//     want to materialize 2^n entries.
//   - Toggle returns the neighbour id with one component flipped; it is the
//     primitive the transition graph is built from.
//
// ⚙️ Usage:
//
//	idx, err := combination.New(3)
//	if err != nil {
//	    // ErrInvalidSize or ErrTooLarge
//	}
//	id, _ := idx.ID(combination.Subset{0, 2}) // 5
//	s, _ := idx.Subset(6)                     // [1 2]
//
// Resource bound:
//
//	State count is 2^n. The Indexer stores 12 bytes per state, so n = 20
//	costs ~12 MiB and the hard ceiling MaxComponents = 24 costs ~200 MiB.
//	This is an inherent property of the full state space, not something the
//	package tries to work around; callers should enforce a lower limit.
package combination
