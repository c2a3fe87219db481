// SPDX-License-Identifier: MIT

package combination

import "fmt"

// Binomial returns C(n, k), or 0 when k is outside [0, n].
// Exact for every n <= MaxComponents.
func Binomial(n, k int) int {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	r := 1
	for i := 1; i <= k; i++ {
		r = r * (n - k + i) / i
	}

	return r
}

// Rank computes the canonical id of s among the subsets of {0..n-1} without
// building any table. It agrees with Indexer.ID for every valid subset.
//
// The id is the number of smaller subsets (Σ_{i<k} C(n,i)) plus the
// lexicographic rank of s among the k-subsets, which the combinatorial number
// system gives as
//
//	Σ_i Σ_{c_{i-1} < v < c_i} C(n-1-v, k-1-i)    with c_{-1} = -1.
//
// Complexity: O(n) time, O(1) memory.
func Rank(n int, s Subset) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("Rank(%d): %w", n, ErrInvalidSize)
	}
	if n > MaxComponents {
		return 0, fmt.Errorf("Rank(%d): %w", n, ErrTooLarge)
	}
	if err := s.validate(n); err != nil {
		return 0, fmt.Errorf("Rank(%d,%v): %w", n, []int(s), err)
	}

	k := len(s)
	id := 0
	for i := 0; i < k; i++ {
		id += Binomial(n, i)
	}
	prev := -1
	var v int
	for i, c := range s {
		for v = prev + 1; v < c; v++ {
			id += Binomial(n-1-v, k-1-i)
		}
		prev = c
	}

	return id, nil
}
