// SPDX-License-Identifier: MIT

package combination

import (
	"math/bits"
	"strconv"
	"strings"
)

// MaxComponents is the hard ceiling on n. Higher-level callers are expected to
// configure a much lower practical limit.
const MaxComponents = 24

// Subset is a sorted, duplicate-free list of component indices.
// In the reliability model it is the set of currently failed components.
type Subset []int

// Mask returns the bitmask form of s (bit j set iff j ∈ s).
// The subset is not validated; see Indexer.ID for the checked path.
func (s Subset) Mask() uint64 {
	var m uint64
	for _, j := range s {
		m |= 1 << uint(j)
	}

	return m
}

// Contains reports whether component j is in s.
func (s Subset) Contains(j int) bool {
	for _, v := range s {
		if v == j {
			return true
		}
		if v > j {
			return false
		}
	}

	return false
}

// String renders s as "{0,2}", and the empty subset as "{}".
func (s Subset) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, v := range s {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	sb.WriteByte('}')

	return sb.String()
}

// FromMask expands a bitmask into its sorted Subset.
// Complexity: O(n) for n = bit length of mask.
func FromMask(mask uint64) Subset {
	s := make(Subset, 0, bits.OnesCount64(mask))
	for j := 0; mask != 0; j++ {
		if mask&1 == 1 {
			s = append(s, j)
		}
		mask >>= 1
	}

	return s
}

// validate checks that s is strictly increasing and inside [0, n).
func (s Subset) validate(n int) error {
	prev := -1
	for _, v := range s {
		if v < 0 || v >= n || v <= prev {
			return ErrBadSubset
		}
		prev = v
	}

	return nil
}
