package combination_test

import (
	"testing"

	"github.com/katalvlaran/ctmc/combination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lexLess reports whether a precedes b in the canonical order:
// size first, then element-wise lexicographic.
func lexLess(a, b combination.Subset) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}

	return false
}

// TestNew_InvalidSize verifies that non-positive component counts are rejected.
func TestNew_InvalidSize(t *testing.T) {
	for _, n := range []int{0, -1, -64} {
		_, err := combination.New(n)
		assert.ErrorIs(t, err, combination.ErrInvalidSize, "n=%d", n)
	}
}

// TestNew_TooLarge verifies the hard ceiling.
func TestNew_TooLarge(t *testing.T) {
	_, err := combination.New(combination.MaxComponents + 1)
	assert.ErrorIs(t, err, combination.ErrTooLarge)
}

// TestIndexer_Bijection checks count, round trips and the fixed endpoints for
// every n up to 10.
func TestIndexer_Bijection(t *testing.T) {
	for n := 1; n <= 10; n++ {
		idx, err := combination.New(n)
		require.NoError(t, err)
		require.Equal(t, 1<<uint(n), idx.Len(), "n=%d: state count", n)
		require.Equal(t, n, idx.Components())

		seen := make(map[uint64]bool, idx.Len())
		for id := 0; id < idx.Len(); id++ {
			s, err := idx.Subset(id)
			require.NoError(t, err)
			m, err := idx.Mask(id)
			require.NoError(t, err)
			require.False(t, seen[m], "n=%d: mask %#x assigned twice", n, m)
			seen[m] = true

			back, err := idx.ID(s)
			require.NoError(t, err)
			require.Equal(t, id, back, "n=%d: round trip of %v", n, s)

			byMask, err := idx.IDOfMask(m)
			require.NoError(t, err)
			require.Equal(t, id, byMask)
			require.Equal(t, len(s), idx.Size(id))
		}

		empty, err := idx.ID(combination.Subset{})
		require.NoError(t, err)
		assert.Equal(t, 0, empty, "n=%d: empty subset must be id 0", n)

		full := make(combination.Subset, n)
		for j := range full {
			full[j] = j
		}
		last, err := idx.ID(full)
		require.NoError(t, err)
		assert.Equal(t, idx.Len()-1, last, "n=%d: full subset must be the last id", n)
		assert.Equal(t, idx.Full(), last)
	}
}

// TestIndexer_CanonicalOrder checks that consecutive ids are strictly
// increasing in (size, lexicographic) order.
func TestIndexer_CanonicalOrder(t *testing.T) {
	idx, err := combination.New(6)
	require.NoError(t, err)

	prev, err := idx.Subset(0)
	require.NoError(t, err)
	for id := 1; id < idx.Len(); id++ {
		cur, err := idx.Subset(id)
		require.NoError(t, err)
		assert.True(t, lexLess(prev, cur), "id %d: %v must follow %v", id, cur, prev)
		prev = cur
	}
}

// TestIndexer_KnownOrderN3 pins the full table for n=3.
func TestIndexer_KnownOrderN3(t *testing.T) {
	idx, err := combination.New(3)
	require.NoError(t, err)

	want := []string{"{}", "{0}", "{1}", "{2}", "{0,1}", "{0,2}", "{1,2}", "{0,1,2}"}
	for id, w := range want {
		s, err := idx.Subset(id)
		require.NoError(t, err)
		assert.Equal(t, w, s.String(), "id %d", id)
	}
}

// TestIndexer_Offset checks size-class offsets against the binomial sums.
func TestIndexer_Offset(t *testing.T) {
	idx, err := combination.New(5)
	require.NoError(t, err)

	assert.Equal(t, 0, idx.Offset(0))
	assert.Equal(t, 1, idx.Offset(1))
	assert.Equal(t, 6, idx.Offset(2))
	assert.Equal(t, 16, idx.Offset(3))
	assert.Equal(t, 31, idx.Offset(5))
	assert.Equal(t, -1, idx.Offset(6))
	for k := 0; k <= 5; k++ {
		s, err := idx.Subset(idx.Offset(k))
		require.NoError(t, err)
		assert.Len(t, s, k, "first id of size class %d", k)
	}
}

// TestIndexer_Toggle verifies that Toggle flips exactly one component and is
// its own inverse.
func TestIndexer_Toggle(t *testing.T) {
	idx, err := combination.New(4)
	require.NoError(t, err)

	for id := 0; id < idx.Len(); id++ {
		for j := 0; j < 4; j++ {
			nb, err := idx.Toggle(id, j)
			require.NoError(t, err)
			assert.NotEqual(t, idx.Contains(id, j), idx.Contains(nb, j))

			m1, _ := idx.Mask(id)
			m2, _ := idx.Mask(nb)
			assert.Equal(t, uint64(1)<<uint(j), m1^m2)

			back, err := idx.Toggle(nb, j)
			require.NoError(t, err)
			assert.Equal(t, id, back)
		}
	}

	_, err = idx.Toggle(-1, 0)
	assert.ErrorIs(t, err, combination.ErrUnknownID)
	_, err = idx.Toggle(0, 4)
	assert.ErrorIs(t, err, combination.ErrComponentRange)
}

// TestIndexer_BadLookups covers malformed subsets and ids.
func TestIndexer_BadLookups(t *testing.T) {
	idx, err := combination.New(3)
	require.NoError(t, err)

	for _, s := range []combination.Subset{{2, 1}, {0, 0}, {3}, {-1}} {
		_, err := idx.ID(s)
		assert.ErrorIs(t, err, combination.ErrBadSubset, "subset %v", []int(s))
	}
	_, err = idx.Subset(8)
	assert.ErrorIs(t, err, combination.ErrUnknownID)
	_, err = idx.Mask(-1)
	assert.ErrorIs(t, err, combination.ErrUnknownID)
	_, err = idx.IDOfMask(8)
	assert.ErrorIs(t, err, combination.ErrBadSubset)
	assert.Equal(t, -1, idx.Size(99))
	assert.False(t, idx.Contains(99, 0))
}

// TestRank_AgreesWithIndexer compares the table-free rank to the tables.
func TestRank_AgreesWithIndexer(t *testing.T) {
	for n := 1; n <= 9; n++ {
		idx, err := combination.New(n)
		require.NoError(t, err)
		for id := 0; id < idx.Len(); id++ {
			s, _ := idx.Subset(id)
			r, err := combination.Rank(n, s)
			require.NoError(t, err)
			require.Equal(t, id, r, "n=%d subset %v", n, s)
		}
	}

	_, err := combination.Rank(0, nil)
	assert.ErrorIs(t, err, combination.ErrInvalidSize)
	_, err = combination.Rank(3, combination.Subset{1, 1})
	assert.ErrorIs(t, err, combination.ErrBadSubset)
}

// TestBinomial covers symmetric and out-of-range arguments.
func TestBinomial(t *testing.T) {
	assert.Equal(t, 1, combination.Binomial(0, 0))
	assert.Equal(t, 10, combination.Binomial(5, 2))
	assert.Equal(t, 10, combination.Binomial(5, 3))
	assert.Equal(t, 2704156, combination.Binomial(24, 12))
	assert.Equal(t, 0, combination.Binomial(3, 4))
	assert.Equal(t, 0, combination.Binomial(3, -1))
}

// TestSubset_Helpers covers Mask/FromMask/Contains/String.
func TestSubset_Helpers(t *testing.T) {
	s := combination.Subset{0, 2, 5}
	assert.Equal(t, uint64(0b100101), s.Mask())
	assert.Equal(t, s, combination.FromMask(s.Mask()))
	assert.True(t, s.Contains(2))
	assert.False(t, s.Contains(3))
	assert.Equal(t, "{0,2,5}", s.String())
	assert.Equal(t, "{}", combination.Subset{}.String())
}
