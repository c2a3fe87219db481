package bfs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/katalvlaran/ctmc/bfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adjList is a minimal bfs.Graph used across tests.
type adjList [][]int

func (a adjList) Order() int             { return len(a) }
func (a adjList) Neighbors(id int) []int { return a[id] }

// square is the directed 4-cycle 0→1→3→2→0 plus a shortcut 0→2.
var square = adjList{
	0: {1, 2},
	1: {3},
	2: {0},
	3: {2},
}

// TestBFS_NilAndStart verifies argument validation.
func TestBFS_NilAndStart(t *testing.T) {
	_, err := bfs.BFS(nil, 0)
	assert.ErrorIs(t, err, bfs.ErrGraphNil)

	_, err = bfs.BFS(square, 4)
	assert.ErrorIs(t, err, bfs.ErrStartOutOfRange)

	_, err = bfs.BFS(square, -1)
	assert.ErrorIs(t, err, bfs.ErrStartOutOfRange)
}

// TestBFS_OrderDepthParent checks the visit sequence and the BFS tree.
func TestBFS_OrderDepthParent(t *testing.T) {
	res, err := bfs.BFS(square, 0)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3}, res.Order)
	assert.Equal(t, []int{0, 1, 1, 2}, res.Depth)
	assert.Equal(t, []int{-1, 0, 0, 1}, res.Parent)

	path, err := res.PathTo(3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3}, path)
}

// TestBFS_Unreachable verifies that vertices without an inbound path stay at -1.
func TestBFS_Unreachable(t *testing.T) {
	g := adjList{{1}, {}, {0}}
	res, err := bfs.BFS(g, 0)
	require.NoError(t, err)

	assert.True(t, res.Reached(1))
	assert.False(t, res.Reached(2))
	_, err = res.PathTo(2)
	assert.Error(t, err)
}

// TestBFS_MaxDepth limits exploration to depth 1.
func TestBFS_MaxDepth(t *testing.T) {
	res, err := bfs.BFS(square, 0, bfs.WithMaxDepth(1))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, res.Order)
	assert.False(t, res.Reached(3))

	_, err = bfs.BFS(square, 0, bfs.WithMaxDepth(-1))
	assert.ErrorIs(t, err, bfs.ErrOptionViolation)
}

// TestBFS_Filter skips the 0→1 edge, forcing 3 to be unreachable.
func TestBFS_Filter(t *testing.T) {
	res, err := bfs.BFS(square, 0, bfs.WithFilterNeighbor(func(curr, nbr int) bool {
		return !(curr == 0 && nbr == 1)
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, res.Order)
}

// TestBFS_OnVisitError aborts the traversal from the hook.
func TestBFS_OnVisitError(t *testing.T) {
	stop := errors.New("stop")
	_, err := bfs.BFS(square, 0, bfs.WithOnVisit(func(id, _ int) error {
		if id == 2 {
			return stop
		}

		return nil
	}))
	assert.ErrorIs(t, err, stop)
}

// TestBFS_Cancelled returns the context error.
func TestBFS_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := bfs.BFS(square, 0, bfs.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

// TestBFS_BadNeighbor surfaces malformed adjacency.
func TestBFS_BadNeighbor(t *testing.T) {
	_, err := bfs.BFS(adjList{{5}}, 0)
	assert.ErrorIs(t, err, bfs.ErrNeighborOutOfRange)
}
