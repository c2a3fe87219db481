package transition_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/katalvlaran/ctmc/combination"
	"github.com/katalvlaran/ctmc/transition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildErrors(t *testing.T) {
	_, err := transition.Build(nil)
	require.ErrorIs(t, err, transition.ErrNilIndexer)

	_, err = transition.New(0)
	require.ErrorIs(t, err, combination.ErrInvalidSize)
	_, err = transition.New(combination.MaxComponents + 1)
	require.ErrorIs(t, err, combination.ErrTooLarge)
}

func TestSingleComponent(t *testing.T) {
	g, err := transition.New(1)
	require.NoError(t, err)

	require.Equal(t, 2, g.Order())
	require.Equal(t, 2, g.Size())
	assert.Equal(t, []transition.Arc{{To: 1, Component: 0, Kind: transition.Failure}}, g.Out(0))
	assert.Equal(t, []transition.Arc{{To: 0, Component: 0, Kind: transition.Repair}}, g.Out(1))
	assert.Equal(t, []transition.Edge{
		{From: 0, To: 1, Component: 0, Kind: transition.Failure},
		{From: 1, To: 0, Component: 0, Kind: transition.Repair},
	}, g.Edges())
}

func TestTwoComponentsEdges(t *testing.T) {
	g, err := transition.New(2)
	require.NoError(t, err)

	// ids: 0={} 1={0} 2={1} 3={0,1}
	want := []struct {
		from  int
		to    int
		label string
	}{
		{0, 1, "λ_1"}, {0, 2, "λ_2"},
		{1, 0, "μ_1"}, {1, 3, "λ_2"},
		{2, 3, "λ_1"}, {2, 0, "μ_2"},
		{3, 2, "μ_1"}, {3, 1, "μ_2"},
	}
	edges := g.Edges()
	require.Len(t, edges, len(want))
	for i, w := range want {
		assert.Equal(t, w.from, edges[i].From, "edge %d", i)
		assert.Equal(t, w.to, edges[i].To, "edge %d", i)
		assert.Equal(t, w.label, edges[i].Label(), "edge %d", i)
	}
}

// TestCubeInvariants checks the structural contract for several n.
func TestCubeInvariants(t *testing.T) {
	for n := 1; n <= 6; n++ {
		g, err := transition.New(n)
		require.NoError(t, err)
		idx := g.Indexer()
		require.Equal(t, 1<<uint(n), g.Order())
		require.Equal(t, n*(1<<uint(n)), g.Size())

		for id := 0; id < g.Order(); id++ {
			out := g.Out(id)
			require.Len(t, out, n)
			src, _ := idx.Subset(id)
			for j, a := range out {
				require.Equal(t, j, a.Component)
				dst, _ := idx.Subset(a.To)
				if src.Contains(j) {
					require.Equal(t, transition.Repair, a.Kind)
					require.Equal(t, len(src)-1, len(dst))
					require.False(t, dst.Contains(j))
				} else {
					require.Equal(t, transition.Failure, a.Kind)
					require.Equal(t, len(src)+1, len(dst))
					require.True(t, dst.Contains(j))
				}
				require.Equal(t, a.To, g.Neighbors(id)[j])
			}
		}

		ok, err := g.Connected(context.Background())
		require.NoError(t, err)
		require.True(t, ok, "n=%d", n)

		levels, err := g.Levels(context.Background())
		require.NoError(t, err)
		for id, d := range levels {
			require.Equal(t, idx.Size(id), d, "n=%d id=%d", n, id)
		}
	}
}

func TestOutUnknownID(t *testing.T) {
	g, err := transition.New(2)
	require.NoError(t, err)
	assert.Nil(t, g.Out(-1))
	assert.Nil(t, g.Out(4))
	assert.Nil(t, g.Neighbors(4))
	_, err = g.Subset(9)
	require.ErrorIs(t, err, transition.ErrUnknownState)
}

func TestConnectedCanceled(t *testing.T) {
	g, err := transition.New(3)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Connected(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExportLabelsToggle(t *testing.T) {
	g, err := transition.New(2)
	require.NoError(t, err)

	plain := transition.Export(g)
	for _, e := range plain.Edges {
		assert.Empty(t, e.Label)
	}
	labelled := transition.Export(g, transition.WithEdgeLabels(true))
	assert.Equal(t, "λ_1", labelled.Edges[0].Label)
	assert.Equal(t, "μ_1", labelled.Edges[2].Label)
	assert.Equal(t, 4, labelled.States)
	assert.Equal(t, 2, labelled.Nodes[3].Level)

	raw, err := json.Marshal(labelled.Edges[2])
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":1,"to":0,"component":0,"kind":"repair","label":"μ_1"}`, string(raw))

	raw, err = json.Marshal(plain.Nodes[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":0,"name":"0","failed":[],"level":0}`, string(raw))
}

func TestDOTAndMermaid(t *testing.T) {
	g, err := transition.New(2)
	require.NoError(t, err)

	dot := transition.DOT(g, transition.WithEdgeLabels(true), transition.WithStateNames(transition.SubsetNames))
	assert.True(t, strings.HasPrefix(dot, "digraph ctmc {\n"))
	assert.Contains(t, dot, `3 [label="{0,1}"];`)
	assert.Contains(t, dot, "{ rank=same; 1; 2; }")
	assert.Contains(t, dot, `0 -> 1 [label="λ_1"];`)
	assert.Equal(t, 8, strings.Count(dot, "->"))

	mm := transition.Mermaid(g)
	assert.True(t, strings.HasPrefix(mm, "stateDiagram-v2\n  [*] --> s0\n"))
	assert.Contains(t, mm, "  s3 --> s1\n")
	assert.NotContains(t, mm, "μ")
}

func TestGraphViewRoundTrip(t *testing.T) {
	g, err := transition.New(2)
	require.NoError(t, err)
	view := transition.Export(g, transition.WithEdgeLabels(true))

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	var back transition.GraphView
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, view.Edges, back.Edges)

	var k transition.Kind
	require.ErrorIs(t, k.UnmarshalText([]byte("explode")), transition.ErrUnknownKind)
}

func TestFailurePath(t *testing.T) {
	g, err := transition.New(3)
	require.NoError(t, err)
	ctx := context.Background()

	path, err := g.FailurePath(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, path)

	last := g.Order() - 1
	path, err = g.FailurePath(ctx, last)
	require.NoError(t, err)
	require.Len(t, path, 4)
	assert.Equal(t, 0, path[0])
	assert.Equal(t, last, path[3])

	levels, err := g.Levels(ctx)
	require.NoError(t, err)
	for i := 1; i < len(path); i++ {
		assert.Equal(t, levels[path[i-1]]+1, levels[path[i]], "each hop fails one more component")
	}

	_, err = g.FailurePath(ctx, last+1)
	require.ErrorIs(t, err, transition.ErrUnknownState)
}

func TestExportLevelsFromTraversal(t *testing.T) {
	g, err := transition.New(4)
	require.NoError(t, err)
	levels, err := g.Levels(context.Background())
	require.NoError(t, err)

	v := transition.Export(g)
	for id, node := range v.Nodes {
		assert.Equal(t, levels[id], node.Level, "state %d", id)
		assert.Len(t, node.Failed, node.Level, "state %d", id)
	}
}
