package bfs_test

import (
	"testing"

	"github.com/katalvlaran/ctmc/bfs"
)

// hypercube builds the n-cube as an adjacency list over bitmask ids.
func hypercube(n int) adjList {
	g := make(adjList, 1<<uint(n))
	for v := range g {
		for j := 0; j < n; j++ {
			g[v] = append(g[v], v^(1<<uint(j)))
		}
	}

	return g
}

// BenchmarkBFS_Cube14 walks the 16384-vertex hypercube.
func BenchmarkBFS_Cube14(b *testing.B) {
	g := hypercube(14)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := bfs.BFS(g, 0); err != nil {
			b.Fatalf("BFS failed: %v", err)
		}
	}
}
