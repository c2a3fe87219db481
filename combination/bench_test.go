package combination_test

import (
	"testing"

	"github.com/katalvlaran/ctmc/combination"
)

// BenchmarkNew_16 measures enumeration of the 65536-state table.
func BenchmarkNew_16(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := combination.New(16); err != nil {
			b.Fatalf("New failed: %v", err)
		}
	}
}

// BenchmarkToggle measures the O(1) neighbour lookup.
func BenchmarkToggle(b *testing.B) {
	idx, err := combination.New(16)
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = idx.Toggle(i&(idx.Len()-1), i%16)
	}
}
