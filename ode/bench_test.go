package ode_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/ctmc/ode"
)

// BenchmarkIntegrateChain integrates a 64-state birth–death chain over 100 samples.
func BenchmarkIntegrateChain(b *testing.B) {
	const n = 64
	f := func(_ float64, y, dydt []float64) {
		for i := range dydt {
			dydt[i] = 0
		}
		for i := 0; i < n-1; i++ {
			up, down := 0.7*y[i], 0.4*y[i+1]
			dydt[i] += down - up
			dydt[i+1] += up - down
		}
	}
	y0 := make([]float64, n)
	y0[0] = 1
	times, _ := ode.Linspace(0, 10, 100)
	opts := ode.DefaultOptions()
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ode.Integrate(ctx, f, y0, times, opts); err != nil {
			b.Fatal(err)
		}
	}
}
