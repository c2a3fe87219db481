package ode_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/ctmc/ode"
)

// ExampleIntegrate samples y' = -y on a five-point grid.
func ExampleIntegrate() {
	times, _ := ode.Linspace(0, 2, 5)
	f := func(_ float64, y, dydt []float64) { dydt[0] = -y[0] }

	sol, err := ode.Integrate(context.Background(), f, []float64{1}, times, ode.DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}
	col, _ := sol.Y.Col(0)
	for i, t := range sol.T {
		fmt.Printf("t=%.1f y=%.6f\n", t, col[i])
	}
	// Output:
	// t=0.0 y=1.000000
	// t=0.5 y=0.606531
	// t=1.0 y=0.367879
	// t=1.5 y=0.223130
	// t=2.0 y=0.135335
}
