package ode_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/ctmc/ode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decay(rate float64) ode.Func {
	return func(_ float64, y, dydt []float64) {
		for i := range y {
			dydt[i] = -rate * y[i]
		}
	}
}

// oscillator: y0' = y1, y1' = -y0; y(t) = (cos t, -sin t) from (1, 0).
func oscillator(_ float64, y, dydt []float64) {
	dydt[0] = y[1]
	dydt[1] = -y[0]
}

func TestIntegrateExponentialDecay(t *testing.T) {
	times, err := ode.Linspace(0, 2, 21)
	require.NoError(t, err)

	sol, err := ode.Integrate(context.Background(), decay(1.5), []float64{1, 2}, times, ode.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 21, sol.Y.Rows())
	require.Equal(t, 2, sol.Y.Cols())
	require.Equal(t, times, sol.T)

	for i, tt := range times {
		a, _ := sol.Y.At(i, 0)
		b, _ := sol.Y.At(i, 1)
		assert.InDelta(t, math.Exp(-1.5*tt), a, 1e-7, "t=%g", tt)
		assert.InDelta(t, 2*math.Exp(-1.5*tt), b, 2e-7, "t=%g", tt)
	}
	assert.Positive(t, sol.Stats.Accepted)
	assert.GreaterOrEqual(t, sol.Stats.Evaluations, 6*sol.Stats.Accepted)
}

func TestIntegrateOscillatorLongHorizon(t *testing.T) {
	times := []float64{0, 1, 5, 10, 20}
	sol, err := ode.Integrate(context.Background(), oscillator, []float64{1, 0}, times, ode.DefaultOptions())
	require.NoError(t, err)

	for i, tt := range times {
		a, _ := sol.Y.At(i, 0)
		b, _ := sol.Y.At(i, 1)
		assert.InDelta(t, math.Cos(tt), a, 1e-6, "t=%g", tt)
		assert.InDelta(t, -math.Sin(tt), b, 1e-6, "t=%g", tt)
	}
}

func TestIntegrateConservesLinearInvariant(t *testing.T) {
	// two-state exchange: total mass is a linear invariant
	f := func(_ float64, y, dydt []float64) {
		flow := 3*y[0] - 0.5*y[1]
		dydt[0] = -flow
		dydt[1] = flow
	}
	times, _ := ode.Linspace(0, 10, 100)
	sol, err := ode.Integrate(context.Background(), f, []float64{1, 0}, times, ode.DefaultOptions())
	require.NoError(t, err)
	for i, s := range sol.Y.RowSums() {
		assert.InDelta(t, 1.0, s, 1e-12, "row %d", i)
	}
}

func TestIntegrateSingleSample(t *testing.T) {
	calls := 0
	f := func(_ float64, _, dydt []float64) { calls++; dydt[0] = 1 }
	sol, err := ode.Integrate(context.Background(), f, []float64{0.25}, []float64{3}, ode.DefaultOptions())
	require.NoError(t, err)
	v, _ := sol.Y.At(0, 0)
	assert.Equal(t, 0.25, v)
	assert.Zero(t, calls)
}

func TestIntegrateValidation(t *testing.T) {
	ctx := context.Background()
	opts := ode.DefaultOptions()
	f := decay(1)

	cases := []struct {
		name  string
		f     ode.Func
		y0    []float64
		times []float64
		opts  ode.Options
		want  error
	}{
		{"nil func", nil, []float64{1}, []float64{0, 1}, opts, ode.ErrBadInitial},
		{"empty y0", f, nil, []float64{0, 1}, opts, ode.ErrBadInitial},
		{"nan y0", f, []float64{math.NaN()}, []float64{0, 1}, opts, ode.ErrBadInitial},
		{"empty grid", f, []float64{1}, nil, opts, ode.ErrBadTimeGrid},
		{"decreasing grid", f, []float64{1}, []float64{0, 2, 1}, opts, ode.ErrBadTimeGrid},
		{"repeated time", f, []float64{1}, []float64{0, 1, 1}, opts, ode.ErrBadTimeGrid},
		{"inf time", f, []float64{1}, []float64{0, math.Inf(1)}, opts, ode.ErrBadTimeGrid},
		{"zero rtol", f, []float64{1}, []float64{0, 1}, ode.Options{AbsTol: 1, MaxSteps: 10}, ode.ErrBadOptions},
		{"negative atol", f, []float64{1}, []float64{0, 1}, ode.Options{RelTol: 1, AbsTol: -1, MaxSteps: 10}, ode.ErrBadOptions},
		{"no step budget", f, []float64{1}, []float64{0, 1}, ode.Options{RelTol: 1e-6}, ode.ErrBadOptions},
		{"max below min", f, []float64{1}, []float64{0, 1}, ode.Options{RelTol: 1e-6, MinStep: 1, MaxStep: 0.5, MaxSteps: 10}, ode.ErrBadOptions},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ode.Integrate(ctx, tc.f, tc.y0, tc.times, tc.opts)
			require.ErrorIs(t, err, tc.want)
			var ie *ode.IntegrationError
			assert.False(t, errors.As(err, &ie), "validation errors are not integration errors")
		})
	}
}

func TestIntegrateFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("step too small", func(t *testing.T) {
		opts := ode.DefaultOptions()
		opts.InitialStep = 0.1
		opts.MinStep = 0.1
		_, err := ode.Integrate(ctx, decay(1e6), []float64{1}, []float64{0, 1}, opts)
		require.ErrorIs(t, err, ode.ErrStepTooSmall)
		var ie *ode.IntegrationError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, 0.0, ie.Time)
	})

	t.Run("max steps", func(t *testing.T) {
		opts := ode.DefaultOptions()
		opts.MaxSteps = 1
		opts.MaxStep = 0.5
		_, err := ode.Integrate(ctx, decay(1), []float64{1}, []float64{0, 10}, opts)
		require.ErrorIs(t, err, ode.ErrMaxSteps)
	})

	t.Run("non-finite derivative", func(t *testing.T) {
		f := func(tt float64, _, dydt []float64) {
			dydt[0] = 1
			if tt > 0.5 {
				dydt[0] = math.NaN()
			}
		}
		_, err := ode.Integrate(ctx, f, []float64{0}, []float64{0, 1}, ode.DefaultOptions())
		require.ErrorIs(t, err, ode.ErrNonFinite)
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := ode.Integrate(cctx, decay(1), []float64{1}, []float64{0, 1}, ode.DefaultOptions())
		require.ErrorIs(t, err, context.Canceled)
		var ie *ode.IntegrationError
		require.ErrorAs(t, err, &ie)
		assert.Zero(t, ie.Step)
	})
}

func TestMaxStepIsHonoured(t *testing.T) {
	opts := ode.DefaultOptions()
	opts.MaxStep = 0.01
	sol, err := ode.Integrate(context.Background(), decay(0), []float64{1}, []float64{0, 1}, opts)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sol.Stats.Accepted, 100)
}

func TestLinspace(t *testing.T) {
	got, err := ode.Linspace(0, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2.5, 5, 7.5, 10}, got)

	got, err = ode.Linspace(3, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, got)

	_, err = ode.Linspace(0, 10, 0)
	require.ErrorIs(t, err, ode.ErrBadTimeGrid)
	_, err = ode.Linspace(1, 0, 3)
	require.ErrorIs(t, err, ode.ErrBadTimeGrid)
	_, err = ode.Linspace(0, math.NaN(), 3)
	require.ErrorIs(t, err, ode.ErrBadTimeGrid)
}
