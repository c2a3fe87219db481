// SPDX-License-Identifier: MIT

package scenario_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ctmc/internal/scenario"
	"github.com/katalvlaran/ctmc/reliability"
)

const twoPumps = `
name: two pumps
components: 2
lambda: [1, 1]
mu: [0.5, 0.5]
horizon: 5
points: 50
show_count: 3
show_labels: true
`

func TestParse(t *testing.T) {
	s, err := scenario.Parse(strings.NewReader(twoPumps))
	require.NoError(t, err)

	assert.Equal(t, "two pumps", s.Name)
	assert.Equal(t, reliability.Request{
		Components: 2,
		Lambda:     []float64{1, 1},
		Mu:         []float64{0.5, 0.5},
		Horizon:    5,
		Points:     50,
		ShowCount:  3,
		ShowLabels: true,
	}, s.Request)
}

func TestParseErrors(t *testing.T) {
	_, err := scenario.Parse(strings.NewReader(""))
	require.ErrorIs(t, err, scenario.ErrEmpty)

	_, err = scenario.Parse(strings.NewReader("components: 2\nlamda: [1, 1]\n"))
	require.Error(t, err, "unknown keys are rejected")

	_, err = scenario.Parse(strings.NewReader("components: two\n"))
	require.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "s.yaml")
	in := &scenario.Scenario{Name: "single", Request: reliability.Request{Components: 1, Lambda: []float64{0.5}, Mu: []float64{0.3}}}
	require.NoError(t, scenario.Save(p, in))

	out, err := scenario.Load(p)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = scenario.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatch(t *testing.T) {
	p := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(p, []byte(twoPumps), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *scenario.Scenario, 4)
	done := make(chan error, 1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	go func() {
		done <- scenario.Watch(ctx, p, logger, func(s *scenario.Scenario) { got <- s })
	}()

	// give the watcher time to register before the first write
	time.Sleep(100 * time.Millisecond)
	updated := strings.Replace(twoPumps, "horizon: 5", "horizon: 7", 1)
	require.NoError(t, os.WriteFile(p, []byte(updated), 0o600))

	select {
	case s := <-got:
		assert.Equal(t, 7.0, s.Horizon)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchMissingFile(t *testing.T) {
	err := scenario.Watch(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), nil, func(*scenario.Scenario) {})
	require.Error(t, err)
}
