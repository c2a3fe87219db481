// SPDX-License-Identifier: MIT

package reliability

import (
	"fmt"
	"math"

	"github.com/katalvlaran/ctmc/kolmogorov"
)

// Request is one solve of the repairable-system model.
// Zero Horizon and Points take the engine defaults; ShowCount 0 puts every
// state on a single chart.
type Request struct {
	Components int       `json:"components" yaml:"components"`
	Lambda     []float64 `json:"lambda" yaml:"lambda"`
	Mu         []float64 `json:"mu" yaml:"mu"`
	Horizon    float64   `json:"horizon,omitempty" yaml:"horizon,omitempty"`
	Points     int       `json:"points,omitempty" yaml:"points,omitempty"`
	ShowCount  int       `json:"show_count,omitempty" yaml:"show_count,omitempty"`
	ShowLabels bool      `json:"show_labels,omitempty" yaml:"show_labels,omitempty"`
	// RepairMode overrides the engine default when non-empty.
	RepairMode string `json:"repair_mode,omitempty" yaml:"repair_mode,omitempty"`
}

// plan is a validated request with defaults applied.
type plan struct {
	n         int
	rates     kolmogorov.Rates
	horizon   float64
	points    int
	batchSize int
	labels    bool
	mode      kolmogorov.RepairMode
}

// prepare validates r against cfg without allocating any state space.
// Order: components, rates, horizon, points, show_count, repair mode.
func (r Request) prepare(cfg Config) (plan, error) {
	p := plan{n: r.Components, horizon: r.Horizon, points: r.Points, labels: r.ShowLabels, mode: cfg.RepairMode}

	if p.n < 1 {
		return p, invalid(ParamComponents, fmt.Errorf("got %d, want >= 1", p.n))
	}
	if p.n > cfg.MaxComponents {
		return p, exhausted(ParamComponents, fmt.Errorf("got %d, limit %d", p.n, cfg.MaxComponents))
	}

	p.rates = kolmogorov.Rates{Failure: r.Lambda, Repair: r.Mu}
	if err := p.rates.Validate(p.n); err != nil {
		return p, classify(err)
	}

	if p.horizon == 0 {
		p.horizon = cfg.DefaultHorizon
	}
	if math.IsNaN(p.horizon) || math.IsInf(p.horizon, 0) || p.horizon <= 0 {
		return p, invalid(ParamHorizon, fmt.Errorf("got %g, want finite > 0", r.Horizon))
	}

	if p.points == 0 {
		p.points = cfg.DefaultPoints
	}
	if p.points < 1 {
		return p, invalid(ParamPoints, fmt.Errorf("got %d, want >= 1", r.Points))
	}
	if p.points > cfg.MaxPoints {
		return p, exhausted(ParamPoints, fmt.Errorf("got %d, limit %d", p.points, cfg.MaxPoints))
	}

	states := 1 << uint(p.n)
	switch {
	case r.ShowCount < 0:
		return p, invalid(ParamShowCount, fmt.Errorf("got %d, want >= 0", r.ShowCount))
	case r.ShowCount == 0 || r.ShowCount > states:
		p.batchSize = states
	default:
		p.batchSize = r.ShowCount
	}

	if r.RepairMode != "" {
		m, err := kolmogorov.ParseRepairMode(r.RepairMode)
		if err != nil {
			return p, invalid(ParamRepairMode, err)
		}
		p.mode = m
	}

	return p, nil
}
