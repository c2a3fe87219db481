// SPDX-License-Identifier: MIT

package kolmogorov

import (
	"encoding/json"
	"fmt"

	"github.com/katalvlaran/ctmc/matrix"
	"github.com/katalvlaran/ctmc/ode"
)

// Trajectory is the sampled solution: Probabilities has one row per entry
// of Times and one column per state id.
type Trajectory struct {
	Times         []float64
	Probabilities *matrix.Dense
	Stats         ode.Stats
	Mode          RepairMode
}

// Series is the probability curve of one state over Times.
type Series struct {
	State  int       `json:"state"`
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Batch is one page of series, states [From, To).
type Batch struct {
	Index  int      `json:"index"`
	From   int      `json:"from"`
	To     int      `json:"to"`
	Series []Series `json:"series"`
}

// SeriesLabel is the legend caption of a state: 1-based, "State 1" for id 0.
func SeriesLabel(state int) string {
	return fmt.Sprintf("State %d", state+1)
}

// Len returns the number of samples.
func (tr *Trajectory) Len() int { return len(tr.Times) }

// States returns the number of states (columns).
func (tr *Trajectory) States() int { return tr.Probabilities.Cols() }

// Row returns a copy of the distribution at sample i.
func (tr *Trajectory) Row(i int) ([]float64, error) {
	return tr.Probabilities.Row(i)
}

// Mass returns Σ_j y_j at sample i.
func (tr *Trajectory) Mass(i int) (float64, error) {
	row, err := tr.Probabilities.Row(i)
	if err != nil {
		return 0, err
	}
	var m float64
	for _, v := range row {
		m += v
	}

	return m, nil
}

// Series returns the curve of one state.
func (tr *Trajectory) Series(state int) (Series, error) {
	col, err := tr.Probabilities.Col(state)
	if err != nil {
		return Series{}, fmt.Errorf("%w: %d", ErrUnknownState, state)
	}

	return Series{State: state, Label: SeriesLabel(state), Values: col}, nil
}

// Batches pages the states into ceil(States()/size) groups of at most size
// consecutive ids, one chart each.
func (tr *Trajectory) Batches(size int) ([]Batch, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadBatchSize, size)
	}
	total := tr.States()
	out := make([]Batch, 0, (total+size-1)/size)
	for from := 0; from < total; from += size {
		to := min(from+size, total)
		b := Batch{Index: len(out), From: from, To: to, Series: make([]Series, 0, to-from)}
		for st := from; st < to; st++ {
			s, err := tr.Series(st)
			if err != nil {
				return nil, err
			}
			b.Series = append(b.Series, s)
		}
		out = append(out, b)
	}

	return out, nil
}

// Matrix returns the probabilities as one slice per sample.
func (tr *Trajectory) Matrix() [][]float64 {
	out := make([][]float64, tr.Len())
	for i := range out {
		out[i], _ = tr.Probabilities.Row(i)
	}

	return out
}

type trajectoryJSON struct {
	Times         []float64   `json:"times"`
	Probabilities [][]float64 `json:"probabilities"`
	Stats         ode.Stats   `json:"stats"`
	Mode          RepairMode  `json:"repair_mode"`
}

// MarshalJSON encodes the trajectory with probabilities as nested arrays.
func (tr *Trajectory) MarshalJSON() ([]byte, error) {
	return json.Marshal(trajectoryJSON{
		Times:         tr.Times,
		Probabilities: tr.Matrix(),
		Stats:         tr.Stats,
		Mode:          tr.Mode,
	})
}
