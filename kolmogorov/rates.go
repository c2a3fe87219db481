// SPDX-License-Identifier: MIT

package kolmogorov

import (
	"fmt"
	"math"
)

// Parameter names used in RateError.
const (
	ParamLambda = "lambda"
	ParamMu     = "mu"
)

// Rates holds the per-component failure (λ) and repair (μ) rates.
type Rates struct {
	Failure []float64 `json:"lambda" yaml:"lambda"`
	Repair  []float64 `json:"mu" yaml:"mu"`
}

// Validate checks both vectors against a component count n.
// Lengths are checked before values; λ before μ.
func (r Rates) Validate(n int) error {
	if err := checkVector(ParamLambda, r.Failure, n); err != nil {
		return err
	}

	return checkVector(ParamMu, r.Repair, n)
}

func checkVector(param string, v []float64, n int) error {
	if len(v) != n {
		return &RateError{
			Param: param,
			Index: -1,
			Err:   fmt.Errorf("%w: got %d, want %d", ErrRateLength, len(v), n),
		}
	}
	for i, x := range v {
		if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			return &RateError{Param: param, Index: i, Value: x, Err: ErrBadRate}
		}
	}

	return nil
}

// clone returns independent copies of both vectors.
func (r Rates) clone() Rates {
	return Rates{
		Failure: append([]float64(nil), r.Failure...),
		Repair:  append([]float64(nil), r.Repair...),
	}
}
