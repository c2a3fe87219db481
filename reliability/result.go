// SPDX-License-Identifier: MIT

package reliability

import (
	"time"

	"github.com/katalvlaran/ctmc/kolmogorov"
	"github.com/katalvlaran/ctmc/transition"
)

// Result is a completed solve.
type Result struct {
	RunID      string                 `json:"run_id"`
	Components int                    `json:"components"`
	States     int                    `json:"states"`
	Horizon    float64                `json:"horizon"`
	RepairMode kolmogorov.RepairMode  `json:"repair_mode"`
	Graph      *transition.GraphView  `json:"graph,omitempty"`
	Trajectory *kolmogorov.Trajectory `json:"trajectory"`
	Batches    []kolmogorov.Batch     `json:"batches"`
	Elapsed    time.Duration          `json:"elapsed_ns"`
}
