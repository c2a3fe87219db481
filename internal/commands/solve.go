// SPDX-License-Identifier: MIT

package commands

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/ctmc/internal/scenario"
	"github.com/katalvlaran/ctmc/kolmogorov"
	"github.com/katalvlaran/ctmc/reliability"
)

// Output formats of ctmc solve.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// ErrBadFlags reports an unusable combination of solve or graph flags.
var ErrBadFlags = errors.New("commands: invalid flags")

type solveFlags struct {
	req    reliability.Request
	file   string
	output string
	watch  bool
}

func newSolveCmd(a *app) *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve one system and print state probabilities over time",
		Example: `  ctmc solve -n 2 --lambda 1,1 --mu 0.5,0.5 --horizon 5 --points 50
  ctmc solve --file pumps.yaml --output csv
  ctmc solve --file pumps.yaml --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSolve(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.req.Components, "components", "n", 0, "number of components")
	fl.Float64SliceVar(&f.req.Lambda, "lambda", nil, "failure rates, one per component")
	fl.Float64SliceVar(&f.req.Mu, "mu", nil, "repair rates, one per component")
	fl.Float64Var(&f.req.Horizon, "horizon", 0, "end of the time window (default from engine.default_horizon)")
	fl.IntVar(&f.req.Points, "points", 0, "number of samples (default from engine.default_points)")
	fl.IntVar(&f.req.ShowCount, "show-count", 0, "states per chart batch; 0 puts all on one")
	fl.BoolVar(&f.req.ShowLabels, "show-labels", false, "label graph edges with their rate symbols in json output")
	fl.StringVar(&f.req.RepairMode, "repair-mode", "", "mirrored or restoring (default from engine.repair_mode)")
	fl.StringVarP(&f.file, "file", "f", "", "scenario YAML file; flags set explicitly override it")
	fl.StringVarP(&f.output, "output", "o", FormatTable, "output format: table, json or csv")
	fl.BoolVarP(&f.watch, "watch", "w", false, "re-solve whenever --file changes")

	return cmd
}

func (a *app) runSolve(cmd *cobra.Command, f *solveFlags) error {
	switch f.output {
	case FormatTable, FormatJSON, FormatCSV:
	default:
		return fmt.Errorf("%w: output %q", ErrBadFlags, f.output)
	}
	if f.watch && f.file == "" {
		return fmt.Errorf("%w: --watch needs --file", ErrBadFlags)
	}

	req := f.req
	if f.file != "" {
		s, err := scenario.Load(f.file)
		if err != nil {
			return err
		}
		req = merge(s.Request, f.req, cmd)
	}

	eng, err := a.engine()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if err := solveAndPrint(ctx, eng, req, f.output, out); err != nil {
		if !f.watch {
			return err
		}
		a.logger.Error("solve failed", "error", err)
	}
	if !f.watch {
		return nil
	}

	return scenario.Watch(ctx, f.file, a.logger, func(s *scenario.Scenario) {
		next := merge(s.Request, f.req, cmd)
		if err := solveAndPrint(ctx, eng, next, f.output, out); err != nil {
			a.logger.Error("solve failed", "file", f.file, "error", err)
		}
	})
}

// merge lays explicitly set flags over a scenario request.
func merge(base, flags reliability.Request, cmd *cobra.Command) reliability.Request {
	fl := cmd.Flags()
	if fl.Changed("components") {
		base.Components = flags.Components
	}
	if fl.Changed("lambda") {
		base.Lambda = flags.Lambda
	}
	if fl.Changed("mu") {
		base.Mu = flags.Mu
	}
	if fl.Changed("horizon") {
		base.Horizon = flags.Horizon
	}
	if fl.Changed("points") {
		base.Points = flags.Points
	}
	if fl.Changed("show-count") {
		base.ShowCount = flags.ShowCount
	}
	if fl.Changed("show-labels") {
		base.ShowLabels = flags.ShowLabels
	}
	if fl.Changed("repair-mode") {
		base.RepairMode = flags.RepairMode
	}

	return base
}

func solveAndPrint(ctx context.Context, eng *reliability.Engine, req reliability.Request, format string, w io.Writer) error {
	res, err := eng.Solve(ctx, req)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case FormatCSV:
		return writeCSV(w, res.Trajectory)
	default:
		return writeTable(w, res)
	}
}

func header(states int) []string {
	h := make([]string, 0, states+1)
	h = append(h, "t")
	for i := 0; i < states; i++ {
		h = append(h, kolmogorov.SeriesLabel(i))
	}

	return h
}

func writeCSV(w io.Writer, tr *kolmogorov.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header(tr.States())); err != nil {
		return err
	}
	rec := make([]string, tr.States()+1)
	for i := 0; i < tr.Len(); i++ {
		row, err := tr.Row(i)
		if err != nil {
			return err
		}
		rec[0] = strconv.FormatFloat(tr.Times[i], 'g', -1, 64)
		for j, p := range row {
			rec[j+1] = strconv.FormatFloat(p, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// writeTable prints one block per chart batch so wide systems stay readable.
func writeTable(w io.Writer, res *reliability.Result) error {
	fmt.Fprintf(w, "run %s: %d components, %d states, repair %s, %d steps\n",
		res.RunID, res.Components, res.States, res.RepairMode, res.Trajectory.Stats.Accepted)

	tr := res.Trajectory
	for _, b := range res.Batches {
		fmt.Fprintf(w, "\nchart %d: states %d-%d\n", b.Index+1, b.From+1, b.To)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprint(tw, "t\t")
		for _, s := range b.Series {
			fmt.Fprintf(tw, "%s\t", s.Label)
		}
		fmt.Fprintln(tw)
		for i := 0; i < tr.Len(); i++ {
			fmt.Fprintf(tw, "%.4f\t", tr.Times[i])
			for _, s := range b.Series {
				fmt.Fprintf(tw, "%.6f\t", s.Values[i])
			}
			fmt.Fprintln(tw)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	return nil
}
