// SPDX-License-Identifier: MIT

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/ctmc/reliability"
	"github.com/katalvlaran/ctmc/transition"
)

type graphFlags struct {
	n         int
	format    string
	labels    bool
	names     bool
	path      int
	generator bool
	lambda    []float64
	mu        []float64
	mode      string
}

func newGraphCmd(a *app) *cobra.Command {
	f := &graphFlags{}
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the state transition graph",
		Example: `  ctmc graph -n 3 --format dot --labels | dot -Tsvg > graph.svg
  ctmc graph -n 2 --format mermaid
  ctmc graph -n 3 --path 7 --names
  ctmc graph -n 2 --generator --lambda 1,1 --mu 0.5,0.5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if f.generator {
				q, err := eng.Generator(cmd.Context(), reliability.Request{
					Components: f.n,
					Lambda:     f.lambda,
					Mu:         f.mu,
					RepairMode: f.mode,
				})
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(out, q)

				return err
			}

			g, err := eng.Graph(cmd.Context(), f.n)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("path") {
				return printFailurePath(cmd.Context(), out, g, f.path, f.names)
			}

			return renderGraph(out, g, f)
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.n, "components", "n", 0, "number of components")
	fl.StringVar(&f.format, "format", "dot", "dot, mermaid, json or yaml")
	fl.BoolVar(&f.labels, "labels", false, "label edges with their rate symbols")
	fl.BoolVar(&f.names, "names", false, "name states by their failed set instead of their id")
	fl.IntVar(&f.path, "path", 0, "print the shortest all-failure path from state 0 to this state")
	fl.BoolVar(&f.generator, "generator", false, "print the generator matrix Q (needs --lambda and --mu)")
	fl.Float64SliceVar(&f.lambda, "lambda", nil, "failure rates for --generator")
	fl.Float64SliceVar(&f.mu, "mu", nil, "repair rates for --generator")
	fl.StringVar(&f.mode, "repair-mode", "", "mirrored or restoring, for --generator")
	cmd.MarkFlagsMutuallyExclusive("path", "generator")

	return cmd
}

func renderGraph(out io.Writer, g *transition.Graph, f *graphFlags) error {
	opts := []transition.RenderOption{transition.WithEdgeLabels(f.labels)}
	if f.names {
		opts = append(opts, transition.WithStateNames(transition.SubsetNames))
	}

	var err error
	switch f.format {
	case "dot":
		_, err = fmt.Fprint(out, transition.DOT(g, opts...))
	case "mermaid":
		_, err = fmt.Fprint(out, transition.Mermaid(g, opts...))
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(transition.Export(g, opts...))
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		err = enc.Encode(transition.Export(g, opts...))
		if err == nil {
			err = enc.Close()
		}
	default:
		err = fmt.Errorf("%w: format %q", ErrBadFlags, f.format)
	}

	return err
}

// printFailurePath writes the path as "0 -> 1 -> 4", or with failed sets
// when names is set.
func printFailurePath(ctx context.Context, out io.Writer, g *transition.Graph, id int, names bool) error {
	path, err := g.FailurePath(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: --path %d: %w", ErrBadFlags, id, err)
	}
	parts := make([]string, len(path))
	for i, v := range path {
		if !names {
			parts[i] = strconv.Itoa(v)
			continue
		}
		s, err := g.Subset(v)
		if err != nil {
			return err
		}
		parts[i] = s.String()
	}
	_, err = fmt.Fprintln(out, strings.Join(parts, " -> "))

	return err
}
