// SPDX-License-Identifier: MIT

// Package commands implements the ctmc command line.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/ctmc/internal/config"
	"github.com/katalvlaran/ctmc/internal/logging"
	"github.com/katalvlaran/ctmc/internal/version"
	"github.com/katalvlaran/ctmc/reliability"
)

// app is the state shared by subcommands once the root has loaded config.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "ctmc",
		Short: "Availability of repairable multi-component systems",
		Long: `ctmc models a system of n independently failing and repairable components
as a continuous-time Markov chain over the 2^n sets of failed components,
integrates the Kolmogorov forward equations and reports the probability of
every state over time.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./config.yaml)")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "log format (json, text)")

	// These should never fail as flags are defined above
	_ = a.v.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))   //nolint:errcheck
	_ = a.v.BindPFlag("logging.format", root.PersistentFlags().Lookup("log-format")) //nolint:errcheck

	root.AddCommand(
		newServeCmd(a),
		newSolveCmd(a),
		newGraphCmd(a),
		newVersionCmd(),
	)
	root.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "%s" .Version}}
`)

	return root
}

// Execute runs the CLI with signal-aware cancellation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.LoadWith(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	a.cfg, a.logger = cfg, logger

	return nil
}

// engine builds a reliability engine from the loaded config on the global
// tracer provider.
func (a *app) engine(opts ...reliability.Option) (*reliability.Engine, error) {
	rc, err := a.cfg.Engine.Reliability()
	if err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}

	return reliability.New(rc, append([]reliability.Option{reliability.WithLogger(a.logger)}, opts...)...)
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// version needs no config
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.Get()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, info.String())

			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				fmt.Fprintf(out, "\nDetails:\n")
				fmt.Fprintf(out, "  Version:    %s\n", info.Version)
				fmt.Fprintf(out, "  Git Commit: %s\n", info.GitCommit)
				fmt.Fprintf(out, "  Built:      %s\n", info.BuildTime)
				fmt.Fprintf(out, "  Go Version: %s\n", info.GoVersion)
				fmt.Fprintf(out, "  Platform:   %s\n", info.Platform)
			}
		},
	}
	cmd.Flags().BoolP("verbose", "v", false, "verbose version output")

	return cmd
}
