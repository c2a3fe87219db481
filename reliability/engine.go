// SPDX-License-Identifier: MIT
//
// File: engine.go
// Role: Engine construction, the per-n graph cache and the Solve pipeline.
// Concurrency:
//   - cache entries are created under mu and filled exactly once;
//   - everything else is per-call.

package reliability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/ctmc/kolmogorov"
	"github.com/katalvlaran/ctmc/matrix"
	"github.com/katalvlaran/ctmc/transition"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger; nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTracerProvider sets the span source; the global provider otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) {
		if tp != nil {
			e.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// WithMetrics sets the collectors solves are recorded in. Without it the
// engine records into an unregistered set.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

type graphEntry struct {
	once  sync.Once
	graph *transition.Graph
	err   error
}

// Engine runs solve requests. It is safe for concurrent use.
type Engine struct {
	cfg    Config
	logger *slog.Logger
	tracer  trace.Tracer
	metrics *Metrics

	mu     sync.Mutex
	graphs map[int]*graphEntry
}

// New validates cfg and applies opts.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		logger: slog.Default(),
		tracer: otel.GetTracerProvider().Tracer(instrumentationName),
		graphs: make(map[int]*graphEntry),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = NewMetrics(nil)
	}

	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Graph returns the transition graph for n components, building and
// connectivity-checking it on first use. n is checked against
// Config.MaxComponents.
func (e *Engine) Graph(ctx context.Context, n int) (*transition.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, invalid(ParamComponents, fmt.Errorf("got %d, want >= 1", n))
	}
	if n > e.cfg.MaxComponents {
		return nil, exhausted(ParamComponents, fmt.Errorf("got %d, limit %d", n, e.cfg.MaxComponents))
	}

	e.mu.Lock()
	ent, ok := e.graphs[n]
	if !ok {
		ent = &graphEntry{}
		e.graphs[n] = ent
	}
	e.mu.Unlock()

	ent.once.Do(func() {
		// the entry outlives this caller, so its cancellation must not leak in
		bctx, span := e.tracer.Start(context.WithoutCancel(ctx), "ctmc.graph.build", trace.WithAttributes(attribute.Int("ctmc.components", n)))
		defer span.End()
		start := time.Now()
		ent.graph, ent.err = transition.New(n)
		if ent.err == nil {
			ent.err = checkConnected(bctx, ent.graph)
		}
		if ent.err != nil {
			ent.graph = nil
			span.RecordError(ent.err)
			span.SetStatus(codes.Error, ent.err.Error())
			return
		}
		e.logger.Debug("transition graph built",
			"components", n,
			"states", ent.graph.Order(),
			"arcs", ent.graph.Size(),
			"elapsed", time.Since(start),
		)
	})
	if ent.err != nil {
		return nil, classify(ent.err)
	}

	return ent.graph, nil
}

// Solve validates req, integrates the forward equations and assembles a Result.
//
// Implementation:
//   - Stage 1 (Validate): every request field, before any allocation.
//   - Stage 2 (Graph): cached transition graph for n.
//   - Stage 3 (Integrate): kolmogorov.System.Solve over [0, horizon].
//   - Stage 4 (Finalize): chart batches, optional graph view, run id.
//
// On error nothing partial is returned.
func (e *Engine) Solve(ctx context.Context, req Request) (res *Result, err error) {
	start := time.Now()
	runID := uuid.NewString()

	ctx, span := e.tracer.Start(ctx, "ctmc.solve", trace.WithAttributes(
		attribute.String("ctmc.run_id", runID),
		attribute.Int("ctmc.components", req.Components),
	))
	defer span.End()

	var (
		steps  int
		states int
	)
	done := e.metrics.started()
	defer func() {
		elapsed := time.Since(start)
		done(states, steps, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			e.logger.Warn("solve failed", "run_id", runID, "components", req.Components, "error", err, "outcome", Outcome(err))
			return
		}
		span.SetStatus(codes.Ok, "")
		e.logger.Info("solve completed",
			"run_id", runID,
			"components", res.Components,
			"states", res.States,
			"points", res.Trajectory.Len(),
			"steps", steps,
			"elapsed", elapsed,
		)
	}()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 1: Validate
	p, err := req.prepare(e.cfg)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Float64("ctmc.horizon", p.horizon),
		attribute.Int("ctmc.points", p.points),
		attribute.String("ctmc.repair_mode", p.mode.String()),
	)

	// Stage 2: Graph
	g, err := e.Graph(ctx, p.n)
	if err != nil {
		return nil, err
	}

	// Stage 3: Integrate
	sys, err := kolmogorov.New(g, p.rates, kolmogorov.WithRepairMode(p.mode))
	if err != nil {
		return nil, classify(err)
	}
	ictx, ispan := e.tracer.Start(ctx, "ctmc.integrate", trace.WithAttributes(attribute.Int("ctmc.states", sys.States())))
	tr, err := sys.Solve(ictx, p.horizon, p.points,
		kolmogorov.WithSolver(e.cfg.Solver),
		kolmogorov.WithMassTolerance(e.cfg.MassTolerance),
	)
	if err != nil {
		ispan.RecordError(err)
		ispan.SetStatus(codes.Error, err.Error())
		ispan.End()
		return nil, classify(err)
	}
	ispan.SetAttributes(
		attribute.Int("ctmc.steps.accepted", tr.Stats.Accepted),
		attribute.Int("ctmc.steps.rejected", tr.Stats.Rejected),
		attribute.Int("ctmc.evaluations", tr.Stats.Evaluations),
	)
	ispan.End()
	steps, states = tr.Stats.Accepted, sys.States()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 4: Finalize
	batches, err := tr.Batches(p.batchSize)
	if err != nil {
		return nil, classify(err)
	}
	out := &Result{
		RunID:      runID,
		Components: p.n,
		States:     sys.States(),
		Horizon:    p.horizon,
		RepairMode: p.mode,
		Trajectory: tr,
		Batches:    batches,
	}
	if out.States <= e.cfg.MaxGraphStates {
		v := transition.Export(g, transition.WithEdgeLabels(p.labels))
		out.Graph = &v
	}
	out.Elapsed = time.Since(start)

	return out, nil
}

// Generator returns the dense generator Q of req's system, validated the way
// Solve validates it. Systems above kolmogorov.MaxGeneratorStates fail with
// ErrResourceExhaustion.
func (e *Engine) Generator(ctx context.Context, req Request) (*matrix.Dense, error) {
	p, err := req.prepare(e.cfg)
	if err != nil {
		return nil, err
	}
	if 1<<uint(p.n) > kolmogorov.MaxGeneratorStates {
		return nil, exhausted(ParamComponents, fmt.Errorf("%w: %d states, limit %d",
			kolmogorov.ErrGeneratorTooLarge, 1<<uint(p.n), kolmogorov.MaxGeneratorStates))
	}
	g, err := e.Graph(ctx, p.n)
	if err != nil {
		return nil, err
	}
	sys, err := kolmogorov.New(g, p.rates, kolmogorov.WithRepairMode(p.mode))
	if err != nil {
		return nil, classify(err)
	}
	q, err := sys.Generator()
	if err != nil {
		return nil, classify(err)
	}

	return q, nil
}

// checkConnected rejects a graph in which some state is unreachable from
// the all-up state.
func checkConnected(ctx context.Context, g *transition.Graph) error {
	ok, err := g.Connected(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return &Error{Kind: ErrInternal, Err: fmt.Errorf("%w: %d states", transition.ErrDisconnected, g.Order())}
	}

	return nil
}
