package sim

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/netechos/internal/dynamo"
	"github.com/san-kum/netechos/internal/metrics"
	"github.com/san-kum/netechos/internal/topology"
)

// Engine drives one run: initialization, then T rounds of sampling, stepping,
// recording and stop-condition checks.
type Engine struct {
	cfg       Config
	gen       topology.Generator
	initial   *dynamo.State
	metrics   []metrics.Metric
	observers []Observer
	stops     []StopCondition
	logger    *zap.Logger
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

func WithMetric(m metrics.Metric) Option {
	return func(e *Engine) { e.metrics = append(e.metrics, m) }
}

func WithStopCondition(c StopCondition) Option {
	return func(e *Engine) { e.stops = append(e.stops, c) }
}

// WithGenerator replaces the topology named in the config.
func WithGenerator(g topology.Generator) Option {
	return func(e *Engine) { e.gen = g }
}

// WithInitialState skips the initializer and starts from s. The topology and
// attitude distribution of the config are then unused and no draws are spent
// on them.
func WithInitialState(s dynamo.State) Option {
	return func(e *Engine) {
		c := s.Clone()
		e.initial = &c
	}
}

// New validates cfg and builds an engine. Invalid parameters are reported
// here, before any draws are made.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if cfg.Record == "" {
		cfg.Record = RecordFull
	}
	if cfg.Interaction == "" {
		cfg.Interaction = dynamo.Auto
	}
	if cfg.Params.Weights == "" {
		cfg.Params.Weights = dynamo.Assign
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}

	if e.initial != nil {
		if err := checkInitial(*e.initial, cfg.Nodes); err != nil {
			return nil, err
		}
	} else if e.gen == nil {
		gen, err := topology.New(cfg.Topology)
		if err != nil {
			return nil, err
		}
		e.gen = gen
	}

	e.stops = append(cfg.Stop.conditions(), e.stops...)
	return e, nil
}

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) Run(ctx context.Context) (*Result, error) {
	began := time.Now()
	src := NewSource(e.cfg.Seed)

	var state dynamo.State
	if e.initial != nil {
		state = e.initial.Clone()
	} else {
		var err error
		if state, err = Initialize(e.cfg, e.gen, src); err != nil {
			return nil, err
		}
	}
	mode := e.cfg.Interaction.Resolve(state.Adjacency)

	e.logger.Info("run started",
		zap.Int("nodes", e.cfg.Nodes),
		zap.Int("steps", e.cfg.Steps),
		zap.Int64("seed", e.cfg.Seed),
		zap.String("topology", e.topologyName()),
		zap.String("interaction", string(mode)),
		zap.String("weight_rule", string(e.cfg.Params.Weights)),
	)

	result := &Result{
		Seed:        e.cfg.Seed,
		Interaction: mode,
		Attitudes:   make([]dynamo.Vector, 0, e.cfg.Steps+1),
		Summaries:   make([]metrics.Summary, 0, e.cfg.Steps+1),
		Metrics:     make(map[string]float64),
		Termination: Termination{Reason: ReasonCompleted},
	}
	if e.cfg.Record == RecordFull {
		result.Trajectory = make([]Snapshot, 0, e.cfg.Steps+1)
	}

	for _, m := range e.metrics {
		m.Reset()
	}
	for _, c := range e.stops {
		c.Reset()
	}

	e.record(result, 0, state, 0)

	for step := 1; step <= e.cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			result.Termination = Termination{Reason: ReasonCanceled, Step: result.StepsTaken}
			e.finish(result, state, began)
			return result, ctx.Err()
		default:
		}

		t := dynamo.SampleInteractions(state.Adjacency, mode, src)
		next := dynamo.Step(state, t, e.cfg.Params)
		result.StepsTaken = step
		e.record(result, step, next, t.Count())

		if ce := e.logger.Check(zap.DebugLevel, "step"); ce != nil {
			ce.Write(zap.Int("step", step), zap.Int("interactions", t.Count()), zap.Float64("spread", next.Attitudes.MaxSpread()))
		}

		prev := state
		state = next
		if name, ok := e.stopped(step, prev, next); ok {
			result.Termination = Termination{Reason: ReasonEarlyStop, Condition: name, Step: step}
			e.logger.Info("early stop", zap.String("condition", name), zap.Int("step", step))
			break
		}
	}

	e.finish(result, state, began)
	return result, nil
}

func (e *Engine) record(result *Result, step int, s dynamo.State, interactions int) {
	if e.cfg.Record == RecordFull {
		result.Trajectory = append(result.Trajectory, Snapshot{Step: step, State: s.Clone()})
	}
	result.Attitudes = append(result.Attitudes, s.Attitudes.Clone())
	result.Summaries = append(result.Summaries, metrics.Summarize(step, s, interactions))
	for _, m := range e.metrics {
		m.Observe(step, s)
	}
	for _, o := range e.observers {
		o.OnSnapshot(step, s)
	}
}

func (e *Engine) stopped(step int, prev, next dynamo.State) (string, bool) {
	for _, c := range e.stops {
		if c.Done(step, prev, next) {
			return c.Name(), true
		}
	}
	return "", false
}

func (e *Engine) finish(result *Result, final dynamo.State, began time.Time) {
	result.Final = final
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	e.logger.Info("run finished",
		zap.String("termination", string(result.Termination.Reason)),
		zap.Int("steps_taken", result.StepsTaken),
		zap.Duration("elapsed", time.Since(began)),
	)
}

func (e *Engine) topologyName() string {
	if e.initial != nil {
		return "initial state"
	}
	return e.gen.Name()
}

// String describes the run for log lines and progress output.
func (r *Result) String() string {
	switch r.Termination.Reason {
	case ReasonEarlyStop:
		return fmt.Sprintf("seed %d: stopped at step %d (%s)", r.Seed, r.StepsTaken, r.Termination.Condition)
	case ReasonCanceled:
		return fmt.Sprintf("seed %d: canceled after %d steps", r.Seed, r.StepsTaken)
	}
	return fmt.Sprintf("seed %d: completed %d steps", r.Seed, r.StepsTaken)
}
