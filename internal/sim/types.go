package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/netechos/internal/dynamo"
	"github.com/san-kum/netechos/internal/metrics"
	"github.com/san-kum/netechos/internal/topology"
)

// RecordMode controls how much of the trajectory a run keeps in memory.
type RecordMode string

const (
	// RecordFull keeps a deep copy of every snapshot.
	RecordFull RecordMode = "full"
	// RecordSummary keeps only the per-step summary rows.
	RecordSummary RecordMode = "summary"
)

// AttitudeSpec selects the distribution initial attitudes are drawn from.
type AttitudeSpec struct {
	// Distribution is one of normal, uniform, laplace, vonmises.
	Distribution string
	Loc          float64
	Sigma        float64
}

// StopSpec configures the built-in early-stop conditions. Zero values
// disable a condition.
type StopSpec struct {
	SyncEpsilon       float64
	ConvergeTolerance float64
	ConvergeWindow    int
}

type Config struct {
	Nodes       int
	Steps       int
	Seed        int64
	Params      dynamo.Params
	Interaction dynamo.InteractionMode
	Attitudes   AttitudeSpec
	Topology    topology.Spec
	Record      RecordMode
	Stop        StopSpec
}

func DefaultConfig() Config {
	return Config{
		Nodes:       50,
		Steps:       200,
		Params:      dynamo.Params{Alpha: -1, Beta: 1e-3, Weights: dynamo.Assign},
		Interaction: dynamo.Auto,
		Attitudes:   AttitudeSpec{Distribution: "normal", Sigma: 0.1},
		Topology:    topology.DefaultSpec(),
		Record:      RecordFull,
	}
}

// Validate reports the first invalid field as dynamo.ErrInvalidParameter.
func (c Config) Validate() error {
	if c.Nodes <= 0 {
		return &dynamo.ParameterError{Field: "nodes", Value: c.Nodes, Reason: "must be positive"}
	}
	if c.Steps < 0 {
		return &dynamo.ParameterError{Field: "steps", Value: c.Steps, Reason: "must not be negative"}
	}
	if !(c.Attitudes.Sigma > 0) || math.IsInf(c.Attitudes.Sigma, 0) {
		return &dynamo.ParameterError{Field: "sigma", Value: c.Attitudes.Sigma, Reason: "must be positive and finite"}
	}
	if math.IsNaN(c.Attitudes.Loc) || math.IsInf(c.Attitudes.Loc, 0) {
		return &dynamo.ParameterError{Field: "loc", Value: c.Attitudes.Loc, Reason: "must be finite"}
	}
	if _, ok := samplers[c.Attitudes.Distribution]; !ok {
		return &dynamo.ParameterError{Field: "distribution", Value: c.Attitudes.Distribution, Reason: "must be one of normal, uniform, laplace, vonmises"}
	}
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if _, err := dynamo.ParseInteractionMode(string(c.Interaction)); err != nil {
		return err
	}
	switch c.Record {
	case RecordFull, RecordSummary, "":
	default:
		return &dynamo.ParameterError{Field: "record", Value: c.Record, Reason: "must be full or summary"}
	}
	if c.Stop.SyncEpsilon < 0 || c.Stop.ConvergeTolerance < 0 || c.Stop.ConvergeWindow < 0 {
		return &dynamo.ParameterError{Field: "stop", Value: fmt.Sprintf("%+v", c.Stop), Reason: "tolerances must not be negative"}
	}
	if c.Stop.ConvergeTolerance > 0 && c.Stop.ConvergeWindow == 0 {
		return &dynamo.ParameterError{Field: "stop.converge_window", Value: 0, Reason: "must be at least 1 when a convergence tolerance is set"}
	}
	return nil
}

// Snapshot is the network at one step of a recorded trajectory.
type Snapshot struct {
	Step  int
	State dynamo.State
}

// Reason explains why a run ended.
type Reason string

const (
	ReasonCompleted Reason = "completed"
	ReasonEarlyStop Reason = "early_stop"
	ReasonCanceled  Reason = "canceled"
)

type Termination struct {
	Reason Reason
	// Condition names the stop condition that fired on early stop.
	Condition string
	Step      int
}

type Result struct {
	Seed        int64
	Interaction dynamo.InteractionMode
	// Trajectory holds steps 0..StepsTaken in RecordFull mode.
	Trajectory []Snapshot
	// Attitudes tracks θ at every step in both recording modes.
	Attitudes   []dynamo.Vector
	Summaries   []metrics.Summary
	Final       dynamo.State
	Metrics     map[string]float64
	StepsTaken  int
	Termination Termination
}

// Observer receives every snapshot of a run in order, step 0 included. The
// state must be treated as read-only.
type Observer interface {
	OnSnapshot(step int, s dynamo.State)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(step int, s dynamo.State)

func (f ObserverFunc) OnSnapshot(step int, s dynamo.State) { f(step, s) }
