package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/netechos/internal/dynamo"
	"github.com/san-kum/netechos/internal/metrics"
	"github.com/san-kum/netechos/internal/sim"
	"github.com/san-kum/netechos/internal/topology"
)

type brokenGenerator struct{}

func (brokenGenerator) Name() string { return "broken" }

func (brokenGenerator) Generate(n int, _ dynamo.Source) (dynamo.Matrix, error) {
	a := dynamo.Filled(n, 1)
	a.Set(0, 0, 1)
	return a, nil
}

func baseConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Nodes = 12
	cfg.Steps = 40
	cfg.Seed = 7
	cfg.Topology = topology.Spec{Name: "erdos_renyi", P: 0.4, NeighborWeight: 1}
	return cfg
}

func run(cfg sim.Config, opts ...sim.Option) *sim.Result {
	engine, err := sim.New(cfg, opts...)
	Expect(err).NotTo(HaveOccurred())
	res, err := engine.Run(context.Background())
	Expect(err).NotTo(HaveOccurred())
	return res
}

func expectValid(s dynamo.State) {
	n := s.Nodes()
	for i := 0; i < n; i++ {
		Expect(s.Adjacency.At(i, i)).To(BeZero())
		Expect(math.Abs(s.Attitudes[i])).To(BeNumerically("<=", dynamo.AttitudeBound))
		for j := 0; j < n; j++ {
			Expect(s.Adjacency.At(i, j)).To(BeNumerically(">=", 0))
			Expect(s.Adjacency.At(i, j)).To(BeNumerically("<=", 1))
		}
	}
}

var _ = Describe("Engine", func() {
	Describe("recording", func() {
		It("keeps T+1 snapshots that all satisfy the state invariants", func() {
			res := run(baseConfig())
			Expect(res.StepsTaken).To(Equal(40))
			Expect(res.Termination.Reason).To(Equal(sim.ReasonCompleted))
			Expect(res.Trajectory).To(HaveLen(41))
			Expect(res.Summaries).To(HaveLen(41))
			Expect(res.Attitudes).To(HaveLen(41))
			for k, snap := range res.Trajectory {
				Expect(snap.Step).To(Equal(k))
				expectValid(snap.State)
			}
		})

		It("returns only State₀ when T is zero", func() {
			cfg := baseConfig()
			cfg.Steps = 0
			res := run(cfg)
			Expect(res.StepsTaken).To(BeZero())
			Expect(res.Trajectory).To(HaveLen(1))
			Expect(res.Final.Attitudes).To(Equal(res.Trajectory[0].State.Attitudes))
		})

		It("drops snapshots in summary mode", func() {
			cfg := baseConfig()
			cfg.Record = sim.RecordSummary
			res := run(cfg)
			Expect(res.Trajectory).To(BeNil())
			Expect(res.Summaries).To(HaveLen(41))
			Expect(res.Attitudes).To(HaveLen(41))
		})

		It("delivers every snapshot to observers in order", func() {
			var steps []int
			obs := sim.ObserverFunc(func(step int, _ dynamo.State) { steps = append(steps, step) })
			cfg := baseConfig()
			cfg.Steps = 5
			run(cfg, sim.WithObserver(obs))
			Expect(steps).To(Equal([]int{0, 1, 2, 3, 4, 5}))
		})

		It("reports metric values", func() {
			res := run(baseConfig(), sim.WithMetric(&metrics.FinalPolarization{}), sim.WithMetric(&metrics.MinSpread{}))
			Expect(res.Metrics).To(HaveKey("polarization"))
			Expect(res.Metrics).To(HaveKey("min_spread"))
		})
	})

	Describe("determinism", func() {
		It("replays identically for the same seed", func() {
			a := run(baseConfig())
			b := run(baseConfig())
			Expect(a.Final.Attitudes).To(Equal(b.Final.Attitudes))
			Expect(a.Final.Adjacency.Rows()).To(Equal(b.Final.Adjacency.Rows()))
			Expect(a.Summaries).To(Equal(b.Summaries))
		})

		It("diverges for a different seed", func() {
			cfg := baseConfig()
			a := run(cfg)
			cfg.Seed = 8
			b := run(cfg)
			Expect(a.Trajectory[0].State.Attitudes).NotTo(Equal(b.Trajectory[0].State.Attitudes))
		})

		It("resolves the interaction mode from State₀", func() {
			Expect(run(baseConfig()).Interaction).To(Equal(dynamo.Mutual))

			cfg := baseConfig()
			cfg.Topology.Directed = true
			Expect(run(cfg).Interaction).To(Equal(dynamo.Directed))
		})
	})

	Describe("dynamics on a complete graph", func() {
		var cfg sim.Config

		BeforeEach(func() {
			cfg = sim.DefaultConfig()
			cfg.Nodes = 10
			cfg.Steps = 200
			cfg.Seed = 3
			cfg.Params = dynamo.Params{Alpha: 1, Weights: dynamo.Assign}
			cfg.Attitudes = sim.AttitudeSpec{Distribution: "uniform", Sigma: 0.2}
			cfg.Topology = topology.Spec{Name: "complete", NeighborWeight: 1}
		})

		It("polarizes for positive beta", func() {
			cfg.Params.Beta = 0.05
			res := run(cfg)
			initial := res.Trajectory[0].State.Attitudes.MaxSpread()
			Expect(res.Final.Attitudes.MaxSpread()).To(BeNumerically(">", initial))
		})

		It("synchronizes for negative beta", func() {
			cfg.Params.Beta = -0.05
			res := run(cfg)
			initial := res.Trajectory[0].State.Attitudes.MaxSpread()
			Expect(res.Final.Attitudes.MaxSpread()).To(BeNumerically("<", initial))
		})
	})

	It("stays finite with negative alpha and zero weights", func() {
		cfg := baseConfig()
		cfg.Params = dynamo.Params{Alpha: -1.5, Beta: 0.01}
		cfg.Topology = topology.Spec{Name: "star", NeighborWeight: 1}
		res := run(cfg)
		Expect(res.Final.Attitudes.IsValid()).To(BeTrue())
		expectValid(res.Final)
	})

	It("starts from an injected state without spending draws on it", func() {
		a := dynamo.Filled(3, 0.5)
		s0 := dynamo.State{Adjacency: a, Attitudes: dynamo.Vector{0.3, -0.2, 0.1}}
		cfg := baseConfig()
		cfg.Nodes = 3
		cfg.Steps = 1
		cfg.Params = dynamo.Params{Alpha: 1, Beta: 0.1}
		res := run(cfg, sim.WithInitialState(s0))

		src := sim.NewSource(cfg.Seed)
		t := dynamo.SampleInteractions(a, dynamo.Mutual, src)
		want := dynamo.Step(s0, t, cfg.Params)
		Expect(res.Final.Attitudes).To(Equal(want.Attitudes))
	})

	It("matches a hand step from the seed-42 source for N=3", func() {
		s0 := dynamo.State{
			Adjacency: dynamo.Filled(3, 0.5),
			Attitudes: dynamo.Vector{0.3, -0.2, 0.1},
		}
		cfg := sim.DefaultConfig()
		cfg.Nodes = 3
		cfg.Steps = 1
		cfg.Seed = 42
		cfg.Params = dynamo.Params{Alpha: 1, Beta: 0.1, Weights: dynamo.Assign}
		cfg.Attitudes = sim.AttitudeSpec{Distribution: "normal", Sigma: 0.5}
		res := run(cfg, sim.WithInitialState(s0))

		src := sim.NewSource(42)
		draws := make([]float64, 3)
		for k := range draws {
			draws[k] = src.Float64()
		}
		// pairs (0,1), (0,2), (1,2) in draw order, one uniform each
		inter := dynamo.NewInteractions(3)
		for k, pair := range [][2]int{{0, 1}, {0, 2}, {1, 2}} {
			on := draws[k] < 0.5
			inter.Set(pair[0], pair[1], on)
			inter.Set(pair[1], pair[0], on)
		}

		theta := s0.Attitudes
		wantTheta := make(dynamo.Vector, 3)
		for i := 0; i < 3; i++ {
			drift := 0.0
			for j := 0; j < 3; j++ {
				if i != j && inter.At(i, j) {
					drift += 0.5 * math.Sin(theta[i]-theta[j])
				}
			}
			wantTheta[i] = theta[i] + 0.1*drift
		}
		for i := 0; i < 3; i++ {
			Expect(res.Final.Attitudes[i]).To(BeNumerically("~", wantTheta[i], 1e-12))
			for j := 0; j < 3; j++ {
				want := 0.0
				if i != j && inter.At(i, j) {
					want = math.Max(0, math.Sin(theta[i]-theta[j]))
				}
				Expect(res.Final.Adjacency.At(i, j)).To(BeNumerically("~", want, 1e-12))
			}
		}
		Expect(res.Summaries[1].Interactions).To(Equal(inter.Count()))
	})

	Describe("early stop", func() {
		It("stops on synchronization", func() {
			cfg := baseConfig()
			cfg.Stop.SyncEpsilon = 10
			res := run(cfg)
			Expect(res.StepsTaken).To(Equal(1))
			Expect(res.Termination.Reason).To(Equal(sim.ReasonEarlyStop))
			Expect(res.Termination.Condition).To(HavePrefix("synchronized"))
		})

		It("stops once the adjacency has settled for the window", func() {
			cfg := baseConfig()
			cfg.Topology = topology.Spec{Name: "erdos_renyi", P: 0, NeighborWeight: 1}
			cfg.Stop.ConvergeTolerance = 1e-9
			cfg.Stop.ConvergeWindow = 3
			res := run(cfg)
			Expect(res.StepsTaken).To(Equal(3))
			Expect(res.Termination.Condition).To(HavePrefix("adjacency_converged"))
			Expect(res.Trajectory).To(HaveLen(4))
		})

		It("accepts extra conditions", func() {
			cfg := baseConfig()
			res := run(cfg, sim.WithStopCondition(sim.Synchronized(100)))
			Expect(res.Termination.Reason).To(Equal(sim.ReasonEarlyStop))
		})
	})

	It("stops between steps when canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		engine, err := sim.New(baseConfig())
		Expect(err).NotTo(HaveOccurred())
		res, err := engine.Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Termination.Reason).To(Equal(sim.ReasonCanceled))
		Expect(res.StepsTaken).To(BeZero())
		Expect(res.Trajectory).To(HaveLen(1))
	})

	DescribeTable("rejects invalid parameters before running",
		func(mutate func(*sim.Config)) {
			cfg := baseConfig()
			mutate(&cfg)
			_, err := sim.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
		},
		Entry("no nodes", func(c *sim.Config) { c.Nodes = 0 }),
		Entry("zero sigma", func(c *sim.Config) { c.Attitudes.Sigma = 0 }),
		Entry("negative steps", func(c *sim.Config) { c.Steps = -1 }),
		Entry("non-finite beta", func(c *sim.Config) { c.Params.Beta = math.Inf(1) }),
		Entry("unknown topology", func(c *sim.Config) { c.Topology.Name = "torus" }),
		Entry("unknown distribution", func(c *sim.Config) { c.Attitudes.Distribution = "cauchy" }),
		Entry("unknown mode", func(c *sim.Config) { c.Interaction = "sideways" }),
		Entry("tolerance without window", func(c *sim.Config) { c.Stop.ConvergeTolerance = 0.1 }),
	)

	It("surfaces generator contract violations", func() {
		engine, err := sim.New(baseConfig(), sim.WithGenerator(brokenGenerator{}))
		Expect(err).NotTo(HaveOccurred())
		_, err = engine.Run(context.Background())
		Expect(err).To(MatchError(dynamo.ErrGeneratorContract))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs consecutive seeds in parallel and matches single runs", func() {
		cfg := baseConfig()
		ens := sim.NewEnsemble(cfg, 4, 100, nil)
		ens.SetLimit(2)
		results, err := ens.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))

		for i, res := range results {
			Expect(res.Seed).To(Equal(int64(100 + i)))
		}

		cfg.Seed = 102
		single := run(cfg)
		Expect(results[2].Final.Attitudes).To(Equal(single.Final.Attitudes))
	})

	It("builds fresh options for each run", func() {
		calls := make([]int, 3)
		ens := sim.NewEnsemble(baseConfig(), 3, 0, func(run int) []sim.Option {
			calls[run]++
			return []sim.Option{sim.WithMetric(&metrics.MeanConnection{})}
		})
		results, err := ens.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal([]int{1, 1, 1}))
		for _, res := range results {
			Expect(res.Metrics).To(HaveKey("connection"))
		}
	})

	It("fails when a run cannot start", func() {
		cfg := baseConfig()
		cfg.Nodes = -1
		_, err := sim.NewEnsemble(cfg, 2, 0, nil).Run(context.Background())
		Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
	})
})
