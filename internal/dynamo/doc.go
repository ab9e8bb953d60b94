// Package dynamo provides the core primitives of the attitude/network model.
//
// The package defines the data and the two per-step operations of the
// coupled dynamics:
//
//   - [Matrix]: dense N×N adjacency (connection strength, entries in [0,1])
//   - [Vector]: per-node attitudes in [-π/2, π/2]
//   - [State]: the (adjacency, attitudes) pair at one timestep
//   - [SampleInteractions]: draws the binary interaction matrix for a step
//   - [Step]: computes the next State from the current one
//
// # Example
//
//	src := rand.New(rand.NewPCG(42, 42))
//	inter := dynamo.SampleInteractions(s.Adjacency, dynamo.Mutual, src)
//	next := dynamo.Step(s, inter, params)
//
// # Thread Safety
//
// [Step] never mutates its inputs, so a State may be shared read-only between
// goroutines. A [Source] is not safe for concurrent use; give every run its
// own.
package dynamo
