package topology

import "github.com/san-kum/netechos/internal/dynamo"

func link(a dynamo.Matrix, i, j int) {
	a.Set(i, j, 1)
	a.Set(j, i, 1)
}

func unlink(a dynamo.Matrix, i, j int) {
	a.Set(i, j, 0)
	a.Set(j, i, 0)
}

func degree(a dynamo.Matrix, i int) int {
	d := 0
	for _, v := range a.Row(i) {
		if v != 0 {
			d++
		}
	}
	return d
}

// intn draws a uniform index in [0, n) from a Float64 source.
func intn(src dynamo.Source, n int) int {
	k := int(src.Float64() * float64(n))
	if k >= n {
		k = n - 1
	}
	return k
}

func complete(n int, _ dynamo.Source) (dynamo.Matrix, error) {
	return dynamo.Filled(n, 1), nil
}

func cycle(n int, _ dynamo.Source) (dynamo.Matrix, error) {
	a := dynamo.NewMatrix(n)
	if n < 3 {
		return a, &dynamo.ParameterError{Field: "nodes", Value: n, Reason: "cycle needs at least 3 nodes"}
	}
	for i := 0; i < n; i++ {
		link(a, i, (i+1)%n)
	}
	return a, nil
}

// star links node 0 to every other node.
func star(n int, _ dynamo.Source) (dynamo.Matrix, error) {
	a := dynamo.NewMatrix(n)
	for i := 1; i < n; i++ {
		link(a, 0, i)
	}
	return a, nil
}

func erdosRenyi(p float64, directed bool) constructor {
	return func(n int, src dynamo.Source) (dynamo.Matrix, error) {
		a := dynamo.NewMatrix(n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				switch {
				case i == j:
				case directed:
					if src.Float64() < p {
						a.Set(i, j, 1)
					}
				case j > i:
					if src.Float64() < p {
						link(a, i, j)
					}
				}
			}
		}
		return a, nil
	}
}

// ringLattice joins every node to its k/2 nearest neighbours on each side.
func ringLattice(n, k int) dynamo.Matrix {
	a := dynamo.NewMatrix(n)
	for j := 1; j <= k/2; j++ {
		for u := 0; u < n; u++ {
			link(a, u, (u+j)%n)
		}
	}
	return a
}

func checkLattice(n, k int) error {
	if k > n {
		return &dynamo.ParameterError{Field: "topology.k", Value: k, Reason: "must not exceed the node count"}
	}
	return nil
}

// wattsStrogatz rewires each lattice edge (u, u+j) with probability p to a
// uniformly chosen node that is not u and not already a neighbour of u.
func wattsStrogatz(k int, p float64) constructor {
	return func(n int, src dynamo.Source) (dynamo.Matrix, error) {
		if err := checkLattice(n, k); err != nil {
			return dynamo.Matrix{}, err
		}
		if k == n {
			return dynamo.Filled(n, 1), nil
		}
		a := ringLattice(n, k)
		for j := 1; j <= k/2; j++ {
			for u := 0; u < n; u++ {
				v := (u + j) % n
				if src.Float64() >= p {
					continue
				}
				if w, ok := pickNonNeighbour(a, u, src); ok {
					unlink(a, u, v)
					link(a, u, w)
				}
			}
		}
		return a, nil
	}
}

// newmanWattsStrogatz keeps the lattice and adds a shortcut from u for each
// lattice edge (u, v) with probability p.
func newmanWattsStrogatz(k int, p float64) constructor {
	return func(n int, src dynamo.Source) (dynamo.Matrix, error) {
		if err := checkLattice(n, k); err != nil {
			return dynamo.Matrix{}, err
		}
		if k == n {
			return dynamo.Filled(n, 1), nil
		}
		a := ringLattice(n, k)
		type edge struct{ u, v int }
		var edges []edge
		for j := 1; j <= k/2; j++ {
			for u := 0; u < n; u++ {
				edges = append(edges, edge{u, (u + j) % n})
			}
		}
		for _, e := range edges {
			if src.Float64() >= p {
				continue
			}
			if w, ok := pickNonNeighbour(a, e.u, src); ok {
				link(a, e.u, w)
			}
		}
		return a, nil
	}
}

func pickNonNeighbour(a dynamo.Matrix, u int, src dynamo.Source) (int, bool) {
	n := a.Size()
	if degree(a, u) >= n-1 {
		return 0, false
	}
	for {
		w := intn(src, n)
		if w != u && a.At(u, w) == 0 {
			return w, true
		}
	}
}

// barabasiAlbert grows a graph from a star on m+1 nodes; each new node
// attaches to m distinct existing nodes chosen proportionally to degree.
func barabasiAlbert(m int) constructor {
	return func(n int, src dynamo.Source) (dynamo.Matrix, error) {
		if m >= n {
			return dynamo.Matrix{}, &dynamo.ParameterError{Field: "topology.m", Value: m, Reason: "must be less than the node count"}
		}
		a := dynamo.NewMatrix(n)
		repeated := make([]int, 0, 2*m*n)
		for leaf := 1; leaf <= m; leaf++ {
			link(a, 0, leaf)
			repeated = append(repeated, 0, leaf)
		}

		for source := m + 1; source < n; source++ {
			targets := make(map[int]bool, m)
			order := make([]int, 0, m)
			for len(order) < m {
				x := repeated[intn(src, len(repeated))]
				if !targets[x] {
					targets[x] = true
					order = append(order, x)
				}
			}
			for _, t := range order {
				link(a, source, t)
				repeated = append(repeated, t, source)
			}
		}
		return a, nil
	}
}
