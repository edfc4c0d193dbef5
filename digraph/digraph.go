// Package digraph provides a minimal generic directed graph and a greedy
// set-cover helper, shared by the preorder-to-poset rendering in package
// preorder and the Houtman-Maks upper bound in package consistency.
package digraph

// Graph is a vertex-indexed directed graph over an arbitrary vertex type.
// Edges are stored as (from, to) index pairs into Vertices.
type Graph[V any] struct {
	Vertices []V
	Edges    [][2]int
}

// Empty returns a Graph with no vertices or edges.
func Empty[V any]() Graph[V] {
	return Graph[V]{}
}

// FromVerticesEdges builds a Graph by looking each edge endpoint up in
// vertices. Every vertex value must be unique, since lookups are keyed by
// value equality.
func FromVerticesEdges[V comparable](vertices []V, edgePairs [][2]V) Graph[V] {
	idx := make(map[V]int, len(vertices))
	for i, v := range vertices {
		idx[v] = i
	}
	g := Graph[V]{Vertices: append([]V(nil), vertices...)}
	for _, e := range edgePairs {
		g.Edges = append(g.Edges, [2]int{idx[e[0]], idx[e[1]]})
	}
	return g
}

// GreedySetCover picks a small (not necessarily minimum) collection of set
// indices whose union covers every element appearing in sets, by
// repeatedly choosing the set that covers the most not-yet-covered
// elements. It returns the chosen indices.
func GreedySetCover[T comparable](sets []map[T]struct{}) map[int]struct{} {
	universe := make(map[T]struct{})
	for _, s := range sets {
		for e := range s {
			universe[e] = struct{}{}
		}
	}

	covered := make(map[T]struct{}, len(universe))
	selected := make(map[int]struct{})

	for len(covered) < len(universe) {
		bestIdx, bestNew := -1, -1
		for i, s := range sets {
			if _, done := selected[i]; done {
				continue
			}
			n := 0
			for e := range s {
				if _, ok := covered[e]; !ok {
					n++
				}
			}
			if n > bestNew {
				bestNew, bestIdx = n, i
			}
		}
		if bestIdx < 0 || bestNew <= 0 {
			break
		}
		selected[bestIdx] = struct{}{}
		for e := range sets[bestIdx] {
			covered[e] = struct{}{}
		}
	}

	return selected
}
