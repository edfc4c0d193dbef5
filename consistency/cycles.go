package consistency

import (
	"fmt"
	"strings"

	"github.com/prestsoftware/prest/alt"
)

// Cycle is a simple directed cycle in the non-strict revealed-preference
// graph, canonicalized to start at its minimum-index vertex.
type Cycle []alt.Alt

func (c Cycle) key() string {
	parts := make([]string, len(c))
	for i, a := range c {
		parts[i] = fmt.Sprintf("%d", a.Index())
	}
	return strings.Join(parts, ",")
}

func (g *Graph) adjacency() map[alt.Alt][]alt.Alt {
	adj := make(map[alt.Alt][]alt.Alt)
	seen := make(map[edgeKey]bool)
	for k := range g.NonStrict {
		if seen[k] {
			continue
		}
		seen[k] = true
		adj[k.I] = append(adj[k.I], k.J)
	}
	return adj
}

// FindCycles enumerates every simple directed cycle in g's non-strict
// graph exactly once, each canonicalized to start at its minimum-index
// vertex (achieved by only extending a path to vertices whose index is
// not below the cycle's start, which both canonicalizes and prevents
// revisiting the same cycle from a different starting vertex).
func (g *Graph) FindCycles(maxLen int) []Cycle {
	adj := g.adjacency()
	var out []Cycle
	seen := make(map[string]bool)

	path := make([]alt.Alt, 0, 8)
	onPath := make(map[alt.Alt]bool)

	var dfs func(start, cur alt.Alt)
	dfs = func(start, cur alt.Alt) {
		if maxLen > 0 && len(path) > maxLen {
			return
		}
		for _, next := range adj[cur] {
			if next == start {
				cyc := append(Cycle{}, path...)
				key := cyc.key()
				if !seen[key] {
					seen[key] = true
					out = append(out, cyc)
				}
				continue
			}
			if next.Index() < start.Index() || onPath[next] {
				continue
			}
			path = append(path, next)
			onPath[next] = true
			dfs(start, next)
			onPath[next] = false
			path = path[:len(path)-1]
		}
	}

	for i := 0; i < g.AltCount; i++ {
		start := alt.Alt(i)
		path = path[:0]
		path = append(path, start)
		onPath[start] = true
		dfs(start, start)
		onPath[start] = false
	}
	return out
}

// cycleEdges returns the consecutive directed edges of c (wrapping from
// the last vertex back to the first).
func cycleEdges(c Cycle) []edgeKey {
	out := make([]edgeKey, len(c))
	for i := range c {
		out[i] = edgeKey{I: c[i], J: c[(i+1)%len(c)]}
	}
	return out
}
