package consistency

import (
	"math/big"
	"sort"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/digraph"
	"github.com/prestsoftware/prest/subject"
)

// maxTupleCycleLen rejects tuple-intransitivity cycles longer than this as
// too large to instantiate exhaustively.
const maxTupleCycleLen = 24

// CycleRow aggregates every cycle of one length for SARP/GARP reporting.
type CycleRow struct {
	Length   int
	SARP     *big.Int
	GARP     *big.Int
	CycleIDs []int
}

// Violations is the full result of the deterministic analysis.
type Violations struct {
	Cycles []Cycle
	Rows   []CycleRow

	WARP      *big.Int
	WARPPairs int

	ContractionPairs int
	ContractionAll   int

	BinaryIntransitivities []BinaryIntransitivityRow
	TupleIntransitivities  []TupleIntransitivityRow

	HoutmanMaksLower int
	HoutmanMaksUpper int
}

// BinaryIntransitivityRow aggregates binary-menu intransitivity
// multiplicities by chain length (number of edges in the chain).
type BinaryIntransitivityRow struct {
	Length     int
	Multiplier *big.Int
}

// TupleIntransitivityRow aggregates a cycle's distinct instantiations,
// grouped by cycle length.
type TupleIntransitivityRow struct {
	Length int
	Menus  []altset.AltSet // alternatives spanned by the menus of one distinct instantiation (deduped by exact menu sequence)
	Alts   []altset.AltSet // alternatives spanned by one distinct instantiation (deduped by the resulting alt-set alone)
}

// Analyze runs the full deterministic analysis over a subject's
// observations. allowRepeatedMenus disables the ErrRepeatedMenu
// precondition.
func Analyze(altCount uint32, choices []subject.ChoiceRow, allowRepeatedMenus bool) (*Violations, error) {
	g, err := BuildGraph(altCount, choices, allowRepeatedMenus)
	if err != nil {
		return nil, err
	}

	cycles := g.FindCycles(maxTupleCycleLen)
	v := &Violations{Cycles: cycles}

	byLen := make(map[int]*CycleRow)
	warp := big.NewInt(0)
	warpPairs := make(map[[2]int]bool)

	for ci, c := range cycles {
		edges := cycleEdges(c)
		sarp := sarpMultiplicity(g, edges)
		garp := garpMultiplicity(g, edges)

		row, ok := byLen[len(c)]
		if !ok {
			row = &CycleRow{Length: len(c), SARP: big.NewInt(0), GARP: big.NewInt(0)}
			byLen[len(c)] = row
		}
		row.SARP.Add(row.SARP, sarp)
		row.GARP.Add(row.GARP, garp)
		row.CycleIDs = append(row.CycleIDs, ci)

		if len(c) == 2 {
			warp.Add(warp, garp)
			u, w := c[0].Index(), c[1].Index()
			if u > w {
				u, w = w, u
			}
			warpPairs[[2]int{u, w}] = true
		}
	}
	for _, row := range byLen {
		v.Rows = append(v.Rows, *row)
	}
	sort.Slice(v.Rows, func(i, j int) bool { return v.Rows[i].Length < v.Rows[j].Length })
	v.WARP = warp
	v.WARPPairs = len(warpPairs)

	v.ContractionPairs, v.ContractionAll = contractionConsistency(choices)
	v.BinaryIntransitivities = binaryIntransitivities(g, choices)

	tuples, err := tupleIntransitivities(g, choices, cycles)
	if err != nil {
		return nil, err
	}
	v.TupleIntransitivities = tuples

	v.HoutmanMaksLower, v.HoutmanMaksUpper = houtmanMaksBounds(int(altCount), cycles)

	return v, nil
}

// sarpMultiplicity is the product, over the cycle's edges, of the strict
// edge count: a cycle only counts toward SARP if every edge is realized by
// at least one strict observation.
func sarpMultiplicity(g *Graph, edges []edgeKey) *big.Int {
	out := big.NewInt(1)
	for _, e := range edges {
		out.Mul(out, big.NewInt(int64(g.Strict[e])))
	}
	return out
}

// garpMultiplicity counts edge-realization combinations in which at least
// one chosen realization is strict. This is the closed-form equivalent of
// summing, per edge, a strict-count branch (which permanently satisfies
// the "at least one strict edge" requirement) or a weak-count branch
// (nonstrict minus strict) over every other edge: total combinations minus
// the combinations using no strict realization at all.
func garpMultiplicity(g *Graph, edges []edgeKey) *big.Int {
	total := big.NewInt(1)
	allWeak := big.NewInt(1)
	for _, e := range edges {
		nonStrict := int64(g.NonStrict[e])
		strict := int64(g.Strict[e])
		total.Mul(total, big.NewInt(nonStrict))
		allWeak.Mul(allWeak, big.NewInt(nonStrict-strict))
	}
	return new(big.Int).Sub(total, allWeak)
}

// contractionConsistency counts, over every ordered pair of observations
// (A, B) with menu(A) a strict subset of menu(B), violations where an
// alternative chosen in B but available (and not chosen) in A should have
// been chosen in A too.
func contractionConsistency(choices []subject.ChoiceRow) (pairs, all int) {
	for ai, a := range choices {
		for bi, b := range choices {
			if ai == bi {
				continue
			}
			if !a.Menu.IsStrictSubsetOf(b.Menu) {
				continue
			}
			violated := false
			it := b.Choice.And(a.Menu).Sub(a.Choice).Iter()
			for _, ok := it(); ok; _, ok = it() {
				all++
				violated = true
			}
			if violated {
				pairs++
			}
		}
	}
	return pairs, all
}

// binaryIntransitivities enumerates every simple directed path in the
// binary-menu (size-2 observations only) subgraph, multiplies each path's
// edge-count product by the number of direct binary observations of its
// endpoints that contradict the chain, and groups by chain length.
func binaryIntransitivities(g *Graph, choices []subject.ChoiceRow) []BinaryIntransitivityRow {
	bg, _ := BuildGraph(uint32(g.AltCount), filterBinaryMenuRows(choices), true)

	byLen := make(map[int]*big.Int)
	adj := bg.adjacency()

	var path []alt.Alt
	onPath := make(map[alt.Alt]bool)

	var dfs func(cur alt.Alt, mult *big.Int)
	dfs = func(cur alt.Alt, mult *big.Int) {
		if len(path) >= 2 {
			top := path[len(path)-1] // most preferred (chain head reached so far)
			bottom := path[0]
			contra := bg.NonStrict[edgeKey{I: top, J: bottom}]
			if contra > 0 {
				n := len(path) - 1
				total := new(big.Int).Mul(mult, big.NewInt(int64(contra)))
				if byLen[n] == nil {
					byLen[n] = big.NewInt(0)
				}
				byLen[n].Add(byLen[n], total)
			}
		}
		for _, next := range adj[cur] {
			if onPath[next] {
				continue
			}
			cnt := bg.NonStrict[edgeKey{I: cur, J: next}]
			path = append(path, next)
			onPath[next] = true
			dfs(next, new(big.Int).Mul(mult, big.NewInt(int64(cnt))))
			onPath[next] = false
			path = path[:len(path)-1]
		}
	}

	for i := 0; i < bg.AltCount; i++ {
		start := alt.Alt(i)
		path = []alt.Alt{start}
		onPath[start] = true
		dfs(start, big.NewInt(1))
		onPath[start] = false
	}

	var out []BinaryIntransitivityRow
	for length, mult := range byLen {
		out = append(out, BinaryIntransitivityRow{Length: length, Multiplier: mult})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Length < out[j].Length })
	return out
}

func filterBinaryMenuRows(choices []subject.ChoiceRow) []subject.ChoiceRow {
	var out []subject.ChoiceRow
	for _, cr := range choices {
		if cr.Menu.Size() == 2 {
			out = append(out, cr)
		}
	}
	return out
}

// tupleIntransitivities enumerates, for every cycle containing at least
// one strict edge, every distinct way to instantiate each edge with a
// concrete observation row, and records the menus and alternatives
// touched by each instantiation, grouped by cycle length.
func tupleIntransitivities(g *Graph, choices []subject.ChoiceRow, cycles []Cycle) ([]TupleIntransitivityRow, error) {
	byLen := make(map[int]*TupleIntransitivityRow)

	for _, c := range cycles {
		if len(c) > maxTupleCycleLen {
			continue
		}
		edges := cycleEdges(c)
		hasStrict := false
		for _, e := range edges {
			if g.Strict[e] > 0 {
				hasStrict = true
				break
			}
		}
		if !hasStrict {
			continue
		}

		rowChoices := make([][]int, len(edges))
		for i, e := range edges {
			rowChoices[i] = g.nonStrictRows[e]
		}

		row, ok := byLen[len(c)]
		if !ok {
			row = &TupleIntransitivityRow{Length: len(c)}
			byLen[len(c)] = row
		}

		seenMenus := make(map[string]bool)
		seenAlts := make(map[string]bool)
		forEachInstantiation(rowChoices, func(rowIdxs []int) {
			altSet := altset.Empty()
			menuKey := ""
			for _, ri := range rowIdxs {
				cr := choices[ri]
				altSet = altSet.Or(cr.Menu)
				menuKey += cr.Menu.String(nil) + ";"
			}
			if !seenMenus[menuKey] {
				seenMenus[menuKey] = true
				row.Menus = append(row.Menus, altSet)
			}
			altKey := altSet.String(nil)
			if !seenAlts[altKey] {
				seenAlts[altKey] = true
				row.Alts = append(row.Alts, altSet)
			}
		})
	}

	var out []TupleIntransitivityRow
	for _, row := range byLen {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Length < out[j].Length })
	return out, nil
}

// forEachInstantiation calls f once per element of the Cartesian product
// of choices (choices[i] is the set of candidate row indices for edge i).
func forEachInstantiation(choices [][]int, f func([]int)) {
	n := len(choices)
	if n == 0 {
		return
	}
	idx := make([]int, n)
	cur := make([]int, n)
	for {
		empty := false
		for i, c := range choices {
			if len(c) == 0 {
				empty = true
				break
			}
			cur[i] = c[idx[i]]
		}
		if !empty {
			f(append([]int{}, cur...))
		}
		i := n - 1
		for i >= 0 {
			idx[i]++
			if idx[i] < len(choices[i]) {
				break
			}
			idx[i] = 0
			i--
		}
		if i < 0 {
			break
		}
	}
}

// houtmanMaksBounds computes the lower bound (connected components of the
// cycle hypergraph, via union-find over alternatives touched by each
// cycle) and the upper bound (a greedy vertex hitting set over the
// cycles, computed as a set cover in the dual: one set per vertex,
// containing the cycles it appears in).
func houtmanMaksBounds(altCount int, cycles []Cycle) (lower, upper int) {
	if len(cycles) == 0 {
		return 0, 0
	}

	parent := make([]int, altCount)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	touched := make(map[int]bool)
	for _, c := range cycles {
		first := c[0].Index()
		touched[first] = true
		for _, a := range c[1:] {
			touched[a.Index()] = true
			union(first, a.Index())
		}
	}
	roots := make(map[int]bool)
	for v := range touched {
		roots[find(v)] = true
	}
	lower = len(roots)

	vertexSets := make([]map[int]struct{}, altCount)
	for v := range vertexSets {
		vertexSets[v] = make(map[int]struct{})
	}
	for ci, c := range cycles {
		for _, a := range c {
			vertexSets[a.Index()][ci] = struct{}{}
		}
	}
	selected := digraph.GreedySetCover(vertexSets)
	upper = len(selected)
	return lower, upper
}
