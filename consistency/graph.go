// Package consistency implements two independent analyses of a subject's
// observed choices: a deterministic analyzer that finds GARP/SARP/WARP
// violations, contraction-consistency violations, and binary/tuple
// intransitivity cycles; and a stochastic analyzer that checks weak,
// moderate, and strong stochastic transitivity plus regularity from
// empirical choice frequencies.
package consistency

import (
	"errors"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/subject"
)

// ErrRepeatedMenu indicates two observations share the same menu, which
// the deterministic analyzer rejects unless explicitly permitted.
var ErrRepeatedMenu = errors.New("consistency: repeated menu in observations")

// edgeKey identifies a directed pair of alternatives in the revealed
// preference graph, i -> j meaning "j was (weakly/strictly) revealed
// preferred to i".
type edgeKey struct {
	I, J alt.Alt
}

// Graph is a directed multigraph over a subject's alternatives built from
// revealed-preference edges: one edge i -> j per observed row where i was
// in the menu and j was chosen, and a second, strict-graph copy of that
// edge when i itself was not chosen.
type Graph struct {
	AltCount int

	// NonStrict[e] counts observations revealing j at-least-as-preferred
	// to i (i in menu, j in choice).
	NonStrict map[edgeKey]int

	// Strict[e] counts observations additionally revealing i is not
	// itself chosen (i in menu \ choice, j in choice): i is strictly
	// worse than j.
	Strict map[edgeKey]int

	// rows records, per edge, which observation row indices contributed
	// to it, needed by the intransitivity instantiation walk.
	nonStrictRows map[edgeKey][]int
	strictRows    map[edgeKey][]int
}

// BuildGraph constructs the non-strict/strict revealed-preference
// multigraphs from a subject's observed choice rows. allowRepeatedMenus
// disables the ErrRepeatedMenu precondition check.
func BuildGraph(altCount uint32, choices []subject.ChoiceRow, allowRepeatedMenus bool) (*Graph, error) {
	if !allowRepeatedMenus {
		seen := make(map[string]bool)
		for _, cr := range choices {
			key := cr.Menu.String(nil)
			if seen[key] {
				return nil, ErrRepeatedMenu
			}
			seen[key] = true
		}
	}

	g := &Graph{
		AltCount:      int(altCount),
		NonStrict:     make(map[edgeKey]int),
		Strict:        make(map[edgeKey]int),
		nonStrictRows: make(map[edgeKey][]int),
		strictRows:    make(map[edgeKey][]int),
	}

	for rowIdx, cr := range choices {
		menu := cr.Menu.Alts()
		chosen := cr.Choice
		for _, i := range menu {
			for _, j := range menu {
				if i == j || !chosen.Contains(j) {
					continue
				}
				k := edgeKey{i, j}
				g.NonStrict[k]++
				g.nonStrictRows[k] = append(g.nonStrictRows[k], rowIdx)
				if !chosen.Contains(i) {
					g.Strict[k]++
					g.strictRows[k] = append(g.strictRows[k], rowIdx)
				}
			}
		}
	}
	return g, nil
}
