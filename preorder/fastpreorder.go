package preorder

// FastPreorder packs a preorder over at most 7 alternatives into a single
// uint64, 8 bits per row (one byte per row, only the low n bits of each
// byte used). It exists purely as a compact, comparable/hashable key for
// the exhaustive enumeration below; FromFastPreorder expands it into a
// full Preorder.
type FastPreorder uint64

func ix(m uint64, i, j uint32) bool {
	return (m>>(8*i+j))&1 != 0
}

// nextEmptyCell finds the next off-diagonal cell after (i, j), in
// row-major order, whose bit is unset in m.
func nextEmptyCell(n uint32, m uint64, i, j uint32) (ni, nj uint32, ok bool) {
	ci, cj := i, j
	for {
		cj++
		if cj >= n {
			ci++
			cj = 0
		}
		if ci >= n {
			return 0, 0, false
		}
		if ci == cj {
			continue
		}
		if !ix(m, ci, cj) {
			return ci, cj, true
		}
	}
}

// choose performs the branch-and-bound search over every way of filling
// in the remaining off-diagonal cells of m, starting at cell (i, j), such
// that the result is transitive. history memoises, per distinct matrix
// value, the earliest cell position from which it has already been fully
// explored, so that re-encountering the same matrix at an equal or later
// position short-circuits. Every matrix value left in history once the
// top-level call returns is a complete (fully decided) transitive
// relation — recordLeaf always drives its entry down to 0, the smallest
// possible position, and a matrix can only be pruned once something has
// already walked its "leave every remaining cell unset" branch down to a
// leaf.
func choose(n uint32, history map[uint64]int, m uint64, i, j uint32) {
	curPos := int(i*n + j)
	if earliest, ok := history[m]; ok && earliest <= curPos {
		return
	}

	// Leave i <= j unset.
	if ni, nj, ok := nextEmptyCell(n, m, i, j); ok {
		choose(n, history, m, ni, nj)
	} else {
		recordLeaf(history, m)
	}

	// Set i <= j and close the relation under transitivity.
	newM := m | (uint64(1) << (8*i + j))
	prop := [][2]uint32{{i, j}}
	for k := 0; k < len(prop); k++ {
		a, b := prop[k][0], prop[k][1]
		for c := uint32(0); c < n; c++ {
			if ix(newM, c, a) && !ix(newM, c, b) {
				newM |= uint64(1) << (8*c + b)
				prop = append(prop, [2]uint32{c, b})
			}
			if ix(newM, b, c) && !ix(newM, a, c) {
				newM |= uint64(1) << (8*a + c)
				prop = append(prop, [2]uint32{a, c})
			}
		}
	}
	if ni, nj, ok := nextEmptyCell(n, newM, i, j); ok {
		choose(n, history, newM, ni, nj)
	} else {
		recordLeaf(history, newM)
	}

	recordEarliest(history, m, curPos)
}

func recordLeaf(history map[uint64]int, m uint64) {
	if earliest, ok := history[m]; !ok || earliest > 0 {
		history[m] = 0
	}
}

func recordEarliest(history map[uint64]int, m uint64, pos int) {
	if earliest, ok := history[m]; !ok || pos < earliest {
		history[m] = pos
	}
}

// AllFastPreorders exhaustively enumerates every reflexive, transitive
// relation over n <= 7 alternatives, returned as packed FastPreorder
// matrices in no particular order.
//
// Complexity: exponential in the worst case, bounded in practice by the
// transitivity propagation and duplicate pruning above; used only for
// n <= 7.
func AllFastPreorders(n uint32) []FastPreorder {
	if n == 0 {
		return []FastPreorder{FastPreorder(0)}
	}
	if n == 1 {
		return []FastPreorder{FastPreorder(1)}
	}

	var m uint64
	for i := uint32(0); i < n; i++ {
		m |= uint64(1) << (8*i + i)
	}

	history := make(map[uint64]int)
	choose(n, history, m, 0, 1)

	out := make([]FastPreorder, 0, len(history))
	for k := range history {
		out = append(out, FastPreorder(k))
	}
	return out
}
