// Package alt defines Alt, the zero-based index type used throughout prest
// to name an alternative within a menu.
package alt

import "fmt"

// Alt is the index of an alternative. Alternatives are numbered 0..N-1 for
// a subject with N distinct alternatives; the mapping between an Alt and a
// human-readable label lives on subject.Subject, not here.
type Alt uint32

// Index returns the zero-based index of a as a plain int, for use as a
// slice/array subscript.
func (a Alt) Index() int {
	return int(a)
}

// String renders a as its decimal index.
func (a Alt) String() string {
	return fmt.Sprintf("%d", uint32(a))
}

// All returns the alternatives 0..altCount-1 in ascending order.
func All(altCount uint32) []Alt {
	out := make([]Alt, altCount)
	for i := range out {
		out[i] = Alt(i)
	}
	return out
}

// AllAbove returns the alternatives strictly greater than a, up to
// altCount-1, in ascending order.
func AllAbove(a Alt, altCount uint32) []Alt {
	if a.Index()+1 >= int(altCount) {
		return nil
	}
	out := make([]Alt, 0, int(altCount)-a.Index()-1)
	for i := a.Index() + 1; i < int(altCount); i++ {
		out = append(out, Alt(i))
	}
	return out
}

// Pair is an ordered pair of alternatives.
type Pair struct {
	A, B Alt
}

// AllPairs returns every ordered pair (x, y) with x, y in 0..altCount-1,
// including x == y.
func AllPairs(altCount uint32) []Pair {
	out := make([]Pair, 0, int(altCount)*int(altCount))
	for _, x := range All(altCount) {
		for _, y := range All(altCount) {
			out = append(out, Pair{x, y})
		}
	}
	return out
}

// DistinctPairs returns every ordered pair (x, y) with x != y, x, y in
// 0..altCount-1.
func DistinctPairs(altCount uint32) []Pair {
	out := make([]Pair, 0, int(altCount)*(int(altCount)-1))
	for _, x := range All(altCount) {
		for _, y := range All(altCount) {
			if x != y {
				out = append(out, Pair{x, y})
			}
		}
	}
	return out
}
