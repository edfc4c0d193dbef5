// Package preorder implements Preorder, a row-major bit-matrix encoding of
// a reflexive binary relation over a fixed set of alternatives, together
// with the fast exhaustive preorder/partial-order/weak-order enumeration,
// the Steinhaus-Johnson-Trotter linear order generator, and a small cache
// of precomputed relation tables.
//
// Complexity notes on individual operations follow the teacher's
// convention of documenting algorithmic cost directly on the exported
// method.
package preorder

import (
	"encoding/base64"
	"errors"
	"io"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/codec"
	"github.com/prestsoftware/prest/digraph"
)

// Sentinel errors for preorder package operations.
var (
	// ErrSizeMismatch indicates two preorders of incompatible size were
	// combined.
	ErrSizeMismatch = errors.New("preorder: size mismatch")
)

// Block is the storage unit of a Preorder row, matching altset.Block so
// that an upset View can alias a Preorder row without conversion.
type Block = altset.Block

const blockBits = 32

func stride(size uint32) int {
	return int((size + blockBits - 1) / blockBits)
}

// Preorder is a row-major bit matrix: bit j of row i is set iff i <= j
// under the relation. Rows are not independently normalized (unlike
// AltSet) since every row always spans exactly Stride() blocks.
type Preorder struct {
	blocks []Block
	size   uint32
}

// New returns the all-zero (nowhere-related) relation over size
// alternatives. Callers typically follow with SetLEQ calls or use one of
// the constructors below.
func New(size uint32) Preorder {
	return Preorder{
		blocks: make([]Block, stride(size)*int(size)),
		size:   size,
	}
}

// Diagonal returns the identity relation: i <= j iff i == j.
func Diagonal(size uint32) Preorder {
	p := New(size)
	for i := uint32(0); i < size; i++ {
		p.SetLEQ(alt.Alt(i), alt.Alt(i), true)
	}
	return p
}

// Size returns the number of alternatives p relates.
func (p Preorder) Size() uint32 { return p.size }

func (p Preorder) rowOffset(i alt.Alt) int {
	return i.Index() * stride(p.size)
}

// SetLEQ sets or clears the bit for i <= j.
func (p *Preorder) SetLEQ(i, j alt.Alt, v bool) {
	idx := p.rowOffset(i) + j.Index()/blockBits
	bit := Block(1) << uint(j.Index()%blockBits)
	if v {
		p.blocks[idx] |= bit
	} else {
		p.blocks[idx] &^= bit
	}
}

// LEQ reports whether i <= j holds.
func (p Preorder) LEQ(i, j alt.Alt) bool {
	idx := p.rowOffset(i) + j.Index()/blockBits
	bit := Block(1) << uint(j.Index()%blockBits)
	return p.blocks[idx]&bit != 0
}

// LT reports whether i < j: i <= j and not j <= i.
func (p Preorder) LT(i, j alt.Alt) bool {
	return p.LEQ(i, j) && !p.LEQ(j, i)
}

// Eq reports whether i and j are equivalent: i <= j and j <= i.
func (p Preorder) Eq(i, j alt.Alt) bool {
	return p.LEQ(i, j) && p.LEQ(j, i)
}

// Upset returns a zero-copy view of the alternatives j with i <= j.
//
// Complexity: O(1).
func (p Preorder) Upset(i alt.Alt) altset.View {
	off := p.rowOffset(i)
	return altset.NewView(p.blocks[off : off+stride(p.size)])
}

// IsReflexive reports whether i <= i holds for every alternative.
//
// Complexity: O(N).
func (p Preorder) IsReflexive() bool {
	for i := uint32(0); i < p.size; i++ {
		if !p.LEQ(alt.Alt(i), alt.Alt(i)) {
			return false
		}
	}
	return true
}

// IsTransitive reports whether i <= j and j <= k implies i <= k for every
// triple.
//
// Complexity: O(N^3).
func (p Preorder) IsTransitive() bool {
	n := int(p.size)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if !p.LEQ(alt.Alt(i), alt.Alt(j)) {
				continue
			}
			for k := 0; k < n; k++ {
				if p.LEQ(alt.Alt(j), alt.Alt(k)) && !p.LEQ(alt.Alt(i), alt.Alt(k)) {
					return false
				}
			}
		}
	}
	return true
}

// IsStrict reports whether no two distinct alternatives are mutually
// related (an antisymmetric relation).
//
// Complexity: O(N^2).
func (p Preorder) IsStrict() bool {
	n := int(p.size)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if p.LEQ(alt.Alt(i), alt.Alt(j)) && p.LEQ(alt.Alt(j), alt.Alt(i)) {
				return false
			}
		}
	}
	return true
}

// IsTotal reports whether every pair of distinct alternatives is
// comparable in at least one direction.
//
// Complexity: O(N^2).
func (p Preorder) IsTotal() bool {
	n := int(p.size)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !p.LEQ(alt.Alt(i), alt.Alt(j)) && !p.LEQ(alt.Alt(j), alt.Alt(i)) {
				return false
			}
		}
	}
	return true
}

// FromValues builds the total preorder where i <= j iff values[i] <=
// values[j].
func FromValues(values []int) Preorder {
	n := uint32(len(values))
	p := New(n)
	for i := 0; i < len(values); i++ {
		for j := 0; j < len(values); j++ {
			if values[i] <= values[j] {
				p.SetLEQ(alt.Alt(i), alt.Alt(j), true)
			}
		}
	}
	return p
}

// AsLinearOrder returns the alternatives in descending order of upset
// size, i.e. from least to most preferred (largest upset first), or
// ok=false if p is not a strict total order (in which case upset sizes do
// not form a bijection onto 1..Size()).
func (p Preorder) AsLinearOrder() (order []alt.Alt, ok bool) {
	n := int(p.size)
	order = make([]alt.Alt, n)
	filled := make([]bool, n)
	for i := 0; i < n; i++ {
		sz := p.Upset(alt.Alt(i)).Size()
		if sz < 1 || sz > n || filled[sz-1] {
			return nil, false
		}
		order[n-sz] = alt.Alt(i)
		filled[sz-1] = true
	}
	return order, true
}

// AsWeakOrder groups alternatives into indifference classes, ordered from
// least to most preferred (descending upset size). It requires p to be
// total; if it is not, ok is false.
func (p Preorder) AsWeakOrder() (classes []altset.AltSet, ok bool) {
	if !p.IsTotal() {
		return nil, false
	}
	n := int(p.size)
	bySize := make(map[int][]alt.Alt)
	var sizes []int
	for i := 0; i < n; i++ {
		sz := p.Upset(alt.Alt(i)).Size()
		if _, seen := bySize[sz]; !seen {
			sizes = append(sizes, sz)
		}
		bySize[sz] = append(bySize[sz], alt.Alt(i))
	}
	sortInts(sizes)
	classes = make([]altset.AltSet, 0, len(sizes))
	for k := len(sizes) - 1; k >= 0; k-- {
		classes = append(classes, altset.FromAlts(bySize[sizes[k]]...))
	}
	return classes, true
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

// FromFastPreorder unpacks an 8-bits-per-row FastPreorder matrix (size <=
// 7) into a full Preorder.
func FromFastPreorder(size uint32, m FastPreorder) Preorder {
	p := New(size)
	for i := uint32(0); i < size; i++ {
		row := byte(uint64(m) >> (8 * i))
		for j := uint32(0); j < size; j++ {
			if row&(1<<j) != 0 {
				p.SetLEQ(alt.Alt(i), alt.Alt(j), true)
			}
		}
	}
	return p
}

func popcount32(b Block) int {
	n := 0
	for b != 0 {
		b &= b - 1
		n++
	}
	return n
}

// Stuff embeds p, a preorder over the "attractive" positions indicated by
// mask, into a relation over targetSize alternatives. Rows outside mask
// ("unattractive") are filled entirely with 1s, which is what makes
// Unattractiveness instances always rank masked-out alternatives below
// every attractive one. mask must have exactly p.Size() bits set.
func (p Preorder) Stuff(targetSize uint32, mask Block) Preorder {
	out := New(targetSize)
	srcIdx := make([]int, targetSize)
	attractive := make([]bool, targetSize)
	for t := uint32(0); t < targetSize; t++ {
		if mask&(Block(1)<<t) != 0 {
			attractive[t] = true
			srcIdx[t] = popcount32(mask & ((Block(1) << t) - 1))
		}
	}
	for t := uint32(0); t < targetSize; t++ {
		if !attractive[t] {
			for c := uint32(0); c < targetSize; c++ {
				out.SetLEQ(alt.Alt(t), alt.Alt(c), true)
			}
			continue
		}
		for c := uint32(0); c < targetSize; c++ {
			if attractive[c] && p.LEQ(alt.Alt(srcIdx[t]), alt.Alt(srcIdx[c])) {
				out.SetLEQ(alt.Alt(t), alt.Alt(c), true)
			}
		}
	}
	return out
}

// Edges returns every (i, j) pair with i != j and i <= j.
func (p Preorder) Edges() []alt.Pair {
	n := int(p.size)
	var out []alt.Pair
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && p.LEQ(alt.Alt(i), alt.Alt(j)) {
				out = append(out, alt.Pair{A: alt.Alt(i), B: alt.Alt(j)})
			}
		}
	}
	return out
}

// SimplifyEdges performs a transitive reduction of edges: it repeatedly
// drops any edge (i, j) reachable via a path through the other surviving
// edges, until no more can be dropped. edges is assumed to already be
// transitively closed (as Preorder.Edges always is).
func SimplifyEdges(edges []alt.Pair) []alt.Pair {
	cur := append([]alt.Pair(nil), edges...)
	for {
		removed := -1
		for idx, e := range cur {
			rest := make([]alt.Pair, 0, len(cur)-1)
			rest = append(rest, cur[:idx]...)
			rest = append(rest, cur[idx+1:]...)
			if isReachable(e.A, e.B, rest) {
				removed = idx
				cur = rest
				break
			}
		}
		if removed < 0 {
			return cur
		}
	}
}

func isReachable(from, to alt.Alt, edges []alt.Pair) bool {
	adj := make(map[alt.Alt][]alt.Alt)
	for _, e := range edges {
		adj[e.A] = append(adj[e.A], e.B)
	}
	visited := map[alt.Alt]bool{from: true}
	queue := []alt.Alt{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nxt := range adj[cur] {
			if nxt == to {
				return true
			}
			if !visited[nxt] {
				visited[nxt] = true
				queue = append(queue, nxt)
			}
		}
	}
	return false
}

// SimpleDigraph returns the transitive reduction of p's non-diagonal
// relation.
func (p Preorder) SimpleDigraph() []alt.Pair {
	return SimplifyEdges(p.Edges())
}

// ToPosetGraph clusters equivalent alternatives and returns the resulting
// partial order as a digraph whose vertices are the equivalence classes
// and whose edges are its transitive reduction.
func (p Preorder) ToPosetGraph() digraph.Graph[altset.AltSet] {
	n := int(p.size)
	repOf := make([]int, n)
	var clusterMembers [][]alt.Alt
	for i := 0; i < n; i++ {
		placed := -1
		for ci, members := range clusterMembers {
			if p.Eq(alt.Alt(i), members[0]) {
				placed = ci
				break
			}
		}
		if placed < 0 {
			placed = len(clusterMembers)
			clusterMembers = append(clusterMembers, nil)
		}
		clusterMembers[placed] = append(clusterMembers[placed], alt.Alt(i))
		repOf[i] = placed
	}

	clusters := make([]altset.AltSet, len(clusterMembers))
	for ci, members := range clusterMembers {
		clusters[ci] = altset.FromAlts(members...)
	}

	edgeSet := make(map[[2]int]struct{})
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && repOf[i] != repOf[j] && p.LEQ(alt.Alt(i), alt.Alt(j)) {
				edgeSet[[2]int{repOf[i], repOf[j]}] = struct{}{}
			}
		}
	}
	pairs := make([]alt.Pair, 0, len(edgeSet))
	for e := range edgeSet {
		pairs = append(pairs, alt.Pair{A: alt.Alt(e[0]), B: alt.Alt(e[1])})
	}
	reduced := SimplifyEdges(pairs)

	g := digraph.Graph[altset.AltSet]{Vertices: clusters}
	for _, e := range reduced {
		g.Edges = append(g.Edges, [2]int{e.A.Index(), e.B.Index()})
	}
	return g
}

// Encode writes p's size followed by its raw row-major blocks.
func (p Preorder) Encode(w io.Writer) error {
	if err := codec.WriteUint32(w, p.size); err != nil {
		return err
	}
	blocks := make([]uint32, len(p.blocks))
	for i, b := range p.blocks {
		blocks[i] = uint32(b)
	}
	return codec.WriteUint32Slice(w, blocks)
}

// Decode reads a value written by Encode.
func Decode(r io.Reader) (Preorder, error) {
	size, err := codec.ReadUint32(r)
	if err != nil {
		return Preorder{}, err
	}
	blocks, err := codec.ReadUint32Slice(r)
	if err != nil {
		return Preorder{}, err
	}
	return Preorder{blocks: blocks, size: size}, nil
}

// ToBase64 encodes p and wraps it in standard base64.
func (p Preorder) ToBase64() (string, error) {
	b, err := codec.EncodeToMemory(p.Encode)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// FromBase64 decodes a value written by ToBase64.
func FromBase64(s string) (Preorder, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Preorder{}, err
	}
	return codec.DecodeFromMemory(b, Decode)
}
