// Package altset implements AltSet, a little-endian bit-vector set of
// alternatives, and the zero-copy AltSetView over a row of a Preorder
// matrix.
package altset

import (
	"strings"

	"github.com/prestsoftware/prest/alt"
)

// Block is the storage unit of an AltSet: 32 bits per block, bit i of
// block[0] encodes membership of alt.Alt(i).
type Block = uint32

// blockBits is the number of membership bits carried by one Block.
const blockBits = 32

// AltSet is a normalized little-endian bit-vector of alternative indices.
// Normalized means no trailing all-zero Block: the empty set is the empty
// slice, and every AltSet has exactly ceil(maxMember+1, blockBits) blocks.
// Two AltSets are value-equal with reflect.DeepEqual/==-on-slices only
// when both are normalized; always construct and mutate through the
// functions in this package so that invariant holds.
type AltSet struct {
	blocks []Block
}

// View is a zero-copy, read-only view over the blocks of an AltSet (or a
// Preorder row). It exposes the same query surface as AltSet without
// requiring a copy.
type View struct {
	blocks []Block
}

// Empty returns the empty AltSet.
func Empty() AltSet {
	return AltSet{}
}

// Full returns the AltSet containing every alternative 0..altCount-1.
func Full(altCount uint32) AltSet {
	if altCount == 0 {
		return Empty()
	}
	nblocks := int((altCount + blockBits - 1) / blockBits)
	blocks := make([]Block, nblocks)
	for i := range blocks {
		blocks[i] = ^Block(0)
	}
	// clear the bits beyond altCount in the last block
	rem := altCount % blockBits
	if rem != 0 {
		blocks[nblocks-1] &= (Block(1) << rem) - 1
	}
	return normalise(blocks)
}

// Singleton returns the AltSet containing exactly x.
func Singleton(x alt.Alt) AltSet {
	nblocks := x.Index()/blockBits + 1
	blocks := make([]Block, nblocks)
	blocks[x.Index()/blockBits] = Block(1) << uint(x.Index()%blockBits)
	return AltSet{blocks: blocks}
}

// FromBlock builds a single-block AltSet directly from a raw Block value.
// This mirrors the original representation used by exhaustive powerset
// enumeration, which only ever needs fewer than blockBits alternatives.
func FromBlock(b Block) AltSet {
	return normalise([]Block{b})
}

// FromBlocks builds an AltSet from raw blocks, normalising trailing zeros.
func FromBlocks(blocks []Block) AltSet {
	cp := make([]Block, len(blocks))
	copy(cp, blocks)
	return normalise(cp)
}

// FromAlts builds the AltSet containing exactly the given alternatives.
func FromAlts(alts ...alt.Alt) AltSet {
	maxIdx := -1
	for _, a := range alts {
		if a.Index() > maxIdx {
			maxIdx = a.Index()
		}
	}
	if maxIdx < 0 {
		return Empty()
	}
	blocks := make([]Block, maxIdx/blockBits+1)
	for _, a := range alts {
		blocks[a.Index()/blockBits] |= Block(1) << uint(a.Index()%blockBits)
	}
	return AltSet{blocks: blocks}
}

func normalise(blocks []Block) AltSet {
	n := len(blocks)
	for n > 0 && blocks[n-1] == 0 {
		n--
	}
	return AltSet{blocks: blocks[:n]}
}

// NewView wraps raw blocks (e.g. a Preorder row) as a View without
// copying.
func NewView(blocks []Block) View {
	return View{blocks: blocks}
}

// View returns a zero-copy View over s.
func (s AltSet) View() View {
	return View{blocks: s.blocks}
}

// Blocks returns the raw normalized blocks backing s. Callers must not
// mutate the returned slice.
func (s AltSet) Blocks() []Block {
	return s.blocks
}

// Equal reports whether s and o contain the same alternatives. Both
// operands must be normalized, which holds for every AltSet produced by
// this package.
func (s AltSet) Equal(o AltSet) bool {
	if len(s.blocks) != len(o.blocks) {
		return false
	}
	for i := range s.blocks {
		if s.blocks[i] != o.blocks[i] {
			return false
		}
	}
	return true
}

// Or returns the union of s and o.
func (s AltSet) Or(o AltSet) AltSet {
	n := len(s.blocks)
	if len(o.blocks) > n {
		n = len(o.blocks)
	}
	out := make([]Block, n)
	for i := 0; i < n; i++ {
		var a, b Block
		if i < len(s.blocks) {
			a = s.blocks[i]
		}
		if i < len(o.blocks) {
			b = o.blocks[i]
		}
		out[i] = a | b
	}
	return normalise(out)
}

// And returns the intersection of s and o.
func (s AltSet) And(o AltSet) AltSet {
	n := len(s.blocks)
	if len(o.blocks) < n {
		n = len(o.blocks)
	}
	out := make([]Block, n)
	for i := 0; i < n; i++ {
		out[i] = s.blocks[i] & o.blocks[i]
	}
	return normalise(out)
}

// Sub returns s with every member of o removed.
func (s AltSet) Sub(o AltSet) AltSet {
	out := make([]Block, len(s.blocks))
	for i := range out {
		a := s.blocks[i]
		var b Block
		if i < len(o.blocks) {
			b = o.blocks[i]
		}
		out[i] = a &^ b
	}
	return normalise(out)
}

// AndView returns the intersection of s with a View (e.g. a Preorder
// row), without requiring the caller to materialise the View as an
// AltSet first.
func (s AltSet) AndView(v View) AltSet {
	n := len(s.blocks)
	if len(v.blocks) < n {
		n = len(v.blocks)
	}
	out := make([]Block, n)
	for i := 0; i < n; i++ {
		out[i] = s.blocks[i] & v.blocks[i]
	}
	return normalise(out)
}

// View query surface. AltSet delegates to View so the logic is written once.

// Contains reports whether v contains a.
func (v View) Contains(a alt.Alt) bool {
	i := a.Index() / blockBits
	if i >= len(v.blocks) {
		return false
	}
	return v.blocks[i]&(Block(1)<<uint(a.Index()%blockBits)) != 0
}

// Contains reports whether s contains a.
func (s AltSet) Contains(a alt.Alt) bool { return s.View().Contains(a) }

// IsEmpty reports whether v has no members.
func (v View) IsEmpty() bool { return len(v.blocks) == 0 }

// IsEmpty reports whether s has no members.
func (s AltSet) IsEmpty() bool { return len(s.blocks) == 0 }

// IsNonEmpty reports whether v has at least one member.
func (v View) IsNonEmpty() bool { return !v.IsEmpty() }

// IsNonEmpty reports whether s has at least one member.
func (s AltSet) IsNonEmpty() bool { return !s.IsEmpty() }

// IsSubsetEqOf reports whether every member of v is also a member of o.
func (v View) IsSubsetEqOf(o View) bool {
	for i, b := range v.blocks {
		var ob Block
		if i < len(o.blocks) {
			ob = o.blocks[i]
		}
		if b&^ob != 0 {
			return false
		}
	}
	return true
}

// IsSubsetEqOf reports whether s is a subset-or-equal of o.
func (s AltSet) IsSubsetEqOf(o AltSet) bool { return s.View().IsSubsetEqOf(o.View()) }

// IsStrictSubsetOf reports whether v is a proper subset of o.
func (v View) IsStrictSubsetOf(o View) bool {
	return v.IsSubsetEqOf(o) && v.Size() != o.Size()
}

// IsStrictSubsetOf reports whether s is a proper subset of o.
func (s AltSet) IsStrictSubsetOf(o AltSet) bool { return s.View().IsStrictSubsetOf(o.View()) }

// IsStrictSupersetOf reports whether v is a proper superset of o.
func (v View) IsStrictSupersetOf(o View) bool { return o.IsStrictSubsetOf(v) }

// IsStrictSupersetOf reports whether s is a proper superset of o.
func (s AltSet) IsStrictSupersetOf(o AltSet) bool { return s.View().IsStrictSupersetOf(o.View()) }

// Size returns the number of members of v.
func (v View) Size() int {
	n := 0
	for _, b := range v.blocks {
		n += popcount(b)
	}
	return n
}

// Size returns the number of members of s.
func (s AltSet) Size() int { return s.View().Size() }

func popcount(b Block) int {
	n := 0
	for b != 0 {
		b &= b - 1
		n++
	}
	return n
}

// IsSingleton reports whether v has exactly one member.
func (v View) IsSingleton() bool { return v.Size() == 1 }

// IsSingleton reports whether s has exactly one member.
func (s AltSet) IsSingleton() bool { return s.View().IsSingleton() }

// AsSingleton returns the sole member of v and true, or (0, false) if v
// does not have exactly one member.
func (v View) AsSingleton() (alt.Alt, bool) {
	if !v.IsSingleton() {
		return 0, false
	}
	it := v.Iter()
	a, _ := it()
	return a, true
}

// AsSingleton returns the sole member of s, or (0, false).
func (s AltSet) AsSingleton() (alt.Alt, bool) { return s.View().AsSingleton() }

// Iter returns a stateful iterator function: each call returns the next
// member in ascending order and true, or (0, false) once exhausted.
func (v View) Iter() func() (alt.Alt, bool) {
	blockIdx := 0
	cur := Block(0)
	if len(v.blocks) > 0 {
		cur = v.blocks[0]
	}
	base := 0
	return func() (alt.Alt, bool) {
		for {
			if cur == 0 {
				blockIdx++
				if blockIdx >= len(v.blocks) {
					return 0, false
				}
				cur = v.blocks[blockIdx]
				base = blockIdx * blockBits
				continue
			}
			tz := trailingZeros(cur)
			cur &^= Block(1) << uint(tz)
			return alt.Alt(base + tz), true
		}
	}
}

// Iter returns a stateful iterator over s's members in ascending order.
func (s AltSet) Iter() func() (alt.Alt, bool) { return s.View().Iter() }

// Alts materialises every member of v in ascending order.
func (v View) Alts() []alt.Alt {
	out := make([]alt.Alt, 0, v.Size())
	it := v.Iter()
	for a, ok := it(); ok; a, ok = it() {
		out = append(out, a)
	}
	return out
}

// Alts materialises every member of s in ascending order.
func (s AltSet) Alts() []alt.Alt { return s.View().Alts() }

func trailingZeros(b Block) int {
	if b == 0 {
		return blockBits
	}
	n := 0
	for b&1 == 0 {
		b >>= 1
		n++
	}
	return n
}

// String renders v using labels, e.g. "{apple, banana}".
func (v View) String(labels []string) string {
	members := v.Alts()
	parts := make([]string, len(members))
	for i, a := range members {
		if a.Index() < len(labels) {
			parts[i] = labels[a.Index()]
		} else {
			parts[i] = a.String()
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// String renders s using labels.
func (s AltSet) String(labels []string) string { return s.View().String(labels) }

// Combinations returns every k-element subset of v's members, each as an
// AltSet, in ascending lexicographic order of member index.
func (v View) Combinations(k int) []AltSet {
	members := v.Alts()
	if k < 0 || k > len(members) {
		return nil
	}
	var out []AltSet
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	emit := func() {
		sel := make([]alt.Alt, k)
		for i, j := range idx {
			sel[i] = members[j]
		}
		out = append(out, FromAlts(sel...))
	}
	if k == 0 {
		out = append(out, Empty())
		return out
	}
	for {
		emit()
		i := k - 1
		for i >= 0 && idx[i] == i+len(members)-k {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}

// Combinations returns every k-element subset of s's members.
func (s AltSet) Combinations(k int) []AltSet { return s.View().Combinations(k) }

// Powerset enumerates every non-empty subset of the alternatives
// 0..n-1, each as a single-Block AltSet, in ascending numeric order of
// the underlying block value (1, 2, 3, ..., 2^n-1). This mirrors the
// original enumeration order exactly, which callers of TraverseAll rely
// on for reproducible output ordering. n must be < blockBits.
func Powerset(n uint32) []AltSet {
	if n >= blockBits {
		panic("altset: Powerset: n must be less than 32")
	}
	last := (Block(1) << n) - 1
	out := make([]AltSet, 0, last)
	for v := Block(1); v <= last; v++ {
		out = append(out, FromBlock(v))
	}
	return out
}
