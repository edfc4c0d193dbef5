package consistency

import (
	"math/big"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/subject"
)

// Frequencies holds, per observed menu, the empirical choice frequency of
// every alternative in that menu, as exact rationals.
type Frequencies struct {
	menus []menuFreq
}

type menuFreq struct {
	menu  map[alt.Alt]bool
	freq  map[alt.Alt]*big.Rat
	total int
}

// ComputeFrequencies groups choices by menu (distinct menus accumulate
// their own observation count) and computes, per alternative, the
// fraction of observations in that menu choosing it. Deferred (empty)
// choice rows do not contribute to any alternative's numerator, but do
// count toward the menu's total.
func ComputeFrequencies(choices []subject.ChoiceRow) *Frequencies {
	type acc struct {
		menu  map[alt.Alt]bool
		count map[alt.Alt]int
		total int
	}
	byMenu := make(map[string]*acc)
	var order []string

	for _, cr := range choices {
		key := cr.Menu.String(nil)
		a, ok := byMenu[key]
		if !ok {
			a = &acc{menu: make(map[alt.Alt]bool), count: make(map[alt.Alt]int)}
			for _, x := range cr.Menu.Alts() {
				a.menu[x] = true
			}
			byMenu[key] = a
			order = append(order, key)
		}
		a.total++
		it := cr.Choice.Iter()
		for x, ok := it(); ok; x, ok = it() {
			a.count[x]++
		}
	}

	f := &Frequencies{}
	for _, key := range order {
		a := byMenu[key]
		mf := menuFreq{menu: a.menu, freq: make(map[alt.Alt]*big.Rat), total: a.total}
		for x := range a.menu {
			mf.freq[x] = big.NewRat(int64(a.count[x]), int64(a.total))
		}
		f.menus = append(f.menus, mf)
	}
	return f
}

func (f *Frequencies) find(members ...alt.Alt) (*menuFreq, bool) {
	for i := range f.menus {
		mf := &f.menus[i]
		if len(mf.menu) != len(members) {
			continue
		}
		all := true
		for _, m := range members {
			if !mf.menu[m] {
				all = false
				break
			}
		}
		if all {
			return mf, true
		}
	}
	return nil, false
}

// Freq returns the empirical frequency of choosing x from the observed
// menu containing exactly members, or nil if that menu was never
// observed.
func (f *Frequencies) Freq(x alt.Alt, members ...alt.Alt) *big.Rat {
	mf, ok := f.find(members...)
	if !ok {
		return nil
	}
	v, ok := mf.freq[x]
	if !ok {
		return big.NewRat(0, 1)
	}
	return v
}

// StochasticTransitivityViolation records one (a, b, c) triple violating
// one or more levels of stochastic transitivity.
type StochasticTransitivityViolation struct {
	A, B, C  alt.Alt
	Weak     bool
	Moderate bool
	Strong   bool
}

// RegularityViolation records one menu-subset pair where an alternative's
// choice frequency dropped on the smaller menu.
type RegularityViolation struct {
	Alt       alt.Alt
	SmallMenu map[alt.Alt]bool
	BigMenu   map[alt.Alt]bool
	FreqSmall *big.Rat
	FreqBig   *big.Rat
}

var half = big.NewRat(1, 2)

// CheckStochasticTransitivity tests every ordered triple (a, b, c) for
// which the three binary menus {a,b}, {b,c}, {a,c} were all observed.
func CheckStochasticTransitivity(f *Frequencies, altCount uint32) []StochasticTransitivityViolation {
	var out []StochasticTransitivityViolation
	alts := alt.All(altCount)
	for _, a := range alts {
		for _, b := range alts {
			if a == b {
				continue
			}
			for _, c := range alts {
				if c == a || c == b {
					continue
				}
				pAB := f.Freq(a, a, b)
				pBC := f.Freq(b, b, c)
				pAC := f.Freq(a, a, c)
				if pAB == nil || pBC == nil || pAC == nil {
					continue
				}
				if pAB.Cmp(half) < 0 || pBC.Cmp(half) < 0 {
					continue
				}
				v := StochasticTransitivityViolation{A: a, B: b, C: c}
				v.Weak = pAC.Cmp(half) < 0
				v.Moderate = pAC.Cmp(pAB) < 0 && pAC.Cmp(pBC) < 0
				v.Strong = pAC.Cmp(pAB) < 0 || pAC.Cmp(pBC) < 0
				if v.Weak || v.Moderate || v.Strong {
					out = append(out, v)
				}
			}
		}
	}
	return out
}

// CheckRegularity tests every pair of observed menus A, B with A a strict
// subset of B, reporting a violation for each alternative whose frequency
// in A is lower than in B.
func CheckRegularity(f *Frequencies) []RegularityViolation {
	var out []RegularityViolation
	for i := range f.menus {
		for j := range f.menus {
			if i == j {
				continue
			}
			small, big_ := &f.menus[i], &f.menus[j]
			if !isStrictSubset(small.menu, big_.menu) {
				continue
			}
			for x := range small.menu {
				fs := small.freq[x]
				fb := big_.freq[x]
				if fb == nil {
					fb = new(big.Rat)
				}
				if fs.Cmp(fb) < 0 {
					out = append(out, RegularityViolation{
						Alt:       x,
						SmallMenu: small.menu,
						BigMenu:   big_.menu,
						FreqSmall: fs,
						FreqBig:   fb,
					})
				}
			}
		}
	}
	return out
}

func isStrictSubset(a, b map[alt.Alt]bool) bool {
	if len(a) >= len(b) {
		return false
	}
	for x := range a {
		if !b[x] {
			return false
		}
	}
	return true
}
