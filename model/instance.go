package model

import (
	"math/big"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/preorder"
	"github.com/prestsoftware/prest/subject"
)

// Instance is a fully concrete member of a Model: every relation and
// parameter needed to compute a choice from a menu is fixed.
type Instance interface {
	instanceTag() byte

	// Choice returns what this instance predicts would be chosen from
	// menu, given an optional default alternative (required by
	// StatusQuoUndominatedChoiceInstance, ignored by every other
	// variant).
	Choice(menu altset.View, def *alt.Alt) altset.AltSet

	// Model returns the Model this instance belongs to.
	Model() Model
}

// PreorderMaximizationInstance fixes the relation used by
// PreorderMaximizationModel.
type PreorderMaximizationInstance struct{ P preorder.Preorder }

// UnattractivenessInstance fixes the relation and attractive-alternative
// mask used by UnattractivenessModel.
type UnattractivenessInstance struct {
	P    preorder.Preorder
	Mask altset.AltSet
}

// UndominatedChoiceInstance fixes the relation used by
// UndominatedChoiceModel.
type UndominatedChoiceInstance struct{ P preorder.Preorder }

// PartiallyDominantChoiceInstance fixes the relation used by
// PartiallyDominantChoiceModel.
type PartiallyDominantChoiceInstance struct {
	P              preorder.Preorder
	FallbackToFull bool
}

// StatusQuoUndominatedChoiceInstance fixes the relation used by
// StatusQuoUndominatedChoiceModel.
type StatusQuoUndominatedChoiceInstance struct{ P preorder.Preorder }

// OverloadInstance fixes the relation and size limit used by
// OverloadModel.
type OverloadInstance struct {
	P     preorder.Preorder
	Limit uint32
}

// TopTwoInstance fixes the strict total order used by TopTwoModel.
type TopTwoInstance struct{ P preorder.Preorder }

// SequentiallyRationalizableChoiceInstance fixes the pair of relations
// used by SequentiallyRationalizableChoiceModel: P filters the menu to an
// undominated shortlist, Q picks the single winner of that shortlist.
type SequentiallyRationalizableChoiceInstance struct{ P, Q preorder.Preorder }

// HybridDominationInstance fixes the relation used by
// HybridDominationModel.
type HybridDominationInstance struct{ P preorder.Preorder }

func (PreorderMaximizationInstance) instanceTag() byte              { return 0 }
func (UnattractivenessInstance) instanceTag() byte                  { return 1 }
func (UndominatedChoiceInstance) instanceTag() byte                 { return 2 }
func (PartiallyDominantChoiceInstance) instanceTag() byte           { return 3 }
func (StatusQuoUndominatedChoiceInstance) instanceTag() byte        { return 4 }
func (OverloadInstance) instanceTag() byte                          { return 5 }
func (TopTwoInstance) instanceTag() byte                             { return 6 }
func (SequentiallyRationalizableChoiceInstance) instanceTag() byte  { return 7 }
func (HybridDominationInstance) instanceTag() byte                  { return 8 }

func (i PreorderMaximizationInstance) Model() Model {
	return PreorderMaximizationModel{Params: FromPreorderShape(i.P.IsStrict(), i.P.IsTotal())}
}
func (i UnattractivenessInstance) Model() Model {
	return UnattractivenessModel{Params: FromPreorderShape(i.P.IsStrict(), i.P.IsTotal())}
}
func (i UndominatedChoiceInstance) Model() Model {
	return UndominatedChoiceModel{Strict: i.P.IsStrict()}
}
func (i PartiallyDominantChoiceInstance) Model() Model {
	return PartiallyDominantChoiceModel{FallbackToFull: i.FallbackToFull}
}
func (StatusQuoUndominatedChoiceInstance) Model() Model {
	return StatusQuoUndominatedChoiceModel{}
}
func (i OverloadInstance) Model() Model {
	return OverloadModel{Params: FromPreorderShape(i.P.IsStrict(), i.P.IsTotal())}
}
func (TopTwoInstance) Model() Model { return TopTwoModel{} }
func (SequentiallyRationalizableChoiceInstance) Model() Model {
	return SequentiallyRationalizableChoiceModel{}
}
func (i HybridDominationInstance) Model() Model {
	return HybridDominationModel{Strict: i.P.IsStrict()}
}

// preorderMaximization is the choice function shared by
// PreorderMaximizationModel, the unmasked half of UnattractivenessModel,
// the non-empty branch of HybridDominationModel, and OverloadModel:
// the menu intersected with every menu member's upset.
func preorderMaximization(p preorder.Preorder, menu altset.View) altset.AltSet {
	result := altset.FromAlts(menu.Alts()...)
	it := menu.Iter()
	for i, ok := it(); ok; i, ok = it() {
		result = result.AndView(p.Upset(i))
	}
	return result
}

// undominatedChoice returns every menu alternative not strictly dominated
// by another menu alternative.
func undominatedChoice(p preorder.Preorder, menu altset.View) altset.AltSet {
	var out []alt.Alt
	it := menu.Iter()
	for i, ok := it(); ok; i, ok = it() {
		dominated := false
		jt := menu.Iter()
		for j, ok2 := jt(); ok2; j, ok2 = jt() {
			if p.LT(i, j) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, i)
		}
	}
	return altset.FromAlts(out...)
}

func partiallyDominantChoice(p preorder.Preorder, fallbackToFull bool, menu altset.View) altset.AltSet {
	var out []alt.Alt
	it := menu.Iter()
	for i, ok := it(); ok; i, ok = it() {
		dominatesNone := true
		dominatesSome := false
		jt := menu.Iter()
		for j, ok2 := jt(); ok2; j, ok2 = jt() {
			if p.LT(i, j) {
				dominatesNone = false
			}
			if p.LT(j, i) {
				dominatesSome = true
			}
		}
		if dominatesNone && dominatesSome {
			out = append(out, i)
		}
	}
	if len(out) > 0 {
		return altset.FromAlts(out...)
	}
	if fallbackToFull {
		return altset.FromAlts(menu.Alts()...)
	}
	return altset.Empty()
}

func statusQuoUndominatedChoice(p preorder.Preorder, def alt.Alt, menu altset.View) altset.AltSet {
	und := undominatedChoice(p, menu)
	if und.Contains(def) {
		return altset.Singleton(def)
	}
	var out []alt.Alt
	it := p.Upset(def).Iter()
	for i, ok := it(); ok; i, ok = it() {
		if !p.LT(def, i) {
			continue
		}
		dominated := false
		mit := menu.Iter()
		for j, ok := mit(); ok; j, ok = mit() {
			if p.LT(i, j) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, i)
		}
	}
	return altset.FromAlts(out...)
}

func topTwo(p preorder.Preorder, menu altset.View) altset.AltSet {
	if menu.Size() <= 2 {
		return altset.FromAlts(menu.Alts()...)
	}
	order, ok := p.AsLinearOrder()
	if !ok {
		panic("model: TopTwoInstance requires a strict total order")
	}
	// order runs from least to most preferred, so scan it from the end.
	var out []alt.Alt
	for k := len(order) - 1; k >= 0; k-- {
		if a := order[k]; menu.Contains(a) {
			out = append(out, a)
			if len(out) == 2 {
				break
			}
		}
	}
	return altset.FromAlts(out...)
}

func sequentiallyRationalizableChoice(p, q preorder.Preorder, menu altset.View) altset.AltSet {
	shortlist := undominatedChoice(p, menu)
	answer := undominatedChoice(q, shortlist.View())
	if answer.Size() != 1 {
		panic("model: SequentiallyRationalizableChoiceInstance: shortlist did not resolve to a single winner")
	}
	return answer
}

// Choice implements Instance for every concrete instance type, exactly
// per the catalog above.
func (i PreorderMaximizationInstance) Choice(menu altset.View, _ *alt.Alt) altset.AltSet {
	return preorderMaximization(i.P, menu)
}
func (i UnattractivenessInstance) Choice(menu altset.View, _ *alt.Alt) altset.AltSet {
	return preorderMaximization(i.P, menu).AndView(i.Mask.View())
}
func (i UndominatedChoiceInstance) Choice(menu altset.View, _ *alt.Alt) altset.AltSet {
	return undominatedChoice(i.P, menu)
}
func (i PartiallyDominantChoiceInstance) Choice(menu altset.View, _ *alt.Alt) altset.AltSet {
	return partiallyDominantChoice(i.P, i.FallbackToFull, menu)
}
func (i StatusQuoUndominatedChoiceInstance) Choice(menu altset.View, def *alt.Alt) altset.AltSet {
	if def == nil {
		panic("model: StatusQuoUndominatedChoiceInstance.Choice requires a default alternative")
	}
	return statusQuoUndominatedChoice(i.P, *def, menu)
}
func (i OverloadInstance) Choice(menu altset.View, _ *alt.Alt) altset.AltSet {
	if uint32(menu.Size()) > i.Limit {
		return altset.Empty()
	}
	return preorderMaximization(i.P, menu)
}
func (i TopTwoInstance) Choice(menu altset.View, _ *alt.Alt) altset.AltSet {
	return topTwo(i.P, menu)
}
func (i SequentiallyRationalizableChoiceInstance) Choice(menu altset.View, _ *alt.Alt) altset.AltSet {
	return sequentiallyRationalizableChoice(i.P, i.Q, menu)
}
func (i HybridDominationInstance) Choice(menu altset.View, _ *alt.Alt) altset.AltSet {
	pm := preorderMaximization(i.P, menu)
	if pm.IsNonEmpty() {
		return pm
	}
	return undominatedChoice(i.P, menu)
}

func standardPenaltyRow(ds DistanceScore, modelChoice, obsChoice altset.AltSet) *big.Rat {
	if ds == DistanceJaccard {
		if modelChoice.IsEmpty() && obsChoice.IsEmpty() {
			return big.NewRat(0, 1)
		}
		inter := modelChoice.And(obsChoice).Size()
		union := modelChoice.Or(obsChoice).Size()
		return new(big.Rat).Sub(big.NewRat(1, 1), big.NewRat(int64(inter), int64(union)))
	}
	if modelChoice.Equal(obsChoice) {
		return big.NewRat(0, 1)
	}
	return big.NewRat(1, 1)
}

// ComputePenalty scores inst against every observed choice row, summing a
// per-row distance. PartiallyDominantChoiceInstance is exempt from
// penalty on singleton menus (it is definitionally unable to express a
// forced choice on a menu of size 1 unless FallbackToFull triggers it).
// SequentiallyRationalizableChoiceInstance's lower bound is capped at 1,
// since estimation never attempts to certify it as a global optimum (see
// TraverseAll).
func ComputePenalty(inst Instance, crs []subject.ChoiceRow, ds DistanceScore) Penalty {
	total := big.NewRat(0, 1)
	_, isPDC := inst.(PartiallyDominantChoiceInstance)
	for _, cr := range crs {
		if isPDC && cr.Menu.Size() == 1 {
			continue
		}
		got := inst.Choice(cr.Menu.View(), cr.Default)
		total.Add(total, standardPenaltyRow(ds, got, cr.Choice))
	}

	upper := total
	lower := total
	if _, isSRC := inst.(SequentiallyRationalizableChoiceInstance); isSRC {
		one := big.NewRat(1, 1)
		if upper.Cmp(one) < 0 {
			lower = upper
		} else {
			lower = one
		}
	}
	return Penalty{LowerBound: lower, UpperBound: upper}
}
