// Package model implements the choice-model catalog: the nine revealed
// preference models, their concrete parameter/instance representations,
// the penalty metric used to score an instance against observed data, and
// exhaustive traversal over every instance of a model at a given
// alternative count.
package model

import (
	"fmt"
	"math/big"
)

// PreorderParams is a tri-state filter over which kind of relation a
// PreorderMaximization/Unattractiveness/Overload instance is allowed to
// use: nil means "either", non-nil pins the axis to that value.
type PreorderParams struct {
	Strict *bool
	Total  *bool
}

// FromPreorderShape derives concrete (always non-nil) params describing an
// actual relation's shape.
func FromPreorderShape(strict, total bool) PreorderParams {
	return PreorderParams{Strict: &strict, Total: &total}
}

func triStateString(label string, v *bool) string {
	switch {
	case v == nil:
		return label + "?"
	case *v:
		return label
	default:
		return "¬" + label
	}
}

// String renders p as e.g. "strict? total" (strict unconstrained, total
// required).
func (p PreorderParams) String() string {
	return fmt.Sprintf("%s %s", triStateString("strict", p.Strict), triStateString("total", p.Total))
}

func triBool(v *bool) bool { return v != nil && *v }
func triMatches(want *bool, have bool) bool {
	return want == nil || *want == have
}

// DistanceScore selects how an instance's penalty against one observed
// choice row is computed.
type DistanceScore int

const (
	// DistanceHoutmanMaks scores each row 0 if the instance's choice
	// matches the observation exactly, 1 otherwise.
	DistanceHoutmanMaks DistanceScore = iota

	// DistanceJaccard scores each row 1 - |intersection|/|union| between
	// the instance's choice and the observation (0 if both are empty),
	// giving partial credit for near-miss choices.
	DistanceJaccard
)

// Penalty is an interval bound on how badly an instance fits observed
// data: [LowerBound, UpperBound]. Both ends are rationals so that
// DistanceJaccard scores compare exactly, with no floating-point
// tie-break ambiguity.
type Penalty struct {
	LowerBound *big.Rat
	UpperBound *big.Rat
}

// ExactPenalty returns a Penalty whose bounds are both v.
func ExactPenalty(v *big.Rat) Penalty {
	return Penalty{LowerBound: v, UpperBound: v}
}

// ZeroPenalty is the penalty of a perfectly-fitting instance.
func ZeroPenalty() Penalty {
	return ExactPenalty(big.NewRat(0, 1))
}

// MergeMin replaces each of p's bounds with the componentwise minimum of
// p and o.
func (p *Penalty) MergeMin(o Penalty) {
	if o.LowerBound.Cmp(p.LowerBound) < 0 {
		p.LowerBound = o.LowerBound
	}
	if o.UpperBound.Cmp(p.UpperBound) < 0 {
		p.UpperBound = o.UpperBound
	}
}

// Model identifies a choice-model family and any parameters that are
// fixed for every instance of it (as opposed to parameters like the
// concrete preorder, which vary per instance and are enumerated by
// TraverseAll).
type Model interface {
	modelTag() byte
}

// PreorderMaximizationModel: choice = the menu intersected with every
// menu alternative's upset, filtered to relations matching Params.
type PreorderMaximizationModel struct{ Params PreorderParams }

// UnattractivenessModel: PreorderMaximization further masked to a
// (non-empty, non-full) subset of "attractive" alternatives.
type UnattractivenessModel struct{ Params PreorderParams }

// UndominatedChoiceModel: choice = every menu alternative not strictly
// dominated by another menu alternative.
type UndominatedChoiceModel struct{ Strict bool }

// PartiallyDominantChoiceModel: choice = alternatives that dominate at
// least one other and are dominated by none; FallbackToFull controls
// whether an empty result falls back to the whole menu.
type PartiallyDominantChoiceModel struct{ FallbackToFull bool }

// StatusQuoUndominatedChoiceModel: choice relative to a required default
// alternative.
type StatusQuoUndominatedChoiceModel struct{}

// OverloadModel: PreorderMaximization, but choice is empty once the menu
// exceeds a size limit (enumerated per instance).
type OverloadModel struct{ Params PreorderParams }

// TopTwoModel: choice = the two most preferred alternatives under a
// strict total order.
type TopTwoModel struct{}

// SequentiallyRationalizableChoiceModel: two-stage domination via an
// independent pair of relations (P, Q). Kept experimental: estimation
// never certifies it optimal, only evaluates a pruned subset of instances.
type SequentiallyRationalizableChoiceModel struct{}

// HybridDominationModel: PreorderMaximization if non-empty, else
// UndominatedChoice.
type HybridDominationModel struct{ Strict bool }

func (PreorderMaximizationModel) modelTag() byte               { return 0 }
func (UnattractivenessModel) modelTag() byte                    { return 1 }
func (UndominatedChoiceModel) modelTag() byte                   { return 2 }
func (PartiallyDominantChoiceModel) modelTag() byte             { return 3 }
func (StatusQuoUndominatedChoiceModel) modelTag() byte          { return 4 }
func (OverloadModel) modelTag() byte                            { return 5 }
func (TopTwoModel) modelTag() byte                              { return 6 }
func (SequentiallyRationalizableChoiceModel) modelTag() byte    { return 7 }
func (HybridDominationModel) modelTag() byte                    { return 8 }

// Equal reports whether a and b are the same model with the same
// parameters.
func Equal(a, b Model) bool {
	if a.modelTag() != b.modelTag() {
		return false
	}
	switch av := a.(type) {
	case PreorderMaximizationModel:
		return paramsEqual(av.Params, b.(PreorderMaximizationModel).Params)
	case UnattractivenessModel:
		return paramsEqual(av.Params, b.(UnattractivenessModel).Params)
	case UndominatedChoiceModel:
		return av.Strict == b.(UndominatedChoiceModel).Strict
	case PartiallyDominantChoiceModel:
		return av.FallbackToFull == b.(PartiallyDominantChoiceModel).FallbackToFull
	case StatusQuoUndominatedChoiceModel:
		return true
	case OverloadModel:
		return paramsEqual(av.Params, b.(OverloadModel).Params)
	case TopTwoModel:
		return true
	case SequentiallyRationalizableChoiceModel:
		return true
	case HybridDominationModel:
		return av.Strict == b.(HybridDominationModel).Strict
	default:
		return false
	}
}

func boolPtrEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func paramsEqual(a, b PreorderParams) bool {
	return boolPtrEqual(a.Strict, b.Strict) && boolPtrEqual(a.Total, b.Total)
}
