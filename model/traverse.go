package model

import (
	"errors"

	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/preorder"
	"github.com/prestsoftware/prest/subject"
)

// ErrUnknownModel indicates TraverseAll was called with a Model
// implementation this package does not recognise.
var ErrUnknownModel = errors.New("model: unknown Model implementation")

func popcountBlock(b altset.Block) int {
	n := 0
	for b != 0 {
		b &= b - 1
		n++
	}
	return n
}

// TraversePreorders calls f once per relation over altCount alternatives
// matching params, pulling from whichever source is cheapest for the
// requested tri-state combination:
//
//   - strict=true, total=true  -> linear orders (no size-7 ceiling)
//   - total=true,  strict!=true -> precomputed weak orders
//   - strict=true, total!=true -> precomputed partial orders
//   - otherwise                -> precomputed preorders
//
// f's return value controls iteration exactly like a callback-style
// range: a non-nil error aborts the whole traversal and is returned to
// the caller; returning nil continues to the next relation.
func TraversePreorders(pc *preorder.Precomputed, params PreorderParams, altCount uint32, f func(preorder.Preorder) error) error {
	totalTrue := triBool(params.Total)
	strictTrue := triBool(params.Strict)

	if totalTrue && strictTrue {
		for _, p := range preorder.AllLinearOrders(altCount) {
			if err := f(p); err != nil {
				return err
			}
		}
		return nil
	}

	tbl, err := pc.Get(altCount)
	if err != nil {
		return err
	}

	var source []preorder.Preorder
	switch {
	case totalTrue:
		source = tbl.Weak
	case strictTrue:
		source = tbl.Partial
	default:
		source = tbl.All
	}

	for _, p := range source {
		if !triMatches(params.Strict, p.IsStrict()) {
			continue
		}
		if !triMatches(params.Total, p.IsTotal()) {
			continue
		}
		if err := f(p); err != nil {
			return err
		}
	}
	return nil
}

// traverseUnattractive enumerates every non-empty, non-full mask of
// "attractive" alternatives, and for each one every relation over just
// the masked-in alternatives matching params, stuffed back out to
// altCount alternatives.
func traverseUnattractive(pc *preorder.Precomputed, params PreorderParams, altCount uint32, f func(preorder.Preorder, altset.AltSet) error) error {
	if altCount == 0 {
		return nil
	}
	last := altset.Block(1)<<altCount - 1
	for mask := altset.Block(1); mask < last; mask++ {
		k := uint32(popcountBlock(mask))
		err := TraversePreorders(pc, params, k, func(p preorder.Preorder) error {
			return f(p.Stuff(altCount, mask), altset.FromBlock(mask))
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// traverseSRC enumerates (P, Q) pairs for SequentiallyRationalizableChoiceModel,
// pruned against the observed choices: a candidate P is discarded unless
// every observed choice is a subset of its undominated shortlist, and a
// surviving P's candidate Q is discarded unless Q's undominated choice
// from that shortlist reproduces every observed choice exactly. Only
// fully-surviving pairs are emitted. This is the "experimental" model:
// nothing here attempts to prove a surviving pair globally optimal.
func traverseSRC(pc *preorder.Precomputed, altCount uint32, choices []subject.ChoiceRow, f func(Instance) error) error {
	strict := true
	strictPartial := PreorderParams{Strict: &strict}
	return TraversePreorders(pc, strictPartial, altCount, func(p preorder.Preorder) error {
		shortlists := make([]altset.AltSet, len(choices))
		for i, cr := range choices {
			sl := undominatedChoice(p, cr.Menu.View())
			if !cr.Choice.IsSubsetEqOf(sl) {
				return nil
			}
			shortlists[i] = sl
		}
		return TraversePreorders(pc, strictPartial, altCount, func(q preorder.Preorder) error {
			for i, cr := range choices {
				if !undominatedChoice(q, shortlists[i].View()).Equal(cr.Choice) {
					return nil
				}
			}
			return f(SequentiallyRationalizableChoiceInstance{P: p, Q: q})
		})
	})
}

// TraverseAll calls f once per Instance of m over altCount alternatives.
// choices is only consulted by SequentiallyRationalizableChoiceModel,
// whose traversal is pruned against the observed data (see traverseSRC);
// every other model ignores it.
func TraverseAll(pc *preorder.Precomputed, m Model, altCount uint32, choices []subject.ChoiceRow, f func(Instance) error) error {
	switch mv := m.(type) {
	case PreorderMaximizationModel:
		return TraversePreorders(pc, mv.Params, altCount, func(p preorder.Preorder) error {
			return f(PreorderMaximizationInstance{P: p})
		})

	case UnattractivenessModel:
		return traverseUnattractive(pc, mv.Params, altCount, func(p preorder.Preorder, mask altset.AltSet) error {
			return f(UnattractivenessInstance{P: p, Mask: mask})
		})

	case UndominatedChoiceModel:
		strict, total := mv.Strict, false
		return TraversePreorders(pc, PreorderParams{Strict: &strict, Total: &total}, altCount, func(p preorder.Preorder) error {
			return f(UndominatedChoiceInstance{P: p})
		})

	case PartiallyDominantChoiceModel:
		return TraversePreorders(pc, FromPreorderShape(true, false), altCount, func(p preorder.Preorder) error {
			return f(PartiallyDominantChoiceInstance{P: p, FallbackToFull: mv.FallbackToFull})
		})

	case StatusQuoUndominatedChoiceModel:
		return TraversePreorders(pc, FromPreorderShape(true, false), altCount, func(p preorder.Preorder) error {
			return f(StatusQuoUndominatedChoiceInstance{P: p})
		})

	case OverloadModel:
		return TraversePreorders(pc, mv.Params, altCount, func(p preorder.Preorder) error {
			for limit := uint32(1); limit <= altCount; limit++ {
				if err := f(OverloadInstance{P: p, Limit: limit}); err != nil {
					return err
				}
			}
			return nil
		})

	case TopTwoModel:
		strictT, totalT := true, true
		return TraversePreorders(pc, PreorderParams{Strict: &strictT, Total: &totalT}, altCount, func(p preorder.Preorder) error {
			return f(TopTwoInstance{P: p})
		})

	case SequentiallyRationalizableChoiceModel:
		return traverseSRC(pc, altCount, choices, f)

	case HybridDominationModel:
		strict, total := mv.Strict, false
		return TraversePreorders(pc, PreorderParams{Strict: &strict, Total: &total}, altCount, func(p preorder.Preorder) error {
			return f(HybridDominationInstance{P: p})
		})

	default:
		return ErrUnknownModel
	}
}
