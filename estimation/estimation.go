package estimation

import (
	"github.com/prestsoftware/prest/model"
	"github.com/prestsoftware/prest/preorder"
	"github.com/prestsoftware/prest/subject"
)

// Result is what one subject's search produced: the narrowed best-penalty
// interval and every instance tied within it.
type Result struct {
	SubjectName string
	Best        model.Penalty
	Instances   []model.Instance
}

func isPerfectCertifyingInstance(inst model.Instance, pen model.Penalty) bool {
	if pen.UpperBound.Sign() != 0 {
		return false
	}
	switch iv := inst.(type) {
	case model.UndominatedChoiceInstance:
		return iv.P.IsStrict()
	case model.PreorderMaximizationInstance:
		return iv.P.IsStrict() && iv.P.IsTotal()
	default:
		return false
	}
}

// evaluateModel traverses every instance of m and folds it into w.
func evaluateModel(pc *preorder.Precomputed, m model.Model, altCount uint32, choices []subject.ChoiceRow, ds model.DistanceScore, w *Winners, perfectFound *bool) error {
	return model.TraverseAll(pc, m, altCount, choices, func(inst model.Instance) error {
		pen := model.ComputePenalty(inst, choices, ds)
		if perfectFound != nil && isPerfectCertifyingInstance(inst, pen) {
			*perfectFound = true
		}
		w.Add(inst, pen)
		return nil
	})
}

// runOne runs every requested model for one subject's choice rows through
// a single shared Winners reduction.
//
// SequentiallyRationalizableChoiceModel, if requested, is deferred until
// every other model has run, and is then skipped entirely if one of them
// already produced a perfect-fitting UndominatedChoice{strict:true} or
// PreorderMaximization{strict:true,total:true} instance: a dataset already
// exactly rationalizable by single-valued choice over singletons cannot be
// improved on by the approximate sequential-rationalizability search.
func runOne(pc *preorder.Precomputed, altCount uint32, choices []subject.ChoiceRow, models []model.Model, ds model.DistanceScore) (Result, error) {
	w := NewWinners()
	perfectFound := false
	srcRequested := false

	for _, m := range models {
		if _, ok := m.(model.SequentiallyRationalizableChoiceModel); ok {
			srcRequested = true
			continue
		}
		if err := evaluateModel(pc, m, altCount, choices, ds, w, &perfectFound); err != nil {
			return Result{}, err
		}
	}

	if srcRequested && !perfectFound {
		if err := evaluateModel(pc, model.SequentiallyRationalizableChoiceModel{}, altCount, choices, ds, w, nil); err != nil {
			return Result{}, err
		}
	}

	if !w.HasAny() {
		return Result{Best: model.ZeroPenalty()}, nil
	}
	return Result{Best: w.BestPenalty(), Instances: w.Result()}, nil
}

// NeedsPrecompute reports whether Precomputed.Precompute must be called
// before Run with this exact model list. The one exception is a request
// for PreorderMaximization{strict:true,total:true} alone: that traversal
// is served entirely by linear-order generation and never touches the
// precomputed tables.
func NeedsPrecompute(models []model.Model) bool {
	if len(models) != 1 {
		return true
	}
	pm, ok := models[0].(model.PreorderMaximizationModel)
	if !ok {
		return true
	}
	return !(boolTrue(pm.Params.Strict) && boolTrue(pm.Params.Total))
}

func boolTrue(v *bool) bool { return v != nil && *v }
