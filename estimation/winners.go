// Package estimation implements the per-subject search over a choice-model
// catalog: for each requested model, every instance is traversed, scored
// against the subject's observed choices, and folded into an interval-best
// reduction. Subjects are processed in parallel.
package estimation

import (
	"github.com/prestsoftware/prest/model"
)

type scored struct {
	inst model.Instance
	pen  model.Penalty
}

// Winners folds a stream of (instance, penalty) pairs into the set of
// instances tied for the lowest penalty, under an interval ordering: an
// instance whose penalty interval does not overlap the current best is
// either a strict improvement (replaces the set) or strictly worse
// (discarded); an overlapping instance is retained as a tie candidate and
// narrows the tracked best interval. Result prunes ties that the narrowed
// interval has since ruled out.
type Winners struct {
	has   bool
	best  model.Penalty
	items []scored
}

// NewWinners returns an empty reduction.
func NewWinners() *Winners {
	return &Winners{}
}

// Add folds one more (instance, penalty) pair into w.
func (w *Winners) Add(inst model.Instance, pen model.Penalty) {
	if !w.has {
		w.has = true
		w.best = pen
		w.items = []scored{{inst, pen}}
		return
	}
	switch {
	case pen.UpperBound.Cmp(w.best.LowerBound) < 0:
		// Strictly better than everything retained so far.
		w.best = pen
		w.items = []scored{{inst, pen}}
	case pen.LowerBound.Cmp(w.best.UpperBound) > 0:
		// Strictly worse: discard.
	default:
		w.items = append(w.items, scored{inst, pen})
		w.best.MergeMin(pen)
	}
}

// Combine folds every pair retained by o into w, as if they had been added
// to w directly. w and o must not be used concurrently with this call.
func (w *Winners) Combine(o *Winners) {
	for _, it := range o.items {
		w.Add(it.inst, it.pen)
	}
}

// BestPenalty returns the narrowed best-penalty interval. The zero Penalty
// is returned if Add was never called; check HasAny first.
func (w *Winners) BestPenalty() model.Penalty {
	return w.best
}

// HasAny reports whether Add has been called at least once.
func (w *Winners) HasAny() bool {
	return w.has
}

// Result prunes every retained instance whose penalty lower bound exceeds
// the final best upper bound, and returns what remains.
func (w *Winners) Result() []model.Instance {
	if !w.has {
		return nil
	}
	out := make([]model.Instance, 0, len(w.items))
	for _, it := range w.items {
		if it.pen.LowerBound.Cmp(w.best.UpperBound) <= 0 {
			out = append(out, it.inst)
		}
	}
	return out
}
