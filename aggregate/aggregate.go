// Package aggregate combines several subjects' best-fit preferences into
// one consensus linear order, using the Kemeny rule: among every possible
// linear order, pick the one maximizing total pairwise agreement with the
// inputs. It only accepts inputs that used a utility-maximization model
// (PreorderMaximization over a strict total order).
package aggregate

import (
	"errors"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/estimation"
	"github.com/prestsoftware/prest/model"
	"github.com/prestsoftware/prest/preorder"
)

// ErrNotUtilityMaximization is returned when a candidate instance isn't a
// PreorderMaximizationInstance over a strict total order.
var ErrNotUtilityMaximization = errors.New("aggregate: instance did not use a utility-maximization model")

// ErrAmbiguous is returned when more than one linear order ties for the
// highest Kemeny agreement score.
var ErrAmbiguous = errors.New("aggregate: Kemeny aggregate has multiple tied winners")

// kemenyScore tallies, for one ordered pair (u, v), how many inputs ranked
// u strictly below v (Lt), tied with v (Eq), or strictly above v (Gt).
type kemenyScore struct{ Lt, Eq, Gt uint32 }

func (s kemenyScore) add(o kemenyScore) kemenyScore {
	return kemenyScore{s.Lt + o.Lt, s.Eq + o.Eq, s.Gt + o.Gt}
}

func (s kemenyScore) dot(o kemenyScore) uint64 {
	return uint64(s.Lt)*uint64(o.Lt) + uint64(s.Eq)*uint64(o.Eq) + uint64(s.Gt)*uint64(o.Gt)
}

// kemenyTable is a preorder's pairwise scores over every ordered pair of
// alternatives, in alt.DistinctPairs order.
type kemenyTable []kemenyScore

func kemenyTableFromPreorder(p preorder.Preorder) kemenyTable {
	pairs := alt.DistinctPairs(p.Size())
	t := make(kemenyTable, len(pairs))
	for i, pr := range pairs {
		t[i] = kemenyScore{
			Lt: boolToUint32(p.LT(pr.A, pr.B)),
			Eq: boolToUint32(p.Eq(pr.A, pr.B)),
			Gt: boolToUint32(p.LT(pr.B, pr.A)),
		}
	}
	return t
}

func boolToUint32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func (t kemenyTable) add(o kemenyTable) kemenyTable {
	out := make(kemenyTable, len(t))
	for i := range t {
		out[i] = t[i].add(o[i])
	}
	return out
}

func (t kemenyTable) dot(o kemenyTable) uint64 {
	var sum uint64
	for i := range t {
		sum += t[i].dot(o[i])
	}
	return sum
}

// aggregateKemeny picks, among every linear order over altCount
// alternatives, the one maximizing total pairwise agreement with ps.
func aggregateKemeny(altCount uint32, ps []preorder.Preorder) (preorder.Preorder, error) {
	agg := kemenyTableFromPreorder(ps[0])
	for _, p := range ps[1:] {
		agg = agg.add(kemenyTableFromPreorder(p))
	}

	var best preorder.Preorder
	var bestScore uint64
	haveBest := false
	ties := 0
	for _, order := range preorder.AllLinearOrders(altCount) {
		score := kemenyTableFromPreorder(order).dot(agg)
		switch {
		case !haveBest || score > bestScore:
			best, bestScore, haveBest, ties = order, score, true, 1
		case score == bestScore:
			ties++
		}
	}
	if ties > 1 {
		return preorder.Preorder{}, ErrAmbiguous
	}
	return best, nil
}

func extractPreorder(inst model.Instance) (preorder.Preorder, error) {
	pm, ok := inst.(model.PreorderMaximizationInstance)
	if !ok || !pm.P.IsTotal() || !pm.P.IsStrict() {
		return preorder.Preorder{}, ErrNotUtilityMaximization
	}
	return pm.P, nil
}

// Response aggregates one subject's candidate best instances into its
// single best-fit linear order via the Kemeny rule. Every instance in
// res.Instances must be a strict-total PreorderMaximizationInstance.
func Response(res estimation.Result) (preorder.Preorder, error) {
	if len(res.Instances) == 0 {
		return preorder.Preorder{}, ErrNotUtilityMaximization
	}
	ps := make([]preorder.Preorder, len(res.Instances))
	for i, inst := range res.Instances {
		p, err := extractPreorder(inst)
		if err != nil {
			return preorder.Preorder{}, err
		}
		ps[i] = p
	}
	return aggregateKemeny(ps[0].Size(), ps)
}

// Subjects aggregates an entire population's estimation.Results into one
// consensus linear order: first reduce each subject to its own Kemeny
// winner via Response, then aggregate those across subjects.
func Subjects(results []estimation.Result) (preorder.Preorder, error) {
	if len(results) == 0 {
		return preorder.Preorder{}, ErrNotUtilityMaximization
	}
	ps := make([]preorder.Preorder, len(results))
	for i, res := range results {
		p, err := Response(res)
		if err != nil {
			return preorder.Preorder{}, err
		}
		ps[i] = p
	}
	return aggregateKemeny(ps[0].Size(), ps)
}
