package estimation_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/estimation"
	"github.com/prestsoftware/prest/model"
	"github.com/prestsoftware/prest/preorder"
	"github.com/prestsoftware/prest/subject"
)

func TestWinnersKeepsOnlyStrictlyBestAndMergesTies(t *testing.T) {
	t.Parallel()

	w := estimation.NewWinners()
	a := model.PreorderMaximizationInstance{P: preorder.FromValues([]int{0, 1})}
	b := model.UndominatedChoiceInstance{P: preorder.FromValues([]int{1, 0})}
	c := model.TopTwoInstance{P: preorder.FromValues([]int{0, 1})}

	w.Add(a, model.ExactPenalty(big.NewRat(2, 1)))
	w.Add(b, model.ExactPenalty(big.NewRat(2, 1))) // ties with a
	w.Add(c, model.ExactPenalty(big.NewRat(0, 1))) // strictly better than both

	require.True(t, w.BestPenalty().UpperBound.Cmp(big.NewRat(0, 1)) == 0)
	got := w.Result()
	require.Len(t, got, 1)
	require.Equal(t, c, got[0])
}

func TestWinnersDiscardsStrictlyWorseWithoutTouchingBest(t *testing.T) {
	t.Parallel()

	w := estimation.NewWinners()
	best := model.PreorderMaximizationInstance{P: preorder.FromValues([]int{0, 1})}
	worse := model.UndominatedChoiceInstance{P: preorder.FromValues([]int{1, 0})}

	w.Add(best, model.ExactPenalty(big.NewRat(0, 1)))
	w.Add(worse, model.ExactPenalty(big.NewRat(5, 1)))

	got := w.Result()
	require.Len(t, got, 1)
	require.Equal(t, best, got[0])
}

func TestSRCSkippedWhenUndominatedChoiceAlreadyPerfect(t *testing.T) {
	t.Parallel()

	pc := preorder.NewPrecomputed(nil)
	require.NoError(t, pc.Precompute(3))

	// A subject whose every choice is a strict, single alternative: an
	// UndominatedChoice{strict:true} instance can fit it perfectly, so the
	// SRC search should never run (and never influence the result).
	choices := []subject.ChoiceRow{
		{Menu: altset.FromAlts(alt.Alt(0), alt.Alt(1)), Choice: altset.FromAlts(alt.Alt(0))},
		{Menu: altset.FromAlts(alt.Alt(0), alt.Alt(2)), Choice: altset.FromAlts(alt.Alt(0))},
	}
	subjects := []subject.Subject{
		{Name: "s1", Alternatives: []string{"a", "b", "c"}, Choices: choices},
	}
	models := []model.Model{
		model.UndominatedChoiceModel{Strict: true},
		model.SequentiallyRationalizableChoiceModel{},
	}

	results, err := estimation.Run(pc, subjects, models, model.DistanceHoutmanMaks, true, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 0, results[0].Best.UpperBound.Sign())
	for _, inst := range results[0].Instances {
		_, isSRC := inst.(model.SequentiallyRationalizableChoiceInstance)
		require.False(t, isSRC, "SRC instance should not appear when UC already certifies a perfect fit")
	}
}

func TestNeedsPrecompute(t *testing.T) {
	t.Parallel()

	strictTotal := true
	require.False(t, estimation.NeedsPrecompute([]model.Model{
		model.PreorderMaximizationModel{Params: model.FromPreorderShape(true, true)},
	}))
	require.True(t, estimation.NeedsPrecompute([]model.Model{
		model.PreorderMaximizationModel{Params: model.PreorderParams{Strict: &strictTotal}},
	}))
	require.True(t, estimation.NeedsPrecompute([]model.Model{
		model.UndominatedChoiceModel{Strict: true},
	}))
}

func TestRunPreservesSubjectOrder(t *testing.T) {
	t.Parallel()

	pc := preorder.NewPrecomputed(nil)
	require.NoError(t, pc.Precompute(2))

	mkSubject := func(name string) subject.Subject {
		return subject.Subject{
			Name:         name,
			Alternatives: []string{"a", "b"},
			Choices: []subject.ChoiceRow{
				{Menu: altset.FromAlts(alt.Alt(0), alt.Alt(1)), Choice: altset.FromAlts(alt.Alt(0))},
			},
		}
	}
	subjects := []subject.Subject{mkSubject("s1"), mkSubject("s2"), mkSubject("s3")}
	models := []model.Model{model.UndominatedChoiceModel{Strict: true}}

	results, err := estimation.Run(pc, subjects, models, model.DistanceHoutmanMaks, false, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"s1", "s2", "s3"}, []string{results[0].SubjectName, results[1].SubjectName, results[2].SubjectName})
}
