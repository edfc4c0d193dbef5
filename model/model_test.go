package model_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/model"
	"github.com/prestsoftware/prest/preorder"
	"github.com/prestsoftware/prest/subject"
)

func TestPartiallyDominantChoiceFallsBackOnSingletonMenu(t *testing.T) {
	t.Parallel()

	p := preorder.FromValues([]int{0, 1, 2, 3})
	menu := altset.FromAlts(alt.Alt(3)).View()

	noFallback := model.PartiallyDominantChoiceInstance{P: p, FallbackToFull: false}
	require.True(t, noFallback.Choice(menu, nil).IsEmpty())

	withFallback := model.PartiallyDominantChoiceInstance{P: p, FallbackToFull: true}
	require.True(t, withFallback.Choice(menu, nil).Equal(altset.FromAlts(alt.Alt(3))))
}

func TestPartiallyDominantChoicePicksSoleDominatorAboveATie(t *testing.T) {
	t.Parallel()

	// alt1 and alt2 tie in the middle, alt3 alone on top, alt0 alone on
	// the bottom: only alt3 dominates someone and is dominated by no one.
	p := preorder.FromValues([]int{0, 1, 1, 2})
	menu := altset.FromAlts(alt.Alt(0), alt.Alt(1), alt.Alt(2), alt.Alt(3)).View()

	inst := model.PartiallyDominantChoiceInstance{P: p, FallbackToFull: false}
	require.True(t, inst.Choice(menu, nil).Equal(altset.FromAlts(alt.Alt(3))))
}

func TestUnattractivenessInstancesAreValidPreordersAndUnique(t *testing.T) {
	t.Parallel()

	pc := preorder.NewPrecomputed(nil)
	require.NoError(t, pc.Precompute(4))

	for altCount := uint32(1); altCount <= 4; altCount++ {
		seen := make(map[string]bool)
		err := model.TraverseAll(pc, model.UnattractivenessModel{}, altCount, nil, func(inst model.Instance) error {
			ui := inst.(model.UnattractivenessInstance)
			require.True(t, ui.P.IsReflexive())
			require.True(t, ui.P.IsTransitive())

			b64, encErr := ui.P.ToBase64()
			require.NoError(t, encErr)
			key := b64 + "|" + ui.Mask.String(nil)
			require.False(t, seen[key], "duplicate instance emitted for altCount=%d: %s", altCount, key)
			seen[key] = true
			return nil
		})
		require.NoError(t, err)
	}
}

// The full preorder table over 4 alternatives is closed under relabeling,
// so swapping alt2 and alt3 is a bijection of the table onto itself: the
// number of instances choosing alt2 from {alt2, alt3} must equal the
// number choosing alt3.
func TestPreorderMaximizationChoiceIsLabelSymmetric(t *testing.T) {
	t.Parallel()

	pc := preorder.NewPrecomputed(nil)
	require.NoError(t, pc.Precompute(4))

	menu := altset.FromAlts(alt.Alt(2), alt.Alt(3)).View()
	var count2, count3 int
	err := model.TraverseAll(pc, model.PreorderMaximizationModel{}, 4, nil, func(inst model.Instance) error {
		got := inst.Choice(menu, nil)
		if got.Contains(alt.Alt(2)) {
			count2++
		}
		if got.Contains(alt.Alt(3)) {
			count3++
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, count2, count3)
}

func TestTraverseSRCEmitsOnlyPairsConsistentWithObservedChoices(t *testing.T) {
	t.Parallel()

	pc := preorder.NewPrecomputed(nil)
	require.NoError(t, pc.Precompute(3))

	// alt0 beats everything, alt1 beats alt2: a strict total order. A
	// subject who always reveals that order should make P=Q=that order
	// survive the shortlist-then-pick pruning.
	total := preorder.FromValues([]int{2, 1, 0})
	choices := []subject.ChoiceRow{
		{Menu: altset.FromAlts(alt.Alt(0), alt.Alt(1), alt.Alt(2)), Choice: altset.FromAlts(alt.Alt(0))},
		{Menu: altset.FromAlts(alt.Alt(1), alt.Alt(2)), Choice: altset.FromAlts(alt.Alt(1))},
	}

	totalB64, err := total.ToBase64()
	require.NoError(t, err)

	found := false
	err = model.TraverseAll(pc, model.SequentiallyRationalizableChoiceModel{}, 3, choices, func(inst model.Instance) error {
		src := inst.(model.SequentiallyRationalizableChoiceInstance)
		for _, cr := range choices {
			require.True(t, src.Choice(cr.Menu.View(), nil).Equal(cr.Choice))
		}
		pB64, _ := src.P.ToBase64()
		qB64, _ := src.Q.ToBase64()
		if pB64 == totalB64 && qB64 == totalB64 {
			found = true
		}
		return nil
	})
	require.NoError(t, err)
	require.True(t, found, "expected (P,Q) = (total, total) to survive pruning")
}

func TestModelEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	strict := true
	models := []model.Model{
		model.PreorderMaximizationModel{Params: model.FromPreorderShape(true, false)},
		model.UnattractivenessModel{},
		model.UndominatedChoiceModel{Strict: true},
		model.PartiallyDominantChoiceModel{FallbackToFull: true},
		model.StatusQuoUndominatedChoiceModel{},
		model.OverloadModel{Params: model.PreorderParams{Strict: &strict}},
		model.TopTwoModel{},
		model.SequentiallyRationalizableChoiceModel{},
		model.HybridDominationModel{Strict: false},
	}
	for _, m := range models {
		var buf bytes.Buffer
		require.NoError(t, model.Encode(&buf, m))
		got, err := model.Decode(&buf)
		require.NoError(t, err)
		require.True(t, model.Equal(m, got))
	}
}

func TestInstanceEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	p := preorder.FromValues([]int{0, 1, 2})
	instances := []model.Instance{
		model.PreorderMaximizationInstance{P: p},
		model.UnattractivenessInstance{P: p, Mask: altset.FromAlts(alt.Alt(0), alt.Alt(1))},
		model.UndominatedChoiceInstance{P: p},
		model.PartiallyDominantChoiceInstance{P: p, FallbackToFull: true},
		model.StatusQuoUndominatedChoiceInstance{P: p},
		model.OverloadInstance{P: p, Limit: 2},
		model.TopTwoInstance{P: p},
		model.SequentiallyRationalizableChoiceInstance{P: p, Q: p},
		model.HybridDominationInstance{P: p},
	}
	for _, inst := range instances {
		var buf bytes.Buffer
		require.NoError(t, model.EncodeInstance(&buf, inst))
		original := buf.Bytes()

		got, err := model.DecodeInstance(bytes.NewReader(original))
		require.NoError(t, err)

		var roundTripped bytes.Buffer
		require.NoError(t, model.EncodeInstance(&roundTripped, got))
		require.Equal(t, original, roundTripped.Bytes())
	}
}
