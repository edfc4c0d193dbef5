package consistency_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/consistency"
	"github.com/prestsoftware/prest/subject"
)

func TestAnalyzeDetectsThreeCycleFromIntransitiveBinaryChoices(t *testing.T) {
	t.Parallel()

	// A 3-alternative indirect contradiction: 0 beats 1, 1 beats 2, but 2
	// beats 0 directly, forming a 3-cycle.
	choices := []subject.ChoiceRow{
		{Menu: altset.FromAlts(alt.Alt(0), alt.Alt(1)), Choice: altset.FromAlts(alt.Alt(0))}, // 0 > 1
		{Menu: altset.FromAlts(alt.Alt(1), alt.Alt(2)), Choice: altset.FromAlts(alt.Alt(1))}, // 1 > 2
		{Menu: altset.FromAlts(alt.Alt(0), alt.Alt(2)), Choice: altset.FromAlts(alt.Alt(2))}, // 2 > 0: contradicts
	}
	v, err := consistency.Analyze(3, choices, false)
	require.NoError(t, err)
	require.Len(t, v.Cycles, 1)
	require.Equal(t, 3, len(v.Cycles[0]))
	require.Len(t, v.Rows, 1)
	// Every edge here comes from a binary menu with a singleton choice,
	// so every edge is strict: SARP multiplicity is the product of three
	// strict counts of 1.
	require.Equal(t, int64(1), v.Rows[0].SARP.Int64())
	require.Equal(t, int64(1), v.Rows[0].GARP.Int64())
}

func TestAnalyzeRejectsRepeatedMenusUnlessAllowed(t *testing.T) {
	t.Parallel()

	choices := []subject.ChoiceRow{
		{Menu: altset.FromAlts(alt.Alt(0), alt.Alt(1)), Choice: altset.FromAlts(alt.Alt(0))},
		{Menu: altset.FromAlts(alt.Alt(0), alt.Alt(1)), Choice: altset.FromAlts(alt.Alt(1))},
	}
	_, err := consistency.Analyze(2, choices, false)
	require.ErrorIs(t, err, consistency.ErrRepeatedMenu)

	_, err = consistency.Analyze(2, choices, true)
	require.NoError(t, err)
}

func TestContractionConsistencyCountsSubsetViolations(t *testing.T) {
	t.Parallel()

	// A = {0,1}, choice={0}; B = {0,1,2}, choice={2}: alt0 is available
	// and not chosen on A, but alt2 (not even in A) was chosen on B, so
	// there is no overlap violation here. Make alt1 the culprit instead:
	// B chooses alt1, which was available but unchosen on A.
	choices := []subject.ChoiceRow{
		{Menu: altset.FromAlts(alt.Alt(0), alt.Alt(1)), Choice: altset.FromAlts(alt.Alt(0))},
		{Menu: altset.FromAlts(alt.Alt(0), alt.Alt(1), alt.Alt(2)), Choice: altset.FromAlts(alt.Alt(1))},
	}
	v, err := consistency.Analyze(3, choices, false)
	require.NoError(t, err)
	require.Equal(t, 1, v.ContractionPairs)
	require.Equal(t, 1, v.ContractionAll)
}

func TestStochasticTransitivityWeakViolation(t *testing.T) {
	t.Parallel()

	// p(a|ab)=0.6, p(b|bc)=0.6, p(a|ac)=0.3 < 0.5: weak violation.
	var choices []subject.ChoiceRow
	addRows := func(menu altset.AltSet, winner alt.Alt, wins, total int) {
		for i := 0; i < total; i++ {
			var choice altset.AltSet
			if i < wins {
				choice = altset.FromAlts(winner)
			} else {
				// choose the other member of the binary menu
				var other alt.Alt
				it := menu.Iter()
				for x, ok := it(); ok; x, ok = it() {
					if x != winner {
						other = x
					}
				}
				choice = altset.FromAlts(other)
			}
			choices = append(choices, subject.ChoiceRow{Menu: menu, Choice: choice})
		}
	}
	addRows(altset.FromAlts(alt.Alt(0), alt.Alt(1)), alt.Alt(0), 6, 10)
	addRows(altset.FromAlts(alt.Alt(1), alt.Alt(2)), alt.Alt(1), 6, 10)
	addRows(altset.FromAlts(alt.Alt(0), alt.Alt(2)), alt.Alt(0), 3, 10)

	f := consistency.ComputeFrequencies(choices)
	viol := consistency.CheckStochasticTransitivity(f, 3)
	require.NotEmpty(t, viol)
	found := false
	for _, v := range viol {
		if v.A == alt.Alt(0) && v.B == alt.Alt(1) && v.C == alt.Alt(2) {
			require.True(t, v.Weak)
			require.True(t, v.Strong)
			found = true
		}
	}
	require.True(t, found)
}

func TestRegularityViolationDetectedAcrossMenuSubset(t *testing.T) {
	t.Parallel()

	// On {0,1}, alt0 never wins; on {0,1,2}, alt0 wins every time: its
	// frequency rose when the menu grew, violating regularity.
	var choices []subject.ChoiceRow
	for i := 0; i < 5; i++ {
		choices = append(choices, subject.ChoiceRow{
			Menu:   altset.FromAlts(alt.Alt(0), alt.Alt(1)),
			Choice: altset.FromAlts(alt.Alt(1)),
		})
	}
	for i := 0; i < 5; i++ {
		choices = append(choices, subject.ChoiceRow{
			Menu:   altset.FromAlts(alt.Alt(0), alt.Alt(1), alt.Alt(2)),
			Choice: altset.FromAlts(alt.Alt(0)),
		})
	}
	f := consistency.ComputeFrequencies(choices)
	viol := consistency.CheckRegularity(f)
	require.NotEmpty(t, viol)
	found := false
	for _, v := range viol {
		if v.Alt == alt.Alt(0) {
			found = true
		}
	}
	require.True(t, found)
}
