package simulation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/altset"
	"github.com/prestsoftware/prest/model"
	"github.com/prestsoftware/prest/preorder"
	"github.com/prestsoftware/prest/simulation"
	"github.com/prestsoftware/prest/subject"
)

func TestExhaustiveMenuGeneratorCoversEveryNonEmptySubset(t *testing.T) {
	t.Parallel()
	simulation.Seed(1)

	req := simulation.Request{
		Name:         "s",
		Alternatives: []string{"a", "b", "c"},
		GenMenus:     simulation.GenMenus{Generator: simulation.ExhaustiveMenuGenerator{}},
		GenChoices:   simulation.InstanceChoiceGenerator{Instance: model.PreorderMaximizationInstance{P: preorder.FromValues([]int{0, 1, 2})}},
	}
	s := simulation.Run(req)
	require.Len(t, s.Choices, 7) // 2^3 - 1, empty set excluded
	for _, cr := range s.Choices {
		require.True(t, cr.Menu.IsNonEmpty())
		require.True(t, cr.Choice.IsNonEmpty())
	}
}

func TestBinaryMenuGeneratorCoversEveryDistinctPairOnce(t *testing.T) {
	t.Parallel()
	simulation.Seed(2)

	req := simulation.Request{
		Name:         "s",
		Alternatives: []string{"a", "b", "c"},
		GenMenus:     simulation.GenMenus{Generator: simulation.BinaryMenuGenerator{}},
		GenChoices:   simulation.UniformChoiceGenerator{ForcedChoice: true},
	}
	s := simulation.Run(req)
	require.Len(t, s.Choices, 3) // 3 choose 2
	for _, cr := range s.Choices {
		require.Equal(t, 2, cr.Menu.Size())
		require.Equal(t, 1, cr.Choice.Size())
	}
}

func TestCopycatMenuGeneratorReplaysSourceSubjectAndRenamesIt(t *testing.T) {
	t.Parallel()
	simulation.Seed(3)

	source := subject.Subject{
		Name:         "alice",
		Alternatives: []string{"a", "b"},
		Choices: []subject.ChoiceRow{
			{Menu: altset.FromAlts(alt.Alt(0), alt.Alt(1)), Choice: altset.FromAlts(alt.Alt(0))},
			{Menu: altset.FromAlts(alt.Alt(0), alt.Alt(1)), Choice: altset.Empty()}, // deferral
		},
	}

	req := simulation.Request{
		Name:              "-sim",
		Alternatives:      source.Alternatives,
		GenMenus:          simulation.GenMenus{Generator: simulation.CopycatMenuGenerator{Subject: source}},
		GenChoices:        simulation.UniformChoiceGenerator{ForcedChoice: true},
		PreserveDeferrals: true,
	}
	s := simulation.Run(req)
	require.Equal(t, "alice-sim", s.Name)
	require.Len(t, s.Choices, 2)
	require.True(t, s.Choices[1].Choice.IsEmpty(), "deferral should be preserved, not re-answered")
}

func TestUniformChoiceGeneratorWithoutForcedChoiceCanDefer(t *testing.T) {
	t.Parallel()

	menu := altset.FromAlts(alt.Alt(0), alt.Alt(1))
	gen := simulation.UniformChoiceGenerator{ForcedChoice: false}

	sawDeferral := false
	for seed := int64(0); seed < 200; seed++ {
		simulation.Seed(seed)
		choice := gen.Generate(2, menu.View(), nil)
		if choice.IsEmpty() {
			sawDeferral = true
			break
		}
	}
	require.True(t, sawDeferral, "expected at least one deferral across many seeds")
}
