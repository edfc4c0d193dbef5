package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prestsoftware/prest/simulation"
)

func TestBuildMenuGenerator(t *testing.T) {
	g, err := buildMenuGenerator("exhaustive", 0)
	require.NoError(t, err)
	require.IsType(t, simulation.ExhaustiveMenuGenerator{}, g)

	g, err = buildMenuGenerator("sample", 5)
	require.NoError(t, err)
	require.Equal(t, simulation.SampleWithReplacementMenuGenerator{Count: 5}, g)

	g, err = buildMenuGenerator("binary", 0)
	require.NoError(t, err)
	require.IsType(t, simulation.BinaryMenuGenerator{}, g)

	_, err = buildMenuGenerator("bogus", 0)
	require.Error(t, err)
}

func TestBuildChoiceGenerator(t *testing.T) {
	g, err := buildChoiceGenerator("uniform", true, false)
	require.NoError(t, err)
	require.Equal(t, simulation.UniformChoiceGenerator{ForcedChoice: true, MultipleChoice: false}, g)

	_, err = buildChoiceGenerator("bogus", false, false)
	require.Error(t, err)
}
