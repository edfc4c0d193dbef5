package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prestsoftware/prest/model"
)

func TestParseModelsBuildsStrictTotalDefaults(t *testing.T) {
	models, err := parseModels([]string{"preorder-maximization", "top-two"})
	require.NoError(t, err)
	require.Len(t, models, 2)

	pm, ok := models[0].(model.PreorderMaximizationModel)
	require.True(t, ok)
	require.True(t, *pm.Params.Strict)
	require.True(t, *pm.Params.Total)

	_, ok = models[1].(model.TopTwoModel)
	require.True(t, ok)
}

func TestParseModelsRejectsUnknownName(t *testing.T) {
	_, err := parseModels([]string{"not-a-model"})
	require.Error(t, err)
}

func TestParseModelsRequiresAtLeastOne(t *testing.T) {
	_, err := parseModels(nil)
	require.Error(t, err)
}

func TestParseDistanceScore(t *testing.T) {
	ds, err := parseDistanceScore("jaccard")
	require.NoError(t, err)
	require.Equal(t, model.DistanceJaccard, ds)

	ds, err = parseDistanceScore("")
	require.NoError(t, err)
	require.Equal(t, model.DistanceHoutmanMaks, ds)

	_, err = parseDistanceScore("bogus")
	require.Error(t, err)
}

func TestInstanceKindNamesEveryModelFamily(t *testing.T) {
	require.Equal(t, "preorder-maximization", instanceKind(model.PreorderMaximizationInstance{}))
	require.Equal(t, "top-two", instanceKind(model.TopTwoInstance{}))
	require.Equal(t, "hybrid-domination", instanceKind(model.HybridDominationInstance{}))
}
