package altset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/altset"
)

func TestEmptyAndFull(t *testing.T) {
	t.Parallel()

	require.True(t, altset.Empty().IsEmpty())
	require.Equal(t, 5, altset.Full(5).Size())
	require.True(t, altset.Full(5).Contains(alt.Alt(4)))
	require.False(t, altset.Full(5).Contains(alt.Alt(5)))
}

func TestSingletonAndMembership(t *testing.T) {
	t.Parallel()

	s := altset.Singleton(alt.Alt(3))
	require.True(t, s.IsSingleton())
	a, ok := s.View().AsSingleton()
	require.True(t, ok)
	require.Equal(t, alt.Alt(3), a)
}

func TestSetOps(t *testing.T) {
	t.Parallel()

	a := altset.FromAlts(alt.Alt(0), alt.Alt(1), alt.Alt(2))
	b := altset.FromAlts(alt.Alt(1), alt.Alt(2), alt.Alt(3))

	require.True(t, a.Or(b).Equal(altset.FromAlts(alt.Alt(0), alt.Alt(1), alt.Alt(2), alt.Alt(3))))
	require.True(t, a.And(b).Equal(altset.FromAlts(alt.Alt(1), alt.Alt(2))))
	require.True(t, a.Sub(b).Equal(altset.FromAlts(alt.Alt(0))))
}

func TestSubsetRelations(t *testing.T) {
	t.Parallel()

	a := altset.FromAlts(alt.Alt(0), alt.Alt(1))
	b := altset.FromAlts(alt.Alt(0), alt.Alt(1), alt.Alt(2))

	require.True(t, a.IsSubsetEqOf(b))
	require.True(t, a.IsStrictSubsetOf(b))
	require.False(t, b.IsStrictSubsetOf(a))
	require.True(t, b.IsStrictSupersetOf(a))
}

func TestNormalisationTrimsTrailingZeroBlocks(t *testing.T) {
	t.Parallel()

	s := altset.FromBlocks([]altset.Block{5, 0, 0})
	require.Len(t, s.Blocks(), 1)
	require.True(t, s.Equal(altset.FromBlock(5)))
}

func TestPowersetOrderAndCount(t *testing.T) {
	t.Parallel()

	p := altset.Powerset(3)
	require.Len(t, p, 7)
	require.True(t, p[0].Equal(altset.FromBlock(1)))
	require.True(t, p[len(p)-1].Equal(altset.Full(3)))
}

func TestCombinations(t *testing.T) {
	t.Parallel()

	full := altset.Full(4)
	combos := full.Combinations(2)
	require.Len(t, combos, 6)
	for _, c := range combos {
		require.Equal(t, 2, c.Size())
	}
}

func TestIterAscending(t *testing.T) {
	t.Parallel()

	s := altset.FromAlts(alt.Alt(5), alt.Alt(1), alt.Alt(3))
	require.Equal(t, []alt.Alt{alt.Alt(1), alt.Alt(3), alt.Alt(5)}, s.Alts())
}
