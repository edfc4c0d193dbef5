package preorder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prestsoftware/prest/alt"
	"github.com/prestsoftware/prest/preorder"
)

func rowPreorder(size uint32, rows []uint32) preorder.Preorder {
	p := preorder.New(size)
	for i, row := range rows {
		for j := uint32(0); j < size; j++ {
			if row&(1<<j) != 0 {
				p.SetLEQ(alt.Alt(i), alt.Alt(j), true)
			}
		}
	}
	return p
}

func requireEqualRows(t *testing.T, p preorder.Preorder, size uint32, rows []uint32) {
	t.Helper()
	require.Equal(t, size, p.Size())
	for i := uint32(0); i < size; i++ {
		var got uint32
		for j := uint32(0); j < size; j++ {
			if p.LEQ(alt.Alt(i), alt.Alt(j)) {
				got |= 1 << j
			}
		}
		require.Equalf(t, rows[i], got, "row %d", i)
	}
}

func TestStuffEmbedsAttractiveRowsAndFillsUnattractive(t *testing.T) {
	t.Parallel()

	cases := []struct {
		srcRows    []uint32
		mask       uint32
		wantRows   []uint32
	}{
		{[]uint32{3, 2}, 0x5, []uint32{5, 7, 4}},
		{[]uint32{1, 3}, 0x5, []uint32{1, 7, 5}},
		{[]uint32{1, 2}, 0x5, []uint32{1, 7, 4}},
	}
	for _, c := range cases {
		src := rowPreorder(2, c.srcRows)
		got := src.Stuff(3, c.mask)
		requireEqualRows(t, got, 3, c.wantRows)
		require.True(t, got.IsReflexive())
		require.True(t, got.IsTransitive())
	}
}

func TestFastPreorderCounts(t *testing.T) {
	t.Parallel()

	// OEIS A000798: number of preorders (quasi-orders) on n points.
	want := map[uint32]int{0: 1, 1: 1, 2: 4, 3: 29, 4: 355}
	for n, count := range want {
		require.Lenf(t, preorder.AllFastPreorders(n), count, "n=%d", n)
	}
}

func TestLinearOrderCounts(t *testing.T) {
	t.Parallel()

	want := []int{1, 1, 2, 6, 24, 120, 720}
	for n, count := range want {
		require.Lenf(t, preorder.AllLinearOrders(uint32(n)), count, "n=%d", n)
	}
}

func TestUpsetAndLinearOrder(t *testing.T) {
	t.Parallel()

	p := preorder.FromValues([]int{2, 0, 1})
	order, ok := p.AsLinearOrder()
	require.True(t, ok)
	// Descending upset size: alt1 (value 0, upset of 3) comes first, alt0
	// (value 2, upset of 1) last.
	require.Equal(t, []alt.Alt{1, 2, 0}, order)
}

func TestWeakOrderRequiresTotal(t *testing.T) {
	t.Parallel()

	p := preorder.Diagonal(3)
	_, ok := p.AsWeakOrder()
	require.False(t, ok)

	total := preorder.FromValues([]int{0, 0, 1})
	classes, ok := total.AsWeakOrder()
	require.True(t, ok)
	require.Len(t, classes, 2)
	require.Equal(t, 2, classes[0].Size())
	require.Equal(t, 1, classes[1].Size())
}

func TestBase64RoundTrip(t *testing.T) {
	t.Parallel()

	p := preorder.FromValues([]int{0, 1, 2})
	s, err := p.ToBase64()
	require.NoError(t, err)
	got, err := preorder.FromBase64(s)
	require.NoError(t, err)
	require.Equal(t, p.Size(), got.Size())
	for i := uint32(0); i < p.Size(); i++ {
		for j := uint32(0); j < p.Size(); j++ {
			require.Equal(t, p.LEQ(alt.Alt(i), alt.Alt(j)), got.LEQ(alt.Alt(i), alt.Alt(j)))
		}
	}
}

func TestPrecomputedGet(t *testing.T) {
	t.Parallel()

	pc := preorder.NewPrecomputed(nil)
	require.NoError(t, pc.Precompute(4))
	tbl, err := pc.Get(4)
	require.NoError(t, err)
	require.Len(t, tbl.All, 355)

	_, err = pc.Get(7)
	require.ErrorIs(t, err, preorder.ErrTooManyAlternatives)
}
