package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeItemsNormalisesMonths(t *testing.T) {
	raw := []byte(`[
		{"id":" fish-001 ","no":1,"name":"Bitterling","months":{"north":[3,1,1,12,15],"south":[]},
		 "time":{"label":"24時間","windows":[[9,16],["21","4"],[null,3]]},"initial":{"caught":true}}
	]`)
	items, err := DecodeItems(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)

	it := items[0]
	require.Equal(t, "fish-001", it.ID)
	require.Equal(t, []int{1, 3, 12}, it.MonthsFor(HemisphereNorth))
	require.True(t, it.HasMonthsFor(HemisphereSouth))
	require.Empty(t, it.MonthsFor(HemisphereSouth))
	require.True(t, it.Initial.Caught)

	require.Len(t, it.Time.Windows, 3)
	require.Equal(t, Window{Start: 21, End: 4}, it.Time.Windows[1])
	require.True(t, math.IsNaN(it.Time.Windows[2].Start))
	require.False(t, it.Time.Windows[2].Finite())
}

func TestDecodeItemsRejectsBadIDs(t *testing.T) {
	_, err := DecodeItems([]byte(`[{"id":"","no":1}]`))
	require.Error(t, err)

	_, err = DecodeItems([]byte(`[{"id":"a"},{"id":"a"}]`))
	require.ErrorContains(t, err, "duplicate")

	_, err = DecodeItems([]byte(`{"id":"a"}`))
	require.Error(t, err)
}

func TestItemYearRound(t *testing.T) {
	it := Item{Months: map[Hemisphere][]int{
		HemisphereNorth: {1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		HemisphereSouth: {1, 2},
	}}
	require.True(t, it.YearRound(HemisphereNorth))
	require.False(t, it.YearRound(HemisphereSouth))
	require.True(t, it.ActiveIn(HemisphereSouth, 2))
	require.False(t, it.ActiveIn(HemisphereSouth, 3))
}

func TestParseCategoryAndHemisphere(t *testing.T) {
	c, ok := ParseCategory("sea")
	require.True(t, ok)
	require.False(t, c.HasPlace())
	require.False(t, c.HasShadow())
	require.True(t, CategoryFish.HasShadow())

	_, ok = ParseCategory("birds")
	require.False(t, ok)

	h, ok := ParseHemisphere("south")
	require.True(t, ok)
	require.Equal(t, HemisphereSouth, h)
}
