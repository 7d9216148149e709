package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatMonths(t *testing.T) {
	cases := []struct {
		name   string
		months []int
		want   string
	}{
		{"empty", nil, ""},
		{"single", []int{5}, "5"},
		{"winter wrap", []int{11, 12, 1, 2}, "11–2"},
		{"two runs", []int{1, 2, 3, 7, 8}, "1–3, 7–8"},
		{"wrap keeps inner runs ascending", []int{1, 2, 5, 6, 9, 12}, "12–2, 5–6, 9"},
		{"december and january only", []int{12, 1}, "12–1"},
		{"duplicates and noise", []int{3, 3, 4, 0, 13, 4}, "3–4"},
		{"year round", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, YearRoundLabel},
		{"no wrap without january", []int{2, 3, 12}, "2–3, 12"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FormatMonths(tc.months))
		})
	}
}

func TestFormatMonthsEmptyAndYearRoundAreExact(t *testing.T) {
	for mask := 0; mask < 1<<12; mask++ {
		var months []int
		for m := 1; m <= 12; m++ {
			if mask&(1<<(m-1)) != 0 {
				months = append(months, m)
			}
		}
		got := FormatMonths(months)
		require.Equal(t, len(months) == 0, got == "", months)
		require.Equal(t, len(months) == 12, got == YearRoundLabel, months)
	}
}

func TestMonthRunsAreLinear(t *testing.T) {
	require.Equal(t, []MonthRun{{Start: 1, End: 2}, {Start: 11, End: 12}}, MonthRuns([]int{12, 11, 2, 1}))
	require.Nil(t, MonthRuns(nil))
}
