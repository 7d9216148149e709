package catalog

import (
	"strconv"
	"strings"
)

// YearRoundLabel is shown when an item is active in every month.
const YearRoundLabel = "year-round"

const (
	rangeSeparator = "–"
	listSeparator  = ", "
)

// MonthRun is an inclusive run of consecutive months.
type MonthRun struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r MonthRun) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return strconv.Itoa(r.Start) + rangeSeparator + strconv.Itoa(r.End)
}

// MonthRuns collapses months into maximal runs on the linear 1..12 range.
// December and January are never joined here.
func MonthRuns(months []int) []MonthRun {
	sorted := NormalizeMonths(months)
	if len(sorted) == 0 {
		return nil
	}
	runs := make([]MonthRun, 0, 4)
	start, prev := sorted[0], sorted[0]
	for _, m := range sorted[1:] {
		if m == prev+1 {
			prev = m
			continue
		}
		runs = append(runs, MonthRun{Start: start, End: prev})
		start, prev = m, m
	}
	return append(runs, MonthRun{Start: start, End: prev})
}

// DisplayRuns applies the year-wrap merge: when the first run starts in
// January and the last ends in December (and they are distinct runs), the two
// become a single leading run from the last run's start to the first run's end.
func DisplayRuns(months []int) []MonthRun {
	runs := MonthRuns(months)
	if len(runs) < 2 || runs[0].Start != 1 || runs[len(runs)-1].End != 12 {
		return runs
	}
	first, last := runs[0], runs[len(runs)-1]
	out := make([]MonthRun, 0, len(runs)-1)
	out = append(out, MonthRun{Start: last.Start, End: first.End})
	return append(out, runs[1:len(runs)-1]...)
}

// FormatMonths renders a month set, e.g. {11,12,1,2} as "11–2".
func FormatMonths(months []int) string {
	sorted := NormalizeMonths(months)
	switch len(sorted) {
	case 0:
		return ""
	case 12:
		return YearRoundLabel
	}
	runs := DisplayRuns(sorted)
	parts := make([]string, 0, len(runs))
	for _, r := range runs {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, listSeparator)
}
