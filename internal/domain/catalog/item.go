package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Category identifies one of the collectible datasets.
type Category string

const (
	CategoryFish Category = "fish"
	CategoryBugs Category = "bugs"
	CategorySea  Category = "sea"
)

// Categories lists every dataset in display order.
func Categories() []Category {
	return []Category{CategoryFish, CategoryBugs, CategorySea}
}

// ParseCategory validates a category name.
func ParseCategory(raw string) (Category, bool) {
	switch c := Category(strings.ToLower(strings.TrimSpace(raw))); c {
	case CategoryFish, CategoryBugs, CategorySea:
		return c, true
	default:
		return "", false
	}
}

// HasPlace reports whether items of the category carry a filterable place.
func (c Category) HasPlace() bool {
	return c != CategorySea
}

// HasShadow reports whether the shadow size facet applies.
func (c Category) HasShadow() bool {
	return c == CategoryFish
}

// Hemisphere selects the seasonal calendar.
type Hemisphere string

const (
	HemisphereNorth Hemisphere = "north"
	HemisphereSouth Hemisphere = "south"
)

// ParseHemisphere validates a hemisphere name.
func ParseHemisphere(raw string) (Hemisphere, bool) {
	switch h := Hemisphere(strings.ToLower(strings.TrimSpace(raw))); h {
	case HemisphereNorth, HemisphereSouth:
		return h, true
	default:
		return "", false
	}
}

// Window is a [Start, End) hour range. End < Start wraps past midnight.
// Bounds that were not numbers in the source data are NaN.
type Window struct {
	Start float64
	End   float64
}

// Finite reports whether both bounds are usable.
func (w Window) Finite() bool {
	return isFinite(w.Start) && isFinite(w.End)
}

// UnmarshalJSON accepts the dataset's [start, end] pair form.
func (w *Window) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("time window must be an array: %w", err)
	}
	w.Start, w.End = math.NaN(), math.NaN()
	if len(raw) > 0 {
		w.Start = toFloat(raw[0])
	}
	if len(raw) > 1 {
		w.End = toFloat(raw[1])
	}
	return nil
}

// MarshalJSON writes the pair form; non-finite bounds become null.
func (w Window) MarshalJSON() ([]byte, error) {
	pair := [2]any{nil, nil}
	if isFinite(w.Start) {
		pair[0] = w.Start
	}
	if isFinite(w.End) {
		pair[1] = w.End
	}
	return json.Marshal(pair)
}

// TimeInfo describes when during the day an item appears.
type TimeInfo struct {
	Label   string   `json:"label,omitempty"`
	Windows []Window `json:"windows,omitempty"`
}

// Initial carries the authored starting mark for an item.
type Initial struct {
	Caught bool `json:"caught"`
}

// Item is one collectible entry as loaded from a dataset.
type Item struct {
	ID      string               `json:"id"`
	No      int                  `json:"no"`
	Name    string               `json:"name"`
	Place   string               `json:"place,omitempty"`
	Price   *float64             `json:"price,omitempty"`
	Months  map[Hemisphere][]int `json:"months"`
	Time    TimeInfo             `json:"time"`
	Initial Initial              `json:"initial"`
}

// MonthsFor returns the active months for a hemisphere.
func (it Item) MonthsFor(h Hemisphere) []int {
	if it.Months == nil {
		return nil
	}
	return it.Months[h]
}

// HasMonthsFor reports whether the item declares any calendar for the hemisphere.
func (it Item) HasMonthsFor(h Hemisphere) bool {
	_, ok := it.Months[h]
	return ok
}

// ActiveIn reports whether month is in the hemisphere's month set.
func (it Item) ActiveIn(h Hemisphere, month int) bool {
	for _, m := range it.MonthsFor(h) {
		if m == month {
			return true
		}
	}
	return false
}

// YearRound reports whether the item is active in all twelve months.
func (it Item) YearRound(h Hemisphere) bool {
	return len(NormalizeMonths(it.MonthsFor(h))) == 12
}

// NormalizeMonths deduplicates, range-checks and sorts a month list.
func NormalizeMonths(months []int) []int {
	if len(months) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(months))
	out := make([]int, 0, len(months))
	for _, m := range months {
		if m < 1 || m > 12 {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}

// DecodeItems parses a dataset document and normalises its month sets.
func DecodeItems(data []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		id := strings.TrimSpace(items[i].ID)
		if id == "" {
			return nil, fmt.Errorf("missing id at index %d", i)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
		items[i].ID = id
		for h, months := range items[i].Months {
			items[i].Months[h] = NormalizeMonths(months)
		}
	}
	return items, nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		var f float64
		if _, err := fmt.Sscan(strings.TrimSpace(n), &f); err == nil {
			return f
		}
	}
	return math.NaN()
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
