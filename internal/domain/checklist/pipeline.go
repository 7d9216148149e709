package checklist

import (
	"sort"
	"time"

	"github.com/yanqian/critter-checklist/internal/domain/catalog"
)

// ApplyFilters keeps the items that pass every predicate of f, in input order.
func ApplyFilters(category catalog.Category, items []catalog.Item, f Filter, marks Marks, hemisphere catalog.Hemisphere) []catalog.Item {
	if hemisphere == "" {
		hemisphere = catalog.HemisphereNorth
	}
	var shadow catalog.ShadowSize
	shadowSet := category.HasShadow() && f.Shadow != ""
	if shadowSet {
		shadow, _ = catalog.ParseShadowSize(f.Shadow)
	}

	out := make([]catalog.Item, 0, len(items))
	for _, it := range items {
		if f.ExcludeAllYear && it.YearRound(hemisphere) {
			continue
		}
		caught := marks.Caught(it.ID)
		if f.Caught == CaughtOnly && !caught {
			continue
		}
		if f.Caught == CaughtUncaught && caught {
			continue
		}
		if shadowSet {
			size, ok := catalog.ShadowFor(it.No)
			if !ok || shadow == catalog.ShadowUnknown || size != shadow {
				continue
			}
		}
		if !catalog.ContainsFolded(it.Name, f.Name) {
			continue
		}
		if category.HasPlace() && !catalog.ContainsFolded(it.Place, f.Place) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Arrange drops unavailable items when only-available is on and orders the
// rest: available first when requested, then by ordinal.
func Arrange(items []catalog.Item, s Settings, wall time.Time) []catalog.Item {
	s = enforceToggles(s)
	available := make(map[string]bool, len(items))
	if s.ShowNowOnly || s.SortNowFirst {
		for _, it := range items {
			available[it.ID] = IsCatchable(it, s, wall)
		}
	}

	out := make([]catalog.Item, 0, len(items))
	for _, it := range items {
		if s.ShowNowOnly && !available[it.ID] {
			continue
		}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if s.SortNowFirst {
			ai, aj := available[out[i].ID], available[out[j].ID]
			if ai != aj {
				return ai
			}
		}
		return out[i].No < out[j].No
	})
	return out
}
