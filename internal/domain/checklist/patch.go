package checklist

import (
	"github.com/yanqian/critter-checklist/internal/domain/catalog"
	apperrors "github.com/yanqian/critter-checklist/pkg/errors"
)

// SettingsPatch changes the settings named by its non-nil fields.
type SettingsPatch struct {
	Hemisphere    *string `json:"hemisphere"`
	NowMode       *string `json:"nowMode"`
	ManualMonth   *int    `json:"manualMonth"`
	ManualDay     *int    `json:"manualDay"`
	ManualHour    *int    `json:"manualHour"`
	ManualAnytime *bool   `json:"manualAnytime"`
	ShowNowUI     *bool   `json:"showNowUI"`
	ShowNowOnly   *bool   `json:"showNowOnly"`
	SortNowFirst  *bool   `json:"sortNowFirst"`
}

// FilterPatch changes the filter fields named by its non-nil fields.
type FilterPatch struct {
	Caught         *string `json:"caught"`
	Place          *string `json:"place"`
	Shadow         *string `json:"shadow"`
	Name           *string `json:"name"`
	ExcludeAllYear *bool   `json:"excludeAllYear"`
}

func (p SettingsPatch) apply(s Settings) (Settings, error) {
	if p.Hemisphere != nil {
		h, ok := catalog.ParseHemisphere(*p.Hemisphere)
		if !ok {
			return s, invalid("hemisphere must be north or south")
		}
		s.Hemisphere = h
	}
	if p.NowMode != nil {
		switch NowMode(*p.NowMode) {
		case NowModeAuto, NowModeManual:
			s.NowMode = NowMode(*p.NowMode)
		default:
			return s, invalid("nowMode must be auto or manual")
		}
	}
	if p.ManualMonth != nil {
		if *p.ManualMonth < 1 || *p.ManualMonth > 12 {
			return s, invalid("manualMonth must be between 1 and 12")
		}
		s.ManualMonth = *p.ManualMonth
		s.ManualDay = clampInt(s.ManualDay, 1, daysInMonth(s.ManualMonth))
	}
	if p.ManualDay != nil {
		if *p.ManualDay < 1 || *p.ManualDay > daysInMonth(s.ManualMonth) {
			return s, invalid("manualDay is out of range for the month")
		}
		s.ManualDay = *p.ManualDay
	}
	if p.ManualHour != nil {
		if *p.ManualHour < 0 || *p.ManualHour > 23 {
			return s, invalid("manualHour must be between 0 and 23")
		}
		s.ManualHour = *p.ManualHour
	}
	if p.ManualAnytime != nil {
		s.ManualAnytime = *p.ManualAnytime
	}
	if p.ShowNowUI != nil {
		s.ShowNowUI = *p.ShowNowUI
	}
	if p.ShowNowOnly != nil {
		s.ShowNowOnly = *p.ShowNowOnly
	}
	if p.SortNowFirst != nil {
		s.SortNowFirst = *p.SortNowFirst
	}
	return enforceToggles(s), nil
}

func (p FilterPatch) apply(c catalog.Category, f Filter) (Filter, error) {
	if p.Caught != nil {
		switch CaughtStatus(*p.Caught) {
		case CaughtAll, CaughtOnly, CaughtUncaught:
			f.Caught = CaughtStatus(*p.Caught)
		default:
			return f, invalid("caught must be all, caught or uncaught")
		}
	}
	if p.Place != nil {
		if !c.HasPlace() && *p.Place != "" {
			return f, invalid("place filter is not available for " + string(c))
		}
		f.Place = *p.Place
	}
	if p.Shadow != nil {
		switch {
		case *p.Shadow == "":
			f.Shadow = ""
		case !c.HasShadow():
			return f, invalid("shadow filter is only available for fish")
		default:
			size, ok := catalog.ParseShadowSize(*p.Shadow)
			if !ok {
				return f, invalid("unknown shadow size " + *p.Shadow)
			}
			f.Shadow = size.String()
		}
	}
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.ExcludeAllYear != nil {
		f.ExcludeAllYear = *p.ExcludeAllYear
	}
	return f, nil
}

func invalid(message string) error {
	return apperrors.Wrap(apperrors.CodeInvalidInput, message, nil)
}
