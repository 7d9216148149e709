package checklist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/critter-checklist/internal/domain/catalog"
)

var (
	manualDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	manualTimePattern = regexp.MustCompile(`^(\d{1,2})(?::\d{2})?$`)
)

// looseObject is a JSON object whose fields have not been type checked yet.
type looseObject map[string]json.RawMessage

// stateV0 is the shape written by every earlier release: boolean or
// structured marks, an optional combined manualDate, a "HH:MM" manualTime and
// whatever stale filter keys were around at the time. Fields are kept raw so
// wrong types can be dropped one by one.
type stateV0 struct {
	Version     string
	Settings    looseObject
	Filters     map[catalog.Category]looseObject
	Marks       looseObject
	Tab         string
	CurrentView string
}

// Migrate turns a persisted blob into a current State. A blob that is not a
// JSON object yields the default state and an error for the caller to log.
func Migrate(raw []byte, now time.Time) (State, error) {
	v0, err := decodeV0(raw)
	if err != nil {
		return DefaultState(now), err
	}
	st := normalize(upgradeV0(v0, now))
	if v0.Version != SchemaVersion {
		st = resetSession(st, now)
	}
	return st, nil
}

// Encode serialises a state. Map keys are sorted so equal states produce
// identical bytes.
func Encode(st State) ([]byte, error) {
	if st.Marks == nil {
		st.Marks = Marks{}
	}
	return json.Marshal(st)
}

func decodeV0(raw []byte) (stateV0, error) {
	root, ok := asObject(raw)
	if !ok {
		return stateV0{}, errors.New("persisted state is not a JSON object")
	}
	v0 := stateV0{
		Settings: looseObject{},
		Filters:  make(map[catalog.Category]looseObject),
	}
	if meta, ok := asObject(root["meta"]); ok {
		v0.Version, _ = meta.string("version")
	}
	if settings, ok := asObject(root["settings"]); ok {
		v0.Settings = settings
	}
	if filters, ok := asObject(root["filters"]); ok {
		for _, c := range catalog.Categories() {
			if f, ok := asObject(filters[string(c)]); ok {
				v0.Filters[c] = f
			}
		}
	}
	if marks, ok := asObject(root["marks"]); ok {
		v0.Marks = marks
	}
	v0.Tab, _ = root.string("tab")
	v0.CurrentView, _ = root.string("currentView")
	return v0, nil
}

// upgradeV0 overlays every well-typed legacy field on the defaults.
func upgradeV0(v0 stateV0, now time.Time) State {
	st := DefaultState(now)
	st.Meta.Version = v0.Version

	s := v0.Settings
	if v, ok := s.string("hemisphere"); ok {
		st.Settings.Hemisphere = catalog.Hemisphere(v)
	}
	if v, ok := s.string("nowMode"); ok {
		st.Settings.NowMode = NowMode(v)
	}
	if v, ok := s.int("manualMonth"); ok {
		st.Settings.ManualMonth = v
	}
	if v, ok := s.int("manualDay"); ok {
		st.Settings.ManualDay = v
	}
	if v, ok := s.int("manualHour"); ok {
		st.Settings.ManualHour = v
	} else if v, ok := s.string("manualTime"); ok {
		if m := manualTimePattern.FindStringSubmatch(strings.TrimSpace(v)); m != nil {
			st.Settings.ManualHour, _ = strconv.Atoi(m[1])
		}
	}
	if v, ok := s.string("manualDate"); ok {
		if m := manualDatePattern.FindStringSubmatch(v); m != nil {
			st.Settings.ManualMonth, _ = strconv.Atoi(m[2])
			st.Settings.ManualDay, _ = strconv.Atoi(m[3])
		}
	}
	if v, ok := s.bool("manualAnytime"); ok {
		st.Settings.ManualAnytime = v
	}
	if v, ok := s.bool("showNowUI"); ok {
		st.Settings.ShowNowUI = v
	}
	if v, ok := s.bool("showNowOnly"); ok {
		st.Settings.ShowNowOnly = v
	}
	if v, ok := s.bool("sortNowFirst"); ok {
		st.Settings.SortNowFirst = v
	}

	for c, raw := range v0.Filters {
		f := st.Filters.For(c)
		if v, ok := raw.string("caught"); ok {
			f.Caught = CaughtStatus(v)
		}
		if v, ok := raw.string("place"); ok {
			f.Place = v
		}
		if v, ok := raw.string("shadow"); ok {
			f.Shadow = v
		}
		if v, ok := raw.string("name"); ok {
			f.Name = v
		}
		if v, ok := raw.bool("excludeAllYear"); ok {
			f.ExcludeAllYear = v
		}
		st.Filters = st.Filters.With(c, f)
	}

	for id, raw := range v0.Marks {
		st.Marks[id] = upgradeMark(raw)
	}

	switch {
	case v0.Tab != "":
		st.Tab = catalog.Category(v0.Tab)
	case v0.CurrentView != "":
		st.Tab = catalog.Category(v0.CurrentView)
	}
	return st
}

// upgradeMark accepts the boolean form and the structured form; anything
// else is an uncaught mark.
func upgradeMark(raw json.RawMessage) Mark {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return Mark{Caught: b}
	}
	if obj, ok := asObject(raw); ok {
		return Mark{Caught: truthy(obj["caught"])}
	}
	return Mark{}
}

// normalize coerces out-of-range values to valid ones. It is idempotent.
func normalize(st State) State {
	if _, ok := catalog.ParseHemisphere(string(st.Settings.Hemisphere)); !ok {
		st.Settings.Hemisphere = catalog.HemisphereNorth
	}
	if st.Settings.NowMode != NowModeManual {
		st.Settings.NowMode = NowModeAuto
	}
	st.Settings.ManualMonth = clampInt(st.Settings.ManualMonth, 1, 12)
	st.Settings.ManualDay = clampInt(st.Settings.ManualDay, 1, daysInMonth(st.Settings.ManualMonth))
	st.Settings.ManualHour = clampInt(st.Settings.ManualHour, 0, 23)
	st.Settings = enforceToggles(st.Settings)

	for _, c := range catalog.Categories() {
		st.Filters = st.Filters.With(c, normalizeFilter(c, st.Filters.For(c)))
	}
	if st.Marks == nil {
		st.Marks = Marks{}
	}
	if _, ok := catalog.ParseCategory(string(st.Tab)); !ok {
		st.Tab = catalog.CategoryFish
	}
	return st
}

func normalizeFilter(c catalog.Category, f Filter) Filter {
	switch f.Caught {
	case CaughtAll, CaughtOnly, CaughtUncaught:
	default:
		f.Caught = CaughtAll
	}
	if !c.HasPlace() {
		f.Place = ""
	}
	if size, ok := catalog.ParseShadowSize(f.Shadow); ok && c.HasShadow() {
		f.Shadow = size.String()
	} else {
		f.Shadow = ""
	}
	return f
}

// enforceToggles switches off the availability-dependent flags while the
// availability UI is hidden.
func enforceToggles(s Settings) Settings {
	if !s.ShowNowUI {
		s.ShowNowOnly = false
		s.SortNowFirst = false
	}
	return s
}

// resetSession restores session-scoped preferences after a version change.
// Marks, filters and the hemisphere survive.
func resetSession(st State, now time.Time) State {
	st.Settings.NowMode = NowModeAuto
	st.Settings.SortNowFirst = false
	st.Settings.ManualAnytime = false
	st.Settings.ShowNowOnly = false
	st.Settings.ShowNowUI = true
	st.Settings.ManualMonth = int(now.Month())
	st.Settings.ManualDay = 1
	st.Meta.Version = SchemaVersion
	return st
}

func asObject(raw json.RawMessage) (looseObject, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var obj looseObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func (o looseObject) string(key string) (string, bool) {
	raw, ok := o[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func (o looseObject) bool(key string) (bool, bool) {
	raw, ok := o[key]
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

// int accepts integral numbers and numeric strings; fractions truncate.
func (o looseObject) int(key string) (int, bool) {
	raw, ok := o[key]
	if !ok {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f), true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}

func describeVersion(v string) string {
	if v == "" {
		return "unversioned"
	}
	return fmt.Sprintf("v%s", v)
}
