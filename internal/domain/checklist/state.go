package checklist

import (
	"time"

	"github.com/yanqian/critter-checklist/internal/domain/catalog"
)

const (
	// StorageKey names the single persisted blob.
	StorageKey = "acnh_checklist_v4.1"
	// SchemaVersion is stamped into every saved state. A different stamp on
	// load resets the session preferences.
	SchemaVersion = "5.0.0"
)

// NowMode selects between the wall clock and a simulated month/hour.
type NowMode string

const (
	NowModeAuto   NowMode = "auto"
	NowModeManual NowMode = "manual"
)

// CaughtStatus narrows a list by mark.
type CaughtStatus string

const (
	CaughtAll      CaughtStatus = "all"
	CaughtOnly     CaughtStatus = "caught"
	CaughtUncaught CaughtStatus = "uncaught"
)

// Meta carries the schema version stamp.
type Meta struct {
	Version string `json:"version"`
}

// Settings are the process-wide preferences.
type Settings struct {
	Hemisphere    catalog.Hemisphere `json:"hemisphere"`
	NowMode       NowMode            `json:"nowMode"`
	ManualMonth   int                `json:"manualMonth"`
	ManualDay     int                `json:"manualDay"`
	ManualHour    int                `json:"manualHour"`
	ManualAnytime bool               `json:"manualAnytime"`
	ShowNowUI     bool               `json:"showNowUI"`
	ShowNowOnly   bool               `json:"showNowOnly"`
	SortNowFirst  bool               `json:"sortNowFirst"`
}

// Filter holds one category's list filters.
type Filter struct {
	Caught         CaughtStatus `json:"caught"`
	Place          string       `json:"place,omitempty"`
	Shadow         string       `json:"shadow,omitempty"`
	Name           string       `json:"name"`
	ExcludeAllYear bool         `json:"excludeAllYear"`
}

// Filters keeps an independent filter per category.
type Filters struct {
	Fish Filter `json:"fish"`
	Bugs Filter `json:"bugs"`
	Sea  Filter `json:"sea"`
}

// For returns the filter of a category.
func (f Filters) For(c catalog.Category) Filter {
	switch c {
	case catalog.CategoryBugs:
		return f.Bugs
	case catalog.CategorySea:
		return f.Sea
	default:
		return f.Fish
	}
}

// With returns a copy with the category's filter replaced.
func (f Filters) With(c catalog.Category, filter Filter) Filters {
	switch c {
	case catalog.CategoryBugs:
		f.Bugs = filter
	case catalog.CategorySea:
		f.Sea = filter
	default:
		f.Fish = filter
	}
	return f
}

// Mark is the user's annotation of one item.
type Mark struct {
	Caught bool `json:"caught"`
}

// Marks maps item ids to marks.
type Marks map[string]Mark

// Caught reports whether the item is marked; unknown ids are uncaught.
func (m Marks) Caught(id string) bool {
	return m[id].Caught
}

// State is everything the checklist persists.
type State struct {
	Meta     Meta             `json:"meta"`
	Settings Settings         `json:"settings"`
	Filters  Filters          `json:"filters"`
	Marks    Marks            `json:"marks"`
	Tab      catalog.Category `json:"tab"`
}

// Clone returns a deep copy.
func (s State) Clone() State {
	marks := make(Marks, len(s.Marks))
	for id, m := range s.Marks {
		marks[id] = m
	}
	s.Marks = marks
	return s
}

// DefaultState is the state of a first run at time now.
func DefaultState(now time.Time) State {
	return State{
		Meta: Meta{Version: SchemaVersion},
		Settings: Settings{
			Hemisphere:  catalog.HemisphereNorth,
			NowMode:     NowModeAuto,
			ManualMonth: int(now.Month()),
			ManualDay:   clampInt(now.Day(), 1, daysInMonth(int(now.Month()))),
			ManualHour:  now.Hour(),
			ShowNowUI:   true,
		},
		Filters: Filters{
			Fish: Filter{Caught: CaughtAll},
			Bugs: Filter{Caught: CaughtAll},
			Sea:  Filter{Caught: CaughtAll},
		},
		Marks: Marks{},
		Tab:   catalog.CategoryFish,
	}
}

func daysInMonth(month int) int {
	return [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}[clampInt(month, 1, 12)-1]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
