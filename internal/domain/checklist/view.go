package checklist

import (
	"fmt"
	"time"

	"github.com/yanqian/critter-checklist/internal/domain/catalog"
	"github.com/yanqian/critter-checklist/pkg/metrics"
)

// Row is one annotated item of a list view.
type Row struct {
	ID         string   `json:"id"`
	No         int      `json:"no"`
	Name       string   `json:"name"`
	Place      string   `json:"place,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	PriceText  string   `json:"priceText,omitempty"`
	Caught     bool     `json:"caught"`
	Available  bool     `json:"available"`
	Months     []int    `json:"months"`
	MonthsText string   `json:"monthsText"`
	TimeText   string   `json:"timeText"`
	Shadow     string   `json:"shadow,omitempty"`
}

// NowView describes the moment a list was evaluated at.
type NowView struct {
	Mode    NowMode   `json:"mode"`
	At      time.Time `json:"at"`
	Anytime bool      `json:"anytime"`
	Label   string    `json:"label"`
}

// ListView is everything a UI needs to render one category.
type ListView struct {
	Category         catalog.Category `json:"category"`
	Count            int              `json:"count"`
	Progress         metrics.Progress `json:"progress"`
	Percent          int              `json:"percent"`
	ShowAvailability bool             `json:"showAvailability"`
	Now              NowView          `json:"now"`
	Settings         Settings         `json:"settings"`
	Filter           Filter           `json:"filter"`
	PlaceOptions     []string         `json:"placeOptions,omitempty"`
	ShadowOptions    []string         `json:"shadowOptions,omitempty"`
	Suggestions      []string         `json:"suggestions,omitempty"`
	Rows             []Row            `json:"rows"`
}

func buildRow(category catalog.Category, it catalog.Item, st State, wall time.Time) Row {
	months := catalog.NormalizeMonths(it.MonthsFor(st.Settings.Hemisphere))
	row := Row{
		ID:         it.ID,
		No:         it.No,
		Name:       it.Name,
		Place:      catalog.PlaceLabel(it.Place),
		Price:      it.Price,
		PriceText:  catalog.PriceText(it.Price),
		Caught:     st.Marks.Caught(it.ID),
		Available:  IsCatchable(it, st.Settings, wall),
		Months:     months,
		MonthsText: catalog.FormatMonths(months),
		TimeText:   catalog.TimeLabel(it.Time.Label),
	}
	if category.HasShadow() {
		if size, ok := catalog.ShadowFor(it.No); ok {
			row.Shadow = size.String()
		}
	}
	return row
}

func buildNowView(s Settings, wall time.Time) NowView {
	at := ResolveNow(s, wall)
	view := NowView{Mode: s.NowMode, At: at}
	switch {
	case s.NowMode != NowModeManual:
		view.Label = fmt.Sprintf("%d/%d %d:%02d", int(at.Month()), at.Day(), at.Hour(), at.Minute())
	case s.ManualAnytime:
		view.Anytime = true
		view.Label = fmt.Sprintf("%d/1 any time", int(at.Month()))
	default:
		view.Label = fmt.Sprintf("%d/1 %d:00", int(at.Month()), at.Hour())
	}
	return view
}

func shadowOptionNames() []string {
	sizes := catalog.ShadowOptions()
	out := make([]string, 0, len(sizes))
	for _, s := range sizes {
		out = append(out, s.String())
	}
	return out
}
