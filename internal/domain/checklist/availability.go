package checklist

import (
	"time"

	"github.com/yanqian/critter-checklist/internal/domain/catalog"
)

// ResolveNow returns the moment availability is evaluated at. Manual mode
// pins the configured month and hour on the first of the month in wall's
// year, minute zero.
func ResolveNow(s Settings, wall time.Time) time.Time {
	if s.NowMode != NowModeManual {
		return wall
	}
	month := s.ManualMonth
	if month < 1 || month > 12 {
		month = int(wall.Month())
	}
	hour := s.ManualHour
	if hour < 0 || hour > 23 {
		hour = wall.Hour()
	}
	return time.Date(wall.Year(), time.Month(month), 1, hour, 0, 0, 0, wall.Location())
}

// IsCatchable reports whether item can be obtained at wall under s.
func IsCatchable(item catalog.Item, s Settings, wall time.Time) bool {
	at := ResolveNow(s, wall)
	if !item.ActiveIn(s.Hemisphere, int(at.Month())) {
		return false
	}
	if s.NowMode == NowModeManual && s.ManualAnytime {
		return true
	}
	if len(item.Time.Windows) == 0 {
		return true
	}
	hour := float64(at.Hour()) + float64(at.Minute())/60
	return inAnyWindow(item.Time.Windows, hour)
}

func inAnyWindow(windows []catalog.Window, hour float64) bool {
	for _, w := range windows {
		if !w.Finite() {
			continue
		}
		a, b := w.Start, w.End
		if a == 0 && b == 24 {
			return true
		}
		if b < a {
			if hour >= a || hour < b {
				return true
			}
			continue
		}
		if hour >= a && hour < b {
			return true
		}
	}
	return false
}
