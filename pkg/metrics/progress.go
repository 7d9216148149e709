package metrics

// Progress captures how much of a category has been collected.
type Progress struct {
	Caught int `json:"caught"`
	Total  int `json:"total"`
}

// Percent reports the caught share rounded down to a whole percent.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	return p.Caught * 100 / p.Total
}

// IsZero reports whether progress data is absent.
func (p Progress) IsZero() bool {
	return p.Caught == 0 && p.Total == 0
}
