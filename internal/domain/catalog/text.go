package catalog

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/width"
)

// Fold lowers case and narrows full-width characters so that "ＢＡＳＳ",
// "Bass" and "bass" compare equal.
func Fold(s string) string {
	return cases.Fold().String(width.Fold.String(s))
}

// ContainsFolded reports whether needle occurs in haystack after folding.
// An empty needle always matches.
func ContainsFolded(haystack, needle string) bool {
	n := Fold(needle)
	if n == "" {
		return true
	}
	return strings.Contains(Fold(haystack), n)
}

// SortedOptions returns the distinct non-empty values, collated for Japanese
// so kana and kanji place names order the way players expect.
func SortedOptions(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	collate.New(language.Japanese).SortStrings(out)
	return out
}

// TimeLabel strips spaces from the dataset label and names all-day windows.
func TimeLabel(label string) string {
	t := strings.Join(strings.FieldsFunc(label, isSpace), "")
	switch strings.ToLower(t) {
	case "":
		return ""
	case "24時間", "24h", "allday", "24hours":
		return "all day"
	}
	return t
}

// PlaceLabel returns the display form of an item's place.
func PlaceLabel(place string) string {
	t := strings.TrimSpace(place)
	if t == "(指定なし)" {
		return "指定なし"
	}
	return t
}

// PriceText renders a sell price, or "" when the dataset has none.
func PriceText(price *float64) string {
	if price == nil {
		return ""
	}
	return strconv.FormatFloat(*price, 'f', -1, 64) + " Bells"
}

func isSpace(r rune) bool {
	return r == ' ' || r == '　' || r == '\t' || r == '\n' || r == '\r'
}
