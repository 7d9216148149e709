package catalog

import "strings"

// ShadowSize is the silhouette class a fish shows in the water.
type ShadowSize int

const (
	ShadowUnknown ShadowSize = iota
	ShadowXSmall
	ShadowSmall
	ShadowMedium
	ShadowLarge
	ShadowXLarge
	ShadowXXLarge
	ShadowNarrow
	ShadowFin
)

func (s ShadowSize) String() string {
	switch s {
	case ShadowXSmall:
		return "x-small"
	case ShadowSmall:
		return "small"
	case ShadowMedium:
		return "medium"
	case ShadowLarge:
		return "large"
	case ShadowXLarge:
		return "x-large"
	case ShadowXXLarge:
		return "xx-large"
	case ShadowNarrow:
		return "narrow"
	case ShadowFin:
		return "fin"
	default:
		return ""
	}
}

// ParseShadowSize accepts the English names and the labels older saved
// filters used.
func ParseShadowSize(raw string) (ShadowSize, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "x-small", "極小":
		return ShadowXSmall, true
	case "small", "小":
		return ShadowSmall, true
	case "medium", "中":
		return ShadowMedium, true
	case "large", "大":
		return ShadowLarge, true
	case "x-large", "特大":
		return ShadowXLarge, true
	case "xx-large", "超特大":
		return ShadowXXLarge, true
	case "narrow", "細長":
		return ShadowNarrow, true
	case "fin", "背びれ":
		return ShadowFin, true
	default:
		return ShadowUnknown, false
	}
}

const (
	xs = ShadowXSmall
	sm = ShadowSmall
	md = ShadowMedium
	lg = ShadowLarge
	xl = ShadowXLarge
	xx = ShadowXXLarge
	nw = ShadowNarrow
	fn = ShadowFin
)

// fishShadows is indexed by fish ordinal minus one.
var fishShadows = [...]ShadowSize{
	xs, xs, sm, md, lg, lg, xs, xs, sm, xs, // 1-10
	sm, md, md, xs, sm, sm, sm, lg, xl, sm, // 11-20
	md, lg, lg, xl, sm, md, md, lg, md, xx, // 21-30
	lg, xx, sm, xs, sm, sm, sm, xs, xs, sm, // 31-40
	lg, xl, xx, xx, lg, xx, xs, xs, xs, sm, // 41-50
	sm, xx, md, md, md, xs, sm, md, xl, md, // 51-60
	md, lg, md, xl, nw, xx, xx, xl, xx, fn, // 61-70
	xl, fn, fn, fn, fn, lg, lg, xx, sm, xx, // 71-80
}

// ShadowFor looks up the shadow size of a fish by ordinal.
func ShadowFor(no int) (ShadowSize, bool) {
	if no < 1 || no > len(fishShadows) {
		return ShadowUnknown, false
	}
	return fishShadows[no-1], true
}

// ShadowOptions lists the sizes present in the lookup, smallest first.
func ShadowOptions() []ShadowSize {
	present := make(map[ShadowSize]bool)
	for _, s := range fishShadows {
		present[s] = true
	}
	out := make([]ShadowSize, 0, len(present))
	for s := ShadowXSmall; s <= ShadowFin; s++ {
		if present[s] {
			out = append(out, s)
		}
	}
	return out
}
