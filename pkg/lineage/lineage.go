package lineage

import (
	"regexp"
	"strings"
)

// Separator is the default rank separator in lineage strings.
const Separator = ";"

// KeySeparator joins labels in path keys of consensus trees.
const KeySeparator = ";"

// Lineage holds bare labels for every rank, from domain to species.
// Trailing ranks may be empty.
type Lineage [RanksNum]string

// Parse splits a raw lineage on the separator, trims whitespace and rank
// prefixes, and pads missing trailing ranks with empty strings.
// Fields beyond species are discarded.
func Parse(raw, sep string) Lineage {
	var res Lineage
	if sep == "" {
		sep = Separator
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return res
	}
	parts := strings.Split(raw, sep)
	for i := range min(len(parts), RanksNum) {
		res[i] = StripRankPrefix(strings.TrimSpace(parts[i]))
	}
	return res
}

// Format joins bare labels with the separator. Trailing empty ranks are
// omitted.
func Format(l Lineage, sep string) string {
	if sep == "" {
		sep = Separator
	}
	last := -1
	for i := range l {
		if l[i] != "" {
			last = i
		}
	}
	return strings.Join(l[:last+1], sep)
}

// FormatPrefixed renders all seven ranks with their markers joined by
// "; ". Empty ranks render as the bare marker, e.g. "s__".
func FormatPrefixed(l Lineage) string {
	res := make([]string, RanksNum)
	for i := range l {
		res[i] = Rank(i).Prefix() + l[i]
	}
	return strings.Join(res, "; ")
}

// Depth returns the number of consecutive non-empty ranks starting from
// domain.
func (l Lineage) Depth() int {
	for i := range l {
		if l[i] == "" {
			return i
		}
	}
	return RanksNum
}

// Enforce clears every rank that follows the first empty rank, so that
// a non-empty rank always has a non-empty parent. The second value is true
// if anything was cleared.
func (l Lineage) Enforce() (Lineage, bool) {
	var changed bool
	d := l.Depth()
	for i := d; i < RanksNum; i++ {
		if l[i] != "" {
			l[i] = ""
			changed = true
		}
	}
	return l, changed
}

// Label returns the bare label at the given rank.
func (l Lineage) Label(r Rank) string {
	if !r.IsValid() {
		return ""
	}
	return l[r]
}

// PathKey joins labels from domain down to and including rank r.
// Empty ranks are skipped.
func (l Lineage) PathKey(r Rank) string {
	if !r.IsValid() {
		return ""
	}
	res := make([]string, 0, int(r)+1)
	for i := Domain; i <= r; i++ {
		if l[i] != "" {
			res = append(res, l[i])
		}
	}
	return strings.Join(res, KeySeparator)
}

var markerRe = regexp.MustCompile(`^(.+?)(_[A-Z]+)$`)

// SplitMarker separates a polyphyly marker (an underscore followed by
// uppercase letters, as in "Firmicutes_A") from the label. The marker is
// empty for unmarked labels.
func SplitMarker(label string) (base, marker string) {
	m := markerRe.FindStringSubmatch(label)
	if m == nil {
		return label, ""
	}
	return m[1], m[2]
}

// Bare returns the label without its polyphyly marker.
func Bare(label string) string {
	res, _ := SplitMarker(label)
	return res
}

// BareBinomial removes polyphyly markers from both halves of a binomial,
// e.g. "Bacillus_A cereus_B" becomes "Bacillus cereus".
func BareBinomial(species string) string {
	parts := strings.Fields(species)
	for i := range parts {
		parts[i] = Bare(parts[i])
	}
	return strings.Join(parts, " ")
}
