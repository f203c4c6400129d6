package scanner

import "strings"

const (
	crossRefMarker = "undocs.org/"
	languageMarker = "en/"
	variantMarker  = "("
)

// NormalizeLink turns an anchor href into a citation target. The second
// return value is false when href does not contain the cross-reference
// marker exactly once or the target would span several lines.
//
// The part after the marker has every "en/" removed and is cut at the first
// "(", so "https://undocs.org/en/A/RES/70/1(E)" becomes "A/RES/70/1". The
// result may be empty.
func NormalizeLink(href string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(href), crossRefMarker)
	if len(parts) != 2 {
		return "", false
	}

	target := strings.ReplaceAll(parts[1], languageMarker, "")
	if idx := strings.Index(target, variantMarker); idx >= 0 {
		target = target[:idx]
	}
	if strings.ContainsAny(target, "\r\n") {
		return "", false
	}
	return target, true
}
