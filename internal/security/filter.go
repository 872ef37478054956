package security

import "strings"

// Response filter bounds. Length truncation applies first; the line cap is
// re-checked on the possibly shortened text and only fires if it still
// exceeds the threshold.
const (
	MaxResponseLength = 5000
	MaxResponseLines  = 100
	keptResponseLines = 50

	lengthTruncationMarker = "\n\n[Response truncated for length]"
	lineTruncationMarker   = "\n\n[Response truncated - too many results]"
)

// FilterResponse bounds model output before release. Responses under both
// caps are returned unchanged.
func FilterResponse(text string) string {
	if len(text) > MaxResponseLength {
		text = text[:MaxResponseLength] + lengthTruncationMarker
	}

	lines := strings.Split(text, "\n")
	if len(lines) > MaxResponseLines {
		text = strings.Join(lines[:keptResponseLines], "\n") + lineTruncationMarker
	}

	return text
}
