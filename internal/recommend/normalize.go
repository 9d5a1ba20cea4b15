package recommend

import (
	"regexp"
	"strings"
)

var (
	parentheticalPattern = regexp.MustCompile(`\(.*?\)`)
	listMarkerPattern    = regexp.MustCompile(`^(?:[-*•]|\d{1,2}[.)])\s+`)
	yearPattern          = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// NormalizeTitle turns a suggestion line into a search query: a leading list
// marker ("1.", "2)", "-", "*", "•") is dropped, every (...) group is removed,
// the rest is cut at the first colon, and the result is trimmed. The result
// may be empty.
func NormalizeTitle(line string) string {
	cleaned := parentheticalPattern.ReplaceAllString(stripListMarker(line), "")
	if idx := strings.IndexByte(cleaned, ':'); idx >= 0 {
		cleaned = cleaned[:idx]
	}
	return strings.TrimSpace(cleaned)
}

// SplitSuggestions splits raw model output into non-empty trimmed lines,
// preserving order. Lines are otherwise kept as the model wrote them.
func SplitSuggestions(raw string) []string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// stripListMarker drops one leading list marker. A line that is nothing but
// a marker-like token ("1917") is left alone.
func stripListMarker(line string) string {
	line = strings.TrimSpace(line)
	if stripped := strings.TrimSpace(listMarkerPattern.ReplaceAllString(line, "")); stripped != "" {
		return stripped
	}
	return line
}
