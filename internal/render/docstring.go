package render

import "strings"

// NoDocumentation is rendered in place of an absent docstring.
const NoDocumentation = "*No documentation available.*"

var sectionMarkers = map[string]bool{
	"Args:":       true,
	"Arguments:":  true,
	"Parameters:": true,
	"Returns:":    true,
	"Raises:":     true,
	"Examples:":   true,
	"Example:":    true,
	"Note:":       true,
	"Notes:":      true,
}

// FormatDocstring turns docstring section markers into bold paragraphs and
// passes every other line through unchanged.
func FormatDocstring(doc string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return NoDocumentation
	}
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		if marker := strings.TrimSpace(line); sectionMarkers[marker] {
			lines[i] = "\n**" + marker + "**\n"
		}
	}
	return strings.Join(lines, "\n")
}
