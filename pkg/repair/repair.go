// Package repair holds the text fixes applied to near-JSON model output
// before it is decoded. Each step is pure and safe on any input.
package repair

import (
	"regexp"
	"strings"
)

// StripFences removes a leading ```lang line and a trailing ``` marker.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimLeft(s, "`")
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimRight(s, "`")
	}
	return strings.TrimSpace(s)
}

// ExtractObject returns the span from the first '{' to the last '}'
// inclusive, or s unchanged when there is no such span.
func ExtractObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

var quotes = strings.NewReplacer(
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
)

// NormalizeQuotes swaps typographic quotes for ASCII ones.
func NormalizeQuotes(s string) string {
	return quotes.Replace(s)
}

var trailingComma = regexp.MustCompile(`,\s*([\]}])`)

// RemoveTrailingCommas drops commas that directly precede ']' or '}'.
func RemoveTrailingCommas(s string) string {
	return trailingComma.ReplaceAllString(s, "$1")
}

// Step is one repair pass.
type Step func(string) string

// Pipeline is the order the passes run in.
var Pipeline = []Step{StripFences, ExtractObject, NormalizeQuotes, RemoveTrailingCommas}

// Structural is Pipeline without NormalizeQuotes. Typographic quotes inside
// string values are legal JSON and survive it.
var Structural = []Step{StripFences, ExtractObject, RemoveTrailingCommas}

// Apply runs every step of Pipeline over s.
func Apply(s string) string {
	return run(Pipeline, s)
}

// Candidates returns the repaired forms of s to try decoding, least
// invasive first. The second form is present only when it differs.
func Candidates(s string) []string {
	light, full := run(Structural, s), Apply(s)
	if light == full {
		return []string{full}
	}
	return []string{light, full}
}

func run(steps []Step, s string) string {
	for _, step := range steps {
		s = step(s)
	}
	return s
}
