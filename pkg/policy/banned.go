package policy

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

type rule struct {
	term        string
	pattern     wordPattern
	replacement string
}

func newRule(term, pattern, replacement string) rule {
	return rule{
		term:        term,
		pattern:     compileWord(pattern),
		replacement: replacement,
	}
}

const royalAuthority = "xšaça (royal authority)"

// banned is applied in order. Most terms are deleted; a few have an Iranian
// counterpart that is substituted instead.
var banned = []rule{
	newRule("kshatra", `kshatra`, royalAuthority),
	newRule("kṣatra", `kṣatra`, royalAuthority),
	newRule("soma", `soma`, "haoma (sacred drink)"),
	newRule("dharma", `dharma`, ""),
	newRule("karma", `karma`, ""),
	newRule("brahman", `brahman`, ""),
	newRule("brahmin", `brahmin`, ""),
	newRule("chakra", `chakras?`, ""),
	newRule("veda", `vedas?`, ""),
	newRule("vedic", `vedic`, ""),
	newRule("upanishad", `upanishads?`, ""),
	newRule("mantra", `mantras?`, ""),
	newRule("yoga", `yoga`, ""),
	newRule("yogi", `yogi`, ""),
	newRule("guru", `guru`, ""),
	newRule("ashram", `ashram`, ""),
	newRule("nirvana", `nirvana`, ""),
	newRule("moksha", `moksha`, ""),
	newRule("samsara", `samsara`, ""),
	newRule("atman", `atman`, ""),
}

var (
	horizontalRun = regexp.MustCompile(`[ \t]{2,}`)
	newlineRun    = regexp.MustCompile(`\n{3,}`)
)

// BannedTerms lists the denylist in rule order, for restating it to a model.
func BannedTerms() []string {
	out := make([]string, 0, len(banned))
	for _, r := range banned {
		out = append(out, r.term)
	}
	return out
}

// ScrubBanned removes or replaces every denylisted term, then normalizes the
// whitespace the deletions leave behind. It is idempotent.
func ScrubBanned(text string) string {
	if text == "" {
		return ""
	}
	out := text
	for _, r := range banned {
		out = r.pattern.replace(out, func(regexp2.Match) string { return r.replacement })
	}
	return NormalizeWhitespace(out)
}

// NormalizeWhitespace collapses runs of spaces/tabs to one space and runs of
// three or more newlines to a blank line, then trims the ends.
func NormalizeWhitespace(text string) string {
	text = horizontalRun.ReplaceAllString(text, " ")
	text = newlineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// ContainsBanned reports whether any denylisted term is present.
func ContainsBanned(text string) bool {
	for _, r := range banned {
		if r.pattern.match(text) {
			return true
		}
	}
	return false
}

// FindBanned returns the denylist entries present in text, in rule order.
func FindBanned(text string) []string {
	var found []string
	for _, r := range banned {
		if r.pattern.match(text) {
			found = append(found, r.term)
		}
	}
	return found
}

// Clean runs the banned-term scrubber followed by the endonym rewrite.
func Clean(text string, mode Mode) string {
	return PreferEndonyms(ScrubBanned(text), mode)
}
