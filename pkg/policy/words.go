package policy

import (
	"github.com/dlclark/regexp2"
)

// wordPattern matches pattern as a whole word, case-insensitively. Word
// boundaries follow Unicode letters and marks, so "ākarma" holds no "karma".
type wordPattern struct {
	re *regexp2.Regexp
}

func compileWord(pattern string) wordPattern {
	return wordPattern{re: regexp2.MustCompile(`\b(?:`+pattern+`)\b`, regexp2.IgnoreCase)}
}

func (w wordPattern) match(text string) bool {
	ok, err := w.re.MatchString(text)
	return err == nil && ok
}

// replace substitutes every match with the evaluator's result, taken
// literally. Text is returned unchanged if matching fails.
func (w wordPattern) replace(text string, fn func(m regexp2.Match) string) string {
	out, err := w.re.ReplaceFunc(text, fn, -1, -1)
	if err != nil {
		return text
	}
	return out
}
