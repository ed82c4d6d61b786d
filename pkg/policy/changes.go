package policy

import (
	"strings"
	"unicode"

	"github.com/aryann/difflib"
)

type Op int

const (
	Removed Op = -1
	Added   Op = +1
)

// Change is one word-level edit made by a policy pass.
type Change struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

func tokenizeWords(s string) []string {
	var out []string
	var cur []rune
	kind := -1 // 0=space,1=word,2=punct
	flush := func() {
		if len(cur) == 0 {
			return
		}
		out = append(out, string(cur))
		cur = cur[:0]
	}
	for _, r := range s {
		k := 2
		switch {
		case unicode.IsSpace(r):
			k = 0
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || r == '-' || r == '\'':
			k = 1
		}
		if kind == -1 {
			kind = k
		}
		if k != kind {
			flush()
			kind = k
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

// Changes lists the words removed from before and added in after, skipping
// pure whitespace edits.
func Changes(before, after string) []Change {
	var out []Change
	for _, r := range difflib.Diff(tokenizeWords(before), tokenizeWords(after)) {
		if strings.TrimSpace(r.Payload) == "" {
			continue
		}
		switch r.Delta {
		case difflib.LeftOnly:
			out = append(out, Change{Op: Removed, Text: r.Payload})
		case difflib.RightOnly:
			out = append(out, Change{Op: Added, Text: r.Payload})
		}
	}
	return out
}
