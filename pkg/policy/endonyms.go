package policy

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// Mode selects how preferred Iranian forms are written.
type Mode string

const (
	// Modern writes the endonym and, on first occurrence, the exonym in
	// parentheses: "Kourosh (Cyrus)".
	Modern Mode = "modern"
	// OldPersian writes the reconstructed scholarly form only: "Kūruš".
	OldPersian Mode = "old_persian"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Modern, "":
		return Modern, nil
	case OldPersian, "old-persian", "oldpersian":
		return OldPersian, nil
	}
	return "", fmt.Errorf("unknown transliteration mode %q (use %q or %q)", s, Modern, OldPersian)
}

type endonym struct {
	exonym     string
	modern     string
	oldPersian string
	pattern    wordPattern
}

func newEndonym(exonym, modern, oldPersian string) endonym {
	return endonym{
		exonym:     exonym,
		modern:     modern,
		oldPersian: oldPersian,
		pattern:    compileWord(regexp2.Escape(exonym)),
	}
}

var endonyms = []endonym{
	newEndonym("Zoroaster", "Zarathustra", "Zarathuštra"),
	newEndonym("Mithras", "Mithra", "Miθra"),
	newEndonym("Anaitis", "Anāhitā", "Anāhitā"),
	newEndonym("Achaemenes", "Hakhamanesh", "Haxāmaniš"),
	newEndonym("Cyrus", "Kourosh", "Kūruš"),
	newEndonym("Cambyses", "Kambujiya", "Kambūjiya"),
	newEndonym("Darius", "Dariush", "Dārayavauš"),
	newEndonym("Artaxerxes", "Ardeshir", "Artaxšaçā"),
	newEndonym("Xerxes", "Khashayarsha", "Xšayāršā"),
	newEndonym("Persepolis", "Parsa / Takht-e Jamshid", "Pārsa"),
	newEndonym("Pasargadae", "Pasargad", "Pāθragadā"),
	newEndonym("Ecbatana", "Hagmatāna / Hamadan", "Hagmatāna"),
	newEndonym("Hyrcania", "Gorgan / Varkāna", "Varkāna"),
	newEndonym("Bactria", "Bakhtar", "Bāxtriš"),
	newEndonym("Susa", "Shush", "Çūšā"),
	newEndonym("Ctesiphon", "Tisfun", "Tīsfōn"),
}

// Endonyms returns exonym → preferred form for the given mode, in rewrite order.
func Endonyms(mode Mode) [][2]string {
	out := make([][2]string, 0, len(endonyms))
	for _, e := range endonyms {
		out = append(out, [2]string{e.exonym, e.preferred(mode)})
	}
	return out
}

func (e endonym) preferred(mode Mode) string {
	if mode == OldPersian {
		return e.oldPersian
	}
	return e.modern
}

// PreferEndonyms rewrites Greek/Latin names into preferred Iranian forms.
// Already annotated occurrences such as "Kourosh (Cyrus)" are left alone, so
// the rewrite can be applied to its own output.
func PreferEndonyms(text string, mode Mode) string {
	if text == "" {
		return ""
	}
	for _, e := range endonyms {
		if mode == OldPersian {
			text = e.pattern.replace(text, func(regexp2.Match) string { return e.oldPersian })
			continue
		}
		text = e.rewriteModern(text)
	}
	return text
}

// rewriteModern glosses the first occurrence as "Modern (Exonym)" and
// replaces later ones with the modern form alone.
func (e endonym) rewriteModern(text string) string {
	runes := []rune(text)
	seen := false
	return e.pattern.replace(text, func(m regexp2.Match) string {
		defer func() { seen = true }()
		switch {
		case e.annotated(runes, m.Index, m.Index+m.Length):
			return m.String()
		case !seen:
			return e.modern + " (" + e.exonym + ")"
		default:
			return e.modern
		}
	})
}

// annotated reports whether runes[start:end] already sits inside "Modern (...)".
func (e endonym) annotated(runes []rune, start, end int) bool {
	prefix := []rune(e.modern + " (")
	if start < len(prefix) || !strings.EqualFold(string(runes[start-len(prefix):start]), string(prefix)) {
		return false
	}
	return end < len(runes) && runes[end] == ')'
}
