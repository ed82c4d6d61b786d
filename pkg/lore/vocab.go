package lore

import (
	"math/rand/v2"
	"slices"
	"strings"
)

// Style is the requested tone of a generation.
type Style string

const (
	Epic   Style = "Epic"
	Mystic Style = "Mystic"
	Royal  Style = "Royal"
	Poet   Style = "Poet"
)

var styles = []Style{Epic, Mystic, Royal, Poet}

func Styles() []Style { return slices.Clone(styles) }

// NormalizeStyle returns the matching style, or Epic for anything unknown.
func NormalizeStyle(s string) Style {
	s = strings.TrimSpace(s)
	for _, st := range styles {
		if strings.EqualFold(string(st), s) {
			return st
		}
	}
	return Epic
}

var traits = []string{"brave", "wise", "just", "mercurial", "stoic", "devout", "curious", "cunning", "compassionate", "ambitious"}

// DefaultTraits are used when a persona request carries no recognizable trait.
var DefaultTraits = []string{"brave", "curious"}

// MaxTraits is the largest number of traits a persona may carry.
const MaxTraits = 4

func Traits() []string { return slices.Clone(traits) }

// NormalizeTraits lowercases, drops unknown and duplicate tags, and keeps at
// most MaxTraits of them in the order given.
func NormalizeTraits(in []string) []string {
	out := make([]string, 0, MaxTraits)
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if !slices.Contains(traits, t) || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
		if len(out) == MaxTraits {
			break
		}
	}
	if len(out) == 0 {
		return slices.Clone(DefaultTraits)
	}
	return out
}

var genders = []string{"Female", "Male", "Non-binary", "Prefer not to say"}

func Genders() []string { return slices.Clone(genders) }

var facts = []string{
	"“Farr / Farrah (xvarənah)” denotes divine royal glory in Iranian tradition.",
	"Takht-e Jamshid (Parsa/Persepolis) bears inscriptions in Old Persian, Elamite, and Babylonian.",
	"Kourosh (Cyrus) founded Pasargad, the early Achaemenid capital.",
	"Hagmatāna (Hamadan/Ecbatana) was a Median royal center with layered fortifications.",
	"Tisfun (Ctesiphon) served as a grand Sasanian capital on the Tigris.",
	"The Shahnameh preserves epic cycles like Rostam of Sistan/Zabulistan.",
	"Sogdian merchants connected Iran to the Silk Roads via Samarkand and Bukhara.",
	"Hyrcanian forests along the Caspian are among the world’s oldest temperate rainforests.",
	"Parthian cataphracts were famed for heavy armor on both rider and horse.",
}

func Facts() []string { return slices.Clone(facts) }

// RandomFact picks one fact for "did you know?" captions.
func RandomFact() string {
	return facts[rand.IntN(len(facts))]
}
