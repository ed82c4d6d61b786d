package lore

import (
	"slices"
	"testing"
)

func TestNormalizeRegion(t *testing.T) {
	tests := []struct {
		in   string
		want Region
	}{
		{"Persis", Persis},
		{"Khorasan", Khorasan},
		{"Zagros Mountains", ZagrosMountains},
		{"  caspian sea ", CaspianSea},
		{"ELAM", Elam},
		{"Atlantis", Persis},
		{"", Persis},
		{"Persis\x00", Persis},
	}
	for _, tt := range tests {
		if got := NormalizeRegion(tt.in); got != tt.want {
			t.Errorf("NormalizeRegion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeRegionIsTotal(t *testing.T) {
	set := Regions()
	if len(set) != 10 {
		t.Fatalf("expected 10 regions, got %d", len(set))
	}
	for _, r := range set {
		if got := NormalizeRegion(string(r)); got != r {
			t.Errorf("member %q normalized to %q", r, got)
		}
	}
	for _, in := range []string{"Rome", "parthia!", "Media Persis", "ایران"} {
		if !slices.Contains(set, NormalizeRegion(in)) {
			t.Errorf("NormalizeRegion(%q) left the region set", in)
		}
	}
}

func TestReferenceData(t *testing.T) {
	for _, info := range All() {
		if info.Hint == "" {
			t.Errorf("%s: empty hint", info.Region)
		}
		if len(info.Lexicon) == 0 {
			t.Errorf("%s: empty lexicon", info.Region)
		}
		if len(info.Realms) == 0 {
			t.Errorf("%s: no realms", info.Region)
		}
	}

	if got := Lexicon(Persis, 2); len(got) != 2 {
		t.Fatalf("Lexicon(Persis, 2) returned %d terms", len(got))
	}
	got := Lexicon(Persis, 1)
	got[0] = "mutated"
	if Lexicon(Persis, 1)[0] == "mutated" {
		t.Error("Lexicon exposed the shared table")
	}
	if Hint("Atlantis") != Hint(Persis) {
		t.Error("unknown region should read the default region's hint")
	}
}

func TestNormalizeTraits(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty uses defaults", nil, DefaultTraits},
		{"unknown dropped", []string{"lazy", "Wise"}, []string{"wise"}},
		{"dedupe", []string{"brave", "BRAVE", " brave "}, []string{"brave"}},
		{"capped", []string{"brave", "wise", "just", "stoic", "devout"}, []string{"brave", "wise", "just", "stoic"}},
		{"only unknown", []string{"sleepy"}, DefaultTraits},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTraits(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("NormalizeTraits(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeStyle(t *testing.T) {
	if NormalizeStyle("mystic") != Mystic {
		t.Error("expected case-insensitive match")
	}
	if NormalizeStyle("Baroque") != Epic {
		t.Error("expected Epic fallback")
	}
}

func TestRandomFact(t *testing.T) {
	if !slices.Contains(Facts(), RandomFact()) {
		t.Error("RandomFact returned something outside Facts")
	}
}
