package lore

import (
	"slices"
	"strings"
)

// Region is one of the fixed historical-geographic identifiers.
type Region string

const (
	Persis          Region = "Persis"
	Media           Region = "Media"
	Parthia         Region = "Parthia"
	Sogdia          Region = "Sogdia"
	Khwarezm        Region = "Khwarezm"
	Mazandaran      Region = "Mazandaran"
	Khorasan        Region = "Khorasan"
	ZagrosMountains Region = "Zagros Mountains"
	CaspianSea      Region = "Caspian Sea"
	Elam            Region = "Elam"
)

// DefaultRegion is used whenever an incoming region is not recognized.
const DefaultRegion = Persis

// RegionInfo is the read-only reference data attached to a region.
type RegionInfo struct {
	Region  Region   `json:"region"`
	Hint    string   `json:"hint"`
	Lexicon []string `json:"lexicon"`
	Realms  []string `json:"realms"`
}

var regions = []RegionInfo{
	{
		Region:  Persis,
		Hint:    "Achaemenid heartland: Pasargadae and Persepolis; Cyrus the Great, Darius; farr/farrah (xvarənah, divine royal glory).",
		Lexicon: []string{"farr (divine glory)", "apadana (audience hall)", "paradeisos (walled garden)", "Immortals (royal guard)", "xšāyaθiya (king)", "cypress"},
		Realms:  []string{"Achaemenid", "Sasanian"},
	},
	{
		Region:  Media,
		Hint:    "Median highlands and early Iranian polities prior to Achaemenids; Ecbatana traditions.",
		Lexicon: []string{"magus (priest)", "seven-walled citadel", "Nisaean horses", "highland pastures", "fire altar"},
		Realms:  []string{"Median"},
	},
	{
		Region:  Parthia,
		Hint:    "Arsacid/Parthian era; horse archers, steppe-silk road links; Nisa; composite bows; satrapal ties.",
		Lexicon: []string{"cataphract", "composite bow", "Parthian shot", "ivory rhyta of Nisa", "azatan (nobility)"},
		Realms:  []string{"Arsacid (Parthian)"},
	},
	{
		Region:  Sogdia,
		Hint:    "Eastern Iranian merchants and caravans; Samarkand/Bukhara spheres; vibrant trade and Zoroastrian/Buddhist contacts.",
		Lexicon: []string{"caravan master", "Marakanda (Samarkand)", "silk bales", "ossuary", "Nana's temple"},
		Realms:  []string{"Sogdian city-states", "Achaemenid satrapy of Sogdia"},
	},
	{
		Region:  Khwarezm,
		Hint:    "Lower Oxus/Amu Darya region; fortress-cities; water engineering; eastern Iranian culture.",
		Lexicon: []string{"Oxus (Vaxšu)", "qanat (underground channel)", "mud-brick fortress", "canal warden", "desert oasis"},
		Realms:  []string{"Khwarazmian", "Achaemenid satrapy of Chorasmia"},
	},
	{
		Region:  Mazandaran,
		Hint:    "Caspian forests; Gilan/Mazandaran folklore; rugged mountains and sea mists; local dynasts.",
		Lexicon: []string{"Alborz ridges", "white div (demon)", "boxwood forest", "rice terraces", "mountain fortress"},
		Realms:  []string{"Tapurian", "Sasanian frontier"},
	},
	{
		Region:  Khorasan,
		Hint:    "Eastern marches; rising sun motif; legendary frontiers in the Shahnameh; desert winds and steppe edge.",
		Lexicon: []string{"rising sun", "frontier watchtower", "Shahnameh hero", "caravanserai", "turquoise of Nishapur"},
		Realms:  []string{"Parthian", "Sasanian"},
	},
	{
		Region:  ZagrosMountains,
		Hint:    "Highland passes, oak forests, pastoralism; old borderlands of Elamites and Medes; fortresses.",
		Lexicon: []string{"oak groves", "mountain pass", "nomad tents", "rock relief", "shepherd's flute"},
		Realms:  []string{"Median", "Elamite"},
	},
	{
		Region:  CaspianSea,
		Hint:    "Caspian littoral; fishing, reeds and mist; Hyrcanian forests; humid coastal life.",
		Lexicon: []string{"Hyrcanian forest", "reed boats", "sturgeon", "sea mist", "silk of Gilan"},
		Realms:  []string{"Hyrcanian satrapy", "Arsacid (Parthian)"},
	},
	{
		Region:  Elam,
		Hint:    "Southwestern Iranian plateau prior to Achaemenids; Elamite heritage; Susa; brickwork and bull imagery.",
		Lexicon: []string{"glazed brick", "winged bull", "ziggurat of Chogha Zanbil", "cuneiform tablet", "river Karun"},
		Realms:  []string{"Elamite kingdom"},
	},
}

var byRegion = func() map[Region]RegionInfo {
	m := make(map[Region]RegionInfo, len(regions))
	for _, r := range regions {
		m[r.Region] = r
	}
	return m
}()

// Regions returns the fixed region set in its canonical order.
func Regions() []Region {
	out := make([]Region, 0, len(regions))
	for _, r := range regions {
		out = append(out, r.Region)
	}
	return out
}

// All returns a copy of the reference data for every region.
func All() []RegionInfo {
	out := make([]RegionInfo, 0, len(regions))
	for _, r := range regions {
		out = append(out, Info(r.Region))
	}
	return out
}

// NormalizeRegion maps any input onto the fixed region set. Exact members are
// returned unchanged, case and surrounding space are forgiven, and anything
// else falls back to DefaultRegion.
func NormalizeRegion(s string) Region {
	if _, ok := byRegion[Region(s)]; ok {
		return Region(s)
	}
	s = strings.TrimSpace(s)
	for _, r := range regions {
		if strings.EqualFold(string(r.Region), s) {
			return r.Region
		}
	}
	return DefaultRegion
}

// Info returns the reference data for r after normalization.
func Info(r Region) RegionInfo {
	info := byRegion[NormalizeRegion(string(r))]
	info.Lexicon = slices.Clone(info.Lexicon)
	info.Realms = slices.Clone(info.Realms)
	return info
}

func Hint(r Region) string {
	return byRegion[NormalizeRegion(string(r))].Hint
}

// Lexicon returns up to n flavor terms for r in their curated order. n <= 0
// returns the full list.
func Lexicon(r Region, n int) []string {
	terms := byRegion[NormalizeRegion(string(r))].Lexicon
	if n > 0 && n < len(terms) {
		terms = terms[:n]
	}
	return slices.Clone(terms)
}

func Realms(r Region) []string {
	return slices.Clone(byRegion[NormalizeRegion(string(r))].Realms)
}
