package prompt

import (
	"fmt"
	"strings"
	"unicode"

	"parsverse/pkg/lore"
	"parsverse/pkg/schema"
	"parsverse/pkg/utils"
)

// Image is a positive description plus the terms the image must avoid.
type Image struct {
	Prompt   string `json:"prompt"`
	Negative string `json:"negative_prompt"`
}

const excerptRunes = 600

var baseNegative = []string{
	"text", "letters", "caption", "watermark", "signature", "logo",
	"blurry", "lowres", "deformed hands", "extra limbs",
	"modern clothing", "anachronistic objects",
	"Indian temple architecture", "Hindu iconography",
}

type ageBand struct {
	max     int
	label   string
	exclude []string
}

var ageBands = []ageBand{
	{14, "child", []string{"wrinkles", "grey hair", "elderly", "beard", "adult body"}},
	{19, "late teen", []string{"wrinkles", "grey hair", "elderly", "middle-aged"}},
	{25, "young adult", []string{"wrinkles", "grey hair", "elderly", "child"}},
	{44, "adult", []string{"child", "elderly", "frail"}},
	{59, "middle-aged", []string{"child", "teenager", "baby face"}},
	{1 << 30, "elder", []string{"child", "teenager", "youthful skin", "baby face"}},
}

// AgeBand returns the band label for an age and the descriptors it excludes.
func AgeBand(age int) (string, []string) {
	for _, b := range ageBands {
		if age <= b.max {
			return b.label, append([]string(nil), b.exclude...)
		}
	}
	return "", nil
}

var (
	femaleTokens = []string{"female", "woman", "girl", "f", "lady"}
	maleTokens   = []string{"male", "man", "boy", "m", "gentleman"}
)

// GenderBand classifies free-text gender as "female", "male" or "" when it
// is not recognizably either.
func GenderBand(gender string) string {
	var female, male bool
	for _, tok := range strings.FieldsFunc(strings.ToLower(gender), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		for _, f := range femaleTokens {
			female = female || tok == f
		}
		for _, m := range maleTokens {
			male = male || tok == m
		}
	}
	switch {
	case female && !male:
		return "female"
	case male && !female:
		return "male"
	}
	return ""
}

// GenderExclusions lists opposite-gender descriptors for a recognized gender.
func GenderExclusions(gender string) []string {
	switch GenderBand(gender) {
	case "female":
		return []string{"beard", "mustache", "masculine jawline", "male"}
	case "male":
		return []string{"feminine face", "female", "woman"}
	}
	return nil
}

func artDirection(style string) string {
	return fmt.Sprintf("Painterly illustration inspired by Achaemenid reliefs and Persian miniature painting, %s mood, rich lapis and gold palette, soft directional light.",
		strings.ToLower(string(lore.NormalizeStyle(style))))
}

// ImageFromMyth describes an illustration for a generated myth or chronicle.
func ImageFromMyth(text string, req schema.MythRequest) Image {
	req = req.Normalize()
	region := lore.NormalizeRegion(req.Region)

	var b strings.Builder
	b.WriteString(artDirection(req.Style) + "\n")
	fmt.Fprintf(&b, "Composition: one central figure, %s, in a wide establishing scene of %s.\n", req.Name, region)
	fmt.Fprintf(&b, "Setting: %s\n", lore.Hint(region))
	fmt.Fprintf(&b, "Scene, based on this story: %s\n", utils.TruncateRunes(strings.TrimSpace(text), excerptRunes))
	b.WriteString("No text in image: no letters, captions or inscriptions.")

	return Image{Prompt: b.String(), Negative: negative(baseNegative)}
}

// ImageFromPersona describes a portrait for a persona record.
func ImageFromPersona(p schema.Persona, req schema.PersonaRequest) Image {
	req = req.Normalize()
	region := lore.NormalizeRegion(req.Region)
	band, ageExclude := AgeBand(req.Age)

	subject := band
	if g := GenderBand(req.Gender); g != "" {
		subject = band + " " + g
	}

	var b strings.Builder
	b.WriteString(artDirection(req.Style) + "\n")
	fmt.Fprintf(&b, "Portrait of %s, a %s (about %d years old)", req.Name, subject, req.Age)
	if p.Role != "" {
		fmt.Fprintf(&b, ", %s", p.Role)
	}
	fmt.Fprintf(&b, ", in %s.\n", region)

	var details []string
	add := func(label, v string) {
		if v = strings.TrimSpace(v); v != "" {
			details = append(details, label+": "+utils.TruncateRunes(v, 200))
		}
	}
	add("Kingdom", p.Kingdom)
	add("Locale", p.Locale)
	add("Appearance", p.Appearance)
	add("Artifact", p.Artifact)
	add("Dwelling", p.Dwelling)
	if len(p.Symbols) > 0 {
		add("Symbols", strings.Join(p.Symbols, ", "))
	}
	if len(details) > 0 {
		b.WriteString(strings.Join(details, "\n") + "\n")
	}
	b.WriteString("No text in image: no letters, captions or inscriptions.")

	terms := append(append(append([]string(nil), baseNegative...), ageExclude...), GenderExclusions(req.Gender)...)
	return Image{Prompt: b.String(), Negative: negative(terms)}
}

func negative(terms []string) string {
	return strings.Join(utils.DedupeStrings(terms), ", ")
}
