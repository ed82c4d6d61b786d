// Package prompt builds the instructions sent to the text and image
// providers. Every builder is pure: the same request and mode always give the
// same prompt.
package prompt

import (
	"fmt"
	"strings"

	"parsverse/pkg/lore"
	"parsverse/pkg/policy"
	"parsverse/pkg/schema"
)

type Task string

const (
	TaskMyth      Task = "myth"
	TaskChronicle Task = "chronicle"
	TaskPersona   Task = "persona"
)

type budget struct {
	base, step, cap int
}

var budgets = map[Task]budget{
	TaskMyth:      {base: 320, step: 180, cap: 1200},
	TaskChronicle: {base: 700, step: 300, cap: 1800},
	TaskPersona:   {base: 950, step: 120, cap: 1400},
}

var temperatures = map[Task]float64{
	TaskMyth:      0.85,
	TaskChronicle: 0.88,
	TaskPersona:   0.7,
}

// LengthFor is the max-tokens budget for a task at a detail level.
func LengthFor(task Task, level int) int {
	b, ok := budgets[task]
	if !ok {
		b = budgets[TaskMyth]
	}
	level = schema.ClampDetail(level)
	return min(b.cap, b.base+(level-1)*b.step)
}

// Temperature is the sampling temperature used for a task.
func Temperature(task Task) float64 {
	if t, ok := temperatures[task]; ok {
		return t
	}
	return temperatures[TaskMyth]
}

// Revision is appended to a prompt whose answer still contained denylisted terms.
const Revision = "REVISION: Your previous answer used forbidden non-Iranian terms. " +
	"Rewrite it from scratch and comply strictly with every rule above. " +
	"Use only Iranian terminology and do not mention any forbidden term, not even to deny it."

// Revise appends Revision to p unless it is already there.
func Revise(p string) string {
	if strings.Contains(p, Revision) {
		return p
	}
	return strings.TrimRight(p, "\n") + "\n\n" + Revision + "\n"
}

// StrictnessGuidance words the historical-fidelity instruction.
func StrictnessGuidance(strictness float64) string {
	switch {
	case strictness >= 0.8:
		return "Be rigorous and source-attested: use only names, places and customs attested in Iranian sources, with no embellishment."
	case strictness >= 0.5:
		return "Stay grounded in attested history; use restrained metaphor and avoid invented customs."
	default:
		return "Mild poetic license is allowed, but every detail must remain culturally plausible for ancient Iran."
	}
}

// TransliterationRule tells the model how to write Iranian names.
func TransliterationRule(mode policy.Mode) string {
	var examples []string
	for _, pair := range policy.Endonyms(mode)[:6] {
		if mode == policy.OldPersian {
			examples = append(examples, fmt.Sprintf("%s (not %s)", pair[1], pair[0]))
		} else {
			examples = append(examples, fmt.Sprintf("%s (%s)", pair[1], pair[0]))
		}
	}
	if mode == policy.OldPersian {
		return "Write Iranian names in their reconstructed Old Persian or Avestan scholarly forms only, never the Greek/Latin exonym: " +
			strings.Join(examples, ", ") + "."
	}
	return "Prefer Iranian endonyms in modern transliteration; on first mention you may add the Greek/Latin exonym once in parentheses: " +
		strings.Join(examples, ", ") + "."
}

func forbiddenRule() string {
	return "Do NOT use Indic/Sanskrit religious or philosophical vocabulary. Forbidden terms: " +
		strings.Join(policy.BannedTerms(), ", ") + "."
}

func sentenceTarget(task Task, level int) string {
	level = schema.ClampDetail(level)
	if task == TaskChronicle {
		return [...]string{"2-3", "3-4", "4-6"}[level-1]
	}
	return [...]string{"1", "1-2", "2-3"}[level-1]
}

var (
	mythSections      = []string{"Setting", "Role", "Conflict", "Turning Point", "Resolution", "Moral"}
	chronicleSections = []string{
		"Prologue", "Setting", "Lineage", "Calling", "Trials", "Alliances",
		"Betrayal", "Turning Point", "Resolution", "Legacy", "Moral",
	}
)

// Sections lists the labeled sections a myth or chronicle must contain, in order.
func Sections(task Task) []string {
	if task == TaskChronicle {
		return append([]string(nil), chronicleSections...)
	}
	return append([]string(nil), mythSections...)
}

func regionContext(b *strings.Builder, region lore.Region) {
	fmt.Fprintf(b, "Region: %s\n", region)
	fmt.Fprintf(b, "Context for accuracy: %s\n", lore.Hint(region))
	if lex := lore.Lexicon(region, 6); len(lex) > 0 {
		fmt.Fprintf(b, "Weave in some of these terms where natural: %s.\n", strings.Join(lex, ", "))
	}
	if realms := lore.Realms(region); len(realms) > 0 {
		fmt.Fprintf(b, "Plausible realms: %s.\n", strings.Join(realms, ", "))
	}
}

func rules(b *strings.Builder, mode policy.Mode, extra ...string) {
	b.WriteString("\nSTRICT RULES:\n")
	b.WriteString("- Use ONLY Iranian/Persian terminology (Old Persian, Avestan, Middle Persian/Pahlavi, New Persian).\n")
	b.WriteString("- " + TransliterationRule(mode) + "\n")
	b.WriteString("- " + forbiddenRule() + "\n")
	b.WriteString("- Use clear modern English; gloss any Persian term in brackets when needed, e.g. farr (divine glory).\n")
	for _, e := range extra {
		b.WriteString("- " + e + "\n")
	}
}

// Myth builds the short labeled myth prompt.
func Myth(req schema.MythRequest, mode policy.Mode) string {
	return narrative(TaskMyth, req, mode)
}

// Chronicle builds the long labeled chronicle prompt.
func Chronicle(req schema.ChronicleRequest, mode policy.Mode) string {
	return narrative(TaskChronicle, req, mode)
}

func narrative(task Task, req schema.MythRequest, mode policy.Mode) string {
	req = req.Normalize()
	region := lore.NormalizeRegion(req.Region)

	var b strings.Builder
	b.WriteString("You are a cultural historian and storyteller of ancient Iran.\n")
	if task == TaskChronicle {
		fmt.Fprintf(&b, "Write a long chronicle about %s, set in the historical region of %s.\n\n", req.Name, region)
	} else {
		fmt.Fprintf(&b, "Write a short myth about %s, set in the historical region of %s.\n\n", req.Name, region)
	}
	regionContext(&b, region)
	fmt.Fprintf(&b, "Tone: %s, culturally faithful to Iranian history and myth.\n", strings.ToLower(req.Style))
	if len(req.Themes) > 0 {
		fmt.Fprintf(&b, "Themes to explore: %s.\n", strings.Join(req.Themes, ", "))
	}
	b.WriteString(StrictnessGuidance(req.Strictness) + "\n")

	b.WriteString("\nStructure the response as these labeled sections, in this order:\n")
	for i, s := range Sections(task) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	fmt.Fprintf(&b, "Write %s sentences per section.\n", sentenceTarget(task, req.DetailLevel))

	rules(&b, mode, "Return ONLY the labeled sections, with no preamble or closing remarks.")
	return b.String()
}

// Persona builds the strict-JSON persona dossier prompt.
func Persona(req schema.PersonaRequest, mode policy.Mode) string {
	req = req.Normalize()
	region := lore.NormalizeRegion(req.Region)

	var b strings.Builder
	b.WriteString("You are a cultural historian of ancient Iran who writes immersive persona dossiers.\n")
	fmt.Fprintf(&b, "Create a detailed persona for %s, imagined as living in the historical region of %s.\n\n", req.Name, region)
	regionContext(&b, region)
	fmt.Fprintf(&b, "Age: %d\n", req.Age)
	fmt.Fprintf(&b, "Gender: %s\n", req.Gender)
	fmt.Fprintf(&b, "Traits: %s\n", strings.Join(req.Traits, ", "))
	fmt.Fprintf(&b, "Hobby or occupation: %s\n", req.Hobby)
	fmt.Fprintf(&b, "Tone: %s\n", strings.ToLower(req.Style))

	b.WriteString("\nRespond with strict JSON only: a single object with exactly these keys and no others:\n")
	b.WriteString(strings.Join(schema.PersonaKeys, ", ") + "\n")
	fmt.Fprintf(&b, "%s must be arrays of short strings; every other value must be a single string.\n", strings.Join(schema.ListKeys, " and "))
	b.WriteString("Write hobby, friends, daily_routine, short_story and backstory in the second person (\"you\").\n")

	rules(&b, mode,
		"Do not wrap the JSON in code fences and do not add commentary.",
		"Use straight double quotes and no trailing commas.",
	)
	return b.String()
}
