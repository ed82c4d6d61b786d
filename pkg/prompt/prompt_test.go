package prompt

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"parsverse/pkg/policy"
	"parsverse/pkg/schema"
)

func TestLengthForMonotonic(t *testing.T) {
	for task, b := range budgets {
		l1, l2, l3 := LengthFor(task, 1), LengthFor(task, 2), LengthFor(task, 3)
		if !(l1 <= l2 && l2 <= l3) {
			t.Errorf("%s: not monotonic: %d %d %d", task, l1, l2, l3)
		}
		if l3 > b.cap {
			t.Errorf("%s: level 3 budget %d exceeds cap %d", task, l3, b.cap)
		}
		if LengthFor(task, 0) != l1 || LengthFor(task, 7) != l3 {
			t.Errorf("%s: out of range levels not clamped", task)
		}
	}
}

func TestLengthForValues(t *testing.T) {
	tests := []struct {
		task  Task
		level int
		want  int
	}{
		{TaskMyth, 1, 320},
		{TaskMyth, 2, 500},
		{TaskMyth, 3, 680},
		{TaskChronicle, 3, 1300},
		{TaskPersona, 1, 950},
		{TaskPersona, 3, 1190},
	}
	for _, tt := range tests {
		if got := LengthFor(tt.task, tt.level); got != tt.want {
			t.Errorf("LengthFor(%s, %d) = %d, want %d", tt.task, tt.level, got, tt.want)
		}
	}
}

func TestTemperatureOrdering(t *testing.T) {
	if !(Temperature(TaskPersona) < Temperature(TaskMyth) && Temperature(TaskMyth) < Temperature(TaskChronicle)) {
		t.Error("persona should be lowest and chronicle highest")
	}
}

func TestStrictnessGuidance(t *testing.T) {
	tests := []struct {
		s    float64
		want string
	}{
		{1, "rigorous"},
		{0.8, "rigorous"},
		{0.79, "restrained metaphor"},
		{0.5, "restrained metaphor"},
		{0.49, "poetic license"},
		{0, "poetic license"},
	}
	for _, tt := range tests {
		if got := StrictnessGuidance(tt.s); !strings.Contains(got, tt.want) {
			t.Errorf("StrictnessGuidance(%v) = %q, want it to mention %q", tt.s, got, tt.want)
		}
	}
}

func TestMythPrompt(t *testing.T) {
	req := schema.MythRequest{Name: "Roxana", Region: "Khorasan", Style: "Mystic", DetailLevel: 2, Strictness: 0.6}
	p := Myth(req, policy.Modern)

	for _, want := range []string{"Roxana", "Khorasan", "mystic", "restrained metaphor", "karma", "Kourosh (Cyrus)", "1-2 sentences"} {
		if !strings.Contains(p, want) {
			t.Errorf("myth prompt missing %q", want)
		}
	}

	last := -1
	for n, s := range Sections(TaskMyth) {
		i := strings.Index(p, fmt.Sprintf("%d. %s\n", n+1, s))
		if i <= last {
			t.Fatalf("section %q out of order", s)
		}
		last = i
	}
}

func TestPromptNormalizesRegion(t *testing.T) {
	p := Myth(schema.MythRequest{Name: "Arash", Region: "Atlantis"}, policy.Modern)
	if !strings.Contains(p, "region of Persis") || strings.Contains(p, "Atlantis") {
		t.Error("unknown region should fall back to Persis")
	}
}

func TestChroniclePrompt(t *testing.T) {
	p := Chronicle(schema.ChronicleRequest{Name: "Arash", Region: "Parthia", DetailLevel: 3, Strictness: 0.9}, policy.OldPersian)
	for _, want := range []string{"long chronicle", "Legacy", "rigorous", "Kūruš (not Cyrus)", "4-6 sentences"} {
		if !strings.Contains(p, want) {
			t.Errorf("chronicle prompt missing %q", want)
		}
	}
	if strings.Contains(p, "Kourosh") {
		t.Error("old_persian prompt should not use modern forms")
	}
}

func TestPersonaPrompt(t *testing.T) {
	p := Persona(schema.PersonaRequest{Name: "Tahmineh", Region: "Media", Age: 31, Gender: "Female"}, policy.Modern)
	for _, want := range []string{"strict JSON", strings.Join(schema.PersonaKeys, ", "), "second person", "Age: 31", "brave, curious", "dharma"} {
		if !strings.Contains(p, want) {
			t.Errorf("persona prompt missing %q", want)
		}
	}
}

func TestRevise(t *testing.T) {
	once := Revise("base prompt")
	if !strings.HasSuffix(strings.TrimSpace(once), Revision) {
		t.Errorf("revision not appended: %q", once)
	}
	if twice := Revise(once); twice != once {
		t.Error("revision appended twice")
	}
}

func TestAgeBand(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{12, "child"},
		{14, "child"},
		{15, "late teen"},
		{19, "late teen"},
		{20, "young adult"},
		{25, "young adult"},
		{26, "adult"},
		{44, "adult"},
		{45, "middle-aged"},
		{59, "middle-aged"},
		{60, "elder"},
		{90, "elder"},
	}
	for _, tt := range tests {
		if got, _ := AgeBand(tt.age); got != tt.want {
			t.Errorf("AgeBand(%d) = %q, want %q", tt.age, got, tt.want)
		}
	}
	if _, ex := AgeBand(10); !slices.Contains(ex, "elderly") {
		t.Error("child band should exclude elderly")
	}
}

func TestGenderBand(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Female", "female"},
		{"a young woman", "female"},
		{"F", "female"},
		{"Male", "male"},
		{"gentleman", "male"},
		{"M", "male"},
		{"Non-binary", ""},
		{"Prefer not to say", ""},
		{"male or female", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := GenderBand(tt.in); got != tt.want {
			t.Errorf("GenderBand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestImageFromPersona(t *testing.T) {
	p := schema.Persona{Role: "Royal archivist", Appearance: "A fluted tiara", Symbols: []string{"Cypress"}}
	img := ImageFromPersona(p, schema.PersonaRequest{Name: "Tahmineh", Region: "Media", Age: 10, Gender: "girl"})

	for _, want := range []string{"Tahmineh", "child female", "Royal archivist", "Cypress", "No text in image"} {
		if !strings.Contains(img.Prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, img.Prompt)
		}
	}

	terms := strings.Split(img.Negative, ", ")
	for _, want := range []string{"watermark", "elderly", "mustache"} {
		if !slices.Contains(terms, want) {
			t.Errorf("negative missing %q: %s", want, img.Negative)
		}
	}
	seen := map[string]bool{}
	for _, term := range terms {
		if seen[term] {
			t.Errorf("duplicate negative term %q", term)
		}
		seen[term] = true
	}
	// "beard" comes from the age band first, then again from the gender band.
	if strings.Index(img.Negative, "beard") > strings.Index(img.Negative, "mustache") {
		t.Error("first-seen order not preserved")
	}
}

func TestImageFromPersonaWithoutGender(t *testing.T) {
	img := ImageFromPersona(schema.Persona{}, schema.PersonaRequest{Name: "Arash", Region: "Elam", Age: 70})
	if strings.Contains(img.Negative, "mustache") || strings.Contains(img.Negative, "feminine face") {
		t.Errorf("unrecognized gender should add no exclusions: %s", img.Negative)
	}
}

func TestImageFromMyth(t *testing.T) {
	text := strings.Repeat("Kourosh rode east. ", 100)
	img := ImageFromMyth(text, schema.MythRequest{Name: "Roxana", Region: "Sogdia"})
	if !strings.Contains(img.Prompt, "No text in image") || !strings.Contains(img.Prompt, "Sogdia") {
		t.Errorf("unexpected prompt: %s", img.Prompt)
	}
	if strings.Count(img.Prompt, "Kourosh") >= 100 {
		t.Error("excerpt was not truncated")
	}
	if img.Negative == "" {
		t.Error("empty negative prompt")
	}
}
