package schema

import (
	"fmt"
	"strings"
)

// Persona is the canonical structured result of a persona request.
type Persona struct {
	Kingdom      string   `json:"kingdom" jsonschema_description:"Historical realm the persona belongs to"`
	Locale       string   `json:"locale" jsonschema_description:"City, valley or district within the region"`
	Role         string   `json:"role" jsonschema_description:"Station or occupation in society"`
	FavoriteFood string   `json:"favorite_food" jsonschema_description:"A period-plausible favorite dish"`
	Hobby        string   `json:"hobby" jsonschema_description:"Pastime, in second person"`
	Friends      string   `json:"friends" jsonschema_description:"Companions and allies, in second person"`
	Titles       []string `json:"titles" jsonschema_description:"Honorifics or epithets"`
	Symbols      []string `json:"symbols" jsonschema_description:"Emblems associated with the persona"`
	Artifact     string   `json:"artifact" jsonschema_description:"A signature object"`
	Appearance   string   `json:"appearance" jsonschema_description:"Dress, bearing and features"`
	Dwelling     string   `json:"dwelling" jsonschema_description:"Where the persona lives"`
	DailyRoutine string   `json:"daily_routine" jsonschema_description:"A typical day"`
	Festival     string   `json:"festival" jsonschema_description:"A festival the persona keeps, such as Nowruz or Mehregan"`
	ShortStory   string   `json:"short_story" jsonschema_description:"A short episode from the persona's life"`
	Backstory    string   `json:"backstory" jsonschema_description:"Origins and formative events, in second person"`
	Motto        string   `json:"motto" jsonschema_description:"A one-line personal motto"`
}

// PersonaKeys is the closed key set of the persona JSON object, in prompt order.
var PersonaKeys = []string{
	"kingdom", "locale", "role", "favorite_food", "hobby", "friends",
	"titles", "symbols", "artifact", "appearance", "dwelling",
	"daily_routine", "festival", "short_story", "backstory", "motto",
}

// ListKeys are the persona keys whose values are string lists.
var ListKeys = []string{"titles", "symbols"}

// StringFields returns pointers to every scalar field keyed by its JSON name.
func (p *Persona) StringFields() map[string]*string {
	return map[string]*string{
		"kingdom":       &p.Kingdom,
		"locale":        &p.Locale,
		"role":          &p.Role,
		"favorite_food": &p.FavoriteFood,
		"hobby":         &p.Hobby,
		"friends":       &p.Friends,
		"artifact":      &p.Artifact,
		"appearance":    &p.Appearance,
		"dwelling":      &p.Dwelling,
		"daily_routine": &p.DailyRoutine,
		"festival":      &p.Festival,
		"short_story":   &p.ShortStory,
		"backstory":     &p.Backstory,
		"motto":         &p.Motto,
	}
}

// Map returns a copy with fn applied to every scalar field and list element.
// Nil lists come back empty so the record always serializes every key.
func (p Persona) Map(fn func(string) string) Persona {
	out := p
	for _, field := range out.StringFields() {
		*field = fn(*field)
	}
	out.Titles = mapList(p.Titles, fn)
	out.Symbols = mapList(p.Symbols, fn)
	return out
}

func mapList(in []string, fn func(string) string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = fn(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Text joins every field value, used to re-check the whole record at once.
func (p Persona) Text() string {
	var b strings.Builder
	for _, key := range PersonaKeys {
		switch key {
		case "titles":
			b.WriteString(strings.Join(p.Titles, "\n"))
		case "symbols":
			b.WriteString(strings.Join(p.Symbols, "\n"))
		default:
			b.WriteString(*p.StringFields()[key])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Dossier renders a plain-text export of the persona.
func (p Persona) Dossier(name string) string {
	if name == "" {
		name = "anon"
	}
	role := p.Role
	if role == "" {
		role = "Citizen"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ParsVerse Persona\n")
	fmt.Fprintf(&b, "Name: %s\n", name)
	fmt.Fprintf(&b, "Kingdom: %s\n", p.Kingdom)
	fmt.Fprintf(&b, "Locale: %s\n", p.Locale)
	fmt.Fprintf(&b, "Role: %s\n", role)
	fmt.Fprintf(&b, "Titles: %s\n", strings.Join(p.Titles, ", "))
	fmt.Fprintf(&b, "Symbols: %s\n", strings.Join(p.Symbols, ", "))
	fmt.Fprintf(&b, "Artifact: %s\n", p.Artifact)
	fmt.Fprintf(&b, "Motto: %s\n", p.Motto)
	fmt.Fprintf(&b, "Favorite food: %s\n", p.FavoriteFood)
	fmt.Fprintf(&b, "Hobby: %s\n", p.Hobby)
	fmt.Fprintf(&b, "Friends: %s\n", p.Friends)
	fmt.Fprintf(&b, "\nBackstory:\n%s\n", p.Backstory)
	if p.ShortStory != "" {
		fmt.Fprintf(&b, "\nShort story:\n%s\n", p.ShortStory)
	}
	return b.String()
}
