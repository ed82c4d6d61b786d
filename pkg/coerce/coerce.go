// Package coerce turns loosely structured persona output into a schema.Persona.
package coerce

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"parsverse/pkg/policy"
	"parsverse/pkg/repair"
	"parsverse/pkg/schema"
)

// ListSeparator joins array values that arrive for a scalar field.
const ListSeparator = "; "

// Persona repairs and decodes raw model output, then cleans every field with
// the policy engine. It never fails: output that still does not decode
// becomes a record whose backstory is the raw text.
func Persona(raw string, mode policy.Mode) schema.Persona {
	p, _ := Coerce(raw, mode)
	return p
}

// Coerce is Persona that also reports whether raw decoded as an object.
func Coerce(raw string, mode policy.Mode) (schema.Persona, bool) {
	p, err := Decode(raw)
	decoded := err == nil
	if !decoded {
		log.Warn("persona output is not JSON, falling back to backstory", "error", err, "len", len(raw))
		p = schema.Persona{Backstory: raw}
	}
	return p.Map(func(s string) string { return policy.Clean(s, mode) }), decoded
}

// Decode repairs raw and decodes it without applying any policy. Quote
// normalization is only used when the lighter repair does not decode.
func Decode(raw string) (schema.Persona, error) {
	var p schema.Persona

	var fields map[string]any
	var err error
	for _, candidate := range repair.Candidates(raw) {
		if fields, err = decodeObject(candidate); err == nil {
			break
		}
	}
	if err != nil {
		return p, fmt.Errorf("decoding persona: %w", err)
	}

	for key, dst := range p.StringFields() {
		*dst = flatten(fields[key])
	}
	p.Titles = list(fields["titles"])
	p.Symbols = list(fields["symbols"])
	return p, nil
}

func decodeObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("not an object")
	}
	return fields, nil
}

// flatten joins array elements with ListSeparator. Elements that stringify
// to blank text are dropped so no empty segments appear.
func flatten(v any) string {
	switch v := v.(type) {
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			if s := strings.TrimSpace(stringify(e)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ListSeparator)
	default:
		return stringify(v)
	}
}

func list(v any) []string {
	switch v := v.(type) {
	case nil:
		return []string{}
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s := strings.TrimSpace(stringify(e)); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := strings.TrimSpace(stringify(v)); s != "" {
			return []string{s}
		}
		return []string{}
	}
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool, float64:
		return fmt.Sprint(v)
	case []any:
		return flatten(v)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Sprint(v)
		}
		return strings.TrimSpace(buf.String())
	}
}
