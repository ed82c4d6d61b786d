package repair

import (
	"slices"
	"testing"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{}\n```", "{}"},
		{"  {\"a\":1}  ", `{"a":1}`},
		{"```{}```", "{}"},
		{"Sure! ```json\n{}\n```", "Sure! ```json\n{}"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripFences(tt.in); got != tt.want {
			t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractObject(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`Here is the JSON: {"a": {"b": 1}} hope it helps`, `{"a": {"b": 1}}`},
		{"no braces at all", "no braces at all"},
		{"} backwards {", "} backwards {"},
		{"{unterminated", "{unterminated"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractObject(tt.in); got != tt.want {
			t.Errorf("ExtractObject(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeQuotes(t *testing.T) {
	in := "{“kingdom”: “Media’s”}"
	if got, want := NormalizeQuotes(in), `{"kingdom": "Media's"}`; got != want {
		t.Errorf("NormalizeQuotes = %q, want %q", got, want)
	}
}

func TestRemoveTrailingCommas(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a": [1, 2,],}`, `{"a": [1, 2]}`},
		{"{\"a\": 1,\n  }", `{"a": 1}`},
		{`{"a": "x, y"}`, `{"a": "x, y"}`},
	}
	for _, tt := range tests {
		if got := RemoveTrailingCommas(tt.in); got != tt.want {
			t.Errorf("RemoveTrailingCommas(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApply(t *testing.T) {
	in := "Sure! ```json\n{\"kingdom\": \"Median\", \"titles\": [\"a\",\"b\",],}\n```"
	want := `{"kingdom": "Median", "titles": ["a","b"]}`
	if got := Apply(in); got != want {
		t.Errorf("Apply = %q, want %q", got, want)
	}
}

func TestCandidates(t *testing.T) {
	in := "```json\n{\"motto\": \"Keep the “farr” bright\",}\n```"
	got := Candidates(in)
	want := []string{`{"motto": "Keep the “farr” bright"}`, `{"motto": "Keep the "farr" bright"}`}
	if !slices.Equal(got, want) {
		t.Errorf("Candidates = %q, want %q", got, want)
	}

	if got := Candidates(`{"a": 1}`); len(got) != 1 {
		t.Errorf("plain input should give one candidate, got %q", got)
	}
}
