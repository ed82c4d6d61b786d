package schema

import (
	"errors"
	"fmt"
	"strings"

	"parsverse/pkg/lore"
)

// ErrInvalidRequest is matched by every request validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// RequestError names the field that failed validation.
type RequestError struct {
	Field  string
	Reason string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

func (e *RequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}

const (
	MinDetail = 1
	MaxDetail = 3

	MinAge     = 12
	MaxAge     = 90
	DefaultAge = 24

	DefaultHobby  = "general civic duties"
	DefaultGender = "Prefer not to say"
)

// MythRequest drives both the short myth and the long chronicle.
type MythRequest struct {
	Name        string   `json:"name"`
	Region      string   `json:"region"`
	Style       string   `json:"style,omitempty"`
	DetailLevel int      `json:"detail_level,omitempty"`
	Strictness  float64  `json:"strictness,omitempty"`
	Themes      []string `json:"themes,omitempty"`
}

// ChronicleRequest has the same shape as a myth request.
type ChronicleRequest = MythRequest

func (r MythRequest) Validate() error {
	return requireNameRegion(r.Name, r.Region)
}

// Normalize returns a copy with every field brought into its accepted range.
func (r MythRequest) Normalize() MythRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.Region = string(lore.NormalizeRegion(r.Region))
	r.Style = string(lore.NormalizeStyle(r.Style))
	r.DetailLevel = ClampDetail(r.DetailLevel)
	r.Strictness = min(max(r.Strictness, 0), 1)

	themes := make([]string, 0, len(r.Themes))
	for _, t := range r.Themes {
		if t = strings.TrimSpace(t); t != "" {
			themes = append(themes, t)
		}
	}
	r.Themes = themes
	return r
}

// PersonaRequest describes the person behind a persona dossier.
type PersonaRequest struct {
	Name   string   `json:"name"`
	Region string   `json:"region"`
	Age    int      `json:"age,omitempty"`
	Gender string   `json:"gender,omitempty"`
	Traits []string `json:"traits,omitempty"`
	Hobby  string   `json:"hobby,omitempty"`
	Style  string   `json:"style,omitempty"`

	DetailLevel int `json:"detail_level,omitempty"`
}

func (r PersonaRequest) Validate() error {
	return requireNameRegion(r.Name, r.Region)
}

func (r PersonaRequest) Normalize() PersonaRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.Region = string(lore.NormalizeRegion(r.Region))
	r.Style = string(lore.NormalizeStyle(r.Style))
	r.DetailLevel = ClampDetail(r.DetailLevel)
	if r.Age == 0 {
		r.Age = DefaultAge
	}
	r.Age = min(max(r.Age, MinAge), MaxAge)
	if r.Gender = strings.TrimSpace(r.Gender); r.Gender == "" {
		r.Gender = DefaultGender
	}
	r.Traits = lore.NormalizeTraits(r.Traits)
	if r.Hobby = strings.TrimSpace(r.Hobby); r.Hobby == "" {
		r.Hobby = DefaultHobby
	}
	return r
}

// ClampDetail maps an unset level to the minimum and bounds the rest.
func ClampDetail(level int) int {
	return min(max(level, MinDetail), MaxDetail)
}

func requireNameRegion(name, region string) error {
	if strings.TrimSpace(name) == "" {
		return &RequestError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(region) == "" {
		return &RequestError{Field: "region", Reason: "is required"}
	}
	return nil
}
