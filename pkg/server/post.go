package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"parsverse/pkg/generator"
	"parsverse/pkg/inference"
	"parsverse/pkg/policy"
	"parsverse/pkg/prompt"
	"parsverse/pkg/schema"
	"parsverse/pkg/utils"
)

type narrativeResponse struct {
	ID       string          `json:"id"`
	Text     string          `json:"text"`
	Attempts int             `json:"attempts"`
	Changes  []policy.Change `json:"changes,omitempty"`
}

type personaResponse struct {
	ID       string         `json:"id"`
	Persona  schema.Persona `json:"persona"`
	Attempts int            `json:"attempts"`
}

// illustrateReq carries either a generated myth or a persona. Subject is the
// request that produced it.
type illustrateReq struct {
	Kind    string          `json:"kind"`
	Text    string          `json:"text,omitempty"`
	Persona schema.Persona  `json:"persona"`
	Subject json.RawMessage `json:"subject"`
}

// POST /api/myth
func (s *Server) handlePostMyth(c echo.Context) error {
	var req schema.MythRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON("invalid json"))
	}
	res, err := s.Generator.Myth(c.Request().Context(), req)
	if err != nil {
		return generationError(c, err)
	}
	return c.JSON(http.StatusOK, narrative(res))
}

// POST /api/chronicle
func (s *Server) handlePostChronicle(c echo.Context) error {
	var req schema.ChronicleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON("invalid json"))
	}
	res, err := s.Generator.Chronicle(c.Request().Context(), req)
	if err != nil {
		return generationError(c, err)
	}
	return c.JSON(http.StatusOK, narrative(res))
}

// POST /api/persona
func (s *Server) handlePostPersona(c echo.Context) error {
	var req schema.PersonaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON("invalid json"))
	}
	res, err := s.Generator.Persona(c.Request().Context(), req)
	if err != nil {
		return generationError(c, err)
	}
	return c.JSON(http.StatusOK, personaResponse{ID: res.ID, Persona: res.Persona, Attempts: res.Attempts})
}

// POST /api/illustrate
func (s *Server) handlePostIllustrate(c echo.Context) error {
	var req illustrateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON("invalid json"))
	}

	var img prompt.Image
	switch strings.ToLower(strings.TrimSpace(req.Kind)) {
	case "myth", "chronicle":
		var subject schema.MythRequest
		if err := decodeSubject(req.Subject, &subject); err != nil {
			return c.JSON(http.StatusBadRequest, utils.ErrJSON("invalid subject"))
		}
		if strings.TrimSpace(req.Text) == "" {
			return c.JSON(http.StatusBadRequest, utils.ErrJSON("text is required"))
		}
		img = s.Composer.FromMyth(req.Text, subject)
	case "persona":
		var subject schema.PersonaRequest
		if err := decodeSubject(req.Subject, &subject); err != nil {
			return c.JSON(http.StatusBadRequest, utils.ErrJSON("invalid subject"))
		}
		img = s.Composer.FromPersona(req.Persona, subject)
	default:
		return c.JSON(http.StatusBadRequest, utils.ErrJSON(`kind must be "myth" or "persona"`))
	}

	data := s.Composer.Render(c.Request().Context(), img)
	if data == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.Blob(http.StatusOK, "image/webp", data)
}

func decodeSubject(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func narrative(res generator.Result) narrativeResponse {
	return narrativeResponse{ID: res.ID, Text: res.Text, Attempts: res.Attempts, Changes: res.Changes}
}

// generationError maps generator failures onto HTTP statuses.
func generationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, schema.ErrInvalidRequest):
		return c.JSON(http.StatusBadRequest, utils.ErrJSON(err.Error()))
	case errors.Is(err, inference.ErrMissingCredential):
		return c.JSON(http.StatusServiceUnavailable, utils.ErrJSON("text provider is not configured"))
	}
	log.Error("generation request failed", "path", c.Path(), "error", err)
	return c.JSON(http.StatusBadGateway, utils.ErrJSON("text provider request failed"))
}
