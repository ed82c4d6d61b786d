package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"parsverse/pkg/config"
	"parsverse/pkg/generator"
	"parsverse/pkg/illustrate"
	"parsverse/pkg/imagegen"
	"parsverse/pkg/inference"
	"parsverse/pkg/lore"
	"parsverse/pkg/policy"
	"parsverse/pkg/schema"
)

type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(context.Context, string, float64, int) (string, error) {
	f.calls++
	return f.reply, f.err
}

type fakeImages struct {
	data []byte
}

func (f fakeImages) Generate(context.Context, string, string, string) []byte { return f.data }

func (f fakeImages) Backend() imagegen.Backend {
	return imagegen.Backend{Provider: "fake", Model: "m", Enabled: true}
}

func newTestServer(c inference.Completer, images imagegen.Generator) *Server {
	cfg := config.Defaults()
	return NewServer(context.Background(), generator.New(cfg, c), illustrate.New(cfg, images))
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func TestGetRegions(t *testing.T) {
	s := newTestServer(&fakeCompleter{}, nil)
	rec := do(s, http.MethodGet, "/api/regions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []lore.RegionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != len(lore.Regions()) || got[0].Hint == "" {
		t.Errorf("unexpected regions: %+v", got)
	}
}

func TestGetOptions(t *testing.T) {
	s := newTestServer(&fakeCompleter{}, nil)
	rec := do(s, http.MethodGet, "/api/options", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got optionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Styles, lore.Styles()) || !slices.Equal(got.Genders, lore.Genders()) {
		t.Errorf("styles %v genders %v", got.Styles, got.Genders)
	}
	if len(got.Regions) != len(lore.Regions()) || len(got.Traits) == 0 || len(got.Facts) == 0 {
		t.Errorf("incomplete options: %+v", got)
	}
}

func TestGetFactAndBackend(t *testing.T) {
	s := newTestServer(&fakeCompleter{}, nil)

	rec := do(s, http.MethodGet, "/api/fact", "")
	var fact map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &fact)
	if rec.Code != http.StatusOK || fact["fact"] == "" {
		t.Errorf("fact: %d %s", rec.Code, rec.Body)
	}

	rec = do(s, http.MethodGet, "/api/backend", "")
	var backend imagegen.Backend
	_ = json.Unmarshal(rec.Body.Bytes(), &backend)
	if backend.Enabled || backend.Provider != config.ImageNone {
		t.Errorf("backend = %+v", backend)
	}
}

func TestPostMyth(t *testing.T) {
	fake := &fakeCompleter{reply: "Setting: Cyrus rode to Susa."}
	s := newTestServer(fake, nil)

	rec := do(s, http.MethodPost, "/api/myth", `{"name":"Roxana","region":"Khorasan","detail_level":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var res narrativeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.ID == "" || res.Text != "Setting: Kourosh (Cyrus) rode to Shush (Susa)." {
		t.Errorf("unexpected response: %+v", res)
	}

	var added, removed []string
	for _, c := range res.Changes {
		switch c.Op {
		case policy.Added:
			added = append(added, c.Text)
		case policy.Removed:
			removed = append(removed, c.Text)
		}
	}
	if !slices.Contains(added, "Kourosh") || !slices.Contains(removed, "Susa") {
		t.Errorf("endonym rewrite missing from changes: added %v removed %v", added, removed)
	}
}

func TestPostMythOmitsEmptyChanges(t *testing.T) {
	s := newTestServer(&fakeCompleter{reply: "Setting: Roxana rode east."}, nil)
	rec := do(s, http.MethodPost, "/api/myth", `{"name":"Roxana","region":"Khorasan"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if strings.Contains(rec.Body.String(), `"changes"`) {
		t.Errorf("untouched text should carry no changes: %s", rec.Body)
	}
}

func TestPostPersona(t *testing.T) {
	fake := &fakeCompleter{reply: `{"kingdom":"Median","friends":["Arash","Tahmineh"]}`}
	s := newTestServer(fake, nil)

	rec := do(s, http.MethodPost, "/api/persona", `{"name":"Tahmineh","region":"Media"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var res personaResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Persona.Kingdom != "Median" || res.Persona.Friends != "Arash; Tahmineh" {
		t.Errorf("unexpected persona: %+v", res.Persona)
	}
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		body string
		want int
	}{
		{"invalid json", nil, `{"name":`, http.StatusBadRequest},
		{"missing name", nil, `{"region":"Media"}`, http.StatusBadRequest},
		{"missing credential", inference.ErrMissingCredential, `{"name":"Arash","region":"Media"}`, http.StatusServiceUnavailable},
		{"provider failure", errors.New("502 upstream"), `{"name":"Arash","region":"Media"}`, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeCompleter{err: tt.err}, nil)
			for _, path := range []string{"/api/myth", "/api/chronicle", "/api/persona"} {
				rec := do(s, http.MethodPost, path, tt.body)
				if rec.Code != tt.want {
					t.Errorf("%s: status = %d, want %d", path, rec.Code, tt.want)
				}
				if !strings.Contains(rec.Body.String(), `"success":false`) {
					t.Errorf("%s: body = %s", path, rec.Body)
				}
			}
		})
	}
}

func TestValidationSkipsProvider(t *testing.T) {
	fake := &fakeCompleter{reply: "unused"}
	s := newTestServer(fake, nil)
	do(s, http.MethodPost, "/api/myth", `{"name":"  ","region":"Media"}`)
	if fake.calls != 0 {
		t.Errorf("expected no provider calls, got %d", fake.calls)
	}
}

func TestPostIllustrate(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}

	s := newTestServer(&fakeCompleter{}, fakeImages{data: buf.Bytes()})
	rec := do(s, http.MethodPost, "/api/illustrate",
		`{"kind":"myth","text":"Kourosh rode east.","subject":{"name":"Roxana","region":"Khorasan"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/webp" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("RIFF")) {
		t.Error("expected a webp body")
	}

	persona, _ := json.Marshal(map[string]any{
		"kind":    "persona",
		"persona": schema.Persona{Kingdom: "Median", Backstory: "You were born in Hagmatāna."},
		"subject": schema.PersonaRequest{Name: "Tahmineh", Region: "Media", Age: 30},
	})
	rec = do(s, http.MethodPost, "/api/illustrate", string(persona))
	if rec.Code != http.StatusOK {
		t.Errorf("persona status = %d: %s", rec.Code, rec.Body)
	}
}

func TestPostIllustrateWithoutImages(t *testing.T) {
	s := newTestServer(&fakeCompleter{}, nil)
	rec := do(s, http.MethodPost, "/api/illustrate", `{"kind":"myth","text":"Kourosh rode east."}`)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}

	rec = do(s, http.MethodPost, "/api/illustrate", `{"kind":"poem","text":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown kind: status = %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(&fakeCompleter{}, nil)
	do(s, http.MethodGet, "/api/fact", "")
	rec := do(s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "parsverse_http_requests_total") {
		t.Errorf("metrics: %d", rec.Code)
	}
}
