package main

import (
	"os"
	"path/filepath"
	"testing"

	"parsverse/pkg/schema"
)

func TestLoadRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.json")
	body := `{"name": "Tahmineh", "region": "media", "age": 31, "traits": ["loyal"]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	req := schema.PersonaRequest{Name: "from flags"}
	if err := loadRequest(path, &req); err != nil {
		t.Fatal(err)
	}
	if req.Name != "Tahmineh" || req.Region != "media" || req.Age != 31 || len(req.Traits) != 1 {
		t.Errorf("unexpected request: %+v", req)
	}

	kept := schema.MythRequest{Name: "Arash"}
	if err := loadRequest("", &kept); err != nil || kept.Name != "Arash" {
		t.Errorf("empty path must keep the flag request: %+v, %v", kept, err)
	}
	if err := loadRequest(filepath.Join(t.TempDir(), "missing.json"), &kept); err == nil {
		t.Error("expected an error for a missing file")
	}
}
