package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestLoadConfigFile tests YAML parsing of profiles and saved searches.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("parses sources and searches", func(t *testing.T) {
		t.Parallel()

		content := `
sources:
  petfinder:
    baseURL: https://mirror.example.com/search/
    headers:
      Cookie: session=abc123
searches:
  - city: Seattle
    state: WA
    species: dog
  - city: Portland
    state: OR
    radius: 50
`
		path := filepath.Join(t.TempDir(), ".petscan")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() returned error: %v", err)
		}

		profile := cf.GetSourceProfile("petfinder")
		if profile.BaseURL != "https://mirror.example.com/search/" {
			t.Errorf("BaseURL = %q", profile.BaseURL)
		}
		if profile.Headers["Cookie"] != "session=abc123" {
			t.Errorf("Headers = %v", profile.Headers)
		}

		if len(cf.Searches) != 2 {
			t.Fatalf("got %d searches, want 2", len(cf.Searches))
		}
		if cf.Searches[0].City != "Seattle" || cf.Searches[0].Species != "dog" {
			t.Errorf("first search = %+v", cf.Searches[0])
		}
		if cf.Searches[1].Radius != 50 {
			t.Errorf("second search radius = %d, want 50", cf.Searches[1].Radius)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".petscan")
		if err := os.WriteFile(path, []byte("sources: [not a map"), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for malformed yaml")
		}
	})

	t.Run("empty file yields initialized maps", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".petscan")
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() returned error: %v", err)
		}
		if cf.Sources == nil {
			t.Error("Sources map not initialized")
		}
	})
}

// TestFindConfigFile tests the lookup order.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path wins when it exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("searches: []"), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile() = %q, want %q", got, path)
		}
	})

	t.Run("missing explicit path yields empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope")); got != "" {
			t.Errorf("FindConfigFile() = %q, want empty", got)
		}
	})
}

// TestGetSourceProfile tests nil-safe profile lookup.
func TestGetSourceProfile(t *testing.T) {
	t.Parallel()

	var cf *File
	if got := cf.GetSourceProfile("petfinder"); got.BaseURL != "" {
		t.Errorf("nil file should yield zero profile, got %+v", got)
	}

	cf = &File{}
	if got := cf.GetSourceProfile("petfinder"); got.BaseURL != "" {
		t.Errorf("empty file should yield zero profile, got %+v", got)
	}
}
