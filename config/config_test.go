package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDecode(t *testing.T) {
	t.Run("defaults from environment", func(t *testing.T) {
		t.Setenv("CINEREVIEW_CONFIG", "")
		t.Setenv("TMDB_API_KEY", "secret")
		cfg, err := Decode()
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Server.Port != 4000 {
			t.Errorf("expected port 4000; got %d", cfg.Server.Port)
		}
		if cfg.TMDB.Language != "ja-JP" || cfg.TMDB.FallbackLanguage != "en-US" {
			t.Errorf("unexpected languages %q/%q", cfg.TMDB.Language, cfg.TMDB.FallbackLanguage)
		}
		if cfg.TMDB.APIKey != "secret" {
			t.Errorf("expected api key from environment")
		}
		if cfg.Guard.TTL != 30*time.Second {
			t.Errorf("expected guard ttl 30s; got %s", cfg.Guard.TTL)
		}
	})

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		content := []byte("server:\n  port: 8080\n  env: staging\nbackend:\n  base_url: http://backend.test/api\n")
		if err := os.WriteFile(path, content, 0o600); err != nil {
			t.Fatal(err)
		}
		t.Setenv("CINEREVIEW_CONFIG", path)
		t.Setenv("TMDB_API_KEY", "secret")
		cfg, err := Decode()
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Server.Port != 8080 || cfg.Server.Env != "staging" {
			t.Errorf("unexpected server config %+v", cfg.Server)
		}
		if cfg.Backend.BaseURL != "http://backend.test/api" {
			t.Errorf("unexpected backend url %q", cfg.Backend.BaseURL)
		}
	})

	t.Run("missing api key", func(t *testing.T) {
		t.Setenv("CINEREVIEW_CONFIG", "")
		t.Setenv("TMDB_API_KEY", "")
		_, err := Decode()
		if !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("expected ErrMissingAPIKey; got %v", err)
		}
	})
}
