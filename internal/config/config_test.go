// # internal/config/config_test.go
package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `
moodle_root = "/srv/moodle"
component = "mod_quiz"

[exclude]
dirs = [".git", "vendor"]
files = ["*.min.js"]

[watch]
debounce = "1s"

[output]
markdown = "strings.md"
sarif = "strings.sarif"
tsv = "strings.tsv"

[reconcile]
reference = "usages"
permissive = true

[history]
path = "stringcheck.db"

[metrics]
addr = ":9187"

[alerts]
beep = true
terminal = true
`
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MoodleRoot != "/srv/moodle" {
		t.Errorf("Expected MoodleRoot /srv/moodle, got %s", cfg.MoodleRoot)
	}
	if cfg.Component != "mod_quiz" {
		t.Errorf("Expected Component mod_quiz, got %s", cfg.Component)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Output.Markdown != "strings.md" {
		t.Errorf("Expected Markdown strings.md, got %s", cfg.Output.Markdown)
	}
	if cfg.Reconcile.Reference != "usages" {
		t.Errorf("Expected reference usages, got %s", cfg.Reconcile.Reference)
	}
	if !cfg.Reconcile.Permissive {
		t.Error("Expected permissive mode enabled")
	}
	if cfg.History.Path != "stringcheck.db" {
		t.Errorf("Expected history path stringcheck.db, got %s", cfg.History.Path)
	}
}

func TestLoadDefaults(t *testing.T) {
	content := `component = "block_html"`
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte(content))
	tmpfile.Close()

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.MoodleRoot != DefaultMoodleRoot {
		t.Errorf("Expected default moodle root, got %s", cfg.MoodleRoot)
	}
	if cfg.Reconcile.Reference != "union" {
		t.Errorf("Expected default reference union, got %s", cfg.Reconcile.Reference)
	}
	if len(cfg.Exclude.Dirs) == 0 {
		t.Error("Expected default exclude dirs")
	}
}

func TestLoadError(t *testing.T) {
	_, err := Load("nonexistent.toml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}

	tmpfile, _ := os.CreateTemp("", "badconfig*.toml")
	defer os.Remove(tmpfile.Name())
	tmpfile.Write([]byte("bad = toml = format"))
	tmpfile.Close()

	_, err = Load(tmpfile.Name())
	if err == nil {
		t.Error("Expected error for malformed TOML")
	}
}
