// # cmd/stringcheck/app_test.go
package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stringcheck/internal/config"
)

// writeFixture lays down a minimal installation: one block plugin with an
// en pack defining two strings, a de pack defining one, and source using
// three (one of them undefined anywhere).
func writeFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"version.php": "<?php\n$version = 2026082600;\n",
		"blocks/html/block_html.php": "<?php\n" +
			"echo get_string('pluginname', 'block_html');\n" +
			"echo get_string('configcontent', 'block_html');\n" +
			"echo get_string('missingone', 'block_html');\n",
		"blocks/html/lang/en/block_html.php": "<?php\n" +
			"$string['pluginname'] = 'HTML';\n" +
			"$string['configcontent'] = 'Content';\n",
		"blocks/html/lang/de/block_html.php": "<?php\n" +
			"$string['pluginname'] = 'HTML';\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestApp(t *testing.T) {
	root := writeFixture(t)

	cfg := config.Default()
	cfg.MoodleRoot = root
	cfg.Component = "block_html"
	cfg.Output.Markdown = filepath.Join(root, "out", "report.md")
	cfg.Output.TSV = filepath.Join(root, "out", "report.tsv")
	cfg.Alerts.Quiet = true

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if err := app.ValidateRoot(); err != nil {
		t.Fatalf("ValidateRoot failed: %v", err)
	}

	report, err := app.RunCheck(false)
	if err != nil {
		t.Fatal(err)
	}

	if report.FileCount != 1 {
		t.Errorf("Expected 1 scanned file, got %d", report.FileCount)
	}
	if report.UsageCount != 3 {
		t.Errorf("Expected 3 usages, got %d", report.UsageCount)
	}
	if len(report.HardMissing) != 1 {
		t.Fatalf("Expected 1 missing string, got %d", len(report.HardMissing))
	}
	if report.HardMissing[0].Key.Identifier != "missingone" {
		t.Errorf("Expected missingone, got %s", report.HardMissing[0].Key.Identifier)
	}
	if !report.HasFindings() {
		t.Error("Expected findings")
	}

	if err := app.GenerateOutputs(report); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cfg.Output.Markdown); os.IsNotExist(err) {
		t.Error("Markdown report was not generated")
	}
	data, err := os.ReadFile(cfg.Output.TSV)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "missing\tblock_html\tmissingone") {
		t.Errorf("Expected missing row in TSV output, got: %s", data)
	}
}

func TestApp_TranslationGaps(t *testing.T) {
	root := writeFixture(t)

	cfg := config.Default()
	cfg.MoodleRoot = root
	cfg.Component = "block_html"
	cfg.Alerts.Quiet = true

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	report, err := app.RunCheck(false)
	if err != nil {
		t.Fatal(err)
	}

	if len(report.Languages) != 2 {
		t.Fatalf("Expected 2 languages, got %d", len(report.Languages))
	}

	// Languages are sorted, de first. It lacks configcontent.
	de := report.Languages[0]
	if de.Lang != "de" {
		t.Fatalf("Expected de first, got %s", de.Lang)
	}
	if len(de.Missing) != 1 || de.Missing[0].Key.Identifier != "configcontent" {
		t.Errorf("Expected de to miss configcontent, got %v", de.Missing)
	}
	if len(de.Missing[0].AvailableIn) != 1 || de.Missing[0].AvailableIn[0] != "en" {
		t.Errorf("Expected configcontent available in en, got %v", de.Missing[0].AvailableIn)
	}
	if de.Coverage != 50 {
		t.Errorf("Expected 50%% de coverage, got %d", de.Coverage)
	}

	en := report.Languages[1]
	if en.Coverage != 100 {
		t.Errorf("Expected 100%% en coverage, got %d", en.Coverage)
	}
}

func TestApp_PossiblyUnused(t *testing.T) {
	root := writeFixture(t)
	// Add a definition nothing references.
	langFile := filepath.Join(root, "blocks", "html", "lang", "en", "block_html.php")
	f, err := os.OpenFile(langFile, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("$string['leftover'] = 'Old';\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfg := config.Default()
	cfg.MoodleRoot = root
	cfg.Component = "block_html"
	cfg.Alerts.Quiet = true

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	report, err := app.RunCheck(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.PossiblyUnused) != 1 || report.PossiblyUnused[0].Identifier != "leftover" {
		t.Errorf("Expected leftover as possibly unused, got %v", report.PossiblyUnused)
	}
}

func TestApp_ValidateRootRejectsNonInstallation(t *testing.T) {
	cfg := config.Default()
	cfg.MoodleRoot = t.TempDir() // no version.php

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if err := app.ValidateRoot(); err == nil {
		t.Error("Expected error for directory without version.php")
	}
}

func TestApp_RunCheckRejectsInvalidComponent(t *testing.T) {
	root := writeFixture(t)

	cfg := config.Default()
	cfg.MoodleRoot = root
	cfg.Component = "Not-Valid"

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if _, err := app.RunCheck(false); err == nil {
		t.Error("Expected error for invalid component name")
	}
}

func TestDetectComponent(t *testing.T) {
	dir := t.TempDir()
	manifest := "<?php\n$plugin->version = 2026082600;\n$plugin->component = 'mod_quiz';\n"
	if err := os.WriteFile(filepath.Join(dir, "version.php"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := DetectComponent(dir); got != "mod_quiz" {
		t.Errorf("Expected mod_quiz, got %q", got)
	}
	if got := DetectComponent(t.TempDir()); got != "" {
		t.Errorf("Expected empty for missing manifest, got %q", got)
	}
}
