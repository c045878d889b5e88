// # internal/scanner/scanner_test.go
package scanner

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"stringcheck/internal/component"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newScanner(t *testing.T, root string) *Scanner {
	t.Helper()
	s, err := New(root, []string{"vendor", "node_modules", ".git"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestScanExplicitTwoArg(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "mod/quiz/view.php", "<?php\necho get_string('welcome', 'mod_quiz');\n")

	res, err := newScanner(t, root).Scan(root)
	if err != nil {
		t.Fatal(err)
	}

	key := component.StringKey{Component: "mod_quiz", Identifier: "welcome"}
	u, ok := res.Usages[key]
	if !ok {
		t.Fatalf("Expected usage %v, got %v", key, res.Usages)
	}
	if u.File != "mod/quiz/view.php" || u.Line != 2 {
		t.Errorf("Expected mod/quiz/view.php:2, got %s:%d", u.File, u.Line)
	}
}

func TestScanSingleArgInfersComponent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "mod/quiz/lib.php", "<?php\n\n$a = get_string('welcome');\n")

	res, err := newScanner(t, root).Scan(root)
	if err != nil {
		t.Fatal(err)
	}

	key := component.StringKey{Component: "mod_quiz", Identifier: "welcome"}
	if u, ok := res.Usages[key]; !ok || u.Line != 3 {
		t.Fatalf("Expected inferred usage %v at line 3, got %v", key, res.Usages)
	}
}

func TestScanSingleArgOutsidePluginDropped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "lib/weblib.php", "<?php\necho get_string('orphan');\n")

	res, err := newScanner(t, root).Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Usages) != 0 {
		t.Errorf("Expected unattributable usage to be dropped, got %v", res.Usages)
	}
}

func TestScanLangStringConstruction(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "blocks/html/settings.php",
		"<?php\n$title = new lang_string('configtitle', 'block_html');\n")

	res, err := newScanner(t, root).Scan(root)
	if err != nil {
		t.Fatal(err)
	}

	key := component.StringKey{Component: "block_html", Identifier: "configtitle"}
	if _, ok := res.Usages[key]; !ok {
		t.Errorf("Expected lang_string usage %v, got %v", key, res.Usages)
	}
}

func TestScanMustacheHelper(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "mod/quiz/templates/panel.mustache",
		"<button>{{#str}} save, core {{/str}}</button>\n")

	res, err := newScanner(t, root).Scan(root)
	if err != nil {
		t.Fatal(err)
	}

	key := component.StringKey{Component: "core", Identifier: "save"}
	if _, ok := res.Usages[key]; !ok {
		t.Errorf("Expected mustache usage %v, got %v", key, res.Usages)
	}
}

func TestScanJavaScriptSpellings(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "mod/quiz/amd/src/timer.js",
		"const a = str.get_string('timeleft', 'mod_quiz');\n"+
			"const b = getString('confirmclose', 'mod_quiz');\n")

	res, err := newScanner(t, root).Scan(root)
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"timeleft", "confirmclose"} {
		key := component.StringKey{Component: "mod_quiz", Identifier: id}
		if _, ok := res.Usages[key]; !ok {
			t.Errorf("Expected JS usage %v, got %v", key, res.Usages)
		}
	}
}

func TestScanFirstOccurrenceWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "mod/quiz/a.php", "<?php\nget_string('welcome', 'mod_quiz');\n")
	writeFile(t, root, "mod/quiz/b.php", "<?php\nget_string('welcome', 'mod_quiz');\n")

	res, err := newScanner(t, root).Scan(root)
	if err != nil {
		t.Fatal(err)
	}

	key := component.StringKey{Component: "mod_quiz", Identifier: "welcome"}
	u := res.Usages[key]
	if u.File != "mod/quiz/a.php" {
		t.Errorf("Expected first occurrence in mod/quiz/a.php, got %s", u.File)
	}
	if len(res.Usages) != 1 {
		t.Errorf("Expected one distinct usage, got %d", len(res.Usages))
	}
}

func TestScanExclusions(t *testing.T) {
	root := t.TempDir()
	// Language files are definitions, not usage sites.
	writeFile(t, root, "mod/quiz/lang/en/quiz.php",
		"<?php\n$string['welcome'] = get_string('nested', 'mod_quiz');\n")
	// YUI build artifacts are generated code.
	writeFile(t, root, "lib/yui/build/thing.js",
		"str.get_string('generated', 'core');\n")
	// Vendored code is out of scope.
	writeFile(t, root, "mod/quiz/vendor/pkg/lib.php",
		"<?php\nget_string('vendored', 'mod_quiz');\n")

	res, err := newScanner(t, root).Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Usages) != 0 {
		t.Errorf("Expected all files excluded, got %v", res.Usages)
	}
}

func TestScanMoodleAliasNormalized(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "mod/quiz/view.php", "<?php\nget_string('ok', 'moodle');\n")

	res, err := newScanner(t, root).Scan(root)
	if err != nil {
		t.Fatal(err)
	}

	key := component.StringKey{Component: "core", Identifier: "ok"}
	if _, ok := res.Usages[key]; !ok {
		t.Errorf("Expected moodle alias normalized to core, got %v", res.Usages)
	}
}

func TestScanIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "mod/quiz/view.php",
		"<?php\nget_string('welcome', 'mod_quiz');\nget_string('attempts');\n")
	writeFile(t, root, "mod/quiz/templates/x.mustache", "{{#str}} save, core {{/str}}\n")

	s := newScanner(t, root)
	first, err := s.Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Scan(root)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first.Usages, second.Usages) {
		t.Errorf("Expected identical usages across runs, got %v then %v", first.Usages, second.Usages)
	}
	if first.FileCount != second.FileCount {
		t.Errorf("Expected identical file counts, got %d then %d", first.FileCount, second.FileCount)
	}
}

func TestScanVariableSecondArgumentDropped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "mod/quiz/lib.php", "<?php\nget_string('dynamic', $component);\n")

	res, err := newScanner(t, root).Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Usages) != 0 {
		t.Errorf("Expected variable-component call discarded, got %v", res.Usages)
	}
}
