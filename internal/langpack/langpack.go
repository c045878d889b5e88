// # internal/langpack/langpack.go
package langpack

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"stringcheck/internal/component"
)

// Definitions holds every string definition found for the scanned
// components. PerLanguage sets are subsets of Union by construction: every
// load adds into both in the same pass.
type Definitions struct {
	Union       map[component.StringKey]struct{}
	PerLanguage map[string]map[component.StringKey]struct{}
}

func NewDefinitions() *Definitions {
	return &Definitions{
		Union:       make(map[component.StringKey]struct{}),
		PerLanguage: make(map[string]map[component.StringKey]struct{}),
	}
}

func (d *Definitions) add(lang string, key component.StringKey) {
	d.Union[key] = struct{}{}
	set, ok := d.PerLanguage[lang]
	if !ok {
		set = make(map[component.StringKey]struct{})
		d.PerLanguage[lang] = set
	}
	set[key] = struct{}{}
}

// Languages returns the discovered language codes, unordered.
func (d *Definitions) Languages() []string {
	langs := make([]string, 0, len(d.PerLanguage))
	for lang := range d.PerLanguage {
		langs = append(langs, lang)
	}
	return langs
}

// DefinedIn lists the languages that define key, unordered.
func (d *Definitions) DefinedIn(key component.StringKey) []string {
	var langs []string
	for lang, set := range d.PerLanguage {
		if _, ok := set[key]; ok {
			langs = append(langs, lang)
		}
	}
	return langs
}

// $string['identifier'] = ...;
var defRe = regexp.MustCompile(`^\s*\$string\[\s*['"]([^'"]+)['"]\s*\]\s*=`)

// Loader extracts string definitions from language-pack files. In
// permissive mode every PHP file in a language directory is read instead
// of only the conventionally named one.
type Loader struct {
	root       string
	permissive bool
	verbose    bool
}

func NewLoader(root string, permissive bool) *Loader {
	return &Loader{root: root, permissive: permissive}
}

func (l *Loader) SetVerbose(v bool) { l.verbose = v }

// Load reads every language pack of comp into defs. A missing lang
// directory, missing files or zero matches reduce coverage but are never
// errors; only an unresolvable component fails.
func (l *Loader) Load(comp string, defs *Definitions) error {
	comp = component.Normalize(comp)
	langDir, err := component.LangDir(comp)
	if err != nil {
		return err
	}

	absLangDir := filepath.Join(l.root, filepath.FromSlash(langDir))
	entries, err := os.ReadDir(absLangDir)
	if err != nil {
		if l.verbose {
			slog.Debug("no language directory", "component", comp, "path", langDir)
		}
		return nil
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		lang := entry.Name()
		// The language exists even if its definition files turn out to be
		// missing or empty; it then shows up with zero coverage.
		if _, ok := defs.PerLanguage[lang]; !ok {
			defs.PerLanguage[lang] = make(map[component.StringKey]struct{})
		}
		for _, file := range l.definitionFiles(absLangDir, lang, comp) {
			l.loadFile(file, lang, comp, defs)
		}
	}

	return nil
}

func (l *Loader) definitionFiles(absLangDir, lang, comp string) []string {
	dir := filepath.Join(absLangDir, lang)
	if !l.permissive {
		return []string{filepath.Join(dir, component.LangFileName(comp))}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".php") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files
}

func (l *Loader) loadFile(path, lang, comp string, defs *Definitions) {
	f, err := os.Open(path)
	if err != nil {
		if l.verbose {
			slog.Debug("skipping language file", "path", path, "error", err)
		}
		return
	}
	defer f.Close()

	count := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		m := defRe.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		defs.add(lang, component.StringKey{Component: comp, Identifier: m[1]})
		count++
	}
	if err := sc.Err(); err != nil {
		slog.Warn("failed to read language file", "path", path, "error", err)
		return
	}

	if l.verbose {
		slog.Debug("loaded language file", "path", path, "language", lang, "strings", count)
	}
}
