// # internal/scanner/scanner.go
package scanner

import (
	"bufio"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"stringcheck/internal/component"
	"stringcheck/internal/shared/observability"
	"stringcheck/internal/shared/util"
)

// Usage is one distinct string reference found in source, with the location
// of its first occurrence.
type Usage struct {
	Key  component.StringKey
	File string
	Line int
}

// Result accumulates the scan output. Usages is keyed by StringKey with
// first-write-wins semantics.
type Result struct {
	Usages    map[component.StringKey]Usage
	FileCount int
}

// Scanner extracts string-lookup call sites from PHP, Mustache and
// JavaScript sources. Matching is purely lexical, line by line: multi-line
// calls, concatenated literals and variable identifiers are not seen.
type Scanner struct {
	root         string
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
	verbose      bool
}

func New(root string, excludeDirs, excludeFiles []string) (*Scanner, error) {
	s := &Scanner{root: root}

	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		s.excludeDirs = append(s.excludeDirs, g)
	}

	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		s.excludeFiles = append(s.excludeFiles, g)
	}

	return s, nil
}

func (s *Scanner) SetVerbose(v bool) { s.verbose = v }

// Scan walks target (a directory under the scanner's root) and returns
// every attributable string usage. Unreadable files are skipped, never
// fatal.
func (s *Scanner) Scan(target string) (*Result, error) {
	res := &Result{Usages: make(map[component.StringKey]Usage)}

	err := filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		base := filepath.Base(path)

		if d.IsDir() {
			for _, g := range s.excludeDirs {
				if g.Match(base) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".php" && ext != ".mustache" && ext != ".js" {
			return nil
		}

		for _, g := range s.excludeFiles {
			if g.Match(base) {
				return nil
			}
		}

		rel := s.relPath(path)
		if skip, reason := s.skipByConvention(rel, ext); skip {
			if s.verbose {
				slog.Debug("skipping file", "path", rel, "reason", reason)
			}
			return nil
		}

		start := time.Now()
		if err := s.scanFile(path, rel, ext, res); err != nil {
			slog.Warn("failed to scan file", "path", rel, "error", err)
			return nil
		}
		observability.ScanDuration.WithLabelValues(ext[1:]).Observe(time.Since(start).Seconds())
		observability.FilesScanned.WithLabelValues(ext[1:]).Inc()
		res.FileCount++
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// skipByConvention applies the fixed exclusions: language files are
// definitions, not usages, and YUI build artifacts are generated.
func (s *Scanner) skipByConvention(rel, ext string) (bool, string) {
	if ext == ".php" && isLangFile(rel) {
		return true, "language file"
	}
	if ext == ".js" && strings.Contains("/"+rel+"/", "/lib/yui/") {
		return true, "yui build artifact"
	}
	return false, ""
}

// isLangFile reports whether rel sits below a lang/<code>/ directory.
func isLangFile(rel string) bool {
	segs := strings.Split(rel, "/")
	for i := 0; i < len(segs)-2; i++ {
		if segs[i] == "lang" {
			return true
		}
	}
	return false
}

func (s *Scanner) scanFile(path, rel, ext string, res *Result) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	patterns := patternsFor(ext)
	inferred := "" // lazily resolved component for single-argument lookups
	inferredDone := false

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()

		for _, p := range patterns {
			m := p.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			comp := ""
			if p.direct {
				comp = component.Normalize(m[2])
			} else {
				if !inferredDone {
					inferred = component.Infer(rel)
					inferredDone = true
				}
				comp = inferred
				if comp == "" {
					// Cannot attribute a single-argument lookup outside a
					// known plugin subtree.
					if s.verbose {
						slog.Debug("dropping unattributable usage", "path", rel, "line", lineNo, "identifier", m[1])
					}
					break
				}
			}

			key := component.StringKey{Component: comp, Identifier: m[1]}
			if _, seen := res.Usages[key]; !seen {
				res.Usages[key] = Usage{Key: key, File: rel, Line: lineNo}
				if s.verbose {
					slog.Debug("usage", "component", comp, "identifier", m[1], "path", rel, "line", lineNo)
				}
			}
			break
		}
	}
	return sc.Err()
}

func (s *Scanner) relPath(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return util.NormalizePatternPath(path)
	}
	return util.NormalizePatternPath(rel)
}
