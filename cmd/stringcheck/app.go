// # cmd/stringcheck/app.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"stringcheck/internal/cerrors"
	"stringcheck/internal/component"
	"stringcheck/internal/config"
	"stringcheck/internal/history"
	"stringcheck/internal/langpack"
	"stringcheck/internal/output"
	"stringcheck/internal/reconcile"
	"stringcheck/internal/scanner"
	"stringcheck/internal/shared/observability"
	"stringcheck/internal/shared/util"
	"stringcheck/internal/watcher"
)

type App struct {
	Config  *config.Config
	Scanner *scanner.Scanner
	Loader  *langpack.Loader

	store       *history.Store
	obsServer   *observability.Server
	fsWatcher   *watcher.Watcher
	limiter     *util.Limiter
	teaProgram  *tea.Program
	checkUnused bool
	verbose     bool
}

func NewApp(cfg *config.Config) (*App, error) {
	s, err := scanner.New(cfg.MoodleRoot, cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Scanner: s,
		Loader:  langpack.NewLoader(cfg.MoodleRoot, cfg.Reconcile.Permissive),
		limiter: util.NewLimiter(cfg.Watch.RescansPerMinute/60.0, 1),
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			slog.Warn("failed to open history store", "path", cfg.History.Path, "error", err)
		} else {
			app.store = store
		}
	}

	return app, nil
}

func (a *App) SetVerbose(v bool) {
	a.verbose = v
	a.Scanner.SetVerbose(v)
	a.Loader.SetVerbose(v)
}

func (a *App) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.fsWatcher != nil {
		_ = a.fsWatcher.Close()
	}
	if a.obsServer != nil {
		_ = a.obsServer.Stop(context.Background())
	}
}

// ValidateRoot checks the installation shape: the root must be a directory
// carrying a version.php manifest.
func (a *App) ValidateRoot() error {
	root := a.Config.MoodleRoot
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return cerrors.New(cerrors.CodeInvalidRoot,
			fmt.Sprintf("moodle root %q is not a directory", root))
	}
	if _, err := os.Stat(filepath.Join(root, "version.php")); err != nil {
		return cerrors.New(cerrors.CodeInvalidRoot,
			fmt.Sprintf("no version.php found in %q, not a Moodle installation", root))
	}
	return nil
}

var manifestComponentRe = regexp.MustCompile(`\$plugin->component\s*=\s*['"]([a-z][a-z0-9_]*)['"]`)

// DetectComponent reads a plugin manifest (version.php) in dir and returns
// its declared component, or "" when there is none.
func DetectComponent(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "version.php"))
	if err != nil {
		return ""
	}
	m := manifestComponentRe.FindSubmatch(data)
	if m == nil {
		return ""
	}
	comp := string(m[1])
	if !component.IsValid(comp) {
		return ""
	}
	return comp
}

// RunCheck performs one full scan/load/reconcile pass.
func (a *App) RunCheck(checkUnused bool) (*reconcile.Report, error) {
	a.checkUnused = checkUnused
	start := time.Now()

	target := a.Config.MoodleRoot
	comp := component.Normalize(a.Config.Component)
	if a.Config.Component != "" {
		if !component.IsValid(comp) {
			return nil, cerrors.New(cerrors.CodeValidationError,
				fmt.Sprintf("invalid component %q", a.Config.Component))
		}
		rel, err := component.Resolve(comp)
		if err != nil {
			return nil, err
		}
		if rel != "" {
			target = filepath.Join(a.Config.MoodleRoot, filepath.FromSlash(rel))
			if info, err := os.Stat(target); err != nil || !info.IsDir() {
				return nil, cerrors.New(cerrors.CodeValidationError,
					fmt.Sprintf("component %q resolves to missing directory %q", comp, rel))
			}
		}
	}

	scan, err := a.Scanner.Scan(target)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CodeInternal, "scan failed")
	}

	defs := langpack.NewDefinitions()
	for _, c := range a.componentsToLoad(scan, comp) {
		if err := a.Loader.Load(c, defs); err != nil {
			// Only the target component is configuration; anything else
			// came out of a scanned call site and is skipped.
			if a.Config.Component != "" && c == comp {
				return nil, err
			}
			slog.Warn("skipping definitions for component", "component", c, "error", err)
		}
	}

	report := reconcile.Reconcile(scan, defs, reconcile.Options{
		Reference:   reconcile.Reference(a.Config.Reconcile.Reference),
		CheckUnused: checkUnused,
	})

	a.recordMetrics(report, len(defs.PerLanguage))
	slog.Debug("check complete",
		"files", report.FileCount,
		"usages", report.UsageCount,
		"defined", report.UnionCount,
		"duration", time.Since(start))

	return report, nil
}

// componentsToLoad is the target component plus every component a usage
// referenced, de-duplicated. In whole-installation mode it is driven by
// the usages alone.
func (a *App) componentsToLoad(scan *scanner.Result, target string) []string {
	seen := make(map[string]bool)
	var comps []string

	if a.Config.Component != "" {
		seen[target] = true
		comps = append(comps, target)
	}
	for key := range scan.Usages {
		if !seen[key.Component] {
			seen[key.Component] = true
			comps = append(comps, key.Component)
		}
	}
	return comps
}

func (a *App) recordMetrics(report *reconcile.Report, languages int) {
	observability.UsagesFound.Set(float64(report.UsageCount))
	observability.DefinitionsFound.Set(float64(report.UnionCount))
	observability.LanguagesFound.Set(float64(languages))
	observability.HardMissing.Set(float64(len(report.HardMissing)))
	observability.TranslationGaps.Set(float64(report.GapCount()))
	observability.PossiblyUnused.Set(float64(len(report.PossiblyUnused)))
	observability.ChecksTotal.Inc()

	if a.obsServer != nil {
		a.obsServer.RecordCheck(len(report.HardMissing) + report.GapCount())
	}
}

func (a *App) GenerateOutputs(report *reconcile.Report) error {
	if a.Config.Output.Markdown != "" {
		md, err := output.NewMarkdownGenerator().Generate(report, output.MarkdownOptions{
			Component:  a.Config.Component,
			MoodleRoot: a.Config.MoodleRoot,
			Version:    VERSION,
		})
		if err != nil {
			return err
		}
		if err := util.WriteStringWithDirs(a.Config.Output.Markdown, md, 0o644); err != nil {
			return err
		}
	}

	if a.Config.Output.SARIF != "" {
		doc, err := output.GenerateSARIF(report, VERSION)
		if err != nil {
			return err
		}
		if err := util.WriteStringWithDirs(a.Config.Output.SARIF, doc, 0o644); err != nil {
			return err
		}
	}

	if a.Config.Output.TSV != "" {
		tsv, err := output.NewTSVGenerator(report).Generate()
		if err != nil {
			return err
		}
		if err := util.WriteStringWithDirs(a.Config.Output.TSV, tsv, 0o644); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) SaveSnapshot(report *reconcile.Report) {
	if a.store == nil {
		return
	}
	err := a.store.SaveSnapshot(history.Snapshot{
		Component:        component.Normalize(a.Config.Component),
		FileCount:        report.FileCount,
		UsageCount:       report.UsageCount,
		UnionCount:       report.UnionCount,
		LanguageCount:    len(report.Languages),
		HardMissingCount: len(report.HardMissing),
		GapCount:         report.GapCount(),
		UnusedCount:      len(report.PossiblyUnused),
		MinCoverage:      report.MinCoverage(),
		AvgCoverage:      report.AvgCoverage(),
	})
	if err != nil {
		slog.Warn("failed to save history snapshot", "error", err)
	}
}

func (a *App) PrintSummary(report *reconcile.Report, duration time.Duration) {
	if a.Config.Alerts.Quiet {
		return
	}

	fmt.Println(strings.Repeat("-", 40))
	if duration > 0 {
		fmt.Printf("Checked %d files, %d usages, %d defined strings in %v\n",
			report.FileCount, report.UsageCount, report.UnionCount, duration)
	} else {
		fmt.Printf("Checked %d files, %d usages, %d defined strings\n",
			report.FileCount, report.UsageCount, report.UnionCount)
	}

	if len(report.HardMissing) > 0 {
		fmt.Printf("⚠️  FOUND %d MISSING STRINGS:\n", len(report.HardMissing))
		for _, m := range report.HardMissing {
			fmt.Printf("   %s / %s in %s:%d\n", m.Key.Component, m.Key.Identifier, m.File, m.Line)
		}
	} else {
		fmt.Println("✅ No missing strings found.")
	}

	gaps := report.GapCount()
	if gaps > 0 {
		fmt.Printf("🌐 FOUND %d MISSING TRANSLATIONS:\n", gaps)
		for _, lr := range report.Languages {
			if len(lr.Missing) == 0 {
				continue
			}
			fmt.Printf("   [%s] %d%% coverage\n", lr.Lang, lr.Coverage)
			for _, gap := range lr.Missing {
				if len(gap.AvailableIn) > 0 {
					fmt.Printf("      %s / %s (available in: %s)\n",
						gap.Key.Component, gap.Key.Identifier, strings.Join(gap.AvailableIn, ", "))
				} else {
					fmt.Printf("      %s / %s\n", gap.Key.Component, gap.Key.Identifier)
				}
			}
		}
	} else if len(report.Languages) > 0 {
		fmt.Printf("✅ All %d languages complete.\n", len(report.Languages))
	}

	if a.checkUnused {
		if len(report.PossiblyUnused) > 0 {
			fmt.Printf("🧹 FOUND %d POSSIBLY UNUSED STRINGS:\n", len(report.PossiblyUnused))
			for _, key := range report.PossiblyUnused {
				fmt.Printf("   %s / %s\n", key.Component, key.Identifier)
			}
		} else {
			fmt.Println("✅ No unused strings found.")
		}
	}

	a.printTrend()
}

// printTrend shows the delta against the previous snapshot of the same
// component, when history is enabled and a previous run exists.
func (a *App) printTrend() {
	if a.store == nil {
		return
	}
	comp := component.Normalize(a.Config.Component)
	snapshots, err := a.store.LoadSnapshots(comp, time.Now().Add(-24*time.Hour))
	if err != nil || len(snapshots) < 2 {
		return
	}
	trend, err := history.BuildTrendReport(comp, snapshots)
	if err != nil {
		return
	}
	last := trend.Points[len(trend.Points)-1]
	fmt.Printf("📈 Since previous run: usages %+d, missing %+d, gaps %+d, avg coverage %+d%%\n",
		last.DeltaUsages, last.DeltaMissing, last.DeltaGaps, last.DeltaAvgCoverage)
}

func (a *App) StartMetricsServer() error {
	if a.Config.Metrics.Addr == "" {
		return nil
	}
	a.obsServer = observability.NewServer(a.Config.Metrics.Addr)
	return a.obsServer.Start(context.Background())
}

func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.Config.Exclude.Dirs, a.Config.Exclude.Files, a.HandleChanges)
	if err != nil {
		return err
	}
	a.fsWatcher = w

	target := a.Config.MoodleRoot
	if a.Config.Component != "" {
		if rel, err := component.Resolve(component.Normalize(a.Config.Component)); err == nil && rel != "" {
			target = filepath.Join(a.Config.MoodleRoot, filepath.FromSlash(rel))
		}
	}
	return w.Watch([]string{target})
}

// HandleChanges re-runs the full check after a debounced change batch. The
// sets are rebuilt from scratch; at this scale a full rescan is cheaper
// than being clever.
func (a *App) HandleChanges(paths []string) {
	if !a.limiter.Allow(1) {
		observability.RescansSuppressedTotal.Inc()
		slog.Debug("rescan suppressed by rate limiter", "changes", len(paths))
		return
	}

	slog.Info("detected changes", "count", len(paths))
	start := time.Now()

	report, err := a.RunCheck(a.checkUnused)
	if err != nil {
		slog.Error("rescan failed", "error", err)
		return
	}

	if err := a.GenerateOutputs(report); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	a.SaveSnapshot(report)

	if a.teaProgram != nil {
		a.teaProgram.Send(updateMsg{report: report})
	} else {
		a.PrintSummary(report, time.Since(start))
	}

	if a.Config.Alerts.Beep && report.HasFindings() {
		fmt.Print("\a")
	}
}

// RunUI blocks running the terminal dashboard, seeded with the report from
// the initial check. Watch-mode rescans push updates into the program.
func (a *App) RunUI(report *reconcile.Report) error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	go func() {
		p.Send(updateMsg{report: report})
	}()

	_, err := p.Run()
	a.teaProgram = nil
	return err
}
