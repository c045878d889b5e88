// # cmd/stringcheck/main.go
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"stringcheck/internal/config"
)

var (
	configPath  = flag.String("config", "./stringcheck.toml", "Path to config file")
	verbose     = flag.Bool("verbose", false, "Echo per-file and per-match diagnostics")
	unused      = flag.Bool("unused", false, "Report possibly-unused strings")
	watch       = flag.Bool("watch", false, "Keep watching the tree and re-check on changes")
	ui          = flag.Bool("ui", false, "Enable terminal UI mode (implies -watch)")
	metricsAddr = flag.String("metrics", "", "Listen address for /metrics and /health in watch mode (overrides config)")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

const (
	exitClean    = 0
	exitFindings = 1
	exitInvalid  = 2
)

func main() {
	flag.BoolVar(verbose, "v", false, "Shorthand for -verbose")
	flag.BoolVar(unused, "u", false, "Shorthand for -unused")
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("stringcheck v%s\n", VERSION)
		os.Exit(exitClean)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	if *ui {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
				if err == nil {
					output = f
				} else {
					fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config; a missing file just means defaults.
	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && *configPath == "./stringcheck.toml" {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(exitInvalid)
		}
	}

	if flag.NArg() > 2 {
		fmt.Fprintln(os.Stderr, "too many arguments")
		usage()
		os.Exit(exitInvalid)
	}
	if flag.NArg() > 0 {
		cfg.MoodleRoot = flag.Arg(0)
	}
	if flag.NArg() > 1 {
		cfg.Component = flag.Arg(1)
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(exitInvalid)
	}
	defer app.Close()
	app.SetVerbose(*verbose)

	if err := app.ValidateRoot(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitInvalid)
	}

	// No explicit component: try the plugin manifest in the working
	// directory. An explicit argument always wins over auto-detection.
	if cfg.Component == "" {
		if detected := DetectComponent("."); detected != "" {
			slog.Info("auto-detected component", "component", detected)
			cfg.Component = detected
		}
	}

	report, err := app.RunCheck(*unused)
	if err != nil {
		// Everything that escapes RunCheck is configuration-class:
		// per-item failures are swallowed inside the scan.
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitInvalid)
	}

	if err := app.GenerateOutputs(report); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	app.SaveSnapshot(report)

	if !*ui {
		app.PrintSummary(report, 0)
	}

	if !*watch && !*ui {
		if report.HasFindings() {
			os.Exit(exitFindings)
		}
		os.Exit(exitClean)
	}

	// Watch mode
	if err := app.StartMetricsServer(); err != nil {
		slog.Warn("failed to start metrics server", "error", err)
	}
	if err := app.StartWatcher(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(exitInvalid)
	}

	if *ui {
		if err := app.RunUI(report); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(exitInvalid)
		}
	} else {
		// Block forever
		select {}
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(),
		"Usage: stringcheck [options] <moodle_root> [component]\n\n"+
			"Scans a Moodle source tree for localization-string usage and checks it\n"+
			"against the language-pack definitions.\n\nOptions:\n")
	flag.PrintDefaults()
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "stringcheck", "stringcheck.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "stringcheck", "stringcheck.log")
	}

	return "stringcheck.log"
}
