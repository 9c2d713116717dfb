// Package main is the entry point for the Vellum editor core.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/woodruff/vellum/internal/app"
	"github.com/woodruff/vellum/internal/config"
	"github.com/woodruff/vellum/internal/key"
	"github.com/woodruff/vellum/internal/textstore"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	configPath string
	logLevel   string
	files      []string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	logger, closeLog, err := setupLogging(opts.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	scr, err := newScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	defer scr.Fini()

	editor, err := app.New(cfg, scr.Commit, app.WithLogger(logger))
	if err != nil {
		scr.Fini()
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer editor.Close()

	editor.LoadExtensions()

	for _, path := range opts.files {
		if err := openFile(editor, path); err != nil {
			logger.Warn("open failed", "path", path, "error", err)
		}
	}
	if len(opts.files) == 0 && cfg.SessionFile != "" {
		restoreSession(editor, cfg.SessionFile, logger)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		scr.tc.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	code := eventLoop(editor, scr)

	if cfg.SessionFile != "" {
		saveSession(editor, cfg.SessionFile, logger)
	}
	return code
}

// eventLoop feeds terminal events into the editor until quit.
func eventLoop(editor *app.Editor, scr *screen) int {
	statusTick := time.NewTicker(100 * time.Millisecond)
	defer statusTick.Stop()
	go func() {
		for range statusTick.C {
			scr.SetStatus(editor.Status())
		}
	}()

	for {
		ev := scr.tc.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			chord := key.FromEvent(ev)
			// ctrl+q is the one chord the core keeps for itself.
			if chord.String() == "ctrl+q" {
				return 0
			}
			editor.HandleKey(chord)
		case *tcell.EventResize:
			scr.tc.Sync()
		case *tcell.EventInterrupt:
			return 0
		case nil:
			return 0
		}
	}
}

func openFile(editor *app.Editor, path string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	_, err = editor.OpenFile(abs, textstore.NewMemStore(string(data)))
	return err
}

func saveSession(editor *app.Editor, path string, logger *slog.Logger) {
	data, err := editor.SaveSession()
	if err != nil {
		logger.Warn("session save failed", "error", err)
		return
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		logger.Warn("session write failed", "path", path, "error", err)
	}
}

func restoreSession(editor *app.Editor, path string, logger *slog.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	err = editor.RestoreSession(string(data), func(p string) (textstore.Store, error) {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		return textstore.NewMemStore(string(content)), nil
	})
	if err != nil {
		logger.Warn("session restore failed", "error", err)
	}
}

// setupLogging writes structured logs to a file; stderr belongs to the
// terminal UI.
func setupLogging(level string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, nil, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", level)
	}

	dir := os.TempDir()
	if cache, err := os.UserCacheDir(); err == nil {
		dir = filepath.Join(cache, "vellum")
		_ = os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(filepath.Join(dir, "vellum.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger, func() { _ = f.Close() }, nil
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", defaultConfigPath(), "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", defaultConfigPath(), "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Vellum - scriptable editor core\n\n")
		fmt.Fprintf(os.Stderr, "Usage: vellum [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Vellum %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		os.Exit(0)
	}

	opts.files = flag.Args()
	return opts
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "vellum.toml"
	}
	return filepath.Join(home, ".config", "vellum", "vellum.toml")
}
