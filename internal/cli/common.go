package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"

	"github.com/danieljhkim/modlayer/internal/clock"
	"github.com/danieljhkim/modlayer/internal/config"
	"github.com/danieljhkim/modlayer/internal/engine"
	"github.com/danieljhkim/modlayer/internal/modsrc"
	"github.com/danieljhkim/modlayer/internal/nativeio"
)

// loadConfig resolves default paths and reads the config file.
func loadConfig() (*config.Config, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	path := configPath
	if path == "" {
		path = paths.Config
	}

	cfg, err := config.Load(path, paths)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine() (*engine.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	fsys := afero.NewOsFs()
	sources := modsrc.NewDirEnumerator(fsys, cfg.ModulesDir, cfg.LoadOrder)
	logger := newLogger(os.Stderr, logFormat, verbose)

	return engine.New(fsys, sources, nativeio.NewSystem(), clock.RealClock{}, logger, *cfg), nil
}

// newLogger builds the process logger. "auto" picks text on a terminal and
// JSON otherwise.
func newLogger(w io.Writer, format string, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if format == "auto" {
		format = "json"
		if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			format = "text"
		}
	}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
