// Package engine provides the core orchestration for modlayer operations.
//
// The engine sits between the CLI (or a host loader) and the overlay
// components. It selects the asset directory for the configured game,
// enumerates mod sources, builds the overlay index, and installs the open
// redirector through a hook installer.
//
// Key components:
//   - Engine: main orchestrator, constructed with injected collaborators
//   - Init: build the index, then install the hook
//   - Resolve/Sources/Simulate: inspection operations used by the CLI
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/danieljhkim/modlayer/internal/clock"
	"github.com/danieljhkim/modlayer/internal/config"
	"github.com/danieljhkim/modlayer/internal/hook"
	"github.com/danieljhkim/modlayer/internal/modsrc"
	"github.com/danieljhkim/modlayer/internal/nativeio"
	"github.com/danieljhkim/modlayer/internal/overlay"
	"github.com/danieljhkim/modlayer/internal/redirect"
)

// Engine orchestrates all modlayer operations.
type Engine struct {
	fs      afero.Fs
	sources modsrc.Enumerator
	opener  nativeio.Opener
	clock   clock.Clock
	logger  *slog.Logger
	cfg     config.Config
}

// New creates a new Engine with the given dependencies.
// A nil logger discards all output; a nil clock reads the system time.
func New(
	fsys afero.Fs,
	sources modsrc.Enumerator,
	opener nativeio.Opener,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.Config,
) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Engine{
		fs:      fsys,
		sources: sources,
		opener:  opener,
		clock:   clk,
		logger:  logger,
		cfg:     cfg,
	}
}

// HookTarget returns the configured location of the host's open function.
func (e *Engine) HookTarget() hook.Target {
	return hook.Target{Module: e.cfg.Hook.Module, Offset: uintptr(e.cfg.Hook.Offset)}
}

// assetSubdir resolves the per-mod asset directory for the configured game.
func (e *Engine) assetSubdir() (string, error) {
	subdir, err := e.cfg.Game.AssetSubdir()
	if err != nil {
		return "", fmt.Errorf("failed to select asset directory: %w", err)
	}
	return subdir, nil
}

// BuildIndex enumerates mod sources and builds the overlay index.
// An unknown game is fatal; unreadable sources are skipped.
func (e *Engine) BuildIndex(ctx context.Context) (*overlay.Index, error) {
	subdir, err := e.assetSubdir()
	if err != nil {
		return nil, err
	}

	dirs, err := e.sources.List()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate mod sources: %w", err)
	}

	builder := overlay.NewBuilder(e.fs,
		overlay.WithClock(e.clock),
		overlay.WithLogger(e.logger),
	)
	return builder.Build(ctx, dirs, subdir)
}

// Init builds the index and then installs the open redirector. The index
// is complete before the replacement becomes reachable, and is never
// written to again.
func (e *Engine) Init(ctx context.Context, installer hook.Installer[redirect.OpenFunc]) (*InitResult, error) {
	idx, err := e.BuildIndex(ctx)
	if err != nil {
		return nil, err
	}

	interceptor := redirect.New(idx, e.opener, redirect.WithLogger(e.logger))

	target := e.HookTarget()
	if err := installer.Install(target, interceptor.Bind); err != nil {
		return nil, fmt.Errorf("%w at %s: %w", ErrHookInstall, target, err)
	}
	e.logger.Debug("open hook installed", "target", target.String())

	return &InitResult{Index: idx, Target: target}, nil
}
