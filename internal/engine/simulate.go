package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/modlayer/internal/hook"
	"github.com/danieljhkim/modlayer/internal/nativeio"
	"github.com/danieljhkim/modlayer/internal/pathnorm"
	"github.com/danieljhkim/modlayer/internal/redirect"
)

// Simulate runs one open through an in-process hook table, playing the
// host's part: the original open resolves the path against the game
// directory, and the caller (this method) closes whatever handles come back.
func (e *Engine) Simulate(ctx context.Context, req *OpenRequest) (*OpenResult, error) {
	if e.cfg.GameDir == "" {
		return nil, ErrNoGameDir
	}

	var (
		baseline   = nativeio.InvalidHandle
		baselineOK bool
	)
	table := hook.NewTable[redirect.OpenFunc]()
	target := e.HookTarget()
	table.Register(target, func(path *byte, readOnly bool) *redirect.FileHandlePair {
		name := filepath.Join(e.cfg.GameDir, pathnorm.Normalize(nativeio.GoString(path)))
		h, err := e.opener.Open(name, nativeio.FlagsFor(readOnly))
		if err != nil {
			e.logger.Debug("baseline open failed", "path", name, "error", err)
		} else {
			baseline, baselineOK = h, true
		}
		return &redirect.FileHandlePair{OS: uintptr(h)}
	})

	initResult, err := e.Init(ctx, table)
	if err != nil {
		return nil, err
	}

	open, ok := table.Resolve(target)
	if !ok {
		return nil, fmt.Errorf("%w: %s", hook.ErrUnknownTarget, target)
	}

	cpath, err := nativeio.CString(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to encode path %q: %w", req.Path, err)
	}
	file := open(cpath, req.ReadOnly)

	result := &OpenResult{
		Path:       req.Path,
		ReadOnly:   req.ReadOnly,
		BaselineOK: baselineOK,
		HandleOK:   file.OS != uintptr(nativeio.InvalidHandle),
		Archive:    uint64(file.Archive),
	}
	if entry, hit := initResult.Index.Lookup(pathnorm.Normalize(req.Path)); hit {
		result.Redirected = true
		result.Replacement = entry.Path
	}

	// The redirect overwrote the baseline handle, so both are released here.
	if closer, ok := e.opener.(nativeio.Closer); ok {
		if result.HandleOK {
			if err := closer.Close(nativeio.Handle(file.OS)); err != nil {
				e.logger.Debug("failed to close handle", "error", err)
			}
		}
		if baselineOK && result.Redirected {
			if err := closer.Close(baseline); err != nil {
				e.logger.Debug("failed to close baseline handle", "error", err)
			}
		}
	}
	return result, nil
}
