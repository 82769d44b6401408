package overlay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/danieljhkim/modlayer/internal/clock"
	"github.com/danieljhkim/modlayer/internal/fsops"
	"github.com/danieljhkim/modlayer/internal/pathnorm"
)

// Builder constructs an Index from mod source directories.
type Builder struct {
	fs          afero.Fs
	clock       clock.Clock
	logger      *slog.Logger
	normalizer  pathnorm.Normalizer
	concurrency int
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the clock used to time a build. A nil clock is ignored.
func WithClock(clk clock.Clock) Option {
	return func(b *Builder) {
		if clk != nil {
			b.clock = clk
		}
	}
}

// WithLogger sets the logger for shadow warnings and timing.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithNormalizer overrides the platform path normalizer.
func WithNormalizer(n pathnorm.Normalizer) Option {
	return func(b *Builder) {
		b.normalizer = n
	}
}

// WithConcurrency limits how many sources are scanned at once.
// Values below 1 mean one source at a time.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		b.concurrency = max(n, 1)
	}
}

// NewBuilder creates a Builder reading from fsys.
func NewBuilder(fsys afero.Fs, opts ...Option) *Builder {
	b := &Builder{
		fs:          fsys,
		clock:       clock.RealClock{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		normalizer:  pathnorm.Platform,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build indexes every regular file under <source>/<assetSubdir> for each
// source, highest priority first. The first source to supply a relative
// path wins; later duplicates are logged and recorded as shadows.
//
// Missing or unreadable sources are skipped. Build only fails if ctx is
// cancelled before the scan completes.
func (b *Builder) Build(ctx context.Context, sources []string, assetSubdir string) (*Index, error) {
	sw := clock.StartStopwatch(b.clock)

	// Sources are scanned independently; the merge below runs in caller order.
	scans := make([][]Entry, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, source := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scans[i] = b.scan(source, assetSubdir)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to index overlay sources: %w", err)
	}

	idx := newIndex()
	for _, entries := range scans {
		for _, e := range entries {
			if s, ok := idx.insert(e); !ok {
				b.logger.Warn(fmt.Sprintf("%s was already loaded by a module higher in the load order; ignoring", s.Key),
					"kept", s.KeptSource,
					"ignored", s.IgnoredSource)
			}
		}
	}
	idx.seal()

	b.logger.Info("overlay indexing complete",
		"entries", idx.Len(),
		"shadowed", len(idx.shadows),
		"sources", len(sources),
		"elapsed_ms", sw.Elapsed().Milliseconds())

	return idx, nil
}

// scan collects the entries of a single source. It never fails; problems
// are logged at debug level and the affected files are left out.
func (b *Builder) scan(source, assetSubdir string) []Entry {
	root := b.normalizer.Normalize(filepath.Join(source, assetSubdir))
	if !fsops.IsDir(b.fs, root) {
		b.logger.Debug("skipping mod source without asset directory", "source", source, "dir", root)
		return nil
	}

	files, err := fsops.RegularFiles(b.fs, root, func(path string, err error) {
		b.logger.Debug("skipping unreadable path", "path", path, "error", err)
	})
	if err != nil {
		b.logger.Debug("skipping unreadable mod source", "source", source, "error", err)
		return nil
	}

	entries := make([]Entry, 0, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(root, file)
		if err != nil {
			b.logger.Debug("skipping file outside asset directory", "path", file, "error", err)
			continue
		}

		abs := file
		if !filepath.IsAbs(abs) {
			if abs, err = filepath.Abs(file); err != nil {
				b.logger.Debug("skipping file without absolute path", "path", file, "error", err)
				continue
			}
		}

		entries = append(entries, Entry{
			Key:    b.normalizer.Normalize(rel),
			Path:   b.normalizer.Normalize(pathnorm.LongPath(abs)),
			Source: source,
		})
	}
	return entries
}
