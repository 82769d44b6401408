// Package redirect implements the replacement for the host's native asset
// open call.
//
// The replacement always calls through to the original first so the host's
// own bookkeeping runs unchanged. When the requested path has an overlay
// entry, the OS handle in the returned pair is swapped for a handle to the
// modded file, opened with the same flags the host would have used.
package redirect

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/danieljhkim/modlayer/internal/nativeio"
	"github.com/danieljhkim/modlayer/internal/overlay"
	"github.com/danieljhkim/modlayer/internal/pathnorm"
)

var (
	// ErrNullPath is raised when the host passes a nil path pointer.
	ErrNullPath = errors.New("open called with a null path")

	// ErrNilBaseline is raised when the original open returns no handle pair.
	ErrNilBaseline = errors.New("original open returned a nil handle pair")
)

// FileHandlePair is the host's file record. Its layout must match the host
// struct: two pointer-sized handle words.
type FileHandlePair struct {
	OS      uintptr
	Archive uintptr
}

// OpenFunc has the signature of the host's open call. The returned pair is
// owned by the caller.
type OpenFunc func(path *byte, readOnly bool) *FileHandlePair

// Interceptor redirects opens for paths present in an overlay index.
type Interceptor struct {
	index      *overlay.Index
	opener     nativeio.Opener
	normalizer pathnorm.Normalizer
	logger     *slog.Logger
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithLogger sets the logger for substitutions and open failures.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interceptor) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithNormalizer overrides the platform path normalizer. It must match the
// normalizer the index was built with.
func WithNormalizer(n pathnorm.Normalizer) Option {
	return func(i *Interceptor) {
		i.normalizer = n
	}
}

// New creates an Interceptor over a fully built index. The index is only
// read from here on.
func New(index *overlay.Index, opener nativeio.Opener, opts ...Option) *Interceptor {
	i := &Interceptor{
		index:      index,
		opener:     opener,
		normalizer: pathnorm.Platform,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Bind returns the replacement for original.
func (i *Interceptor) Bind(original OpenFunc) OpenFunc {
	return func(path *byte, readOnly bool) *FileHandlePair {
		return i.open(original, path, readOnly)
	}
}

func (i *Interceptor) open(original OpenFunc, path *byte, readOnly bool) *FileHandlePair {
	if path == nil {
		panic(ErrNullPath)
	}
	raw := nativeio.GoString(path)
	normalized := i.normalizer.Normalize(raw)

	file := original(path, readOnly)

	entry, ok := i.index.Lookup(normalized)
	if !ok {
		return file
	}
	if file == nil {
		panic(fmt.Errorf("%w: %s", ErrNilBaseline, raw))
	}

	// The host closes the handle itself; nothing is tracked here.
	h, err := i.opener.Open(entry.Path, nativeio.FlagsFor(readOnly))
	file.Archive = 0
	file.OS = uintptr(h)

	if err != nil {
		i.logger.Error("failed to open replacement", "path", raw, "replacement", entry.Path, "error", err)
		return file
	}

	i.logger.Info(fmt.Sprintf("Replaced %s with %s.", raw, entry.Path), "read_only", readOnly, "source", entry.Source)
	return file
}
