package integration

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/modlayer/internal/clock"
	"github.com/danieljhkim/modlayer/internal/config"
	"github.com/danieljhkim/modlayer/internal/engine"
	"github.com/danieljhkim/modlayer/internal/hook"
	"github.com/danieljhkim/modlayer/internal/modsrc"
	"github.com/danieljhkim/modlayer/internal/nativeio"
	"github.com/danieljhkim/modlayer/internal/pathnorm"
	"github.com/danieljhkim/modlayer/internal/redirect"
)

// lockedBuffer lets concurrent opens log into one buffer.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// host plays the game: its open resolves paths against gameDir and it owns
// every handle it is given back.
type host struct {
	gameDir string
	sys     *nativeio.System

	mu       sync.Mutex
	handles  []nativeio.Handle
	openCall int
}

func (h *host) open(path *byte, readOnly bool) *redirect.FileHandlePair {
	name := filepath.Join(h.gameDir, pathnorm.Normalize(nativeio.GoString(path)))
	fd, err := h.sys.Open(name, nativeio.FlagsFor(readOnly))

	h.mu.Lock()
	defer h.mu.Unlock()
	h.openCall++
	if err == nil {
		h.handles = append(h.handles, fd)
	}
	return &redirect.FileHandlePair{OS: uintptr(fd), Archive: 0xA5}
}

func (h *host) calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.openCall
}

func (h *host) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, fd := range h.handles {
		_ = h.sys.Close(fd)
	}
	h.handles = nil
}

// testEnv is an on-disk game install with a modules directory.
type testEnv struct {
	root    string
	gameDir string
	modules string
	logs    *lockedBuffer
	host    *host
	table   *hook.Table[redirect.OpenFunc]
	cfg     config.Config
}

// setupTestEnv creates a game directory and empty modules directory on the
// real filesystem.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	env := &testEnv{
		root:    root,
		gameDir: filepath.Join(root, "game"),
		modules: filepath.Join(root, "modules"),
		logs:    &lockedBuffer{},
		table:   hook.NewTable[redirect.OpenFunc](),
	}
	require.NoError(t, os.MkdirAll(env.gameDir, 0755))
	require.NoError(t, os.MkdirAll(env.modules, 0755))

	env.cfg = config.DefaultConfig()
	env.cfg.ModulesDir = env.modules
	env.cfg.GameDir = env.gameDir

	env.host = &host{gameDir: env.gameDir, sys: nativeio.NewSystem()}
	env.table.Register(hostTarget(env.cfg), env.host.open)
	t.Cleanup(env.host.closeAll)
	return env
}

func hostTarget(cfg config.Config) hook.Target {
	return hook.Target{Module: cfg.Hook.Module, Offset: uintptr(cfg.Hook.Offset)}
}

// engine wires a real engine over the env's filesystem.
func (e *testEnv) engine() *engine.Engine {
	logger := slog.New(slog.NewTextHandler(e.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	fsys := afero.NewOsFs()
	return engine.New(
		fsys,
		modsrc.NewDirEnumerator(fsys, e.cfg.ModulesDir, e.cfg.LoadOrder),
		nativeio.NewSystem(),
		clock.NewFakeClock(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
		logger,
		e.cfg,
	)
}

// writeFile creates a file under base with the given content.
func writeFile(t *testing.T, base, rel, content string) string {
	t.Helper()
	path := filepath.Join(base, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// writeMod creates data/x/<rel> inside the named mod.
func (e *testEnv) writeMod(t *testing.T, mod, rel, content string) string {
	t.Helper()
	return writeFile(t, filepath.Join(e.modules, mod, "data", "x"), rel, content)
}

// openThroughHook calls the installed open exactly as the host would.
func (e *testEnv) openThroughHook(t *testing.T, path string, readOnly bool) *redirect.FileHandlePair {
	t.Helper()
	open, ok := e.table.Resolve(hostTarget(e.cfg))
	require.True(t, ok)
	cpath, err := nativeio.CString(path)
	require.NoError(t, err)
	return open(cpath, readOnly)
}

// readHandle reads everything from a native handle and closes it.
func readHandle(t *testing.T, h uintptr) string {
	t.Helper()
	f := os.NewFile(h, "replacement")
	require.NotNil(t, f)
	defer func() { _ = f.Close() }()
	var buf bytes.Buffer
	_, err := buf.ReadFrom(f)
	require.NoError(t, err)
	return buf.String()
}
