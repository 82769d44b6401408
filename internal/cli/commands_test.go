package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/modlayer/internal/engine"
)

// testEnv is a modlayer root with a game directory and installed mods.
type testEnv struct {
	root    string
	gameDir string
	modules string
}

// resetFlags restores global flag values between command runs.
func resetFlags() {
	jsonOutput = false
	configPath = ""
	logFormat = "auto"
	verbose = false
	showShadows = false
	openWrite = false

	// pflag keeps parsed values between Execute calls.
	for _, name := range []string{"help", "version"} {
		if f := rootCmd.Flags().Lookup(name); f != nil {
			_ = f.Value.Set("false")
			f.Changed = false
		}
	}
}

// setupTestEnv points MODLAYER_ROOT at a temporary directory and writes a
// config naming the game directory.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	resetFlags()

	root := t.TempDir()
	env := &testEnv{
		root:    root,
		gameDir: filepath.Join(root, "game"),
		modules: filepath.Join(root, "modules"),
	}
	require.NoError(t, os.MkdirAll(env.gameDir, 0o755))
	require.NoError(t, os.MkdirAll(env.modules, 0o755))

	cfg := "game: ffx\ngame_dir: " + env.gameDir + "\nload_order: [beta]\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "config.yaml"), []byte(cfg), 0o644))

	t.Setenv("MODLAYER_ROOT", root)
	t.Setenv("MODLAYER_GAME", "")
	return env
}

// writeModFile creates data/x/<rel> inside the named mod.
func (e *testEnv) writeModFile(t *testing.T, mod, rel, content string) string {
	t.Helper()
	path := filepath.Join(e.modules, mod, "data", "x", filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runCommand executes the root command and returns what it printed to stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	oldColorOutput := color.Output
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	color.Output = w

	rootCmd.SetArgs(args)
	var bufErr bytes.Buffer
	rootCmd.SetErr(&bufErr)
	execErr := rootCmd.Execute()

	_ = w.Close()
	os.Stdout = oldStdout
	color.Output = oldColorOutput

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String(), execErr
}

func TestSourcesCommand_JSONOutput(t *testing.T) {
	env := setupTestEnv(t)
	env.writeModFile(t, "alpha", "battle/btl.bin", "a")
	env.writeModFile(t, "beta", "battle/btl.bin", "b")
	require.NoError(t, os.MkdirAll(filepath.Join(env.modules, "gamma"), 0o755))

	out, err := runCommand(t, "sources", "--json")
	require.NoError(t, err)

	var result engine.SourcesResult
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)

	assert.Equal(t, "data/x", result.AssetSubdir)
	require.Len(t, result.Sources, 3)
	assert.Equal(t, filepath.Join(env.modules, "beta"), result.Sources[0].Dir)
	assert.Equal(t, filepath.Join(env.modules, "alpha"), result.Sources[1].Dir)
	assert.Equal(t, filepath.Join(env.modules, "gamma"), result.Sources[2].Dir)
	assert.True(t, result.Sources[0].HasAssets)
	assert.False(t, result.Sources[2].HasAssets)
	assert.Equal(t, 1, result.Sources[0].Priority)
}

func TestSourcesCommand_NoMods(t *testing.T) {
	setupTestEnv(t)

	out, err := runCommand(t, "sources")
	require.NoError(t, err)
	assert.Contains(t, out, "No mods installed")
}

func TestSourcesCommand_InvalidGame(t *testing.T) {
	setupTestEnv(t)
	t.Setenv("MODLAYER_GAME", "ffx3")

	_, err := runCommand(t, "sources")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid game type")
}

func TestIndexCommand_JSONOutput(t *testing.T) {
	env := setupTestEnv(t)
	betaFile := env.writeModFile(t, "beta", "battle/btl.bin", "b")
	env.writeModFile(t, "alpha", "battle/btl.bin", "a")
	alphaOnly := env.writeModFile(t, "alpha", "menu/font.dat", "a")

	out, err := runCommand(t, "index", "--json")
	require.NoError(t, err)

	var result struct {
		Digest  string `json:"digest"`
		Entries []struct {
			Key  string `json:"key"`
			Path string `json:"path"`
		} `json:"entries"`
		Shadows []struct {
			Key string `json:"key"`
		} `json:"shadows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)

	require.Len(t, result.Entries, 2)
	assert.Equal(t, "battle/btl.bin", result.Entries[0].Key)
	assert.Equal(t, betaFile, result.Entries[0].Path)
	assert.Equal(t, "menu/font.dat", result.Entries[1].Key)
	assert.Equal(t, alphaOnly, result.Entries[1].Path)

	require.Len(t, result.Shadows, 1)
	assert.Equal(t, "battle/btl.bin", result.Shadows[0].Key)
	assert.Contains(t, result.Digest, "sha256:")
}

func TestIndexCommand_TextOutput(t *testing.T) {
	env := setupTestEnv(t)
	env.writeModFile(t, "beta", "battle/btl.bin", "b")
	env.writeModFile(t, "alpha", "battle/btl.bin", "a")

	color.NoColor = true
	out, err := runCommand(t, "index", "--shadows")
	require.NoError(t, err)

	assert.Contains(t, out, "Overlay Index (1 entry)")
	assert.Contains(t, out, "battle/btl.bin")
	assert.Contains(t, out, "Shadowed (1 file)")
	assert.Contains(t, out, "Digest")
}

func TestResolveCommand_JSONOutput(t *testing.T) {
	env := setupTestEnv(t)
	replacement := env.writeModFile(t, "beta", "battle/btl.bin", "b")

	out, err := runCommand(t, "resolve", "--json", "../../../battle/btl.bin", "battle/missing.bin")
	require.NoError(t, err)

	var result engine.ResolveResult
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	require.Len(t, result.Resolutions, 2)

	hit := result.Resolutions[0]
	assert.Equal(t, "../../../battle/btl.bin", hit.Path)
	assert.Equal(t, "battle/btl.bin", hit.Normalized)
	assert.True(t, hit.Redirected)
	assert.Equal(t, replacement, hit.Replacement)
	assert.Equal(t, filepath.Join(env.modules, "beta"), hit.Source)

	miss := result.Resolutions[1]
	assert.False(t, miss.Redirected)
	assert.Empty(t, miss.Replacement)
}

func TestResolveCommand_RequiresPath(t *testing.T) {
	setupTestEnv(t)

	_, err := runCommand(t, "resolve")
	assert.Error(t, err)
}

func TestOpenCommand_Redirected(t *testing.T) {
	env := setupTestEnv(t)
	replacement := env.writeModFile(t, "beta", "battle/btl.bin", "modded")
	vanilla := filepath.Join(env.gameDir, "battle", "btl.bin")
	require.NoError(t, os.MkdirAll(filepath.Dir(vanilla), 0o755))
	require.NoError(t, os.WriteFile(vanilla, []byte("vanilla"), 0o644))

	out, err := runCommand(t, "open", "--json", "../../../battle/btl.bin")
	require.NoError(t, err)

	var result engine.OpenResult
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	assert.True(t, result.ReadOnly)
	assert.True(t, result.BaselineOK)
	assert.True(t, result.Redirected)
	assert.Equal(t, replacement, result.Replacement)
	assert.True(t, result.HandleOK)
	assert.Zero(t, result.Archive)
}

func TestOpenCommand_WriteMiss(t *testing.T) {
	setupTestEnv(t)

	out, err := runCommand(t, "open", "--json", "--write", "battle/absent.bin")
	require.NoError(t, err)

	var result engine.OpenResult
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	assert.False(t, result.ReadOnly)
	assert.False(t, result.Redirected)
}

func TestOpenCommand_NoGameDir(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.root, "config.yaml"), []byte("game: ffx\n"), 0o644))

	_, err := runCommand(t, "open", "battle/btl.bin")
	require.ErrorIs(t, err, engine.ErrNoGameDir)
}

func TestConfigFlag_OverridesDefaultPath(t *testing.T) {
	env := setupTestEnv(t)
	alt := filepath.Join(env.root, "alt.yaml")
	require.NoError(t, os.WriteFile(alt, []byte("game: ffx2\n"), 0o644))

	out, err := runCommand(t, "sources", "--json", "--config", alt)
	require.NoError(t, err)

	var result engine.SourcesResult
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	assert.Equal(t, "data/x2", result.AssetSubdir)
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer

	newLogger(&buf, "json", false).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	newLogger(&buf, "auto", false).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`, "non-file writers get JSON")

	buf.Reset()
	newLogger(&buf, "text", false).Debug("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, "text", true).Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}
