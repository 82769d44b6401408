package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidGame indicates the configured game variant is not recognized.
var ErrInvalidGame = errors.New("invalid game type")

// Game identifies the host game variant.
type Game string

const (
	GameFFX  Game = "ffx"
	GameFFX2 Game = "ffx2"
)

// AssetSubdir returns the directory inside each mod that mirrors the game's
// asset tree for this variant.
func (g Game) AssetSubdir() (string, error) {
	switch g {
	case GameFFX:
		return "data/x", nil
	case GameFFX2:
		return "data/x2", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGame, string(g))
	}
}

// Config holds all modlayer configuration.
type Config struct {
	Game       Game     `yaml:"game"`
	ModulesDir string   `yaml:"modules_dir"` // defaults to Paths.Modules
	GameDir    string   `yaml:"game_dir"`    // working directory of the game, for simulated opens
	LoadOrder  []string `yaml:"load_order"`  // mod names, highest priority first
	Hook       Hook     `yaml:"hook"`
}

// Hook locates the host's open function.
type Hook struct {
	Module string `yaml:"module"`
	Offset uint64 `yaml:"offset"`
}

// DefaultConfig returns a Config with the stock FFX hook target.
func DefaultConfig() Config {
	return Config{
		Game: GameFFX,
		Hook: Hook{
			Module: "FFX.exe",
			Offset: 0x2798E0,
		},
	}
}

// Load reads the YAML config at path on top of DefaultConfig.
// A missing or empty file yields the defaults. Unknown fields are an error.
// MODLAYER_GAME overrides the game from the file.
func Load(path string, paths *Paths) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// Comment-only files decode to io.EOF.
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	if game := os.Getenv("MODLAYER_GAME"); game != "" {
		cfg.Game = Game(game)
	}
	if cfg.ModulesDir == "" && paths != nil {
		cfg.ModulesDir = paths.Modules
	}

	return &cfg, nil
}

// Validate checks the config for fatal errors.
func (c *Config) Validate() error {
	if _, err := c.Game.AssetSubdir(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Hook.Module == "" {
		return errors.New("config: hook.module must not be empty")
	}
	if c.ModulesDir == "" {
		return errors.New("config: modules_dir must not be empty")
	}
	return nil
}
