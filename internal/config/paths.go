// Package config manages modlayer configuration and filesystem paths.
//
// The default root is ~/.modlayer/ containing the modules/ directory that
// holds one subdirectory per installed mod, and config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the filesystem paths used by modlayer.
type Paths struct {
	// Root is the base directory for all modlayer data (default: ~/.modlayer)
	Root string

	// Modules is the directory containing one subdirectory per mod
	Modules string

	// Config is the path to the config file
	Config string
}

// DefaultPaths returns the default paths for modlayer.
// Paths can be overridden with environment variables:
// - MODLAYER_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("MODLAYER_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".modlayer")
	}

	return &Paths{
		Root:    root,
		Modules: filepath.Join(root, "modules"),
		Config:  filepath.Join(root, "config.yaml"),
	}, nil
}
