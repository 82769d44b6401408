// Package modsrc enumerates installed mod directories in load order.
//
// Each installed mod is one subdirectory of the modules directory. The load
// order decides priority: the first directory returned wins any overlay
// collision.
package modsrc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/danieljhkim/modlayer/internal/fsops"
)

// Enumerator lists mod source directories, highest priority first.
type Enumerator interface {
	List() ([]string, error)
}

// DirEnumerator implements Enumerator over a modules directory.
type DirEnumerator struct {
	fs         afero.Fs
	modulesDir string
	loadOrder  []string
}

// NewDirEnumerator creates a DirEnumerator. Mods named in loadOrder come
// first, in that order; remaining subdirectories follow sorted by name.
func NewDirEnumerator(fsys afero.Fs, modulesDir string, loadOrder []string) *DirEnumerator {
	return &DirEnumerator{
		fs:         fsys,
		modulesDir: modulesDir,
		loadOrder:  loadOrder,
	}
}

// List returns absolute mod directory paths. A missing modules directory
// yields no mods. Load order entries without a directory are ignored.
func (e *DirEnumerator) List() ([]string, error) {
	exists, err := fsops.Exists(e.fs, e.modulesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to check modules directory: %w", err)
	}
	if !exists {
		return []string{}, nil
	}

	entries, err := afero.ReadDir(e.fs, e.modulesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read modules directory: %w", err)
	}

	installed := make(map[string]bool, len(entries))
	var names []string
	for _, entry := range entries {
		if e.isModDir(entry) {
			installed[entry.Name()] = true
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	ordered := make([]string, 0, len(names))
	placed := make(map[string]bool, len(names))
	for _, name := range e.loadOrder {
		if err := fsops.ValidateIdentifier(name); err != nil {
			return nil, fmt.Errorf("invalid load order entry %q: %w", name, err)
		}
		if !installed[name] || placed[name] {
			continue
		}
		ordered = append(ordered, name)
		placed[name] = true
	}
	for _, name := range names {
		if !placed[name] {
			ordered = append(ordered, name)
		}
	}

	root, err := filepath.Abs(e.modulesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve modules directory: %w", err)
	}

	dirs := make([]string, len(ordered))
	for i, name := range ordered {
		dirs[i] = filepath.Join(root, name)
	}
	return dirs, nil
}

// isModDir reports whether a modules directory entry is a directory,
// following a symlinked entry to its target.
func (e *DirEnumerator) isModDir(entry os.FileInfo) bool {
	if entry.Mode()&os.ModeSymlink == 0 {
		return entry.IsDir()
	}
	return fsops.IsDir(e.fs, filepath.Join(e.modulesDir, entry.Name()))
}

// Static is an Enumerator over a fixed list.
type Static []string

// List returns the list unchanged.
func (s Static) List() ([]string, error) {
	return []string(s), nil
}
