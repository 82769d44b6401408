package engine

import (
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/modlayer/internal/fsops"
	"github.com/danieljhkim/modlayer/internal/pathnorm"
)

// Sources lists mod sources in load order with their asset directories.
func (e *Engine) Sources() (*SourcesResult, error) {
	subdir, err := e.assetSubdir()
	if err != nil {
		return nil, err
	}

	dirs, err := e.sources.List()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate mod sources: %w", err)
	}

	result := &SourcesResult{AssetSubdir: subdir, Sources: make([]SourceInfo, 0, len(dirs))}
	for i, dir := range dirs {
		assetDir := pathnorm.Normalize(filepath.Join(dir, subdir))
		result.Sources = append(result.Sources, SourceInfo{
			Priority:  i + 1,
			Dir:       dir,
			AssetDir:  assetDir,
			HasAssets: fsops.IsDir(e.fs, assetDir),
		})
	}
	return result, nil
}
