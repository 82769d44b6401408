package engine

import (
	"github.com/danieljhkim/modlayer/internal/hook"
	"github.com/danieljhkim/modlayer/internal/overlay"
)

// InitResult represents a successfully initialized redirector.
type InitResult struct {
	// Index is the published overlay index
	Index *overlay.Index

	// Target is where the redirector was installed
	Target hook.Target
}

// Resolution is the outcome of resolving one path.
type Resolution struct {
	Path        string `json:"path"`
	Normalized  string `json:"normalized"`
	Redirected  bool   `json:"redirected"`
	Replacement string `json:"replacement,omitempty"`
	Source      string `json:"source,omitempty"`
}

// ResolveResult represents resolved paths, in request order.
type ResolveResult struct {
	Resolutions []Resolution `json:"resolutions"`
}

// SourceInfo describes one mod source in load order.
type SourceInfo struct {
	Priority  int    `json:"priority"`
	Dir       string `json:"dir"`
	AssetDir  string `json:"asset_dir"`
	HasAssets bool   `json:"has_assets"`
}

// SourcesResult represents the enumerated mod sources.
type SourcesResult struct {
	AssetSubdir string       `json:"asset_subdir"`
	Sources     []SourceInfo `json:"sources"`
}

// OpenResult represents a simulated open through the installed hook.
type OpenResult struct {
	Path        string `json:"path"`
	ReadOnly    bool   `json:"read_only"`
	Redirected  bool   `json:"redirected"`
	Replacement string `json:"replacement,omitempty"`
	BaselineOK  bool   `json:"baseline_ok"`
	HandleOK    bool   `json:"handle_ok"`
	Archive     uint64 `json:"archive"`
}
