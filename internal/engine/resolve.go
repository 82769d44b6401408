package engine

import (
	"github.com/danieljhkim/modlayer/internal/overlay"
	"github.com/danieljhkim/modlayer/internal/pathnorm"
)

// Resolve reports where each requested path would be redirected by idx.
func (e *Engine) Resolve(idx *overlay.Index, req *ResolveRequest) *ResolveResult {
	result := &ResolveResult{Resolutions: make([]Resolution, 0, len(req.Paths))}
	for _, p := range req.Paths {
		r := Resolution{Path: p, Normalized: pathnorm.Normalize(p)}
		if entry, ok := idx.Lookup(r.Normalized); ok {
			r.Redirected = true
			r.Replacement = entry.Path
			r.Source = entry.Source
		}
		result.Resolutions = append(result.Resolutions, r)
	}
	return result
}
