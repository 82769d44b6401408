// Package overlay builds and queries the mod overlay index.
//
// The index maps a normalized game-relative asset path to the normalized
// absolute path of the replacement file that should be opened instead. It
// is populated once by a Builder and never written to afterwards, so a
// finished *Index may be read from any number of goroutines without locking.
//
// Key components:
//   - Index: immutable key -> Entry mapping with a deterministic digest
//   - Builder: walks mod sources in priority order, first writer wins
//   - Shadow: a duplicate that lost to a higher-priority source
package overlay

import (
	"iter"
	"sort"

	"github.com/opencontainers/go-digest"
)

// Entry is one redirect: Key is the normalized relative asset path, Path the
// normalized absolute replacement path, Source the mod directory it came from.
type Entry struct {
	Key    string `json:"key"`
	Path   string `json:"path"`
	Source string `json:"source"`
}

// Index is a read-only overlay mapping.
type Index struct {
	entries map[string]Entry
	keys    []string
	shadows []Shadow
}

func newIndex() *Index {
	return &Index{entries: make(map[string]Entry)}
}

// FromEntries builds an Index from entries with first-writer-wins semantics.
// Later entries with a duplicate key are recorded as shadows.
func FromEntries(entries ...Entry) *Index {
	idx := newIndex()
	for _, e := range entries {
		idx.insert(e)
	}
	idx.seal()
	return idx
}

// insert adds e unless its key is taken. It reports the shadow on collision.
func (idx *Index) insert(e Entry) (Shadow, bool) {
	existing, taken := idx.entries[e.Key]
	if !taken {
		idx.entries[e.Key] = e
		return Shadow{}, true
	}

	s := Shadow{
		Key:           e.Key,
		Kept:          existing.Path,
		KeptSource:    existing.Source,
		Ignored:       e.Path,
		IgnoredSource: e.Source,
	}
	idx.shadows = append(idx.shadows, s)
	return s, false
}

// seal freezes the key order. No writes happen after seal.
func (idx *Index) seal() {
	idx.keys = make([]string, 0, len(idx.entries))
	for k := range idx.entries {
		idx.keys = append(idx.keys, k)
	}
	sort.Strings(idx.keys)
}

// Lookup returns the entry for a normalized path.
// A nil Index never matches.
func (idx *Index) Lookup(key string) (Entry, bool) {
	if idx == nil {
		return Entry{}, false
	}
	e, ok := idx.entries[key]
	return e, ok
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// Entries iterates over all entries in key order.
func (idx *Index) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if idx == nil {
			return
		}
		for _, k := range idx.keys {
			if !yield(idx.entries[k]) {
				return
			}
		}
	}
}

// Shadows returns the duplicates that were ignored, in discovery order.
func (idx *Index) Shadows() []Shadow {
	if idx == nil {
		return nil
	}
	out := make([]Shadow, len(idx.shadows))
	copy(out, idx.shadows)
	return out
}

// Digest fingerprints the key -> path mapping. Indexes built from identical
// inputs in identical order have identical digests.
func (idx *Index) Digest() digest.Digest {
	d := digest.Canonical.Digester()
	h := d.Hash()
	for e := range idx.Entries() {
		_, _ = h.Write([]byte(e.Key))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(e.Path))
		_, _ = h.Write([]byte{'\n'})
	}
	return d.Digest()
}
