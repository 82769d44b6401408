// Package pathnorm canonicalizes asset paths into the overlay index key space.
//
// The host program references streamed assets with a fixed "../../../"
// prefix and, on Windows, mixes forward and backward slashes. Index keys
// built from the mod trees and paths seen at interception time must pass
// through the same Normalize call or lookups will never match.
package pathnorm

import "strings"

// LegacyPrefix is the relative prefix the host emits for asset references.
// It is removed wherever it occurs; it is not a general ".." resolver.
const LegacyPrefix = "../../../"

// Normalizer removes LegacyPrefix and folds AltSeparator into Separator.
// A zero AltSeparator disables the separator step.
type Normalizer struct {
	Separator    byte
	AltSeparator byte
}

var (
	// Windows canonicalizes '/' to '\'.
	Windows = Normalizer{Separator: '\\', AltSeparator: '/'}

	// Slash is the single-separator convention; only the prefix is removed.
	Slash = Normalizer{Separator: '/'}
)

// Normalize returns path with every LegacyPrefix removed and separators canonicalized.
func (n Normalizer) Normalize(path string) string {
	path = strings.ReplaceAll(path, LegacyPrefix, "")
	if n.AltSeparator == 0 || n.AltSeparator == n.Separator {
		return path
	}
	return strings.ReplaceAll(path, string(n.AltSeparator), string(n.Separator))
}

// Normalize applies the platform normalizer.
func Normalize(path string) string {
	return Platform.Normalize(path)
}
