//go:build !windows

package pathnorm

// Platform is the normalizer used by Normalize on this platform.
var Platform = Slash

// LongPath returns abs unchanged; only Windows imposes a path-length limit.
func LongPath(abs string) string {
	return abs
}
