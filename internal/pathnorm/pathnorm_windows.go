//go:build windows

package pathnorm

import "strings"

// Platform is the normalizer used by Normalize on this platform.
var Platform = Windows

const longPathPrefix = `\\?\`

// LongPath prefixes an absolute path with the NT long-path marker so that
// replacement files deeper than MAX_PATH can still be opened.
func LongPath(abs string) string {
	if strings.HasPrefix(abs, longPathPrefix) {
		return abs
	}
	return longPathPrefix + abs
}
