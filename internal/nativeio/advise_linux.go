//go:build linux

package nativeio

import "golang.org/x/sys/unix"

// adviseSequential is the open(2) counterpart of FILE_FLAG_SEQUENTIAL_SCAN.
// The hint is best effort; a failure does not affect the open.
func adviseSequential(fd int) {
	_ = unix.Fadvise(fd, 0, 0, unix.FADV_SEQUENTIAL)
}
