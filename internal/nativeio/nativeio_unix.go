//go:build unix

package nativeio

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// InvalidHandle is the descriptor value returned alongside an error.
const InvalidHandle = ^Handle(0)

func open(path string, flags Flags) (Handle, error) {
	mode, err := unixMode(flags)
	if err != nil {
		return InvalidHandle, err
	}

	fd, err := unix.Open(path, mode|unix.O_CLOEXEC, 0o644)
	if err != nil {
		return InvalidHandle, &os.PathError{Op: "open", Path: path, Err: err}
	}

	if flags.Attributes&FileFlagSequentialScan != 0 {
		adviseSequential(fd)
	}
	return Handle(fd), nil
}

// unixMode maps CreateFileW access and disposition onto open(2) flags.
// Share modes have no open(2) equivalent and are ignored.
func unixMode(flags Flags) (int, error) {
	var mode int
	switch {
	case flags.Access&FileReadData != 0 && flags.Access&FileWriteData != 0:
		mode = unix.O_RDWR
	case flags.Access&FileWriteData != 0:
		mode = unix.O_WRONLY
	case flags.Access&FileReadData != 0:
		mode = unix.O_RDONLY
	default:
		return 0, fmt.Errorf("%w: access %#x", ErrUnsupportedFlags, flags.Access)
	}

	switch flags.Disposition {
	case OpenExisting:
	case OpenAlways:
		mode |= unix.O_CREAT
	default:
		return 0, fmt.Errorf("%w: disposition %d", ErrUnsupportedFlags, flags.Disposition)
	}
	return mode, nil
}

func closeHandle(h Handle) error {
	return unix.Close(int(h))
}

// CString returns a NUL-terminated copy of s.
func CString(s string) (*byte, error) {
	return unix.BytePtrFromString(s)
}

// GoString decodes a NUL-terminated byte string. p must not be nil.
func GoString(p *byte) string {
	return unix.BytePtrToString(p)
}
