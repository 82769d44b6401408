//go:build windows

package nativeio

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// InvalidHandle is the value CreateFileW returns on failure.
const InvalidHandle = Handle(windows.InvalidHandle)

func open(path string, flags Flags) (Handle, error) {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return InvalidHandle, fmt.Errorf("failed to encode path %q: %w", path, err)
	}

	h, err := windows.CreateFile(name, flags.Access, flags.Share, nil, flags.Disposition, flags.Attributes, 0)
	if err != nil {
		return InvalidHandle, &os.PathError{Op: "CreateFileW", Path: path, Err: err}
	}
	return Handle(h), nil
}

func closeHandle(h Handle) error {
	return windows.CloseHandle(windows.Handle(h))
}

// CString returns a NUL-terminated copy of s.
func CString(s string) (*byte, error) {
	return windows.BytePtrFromString(s)
}

// GoString decodes a NUL-terminated byte string. p must not be nil.
func GoString(p *byte) string {
	return windows.BytePtrToString(p)
}
