// Package nativeio is the lower-level file-open primitive the redirector
// re-issues opens through.
//
// Flags mirror the CreateFileW parameters the host program passes for its
// own asset opens. On Windows they are handed to CreateFileW verbatim; on
// unix they are translated to the nearest open(2) equivalent.
package nativeio

import "errors"

// CreateFileW parameter values used by the host's asset opens.
// https://learn.microsoft.com/en-us/windows/win32/api/fileapi/nf-fileapi-createfilew
const (
	FileReadData           uint32 = 0x00000001
	FileWriteData          uint32 = 0x00000002
	FileShareRead          uint32 = 0x00000001
	OpenExisting           uint32 = 3
	OpenAlways             uint32 = 4
	FileFlagSequentialScan uint32 = 0x08000000
)

// ErrUnsupportedFlags is returned when Flags cannot be expressed on this platform.
var ErrUnsupportedFlags = errors.New("unsupported open flags")

// Handle is an OS-level file handle (a HANDLE on Windows, a descriptor elsewhere).
type Handle uintptr

// Flags are the access, share, creation-disposition and attribute arguments
// of a native open.
type Flags struct {
	Access      uint32
	Share       uint32
	Disposition uint32
	Attributes  uint32
}

// FlagsFor returns the flags the host uses for a read-only or read-write open:
//
//	read-only:  FILE_READ_DATA,  FILE_SHARE_READ, OPEN_EXISTING, FILE_FLAG_SEQUENTIAL_SCAN
//	read-write: FILE_WRITE_DATA, 0,               OPEN_ALWAYS,   FILE_FLAG_SEQUENTIAL_SCAN
func FlagsFor(readOnly bool) Flags {
	if readOnly {
		return Flags{
			Access:      FileReadData,
			Share:       FileShareRead,
			Disposition: OpenExisting,
			Attributes:  FileFlagSequentialScan,
		}
	}
	return Flags{
		Access:      FileWriteData,
		Share:       0,
		Disposition: OpenAlways,
		Attributes:  FileFlagSequentialScan,
	}
}

// Opener opens a path with native flags.
type Opener interface {
	// Open returns the new handle, or InvalidHandle and the platform error.
	Open(path string, flags Flags) (Handle, error)
}

// System implements Opener with the platform file API.
type System struct{}

// NewSystem creates a new System opener.
func NewSystem() *System {
	return &System{}
}

// Open opens path with the given flags.
func (s *System) Open(path string, flags Flags) (Handle, error) {
	return open(path, flags)
}

// Close releases a handle obtained from Open.
func (s *System) Close(h Handle) error {
	return closeHandle(h)
}

// Closer releases handles. System implements it.
type Closer interface {
	Close(h Handle) error
}
