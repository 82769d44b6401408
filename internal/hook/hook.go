// Package hook describes how a replacement function is installed in place of
// a native one.
//
// Binary patching is provided by the host; this package only fixes the
// contract. An Installer receives a binder rather than a bare replacement so
// it can create the trampoline to the original first and make the
// replacement reachable only once the trampoline exists.
package hook

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnknownTarget indicates no function is registered at the target.
	ErrUnknownTarget = errors.New("unknown hook target")

	// ErrAlreadyHooked indicates the target already has a replacement installed.
	ErrAlreadyHooked = errors.New("target already hooked")
)

// Target locates a native function by module name and byte offset.
type Target struct {
	Module string
	Offset uintptr
}

func (t Target) String() string {
	return fmt.Sprintf("%s+%#x", t.Module, t.Offset)
}

// Installer installs replacements for functions of type F.
type Installer[F any] interface {
	// Install calls bind with a callable original and patches target to
	// invoke the returned replacement.
	Install(target Target, bind func(original F) F) error
}

// Table is an in-process Installer over a table of Go functions.
// Callers dispatch through Resolve, which returns the replacement once one
// is installed.
type Table[F any] struct {
	mu      sync.RWMutex
	fns     map[Target]F
	patched map[Target]bool
}

// NewTable creates an empty Table.
func NewTable[F any]() *Table[F] {
	return &Table[F]{
		fns:     make(map[Target]F),
		patched: make(map[Target]bool),
	}
}

// Register sets the original function at target.
func (t *Table[F]) Register(target Target, fn F) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fns[target] = fn
	delete(t.patched, target)
}

// Install replaces the function at target with bind(original).
func (t *Table[F]) Install(target Target, bind func(original F) F) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	original, ok := t.fns[target]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTarget, target)
	}
	if t.patched[target] {
		return fmt.Errorf("%w: %s", ErrAlreadyHooked, target)
	}

	t.fns[target] = bind(original)
	t.patched[target] = true
	return nil
}

// Resolve returns the function currently installed at target.
func (t *Table[F]) Resolve(target Target) (F, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn, ok := t.fns[target]
	return fn, ok
}

// Hooked reports whether a replacement is installed at target.
func (t *Table[F]) Hooked(target Target) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.patched[target]
}
