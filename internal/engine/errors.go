package engine

import "errors"

var (
	// ErrHookInstall indicates the open redirector could not be installed.
	ErrHookInstall = errors.New("hook installation failed")

	// ErrNoGameDir indicates a simulated open was requested without a game directory.
	ErrNoGameDir = errors.New("game directory not configured")
)
