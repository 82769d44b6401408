package engine

// ResolveRequest represents a request to resolve host asset paths.
type ResolveRequest struct {
	// Paths are raw paths as the host would pass them to open
	Paths []string
}

// OpenRequest represents a request to simulate one intercepted open.
type OpenRequest struct {
	// Path is the raw path as the host would pass it
	Path string

	// ReadOnly selects the read-only open flags
	ReadOnly bool
}
