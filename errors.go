package prefstore

import "errors"

var (
	// ErrInvalidFilePath is returned when the backing file can't be read
	// or created at the configured path. The store stays unloaded; there
	// is no in-place repair, construct a new store with a valid path.
	ErrInvalidFilePath = errors.New("invalid file path")

	// ErrClosed is returned by operations on a store after Close().
	ErrClosed = errors.New("store is closed")
)
