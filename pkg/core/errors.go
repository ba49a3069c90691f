package core

import "errors"

// Common errors.
var (
	ErrReadOnly         = errors.New("repository is in read-only mode")
	ErrWatchUnsupported = errors.New("repository does not support watching")
)
