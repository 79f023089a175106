package source

import "errors"

// Sentinel kinds for fetch errors.
var (
	ErrTransport   = errors.New("transport failure")
	ErrApplication = errors.New("application failure")
)
