package viz

import "errors"

// Sentinel kinds for controller errors.
var (
	ErrClosed   = errors.New("controller closed")
	ErrNoSource = errors.New("no data source configured")
)
