package model

import "errors"

// ErrInvalidDay is returned for strings that are not YYYY-MM-DD days.
var ErrInvalidDay = errors.New("invalid calendar day")
