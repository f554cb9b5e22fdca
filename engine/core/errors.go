package core

import (
	"errors"
)

var (
	// ErrInvalidArgument is wrapped by synchronous parameter validation
	// failures, such as a uv split count that does not evenly divide the
	// tessellation count.
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknown         = errors.New("unknown")
)
