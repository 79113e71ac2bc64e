package app

import (
	"errors"
)

// Application errors.
var (
	// ErrNoConfig indicates New was called without a configuration.
	ErrNoConfig = errors.New("no configuration")
)

// InitError reports which component failed to initialize.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
