package state

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNotRunning    = errors.New("router is not running")
	ErrStopped       = errors.New("router stopped")
)
