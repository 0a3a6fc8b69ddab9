package server

import "errors"

// Server-specific errors
var (
	ErrServerNotRunning     = errors.New("server is not running")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrHubClosed            = errors.New("frame hub is closed")
	ErrMaxViewersReached    = errors.New("maximum viewers reached")
)
