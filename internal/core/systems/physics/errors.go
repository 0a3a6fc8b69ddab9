package physics

import "errors"

var (
	ErrInvalidBody  = errors.New("invalid body")
	ErrBodyNotFound = errors.New("body not found")
)
