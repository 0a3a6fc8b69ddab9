package sim

import "errors"

var (
	ErrInvalidScene  = errors.New("sim: invalid scene")
	ErrUnknownLayer  = errors.New("sim: unknown layer")
	ErrDuplicateName = errors.New("sim: duplicate name")
	ErrUnknownFormat = errors.New("sim: unknown scene file format")
)
