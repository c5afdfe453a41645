package common

import "errors"

var (
	// Local storage errors.
	ErrNotFound = errors.New("not found")

	// Session errors.
	ErrNoSession   = errors.New("not logged in")
	ErrNoToken     = errors.New("response carried no token")
	ErrInvalidData = errors.New("invalid data")
)
