package services

import "errors"

var (
	ErrContactExists = errors.New("contact already saved")
	ErrNotImage      = errors.New("file is not an image")
	ErrImageTooLarge = errors.New("image is too large")
)
