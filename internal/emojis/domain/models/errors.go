package models

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("invalid access token")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrBadParameter       = errors.New("bad parameter")
)

var ErrUnsupportedImage = errors.New("unsupported image format")
