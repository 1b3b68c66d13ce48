package domain

import "errors"

var (
	// ErrNotFound is returned when something is not found
	ErrNotFound = errors.New("item not found")
	// ErrValidation is returned when a required field is missing or invalid
	ErrValidation = errors.New("validation failed")
	// ErrUnsupportedMedia is returned for request bodies in a content type we can't decode
	ErrUnsupportedMedia = errors.New("unsupported content type")
)
