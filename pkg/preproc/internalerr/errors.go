package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrResourceLoad         = errors.New("resource load failed")
	ErrAnnotatorUnavailable = errors.New("annotator unavailable")
	ErrStoreUnavailable     = errors.New("store unavailable")
)
