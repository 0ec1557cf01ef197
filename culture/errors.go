package culture

import "errors"

var (
	ErrValidation       = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrAuthRequired     = errors.New("auth required")
	ErrNotFound         = errors.New("not found")
	ErrNotConfirmed     = errors.New("not confirmed")
)
