package native

import "errors"

// Error definitions for the native package.
var (
	ErrNotFound          = errors.New("native library not found in registry")
	ErrAlreadyRegistered = errors.New("native library is already registered in the registry")
	ErrNativeUnavailable = errors.New("native library is not compiled in")
	ErrLoadFailed        = errors.New("native load returned no model")
)
