package core

import "errors"

// Common errors.
var (
	ErrNotFound           = errors.New("note not found")
	ErrMalformedRecord    = errors.New("malformed record")
	ErrMalformedPayload   = errors.New("malformed payload")
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrReadOnly           = errors.New("repository is in read-only mode")
	ErrIDSpaceExhausted   = errors.New("no free note id available")
)
