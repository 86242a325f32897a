package cookie

import "errors"

var (
	// ErrInvalidFormat indicates the cookie value has unexpected format,
	// typically during decoding operations.
	ErrInvalidFormat = errors.New("invalid cookie format")

	// ErrCookieNotFound indicates neither the cookie nor any of its chunks exist.
	ErrCookieNotFound = errors.New("cookie not found")
)
