package service

import "errors"

// Common service errors. Service methods return these sentinels for
// expected conditions; callers check them with errors.Is and the API
// layer maps them to HTTP status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than
	// the one making the request. Maps to HTTP 403.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrInvalidCredentials indicates a login attempt with a wrong email
	// or password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmptyImport indicates a CSV import contained no usable rows.
	ErrEmptyImport = errors.New("import contains no cards")

	// ErrDeckEmpty indicates an operation that needs cards was attempted
	// on a deck with none.
	ErrDeckEmpty = errors.New("deck has no cards")
)
