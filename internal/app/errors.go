package app

import "errors"

// Failure taxonomy shared by the application services. The HTTP adapter owns
// the mapping from these to status codes.
var (
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates a duplicate username or email.
	ErrConflict = errors.New("username or email already exists")
	// ErrInvalidCredentials indicates a failed login. The same value is used
	// for unknown usernames and wrong passwords to resist user enumeration.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("user not found")
)
