package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCredentialMismatch = errors.New("role assignment rows disagree on identity")
	ErrUnknownRole        = errors.New("unknown role")
	ErrForbidden          = errors.New("access forbidden")

	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidOrder  = errors.New("invalid order")

	// ErrEntityNotFound is raised when a lazily referenced entity turns out
	// not to exist at the moment it is dereferenced.
	ErrEntityNotFound = errors.New("referenced entity does not exist")

	ErrConflict = errors.New("constraint violation")
	ErrDatabase = errors.New("database error")
)

// ErrUnauthenticated means there is no usable caller identity. It wraps
// ErrUserNotFound so callers treating it as an unknown user keep working.
var ErrUnauthenticated = fmt.Errorf("unauthenticated: %w", ErrUserNotFound)
