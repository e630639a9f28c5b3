package user

import "errors"

var (
	// -- Authentication --
	ErrUnauthenticated    = errors.New("user not authenticated")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// -- Validation & Input --
	ErrEmailExists = errors.New("email already registered")
)
