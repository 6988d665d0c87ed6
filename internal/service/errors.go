package service

import "errors"

var (
	// ErrUsernameTaken indicates registration with an existing username.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrInvalidCredentials is returned for any failed login, without saying
	// which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken indicates a session token that is malformed, forged or
	// expired.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// ValidationError reports unusable input. Msg is safe to show to users.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
