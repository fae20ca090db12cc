package domain

import "errors"

// Generic
var (
	ErrNotFound     = errors.New("record not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// Registration / login
var (
	ErrUserAlreadyExists  = errors.New("an account already exists for this email or phone number")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account blocked")
	ErrSamePassword       = errors.New("new password must differ from the old one")
)

// One-time codes
var (
	ErrInvalidOTP         = errors.New("code not found or invalid")
	ErrTooManyOTPRequests = errors.New("too many code requests, try again later")
)

// ValidationError carries a field-level message meant for the client
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid wraps a validation message as an error
func Invalid(message string) error {
	return &ValidationError{Message: message}
}
