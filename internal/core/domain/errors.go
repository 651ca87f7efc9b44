package domain

import "errors"

var (
	ErrAuthRequired       = errors.New("authentication required")
	ErrPollNotFound       = errors.New("poll not found or inactive")
	ErrPollExpired        = errors.New("this poll has expired")
	ErrAlreadyVoted       = errors.New("you have already voted on this poll")
	ErrInvalidOption      = errors.New("invalid voting option")
	ErrInvalidPollID      = errors.New("invalid poll id")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInternal           = errors.New("internal server error")
)

// ValidationError carries a human-readable rejection of caller input.
type ValidationError struct {
	msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string {
	return e.msg
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StorageError reports a failed backend call. Error() returns only the
// caller-safe message; the cause stays attached for logs and errors.Is.
type StorageError struct {
	msg   string
	cause error
}

func NewStorageError(msg string, cause error) *StorageError {
	return &StorageError{msg: msg, cause: cause}
}

func (e *StorageError) Error() string {
	return e.msg
}

func (e *StorageError) Unwrap() error {
	return e.cause
}
