package service

import "errors"

// Sentinel errors carry the exact wire messages; handlers map them onto
// status codes (404 for the not-found family, 400 for the publish gate).
var (
	ErrFormNotFound       = errors.New("Form not found")
	ErrSubmissionNotFound = errors.New("Submission not found")
	ErrFileNotFound       = errors.New("File not found")
	ErrUserNotFound       = errors.New("User not found")
	ErrFormNotPublished   = errors.New("Form is not published")
)

// ValidationError marks malformed input; handlers translate it to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
