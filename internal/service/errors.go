package service

import (
	"errors"
	"fmt"

	"incident-report-api/internal/geocoder"
	"incident-report-api/internal/parser"
)

// ValidationError reports a message that lacks a required value
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("service: missing required field %s", e.Field)
}

// IsRejected reports whether err was caused by the content of the message
// rather than by a failing dependency. Rejected messages are not worth retrying
func IsRejected(err error) bool {
	var validationErr *ValidationError
	var dateErr *parser.DateFormatError
	var exhaustedErr *geocoder.ExhaustedError
	return errors.As(err, &validationErr) ||
		errors.As(err, &dateErr) ||
		errors.As(err, &exhaustedErr)
}
