package core

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTitle      = errors.New("empty title")
	ErrTitleTooLong    = errors.New("title too long (max 200 characters)")
	ErrEmptyDate       = errors.New("empty date label")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category: must be Income or Outcome")
	ErrSignMismatch    = errors.New("amount sign does not match category")
)

// ValidationError reports a draft field that failed validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned when no transaction has the requested ID.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("transaction %d not found", e.ID)
}

// ConfigurationError reports an invalid engine setting such as a page size.
type ConfigurationError struct {
	Setting string
	Value   int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %d: must be greater than zero", e.Setting, e.Value)
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
