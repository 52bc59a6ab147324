package models

import (
	"errors"
	"fmt"
	"time"
)

// InvalidInputError marks a request field that makes the pricing math
// undefined (zero fleet, negative price). These are rejected synchronously
// and never silently defaulted.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

// InvalidInput builds an InvalidInputError.
func InvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// IsInvalidInput reports whether err is (or wraps) an InvalidInputError.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}

// MissingSignalError marks a pricing input that is absent entirely: no demand
// history, no competitor snapshot, no model answer. Absence degrades a
// request only when no fallback remains.
type MissingSignalError struct {
	Signal string
	Reason string
}

func (e *MissingSignalError) Error() string {
	return fmt.Sprintf("missing signal %s: %s", e.Signal, e.Reason)
}

// MissingSignal builds a MissingSignalError.
func MissingSignal(signal, reason string) error {
	return &MissingSignalError{Signal: signal, Reason: reason}
}

// IsMissingSignal reports whether err is (or wraps) a MissingSignalError.
func IsMissingSignal(err error) bool {
	var me *MissingSignalError
	return errors.As(err, &me)
}

// StaleDataError marks data that exists but is too old to trust. Callers
// decide whether to degrade (warn) or refuse.
type StaleDataError struct {
	Source string
	Age    time.Duration
}

func (e *StaleDataError) Error() string {
	return fmt.Sprintf("stale data from %s: age %s", e.Source, e.Age)
}

// StaleData builds a StaleDataError.
func StaleData(source string, age time.Duration) error {
	return &StaleDataError{Source: source, Age: age}
}

// IsStaleData reports whether err is (or wraps) a StaleDataError.
func IsStaleData(err error) bool {
	var se *StaleDataError
	return errors.As(err, &se)
}
