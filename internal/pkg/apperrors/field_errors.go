package apperrors

import (
	"errors"
	"sort"
	"strings"
)

// NonFieldErrors is the key under which errors not tied to a single input are stored.
const NonFieldErrors = "__all__"

// FieldErrors collects validation messages per form field.
// It satisfies error and unwraps to ErrValidationFailed.
type FieldErrors map[string][]string

// Add appends a message for the given field.
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Has reports whether the field has at least one message.
func (e FieldErrors) Has(field string) bool {
	return len(e[field]) > 0
}

// Get returns the messages for a field.
func (e FieldErrors) Get(field string) []string {
	return e[field]
}

// NonField returns the messages that are not tied to a field.
func (e FieldErrors) NonField() []string {
	return e[NonFieldErrors]
}

// Empty reports whether no messages were collected.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Err returns e as an error, or nil when it holds no messages.
func (e FieldErrors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

// Error implements error interface
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], " "))
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap implements errors.Unwrap interface
func (e FieldErrors) Unwrap() error {
	return ErrValidationFailed
}

// AsFieldErrors extracts a FieldErrors value from err.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
