package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalid = errors.New("invalid")
	// ErrMissingInput marks a required input (directory, file) that does not exist.
	ErrMissingInput = errors.New("missing input")
)

type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationError struct {
	Items []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Items) == 0 {
		return "config validation failed"
	}

	var b strings.Builder
	b.WriteString("config validation failed:\n")
	for _, item := range e.Items {
		b.WriteString(" - ")
		b.WriteString(item.Error())
		b.WriteString("\n")
	}
	return b.String()
}

func (e *ValidationError) Add(field, msg string) {
	e.Items = append(e.Items, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func (e ValidationError) HasAny() bool {
	return len(e.Items) > 0
}

// MissingInputError names the path that was expected to exist.
type MissingInputError struct {
	What string
	Path string
}

func (e MissingInputError) Error() string {
	return fmt.Sprintf("missing %s at %s", e.What, e.Path)
}

func (e MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}
