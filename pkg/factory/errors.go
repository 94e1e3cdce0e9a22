package factory

import "fmt"

// MissingFieldError reports that a required construction input was absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q is not set", e.Field)
}

// UnknownClientTypeError reports a client type outside the closed role set.
type UnknownClientTypeError struct {
	Type ClientType
}

func (e *UnknownClientTypeError) Error() string {
	return fmt.Sprintf("unknown client type %q", e.Type)
}
