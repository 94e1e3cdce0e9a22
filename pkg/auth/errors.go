package auth

import (
	"fmt"
	"strings"
)

// ConflictError reports that more than one explicit OAuth credential source
// was configured. Keys holds all conflicting configuration keys so the error
// message names every offending setting.
type ConflictError struct {
	Keys []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("at most one OAuth credential source may be specified, found %d: %s",
		len(e.Keys), strings.Join(e.Keys, ", "))
}

// ProviderError reports that a named token provider could not be
// instantiated: either no constructor is registered under the name, or the
// constructor itself failed.
type ProviderError struct {
	Name   string
	Reason string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token provider %q %s: %v", e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("token provider %q %s", e.Name, e.Reason)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
