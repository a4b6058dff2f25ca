package domain

import (
	"errors"
	"fmt"
)

// ErrNoPhases reports a build event whose phase list is empty. There is no
// verdict to derive, so the invocation fails before any comment is posted.
var ErrNoPhases = errors.New("build event contains no phases")

// MissingVariableError reports a required environment variable absent from
// the build event.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("required environment variable %q not present in build event", e.Name)
}

// NewMissingVariableError creates a new MissingVariableError.
func NewMissingVariableError(name string) *MissingVariableError {
	return &MissingVariableError{Name: name}
}

// IsMissingVariable checks if an error is or wraps a MissingVariableError.
func IsMissingVariable(err error) bool {
	var missingErr *MissingVariableError
	return errors.As(err, &missingErr)
}
