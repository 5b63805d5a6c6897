package recolor

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is wrapped by every argument validation failure.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParamError names the argument that failed validation.
type ParamError struct {
	Name   string
	Value  any
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("recolor: invalid %s %v: %s", e.Name, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}

func invalid(name string, value any, format string, args ...any) error {
	return &ParamError{Name: name, Value: value, Reason: fmt.Sprintf(format, args...)}
}
