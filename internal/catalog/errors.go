package catalog

import (
	"errors"
	"fmt"
)

// Reason classifies a LoadError.
type Reason int

const (
	// Malformed means the document was retrieved but is structurally invalid.
	Malformed Reason = iota + 1
	// Unreachable means the document could not be retrieved.
	Unreachable
)

func (r Reason) String() string {
	switch r {
	case Malformed:
		return "malformed"
	case Unreachable:
		return "unreachable"
	}
	return "unknown"
}

// LoadError is returned by Load and Parse.
type LoadError struct {
	Reason Reason
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("catalog: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("catalog: %s %s: %v", e.Reason, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func malformed(format string, args ...any) *LoadError {
	return &LoadError{Reason: Malformed, Err: fmt.Errorf(format, args...)}
}

// IsMalformed reports whether err is a Malformed LoadError.
func IsMalformed(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Reason == Malformed
}

// IsUnreachable reports whether err is an Unreachable LoadError.
func IsUnreachable(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Reason == Unreachable
}
