package criteria

import (
	"errors"
	"fmt"
)

var ErrUnknownCategory = errors.New("unknown category")

// ValidationError reports input the builder cannot turn into criteria.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
