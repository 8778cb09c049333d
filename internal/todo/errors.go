package todo

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that an operation targeted an id with no matching
// row. Update, toggle and get return it; delete deliberately does not.
var ErrNotFound = errors.New("todo not found")

// ValidationError reports a request that failed its input contract
// before reaching storage.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
