package grocery

import (
	"errors"
	"fmt"
)

// ErrItemNotFound is returned by toggle and delete when no item has the id.
var ErrItemNotFound = errors.New("grocery item not found")

// ValidationError describes rejected add-item input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
