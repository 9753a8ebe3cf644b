package action

import (
	"errors"
	"fmt"
)

// ReservedKeyError reports a leading-underscore key found in an edit payload.
//
// Leading-underscore keys are metadata assigned internally during record
// construction (_dateCreated, _dateModified, _revisions) and are never legal
// in an inbound edit. Data-schema validation rejects them first; this error
// is the defensive backstop for a schema-authoring mistake, and is a
// distinct kind so callers can report it as an internal error rather than a
// client error.
type ReservedKeyError struct {
	Key string
}

// Error implements the error interface.
func (e *ReservedKeyError) Error() string {
	return fmt.Sprintf("reserved key %q is not allowed in an edit payload", e.Key)
}

// IsReservedKeyError returns true if err is (or wraps) a ReservedKeyError.
// Uses errors.As to handle wrapped errors.
func IsReservedKeyError(err error) bool {
	var re *ReservedKeyError
	return errors.As(err, &re)
}
