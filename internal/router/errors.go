package router

import (
	"errors"
	"fmt"
)

// DispatchError represents a request the router refused.
//
// Dispatch errors include:
//   - Invalid xpath: the question has no supplemental-data configuration
//   - Invalid action: action unknown, or not configured for the question
//   - Unsupported version: configuration or payload format not understood
//   - Bad payload: structurally malformed request body
//
// DispatchError includes structured fields so the HTTP layer can map each
// category to a status code and point at the offending entry.
type DispatchError struct {
	// Code identifies the error category.
	Code DispatchErrorCode

	// Message is a human-readable description.
	Message string

	// XPath identifies the affected question, when known.
	XPath string

	// Action identifies the affected action, when known.
	Action string
}

// DispatchErrorCode categorizes dispatch errors.
type DispatchErrorCode string

const (
	// ErrCodeInvalidXPath indicates the question was never configured for
	// supplemental data on this asset.
	ErrCodeInvalidXPath DispatchErrorCode = "INVALID_XPATH"

	// ErrCodeInvalidAction indicates the action doesn't exist, or exists
	// but isn't configured for the named question.
	ErrCodeInvalidAction DispatchErrorCode = "INVALID_ACTION"

	// ErrCodeUnsupportedVersion indicates a configuration or payload
	// _version this router doesn't support. Migration is external; the
	// router never attempts it.
	ErrCodeUnsupportedVersion DispatchErrorCode = "UNSUPPORTED_VERSION"

	// ErrCodeBadPayload indicates a structurally malformed request body
	// (missing _submission, non-object entries, and the like).
	ErrCodeBadPayload DispatchErrorCode = "BAD_PAYLOAD"

	// ErrCodeConflict indicates a compare-and-swap write lost to a
	// concurrent edit of the same submission's document.
	ErrCodeConflict DispatchErrorCode = "CONFLICT"
)

// Error implements the error interface.
func (e *DispatchError) Error() string {
	switch {
	case e.XPath != "" && e.Action != "":
		return fmt.Sprintf("%s: %s (xpath=%s, action=%s)", e.Code, e.Message, e.XPath, e.Action)
	case e.XPath != "":
		return fmt.Sprintf("%s: %s (xpath=%s)", e.Code, e.Message, e.XPath)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsInvalidXPath returns true if the error is an invalid-xpath error.
// Uses errors.As to handle wrapped errors.
func IsInvalidXPath(err error) bool {
	return hasCode(err, ErrCodeInvalidXPath)
}

// IsInvalidAction returns true if the error is an invalid-action error.
func IsInvalidAction(err error) bool {
	return hasCode(err, ErrCodeInvalidAction)
}

// IsUnsupportedVersion returns true if the error is a version mismatch.
func IsUnsupportedVersion(err error) bool {
	return hasCode(err, ErrCodeUnsupportedVersion)
}

// IsBadPayload returns true if the error is a malformed-payload error.
func IsBadPayload(err error) bool {
	return hasCode(err, ErrCodeBadPayload)
}

func hasCode(err error, code DispatchErrorCode) bool {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// NewInvalidXPathError creates a DispatchError for an unconfigured question.
func NewInvalidXPathError(xpath string) *DispatchError {
	return &DispatchError{
		Code:    ErrCodeInvalidXPath,
		Message: "question has no supplemental-data configuration",
		XPath:   xpath,
	}
}

// NewInvalidActionError creates a DispatchError for an unknown or
// unconfigured action.
func NewInvalidActionError(xpath, actionID, message string) *DispatchError {
	return &DispatchError{
		Code:    ErrCodeInvalidAction,
		Message: message,
		XPath:   xpath,
		Action:  actionID,
	}
}

// NewUnsupportedVersionError creates a DispatchError for a _version this
// router doesn't understand.
func NewUnsupportedVersionError(got, want string) *DispatchError {
	return &DispatchError{
		Code:    ErrCodeUnsupportedVersion,
		Message: fmt.Sprintf("unsupported schema version %q (supported: %q); migration is not implemented here", got, want),
	}
}

// NewBadPayloadError creates a DispatchError for a malformed request body.
func NewBadPayloadError(format string, args ...any) *DispatchError {
	return &DispatchError{
		Code:    ErrCodeBadPayload,
		Message: fmt.Sprintf(format, args...),
	}
}
