package link

import (
	"errors"
	"fmt"
)

var (
	// ErrOversized indicates a line longer than a frame can carry.
	ErrOversized = errors.New("message too long")
	// ErrSendFailed indicates the channel didn't accept a frame.
	ErrSendFailed = errors.New("transmission failed")
	// ErrInvalidParams indicates unusable link parameters.
	ErrInvalidParams = errors.New("invalid link parameters")
)

// InitError is a failure bringing up a device component.
type InitError struct {
	Component string
	Err       error
}

// Error implements error.
func (e *InitError) Error() string {
	return fmt.Sprintf("%s initialization failed: %v", e.Component, e.Err)
}

// Unwrap returns the cause.
func (e *InitError) Unwrap() error {
	return e.Err
}

// Banner is the short text shown on the display for the failure.
func (e *InitError) Banner() string {
	return e.Component + " Error!"
}
