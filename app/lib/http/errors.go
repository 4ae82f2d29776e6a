package http

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyRequest        = errors.New("stream ended before a request line was read")
	ErrShortBody           = errors.New("stream ended before the declared body was read")
	ErrUnrecognizedMethod  = errors.New("unrecognized request method")
	ErrServerStateNotSet   = errors.New("server state not set")
	ErrStateType           = errors.New("server state has unexpected type")
	ErrNilHandler          = errors.New("handler is nil")
	ErrServerListening     = errors.New("server is already listening")
	ErrResponseAlreadySent = errors.New("response already sent")
)

// ErrHandlerIgnoresState is returned when a stateless handler is registered on a
// server built with state. It wraps ErrServerStateNotSet, so both registration
// mismatches match that error.
var ErrHandlerIgnoresState = fmt.Errorf("%w: handler does not accept server state", ErrServerStateNotSet)

// DecodeError is returned when a well-formed request could not be read from the stream.
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newDecodeError(stage string, err error) *DecodeError {
	return &DecodeError{Stage: stage, Err: err}
}

// EncodeError is returned by a codec that could not serialize a payload.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode payload: %v", e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
