package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies a ServiceError
type ErrorKind string

const (
	// KindNetwork covers unreachable services and timeouts
	KindNetwork ErrorKind = "network"
	// KindAuth covers missing or rejected credentials
	KindAuth ErrorKind = "auth"
	// KindNotFound is returned when the player, device or resource does not exist
	KindNotFound ErrorKind = "not found"
	// KindRateLimited is returned when the service throttles requests
	KindRateLimited ErrorKind = "rate limited"
	// KindUnsupported is returned when the backend cannot perform the operation
	KindUnsupported ErrorKind = "unsupported"
	// KindService covers any other failure reported by the service
	KindService ErrorKind = "service"
)

// ServiceError is the error type returned by PlaybackService implementations
type ServiceError struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason())
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Reason())
}

// Reason is the human readable cause without the operation and kind
func (e *ServiceError) Reason() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError builds a ServiceError, classifying err as a network error
// when it is a timeout, a cancelled context or a net.Error.
func NewServiceError(op string, kind ErrorKind, err error) *ServiceError {
	if kind == "" {
		kind = classify(err)
	}
	return &ServiceError{Kind: kind, Op: op, Err: err}
}

// Unsupported returns a KindUnsupported error for op
func Unsupported(op, backend string) *ServiceError {
	return &ServiceError{
		Kind:    KindUnsupported,
		Op:      op,
		Message: fmt.Sprintf("not available with the %s backend", backend),
	}
}

// IsKind reports whether err is a ServiceError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Kind == kind
}

func classify(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	return KindService
}
