package core

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	ErrNotAuthenticated  = errors.New("user not authenticated")
	ErrEmptyData         = errors.New("response contained no data")
	ErrMalformedEnvelope = errors.New("malformed response envelope")
	ErrTenantMismatch    = errors.New("school does not match the authenticated admin")

	transportMessage = "network error"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if len(err.Fields) > 0 {
		msgs := make([]string, 0, len(err.Fields))
		for _, fe := range err.Fields {
			msgs = append(msgs, fe.Error)
		}
		return strings.Join(msgs, "; ")
	}
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

type ErrorKind int

const (
	// KindTransport: the request never reached the server or no response came back.
	KindTransport ErrorKind = iota + 1
	// KindServer: the server answered with a non-2xx status or an unusable body.
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// RequestError is returned by an APIClient for every failed call.
type RequestError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func NewTransportError(err error) error {
	return &RequestError{Kind: KindTransport, Message: transportMessage, Err: err}
}

// NewServerError builds a server error; an empty message falls back to a generic one.
func NewServerError(code int, msg string) error {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", code)
	}
	return &RequestError{Kind: KindServer, StatusCode: code, Message: msg}
}

func (err *RequestError) Error() string {
	return err.Message
}

func (err *RequestError) Unwrap() error {
	return err.Err
}

func IsTransport(err error) bool {
	var rErr *RequestError
	return errors.As(err, &rErr) && rErr.Kind == KindTransport
}

// IsUnauthorized reports whether the server refused the call's credentials.
func IsUnauthorized(err error) bool {
	var rErr *RequestError
	if !errors.As(err, &rErr) || rErr.Kind != KindServer {
		return false
	}
	return rErr.StatusCode == http.StatusUnauthorized || rErr.StatusCode == http.StatusForbidden
}

// ErrorMessage extracts the message a slice records for a failed operation.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var rErr *RequestError
	if errors.As(err, &rErr) {
		return rErr.Message
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	var fErrs validator.ValidationErrors
	if errors.As(err, &fErrs) {
		return translateFieldErrors(fErrs).Error()
	}
	return errors.Cause(err).Error()
}
