package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// GenericErrorMessage is shown when the server gives no usable detail
const GenericErrorMessage = "Something went wrong"

// ErrorKind classifies every failure coming out of the API client
type ErrorKind int

const (
	// KindNetwork covers transport failures and cancelled requests
	KindNetwork ErrorKind = iota
	// KindUnauthorized is a 401 from the server
	KindUnauthorized
	// KindValidation is any other 4xx, or a request rejected before sending
	KindValidation
	// KindServer is a 5xx or a response the client could not decode
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// KindForStatus maps a non-2xx HTTP status to an ErrorKind
func KindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

// APIError is the normalized error returned by every accessor
type APIError struct {
	Kind   ErrorKind
	Status int    // 0 when no response was received
	Method string // HTTP method of the failed request
	Path   string // path relative to the API base
	Detail string // server-provided detail, if any
	Err    error
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s error: %s %s (%d): %s", e.Kind, e.Method, e.Path, e.Status, msg)
	}
	return fmt.Sprintf("%s error: %s %s: %s", e.Kind, e.Method, e.Path, msg)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Message returns the text a form should show to the user
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return GenericErrorMessage
}

// KindOf returns the ErrorKind of err, or KindNetwork for errors that never reached the API
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNetwork
}

// IsUnauthorized reports whether err is a 401 from the API
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// ErrorMessage picks the user-facing message: server detail, then the error text, then the fallback
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		if apiErr.Kind == KindNetwork && apiErr.Err != nil {
			return apiErr.Err.Error()
		}
		return GenericErrorMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericErrorMessage
}

// StorageError represents errors accessing the local credential store
type StorageError struct {
	Path string
	Op   string // "open", "get", "set", "delete"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
