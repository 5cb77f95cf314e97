package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized    = errors.New("not authorized")
	ErrInvalidResponse = errors.New("invalid response format")
)

// APIError is a non-2xx answer of the booking API.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Op + ": " + e.Message
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// OpError wraps transport and decoding failures with the operation name.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func NewOpError(op string, err error) *OpError {
	return &OpError{
		Op:  op,
		Err: err,
	}
}

func newAPIError(op string, status int, serverMessage string) *APIError {
	msg := serverMessage
	if msg == "" {
		msg = fmt.Sprintf("request failed with status code %d", status)
	}
	return &APIError{Op: op, StatusCode: status, Message: msg}
}

// StatusCode returns the HTTP status of an APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
