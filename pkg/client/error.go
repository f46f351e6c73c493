package client

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// RequestError is the normalized error for failed API calls.
// StatusCode 0 means the request never produced an HTTP response
// (network failure, timeout, cancellation).
type RequestError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether the error happened before any HTTP
// response was received.
func (e *RequestError) IsTransport() bool {
	return e.StatusCode == 0
}

// IsNotFound reports whether the server answered 404.
func (e *RequestError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func newTransportError(err error) *RequestError {
	return &RequestError{
		StatusCode: 0,
		Message:    err.Error(),
		Err:        err,
	}
}

// newStatusError extracts a human-readable message from an error payload.
// Both {"error": "msg"} and {"error": {"message": "msg"}} shapes are
// understood; anything else falls back to the HTTP status text.
func newStatusError(status int, body []byte) *RequestError {
	e := &RequestError{
		StatusCode: status,
		Message:    http.StatusText(status),
	}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return e
	}

	var plain string
	if err := json.Unmarshal(envelope.Error, &plain); err == nil && plain != "" {
		e.Message = plain
		return e
	}

	var structured struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &structured); err == nil && structured.Message != "" {
		e.Message = structured.Message
	}

	return e
}
