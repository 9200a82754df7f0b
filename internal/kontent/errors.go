package kontent

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is matched by APIError values with status 404.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from Kontent.ai.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorCode  int    `json:"error_code"`
	RequestID  string `json:"request_id"`
	Message    string `json:"message"`

	ValidationErrors []ValidationError `json:"validation_errors,omitempty"`
}

// ValidationError explains why the API rejected part of a request body.
type ValidationError struct {
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}

	out := fmt.Sprintf("kontent api: %d %s", e.StatusCode, msg)

	for _, v := range e.ValidationErrors {
		if v.Path != "" {
			out += fmt.Sprintf("; %s: %s", v.Path, v.Message)
		} else {
			out += "; " + v.Message
		}
	}

	if e.RequestID != "" {
		out += " (request " + e.RequestID + ")"
	}

	return out
}

// Is reports 404 responses as ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
