package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
)

// APIError is any non-2xx reply.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
	// Fields is set when the backend rejected individual fields (422).
	Fields map[string]string
	Body   []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrServer:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// errorBody covers both shapes the backend uses: error is a string, or a
// field map with the summary in message.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{Method: method, Path: path, Status: status, Body: body}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		apiErr.Message = truncate(strings.TrimSpace(string(body)), maxRawMessage)
		return apiErr
	}

	var errText string
	if len(eb.Error) > 0 {
		if err := json.Unmarshal(eb.Error, &errText); err != nil {
			var fields map[string]string
			if json.Unmarshal(eb.Error, &fields) == nil {
				apiErr.Fields = fields
			}
		}
	}
	apiErr.Message = eb.Message
	if apiErr.Message == "" {
		apiErr.Message = errText
	}
	return apiErr
}

// Message extracts what a view should show for err.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// maxRawMessage caps a non-JSON body kept as the error message, in bytes.
const maxRawMessage = 200

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
