package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// StatusNetwork is the APIError status used when no response was received
const StatusNetwork = 0

// APIError is a failed backend call, carrying the message to show the user
type APIError struct {
	Status  int
	Message string
	// Detail is the backend's own explanation, when it sent one
	Detail string
	Err    error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Detail)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// MessageFor maps a response status to a user-facing message. The
// StatusNetwork key covers transport failures.
type MessageFor map[int]string

var defaultMessages = MessageFor{
	StatusNetwork:                  "Network error occurred, please check your connection.",
	http.StatusBadRequest:          "The request was malformed.",
	http.StatusUnauthorized:        "Authentication required. Please log in.",
	http.StatusForbidden:           "You do not have permission to perform this action.",
	http.StatusNotFound:            "The requested resource was not found.",
	http.StatusConflict:            "The resource has been modified, please try again.",
	http.StatusInternalServerError: "Server error occurred.",
}

func (m MessageFor) message(status int) string {
	if msg, ok := m[status]; ok {
		return msg
	}
	if msg, ok := defaultMessages[status]; ok {
		return msg
	}
	if status >= http.StatusInternalServerError {
		return defaultMessages[http.StatusInternalServerError]
	}
	return fmt.Sprintf("unexpected response (status code = %d)", status)
}

func networkError(messages MessageFor, err error) *APIError {
	return &APIError{Status: StatusNetwork, Message: messages.message(StatusNetwork), Err: err}
}

func statusError(messages MessageFor, status int, body []byte) *APIError {
	return &APIError{Status: status, Message: messages.message(status), Detail: errorDetail(body)}
}

// errorDetail pulls the explanation out of a backend error body, which is
// either {"error": "..."}, {"message": "..."} or plain text.
func errorDetail(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}
