package api

import (
	"fmt"
	"net/http"
)

// APIError is an error the proxy reports to its caller with Status as the
// HTTP status and Message as the body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

var (
	ErrMissingAPIKey = &APIError{Status: http.StatusInternalServerError, Message: "API key is not set"}
	ErrNoShops       = &APIError{Status: http.StatusNotFound, Message: "No shops found"}
)

func upstreamError(code int) *APIError {
	return &APIError{
		Status:  code,
		Message: "API request failed: " + http.StatusText(code),
	}
}
