package errors

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
)

// APIError represents a non-2xx response from the BillKit API.
// ResponseBody holds the raw response bytes; JSONBody decodes them
// when the server returned JSON.
type APIError struct {
	*InternalError
	StatusCode   int
	ResponseBody []byte
}

func (e *APIError) Unwrap() error {
	return e.InternalError.Unwrap()
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d", e.InternalError.Error(), e.StatusCode)
}

// JSONBody returns the response body decoded as JSON, or nil if the
// body is empty or not valid JSON.
func (e *APIError) JSONBody() map[string]any {
	if len(e.ResponseBody) == 0 {
		return nil
	}
	var body map[string]any
	if err := json.Unmarshal(e.ResponseBody, &body); err != nil {
		return nil
	}
	return body
}

// NewAPIError creates a new API error for a non-2xx status code
func NewAPIError(statusCode int, responseBody []byte) *APIError {
	return &APIError{
		InternalError: newInternalError(ErrCodeHTTPClient, "api returned error"),
		StatusCode:    statusCode,
		ResponseBody:  responseBody,
	}
}

// AsAPIError checks if an error is an API error
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if goerrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
