// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/katalvlaran/ctmc/reliability"
)

// APIError is the JSON error body of the /api/v1 routes.
type APIError struct {
	Code       int               `json:"code"`
	Message    string            `json:"message"`
	Details    string            `json:"details,omitempty"`
	Param      string            `json:"param,omitempty"`
	FieldError map[string]string `json:"field_errors,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// NewAPIError creates a new API error.
func NewAPIError(code int, message, details string) *APIError {
	return &APIError{Code: code, Message: message, Details: details}
}

func BadRequestError(message, details string) *APIError {
	return NewAPIError(http.StatusBadRequest, message, details)
}

func ValidationError(message string, fieldErrors map[string]string) *APIError {
	return &APIError{Code: http.StatusBadRequest, Message: message, FieldError: fieldErrors}
}

// FromEngine maps an engine or context error to its HTTP form:
// invalid input 400, resource exhaustion 413, numerical failure 422,
// deadline 504, cancellation 503. Internal engine errors and anything
// unknown are 500.
func FromEngine(err error) *APIError {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae
	}

	out := &APIError{Code: http.StatusInternalServerError, Message: "Internal server error", Details: err.Error()}
	var re *reliability.Error
	if errors.As(err, &re) {
		out.Param = re.Param
	}
	switch {
	case errors.Is(err, reliability.ErrInvalidInput):
		out.Code, out.Message = http.StatusBadRequest, "Invalid input"
	case errors.Is(err, reliability.ErrResourceExhaustion):
		out.Code, out.Message = http.StatusRequestEntityTooLarge, "Resource limit exceeded"
	case errors.Is(err, reliability.ErrNumericalFailure):
		out.Code, out.Message = http.StatusUnprocessableEntity, "Numerical failure"
	case errors.Is(err, context.DeadlineExceeded):
		out.Code, out.Message = http.StatusGatewayTimeout, "Solve timed out"
	case errors.Is(err, context.Canceled):
		out.Code, out.Message = http.StatusServiceUnavailable, "Solve canceled"
	}

	return out
}

// HTTPErrorHandler renders every error returned by a handler as APIError.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	if he, ok := err.(*echo.HTTPError); ok {
		apiErr = &APIError{
			Code:    he.Code,
			Message: getHTTPMessage(he.Code),
			Details: fmt.Sprintf("%v", he.Message),
		}
	} else {
		apiErr = FromEngine(err)
	}

	// internal details stay in the log unless debugging
	if apiErr.Code == http.StatusInternalServerError && !c.Echo().Debug {
		apiErr.Details = "An internal error occurred. Please try again later."
	}

	if err := c.JSON(apiErr.Code, apiErr); err != nil {
		c.Logger().Error(err)
	}
}

func getHTTPMessage(code int) string {
	messages := map[int]string{
		http.StatusBadRequest:            "Bad request",
		http.StatusNotFound:              "Resource not found",
		http.StatusMethodNotAllowed:      "Method not allowed",
		http.StatusRequestEntityTooLarge: "Request too large",
		http.StatusUnsupportedMediaType:  "Unsupported media type",
		http.StatusTooManyRequests:       "Too many requests",
		http.StatusInternalServerError:   "Internal server error",
		http.StatusServiceUnavailable:    "Service unavailable",
	}
	if msg, ok := messages[code]; ok {
		return msg
	}

	return http.StatusText(code)
}
