// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"lostpaws_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the inner object of the standard error envelope.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Data sends a response with the payload wrapped in the data envelope.
func Data(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, gin.H{"data": payload})
}

// OK sends a 200 OK response with the payload wrapped in the data envelope.
func OK(c *gin.Context, payload interface{}) {
	Data(c, http.StatusOK, payload)
}

// Created sends a 201 Created response with the payload wrapped in the data envelope.
func Created(c *gin.Context, payload interface{}) {
	Data(c, http.StatusCreated, payload)
}

// NoContent sends a 204 No Content response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code, API code and message.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message, Details: details}})
}

// HandleError maps domain errors to HTTP responses.
// Typed *apperr.Error values map to their Kind's status and API code.
// Anything else surfaces as a generic 500 with no internal detail leaked.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := err.(*apperr.Error); ok {
		Error(c, domainErr.HTTPStatus(), domainErr.Code(), domainErr.Message, domainErr.Details)
		return true
	}

	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
	return true
}
