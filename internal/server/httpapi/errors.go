package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/orgbook/internal/common"
	"github.com/gin-gonic/gin"
)

// Rejection is the body of every error response.
type Rejection struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

func rejection(message string, fields ...FieldError) Rejection {
	return Rejection{Success: false, Message: message, Errors: fields}
}

// requestError is a rejection decided by the HTTP layer itself.
type requestError struct {
	status int
	body   Rejection
}

func (e *requestError) Error() string {
	if len(e.body.Errors) == 0 {
		return e.body.Message
	}
	f := e.body.Errors[0]
	return fmt.Sprintf("%s: %s %v", e.body.Message, f.Field, f.Messages)
}

func parseError(field, message string) error {
	return &requestError{
		status: http.StatusBadRequest,
		body:   rejection("Parsing errors", FieldError{Field: field, Messages: []string{message}}),
	}
}

func validationError(fields ...FieldError) error {
	return &requestError{status: http.StatusBadRequest, body: rejection("Validation errors", fields...)}
}

func tooLarge(limit int64) error {
	return &requestError{
		status: http.StatusRequestEntityTooLarge,
		body:   rejection(fmt.Sprintf("Request body exceeds %d bytes", limit)),
	}
}

// fail writes the rejection matching err and aborts the chain.
func (s *HTTPServer) fail(c *gin.Context, err error) {
	var re *requestError
	switch {
	case errors.As(err, &re):
		c.AbortWithStatusJSON(re.status, re.body)
	case errors.Is(err, common.ErrorNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, rejection("Not found"))
	case errors.Is(err, common.ErrorValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, rejection("Validation errors",
			FieldError{Field: "", Messages: []string{err.Error()}}))
	case errors.Is(err, common.ErrorAlreadyExists):
		c.AbortWithStatusJSON(http.StatusConflict, rejection("Already exists"))
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		c.AbortWithStatusJSON(http.StatusUnauthorized, rejection("Unauthorized"))
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, rejection("Internal server error"))
	}
}
