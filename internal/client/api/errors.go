package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/orgbook/internal/common"
	"github.com/dmitrijs2005/orgbook/internal/uclient"
)

// FieldError lists the messages reported for one request field.
type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

// Error is a non-2xx reply from the server.
type Error struct {
	StatusCode int          `json:"-"`
	Message    string       `json:"message"`
	Fields     []FieldError `json:"errors"`
}

func newError(resp *uclient.Response) *Error {
	e := &Error{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(resp.Body, e); err != nil || e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", e.StatusCode, e.Message)
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "; %s %s", f.Field, strings.Join(f.Messages, ", "))
	}
	return b.String()
}

// Unwrap maps the status onto the shared sentinel errors so callers can use
// errors.Is(err, common.ErrorNotFound) and friends.
func (e *Error) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return common.ErrorValidation
	default:
		return common.ErrorInternal
	}
}
