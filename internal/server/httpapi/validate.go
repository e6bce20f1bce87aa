package httpapi

import (
	"errors"
	"fmt"
	"mime"
	"reflect"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/orgbook/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	minLimit = 5
	maxLimit = 100
)

// newValidator reports fields under their json or form names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// check runs struct validation and turns failures into a rejection.
func (s *HTTPServer) check(obj any) error {
	err := s.validate.Struct(obj)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var (
		fields []FieldError
		index  = map[string]int{}
	)
	for _, fe := range verrs {
		msg := describe(fe)
		if i, ok := index[fe.Field()]; ok {
			fields[i].Messages = append(fields[i].Messages, msg)
			continue
		}
		index[fe.Field()] = len(fields)
		fields = append(fields, FieldError{Field: fe.Field(), Messages: []string{msg}})
	}
	return validationError(fields...)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "eqfield":
		return "must match " + strings.ToLower(fe.Param())
	case "datetime":
		return "must be a date formatted as YYYY-MM-DD"
	}
	return "is invalid (" + fe.Tag() + ")"
}

func requireContentType(c *gin.Context, want string) error {
	mt, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if err != nil || mt != want {
		return parseError("content-type", "expected "+want)
	}
	return nil
}

// bindJSON checks the content type, decodes the body and validates it.
func (s *HTTPServer) bindJSON(c *gin.Context, obj any) error {
	if err := requireContentType(c, gin.MIMEJSON); err != nil {
		return err
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		return parseError("body", err.Error())
	}
	return s.check(obj)
}

// findParams reads search, sort_by and limit. sortField maps accepted
// sort_by keys to storage fields.
func (s *HTTPServer) findParams(c *gin.Context, sortField func(string) (string, bool)) (models.FindParams, error) {
	var p models.FindParams

	p.Search = strings.TrimSpace(c.Query("search"))

	if key := c.Query("sort_by"); key != "" {
		if _, ok := sortField(key); !ok {
			return p, validationError(FieldError{Field: "sort_by", Messages: []string{"is not a sortable field"}})
		}
		p.SortBy = key
	}

	if raw, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return p, parseError("limit", "must be an integer")
		}
		if err := s.validate.Var(n, fmt.Sprintf("min=%d,max=%d", minLimit, maxLimit)); err != nil {
			return p, validationError(FieldError{
				Field:    "limit",
				Messages: []string{fmt.Sprintf("must be between %d and %d", minLimit, maxLimit)},
			})
		}
		p.Limit = n
	}

	return p, nil
}
