package httpapi

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/orgbook/internal/server/models"
	"github.com/dmitrijs2005/orgbook/internal/server/repositories/users"
	"github.com/dmitrijs2005/orgbook/internal/server/services"
	"github.com/gin-gonic/gin"
)

const avatarField = "avatar"

type userCreateForm struct {
	Name                 string `form:"name" validate:"required,max=255"`
	Email                string `form:"email" validate:"required,email,max=255"`
	Password             string `form:"password" validate:"required,min=6,max=72"`
	PasswordConfirmation string `form:"password_confirmation" validate:"required,eqfield=Password"`
}

type userUpdateForm struct {
	Name                 *string `form:"name" validate:"omitnil,min=1,max=255"`
	Email                *string `form:"email" validate:"omitnil,email,max=255"`
	Password             *string `form:"password" validate:"omitnil,min=6,max=72"`
	PasswordConfirmation *string `form:"password_confirmation"`
}

func (s *HTTPServer) findUsers(c *gin.Context) {
	p, err := s.findParams(c, users.SortField)
	if err != nil {
		s.fail(c, err)
		return
	}
	result, err := s.users.Find(c.Request.Context(), p)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponses(result))
}

func (s *HTTPServer) getUser(c *gin.Context) {
	result, err := s.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(result))
}

func (s *HTTPServer) createUser(c *gin.Context) {
	form, err := s.multipartForm(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	defer func() { _ = form.RemoveAll() }()

	req := userCreateForm{
		Name:                 formValue(form, "name"),
		Email:                formValue(form, "email"),
		Password:             formValue(form, "password"),
		PasswordConfirmation: formValue(form, "password_confirmation"),
	}
	if err := s.check(&req); err != nil {
		s.fail(c, err)
		return
	}

	fh, err := avatarFile(form, true)
	if err != nil {
		s.fail(c, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer f.Close()

	result, err := s.users.Create(c.Request.Context(), services.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   newAvatar(fh, f),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newUserResponse(result))
}

func (s *HTTPServer) updateUser(c *gin.Context) {
	form, err := s.multipartForm(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	defer func() { _ = form.RemoveAll() }()

	req := userUpdateForm{
		Name:                 optionalFormValue(form, "name"),
		Email:                optionalFormValue(form, "email"),
		Password:             optionalFormValue(form, "password"),
		PasswordConfirmation: optionalFormValue(form, "password_confirmation"),
	}
	if err := s.check(&req); err != nil {
		s.fail(c, err)
		return
	}
	if req.Password != nil && (req.PasswordConfirmation == nil || *req.PasswordConfirmation != *req.Password) {
		s.fail(c, validationError(FieldError{
			Field:    "password_confirmation",
			Messages: []string{"must match password"},
		}))
		return
	}

	ch := services.UserChanges{Name: req.Name, Email: req.Email, Password: req.Password}

	fh, err := avatarFile(form, false)
	if err != nil {
		s.fail(c, err)
		return
	}
	if fh != nil {
		f, err := fh.Open()
		if err != nil {
			s.fail(c, err)
			return
		}
		defer f.Close()
		a := newAvatar(fh, f)
		ch.Avatar = &a
	}

	result, err := s.users.Update(c.Request.Context(), c.Param("id"), ch)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(result))
}

func (s *HTTPServer) deleteUser(c *gin.Context) {
	var req deleteRequest
	if err := s.bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	result, err := s.users.Delete(c.Request.Context(), c.Param("id"), models.DeleteMode(req.Mode))
	if err != nil {
		s.fail(c, err)
		return
	}
	if result == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(result))
}

// multipartForm enforces the content type and the upload size limit before
// parsing the body.
func (s *HTTPServer) multipartForm(c *gin.Context) (*multipart.Form, error) {
	if err := requireContentType(c, gin.MIMEMultipartPOSTForm); err != nil {
		return nil, err
	}
	if c.Request.ContentLength > s.maxUploadSize {
		return nil, tooLarge(s.maxUploadSize)
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadSize)

	form, err := c.MultipartForm()
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, tooLarge(s.maxUploadSize)
		}
		return nil, parseError("body", err.Error())
	}
	return form, nil
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func optionalFormValue(form *multipart.Form, key string) *string {
	v, ok := form.Value[key]
	if !ok || len(v) == 0 {
		return nil
	}
	return &v[0]
}

// avatarFile returns the uploaded avatar, or nil when it is optional and
// absent. Only image/* uploads are accepted.
func avatarFile(form *multipart.Form, required bool) (*multipart.FileHeader, error) {
	files := form.File[avatarField]
	if len(files) == 0 {
		if required {
			return nil, validationError(FieldError{Field: avatarField, Messages: []string{"is required"}})
		}
		return nil, nil
	}
	fh := files[0]
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return nil, validationError(FieldError{Field: avatarField, Messages: []string{"must be an image"}})
	}
	return fh, nil
}

func newAvatar(fh *multipart.FileHeader, f multipart.File) services.Avatar {
	return services.Avatar{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}
}
