package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/orgbook/internal/server/models"
	"github.com/dmitrijs2005/orgbook/internal/server/repositories/companies"
	"github.com/gin-gonic/gin"
)

type companyCreateRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Since string `json:"since" validate:"required,datetime=2006-01-02"`
}

type companyUpdateRequest struct {
	Name  *string `json:"name" validate:"omitnil,min=1,max=255"`
	Since *string `json:"since" validate:"omitnil,datetime=2006-01-02"`
}

type deleteRequest struct {
	Mode string `json:"mode" validate:"required,oneof=erase trash restore"`
}

func (s *HTTPServer) findCompanies(c *gin.Context) {
	p, err := s.findParams(c, companies.SortField)
	if err != nil {
		s.fail(c, err)
		return
	}
	result, err := s.companies.Find(c.Request.Context(), p)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newCompanyResponses(result))
}

func (s *HTTPServer) getCompany(c *gin.Context) {
	result, err := s.companies.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newCompanyResponse(result))
}

func (s *HTTPServer) createCompany(c *gin.Context) {
	var req companyCreateRequest
	if err := s.bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	since, _ := time.Parse(models.DateLayout, req.Since)

	result, err := s.companies.Create(c.Request.Context(), req.Name, since)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCompanyResponse(result))
}

func (s *HTTPServer) updateCompany(c *gin.Context) {
	var req companyUpdateRequest
	if err := s.bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	upd := models.CompanyUpdate{Name: req.Name}
	if req.Since != nil {
		since, _ := time.Parse(models.DateLayout, *req.Since)
		upd.Since = &since
	}

	result, err := s.companies.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newCompanyResponse(result))
}

func (s *HTTPServer) deleteCompany(c *gin.Context) {
	var req deleteRequest
	if err := s.bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	result, err := s.companies.Delete(c.Request.Context(), c.Param("id"), models.DeleteMode(req.Mode))
	if err != nil {
		s.fail(c, err)
		return
	}
	if result == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, newCompanyResponse(result))
}
