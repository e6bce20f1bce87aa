package api

import (
	"context"
	"net/http"
	"net/url"
)

type companyCreateRequest struct {
	Name  string `json:"name"`
	Since string `json:"since"`
}

// CompanyChanges carries the fields to update; nil fields are left alone.
type CompanyChanges struct {
	Name  *string `json:"name,omitempty"`
	Since *string `json:"since,omitempty"`
}

// Companies lists companies whose name matches search.
func (c *Client) Companies(ctx context.Context, search string) ([]Company, error) {
	var out []Company
	if err := c.send(ctx, http.MethodGet, "/companies", findQuery(search), nil, nil, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Company(ctx context.Context, id string) (*Company, error) {
	var out Company
	if err := c.send(ctx, http.MethodGet, "/companies/"+url.PathEscape(id), nil, nil, nil, 0, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCompany adds a company; since is formatted as YYYY-MM-DD.
func (c *Client) CreateCompany(ctx context.Context, name, since string) (*Company, error) {
	var out Company
	if err := c.sendJSON(ctx, http.MethodPost, "/companies", companyCreateRequest{Name: name, Since: since}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCompany(ctx context.Context, id string, ch CompanyChanges) (*Company, error) {
	var out Company
	if err := c.sendJSON(ctx, http.MethodPatch, "/companies/"+url.PathEscape(id), ch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCompany applies mode to the company. Erase returns a nil company.
func (c *Client) DeleteCompany(ctx context.Context, id, mode string) (*Company, error) {
	var out Company
	if err := c.sendJSON(ctx, http.MethodDelete, "/companies/"+url.PathEscape(id), deleteRequest{Mode: mode}, &out); err != nil {
		return nil, err
	}
	if mode == ModeErase {
		return nil, nil
	}
	return &out, nil
}
