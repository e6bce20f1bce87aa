package httpapi

import (
	"time"

	"github.com/dmitrijs2005/orgbook/internal/server/models"
)

type companyResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Since     string     `json:"since"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

func newCompanyResponse(c *models.Company) companyResponse {
	return companyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Since:     c.Since.Format(models.DateLayout),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		DeletedAt: c.DeletedAt,
	}
}

func newCompanyResponses(cs []*models.Company) []companyResponse {
	out := make([]companyResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, newCompanyResponse(c))
	}
	return out
}

// userResponse never carries the password hash.
type userResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Avatar    string     `json:"avatar"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: u.DeletedAt,
	}
}

func newUserResponses(us []*models.User) []userResponse {
	out := make([]userResponse, 0, len(us))
	for _, u := range us {
		out = append(out, newUserResponse(u))
	}
	return out
}

type tokenResponse struct {
	Token string `json:"token"`
}
