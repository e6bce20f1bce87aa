// Package models defines the server-side records shared by repositories,
// services and the HTTP layer.
package models

import "time"

// DateLayout is the wire and storage format of calendar dates such as
// Company.Since.
const DateLayout = "2006-01-02"

type Company struct {
	ID        string
	Name      string
	Since     time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// CompanyUpdate carries a partial update; nil fields are left unchanged.
type CompanyUpdate struct {
	Name  *string
	Since *time.Time
}

// Empty reports whether the update changes nothing.
func (u CompanyUpdate) Empty() bool {
	return u.Name == nil && u.Since == nil
}
