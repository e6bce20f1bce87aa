package api

import "time"

// Company mirrors the server's company representation.
type Company struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Since     string     `json:"since"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// User mirrors the server's user representation. Avatar is the stored
// object name.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Avatar    string     `json:"avatar"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Delete modes accepted by the server.
const (
	ModeErase   = "erase"
	ModeTrash   = "trash"
	ModeRestore = "restore"
)

type deleteRequest struct {
	Mode string `json:"mode"`
}
