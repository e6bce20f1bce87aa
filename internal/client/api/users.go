package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/orgbook/internal/uclient/form"
)

// NewUser is the input of CreateUser. AvatarPath names an image on disk;
// it is streamed, never loaded into memory.
type NewUser struct {
	Name       string
	Email      string
	Password   string
	AvatarPath string
}

func (c *Client) Users(ctx context.Context, search string) ([]User, error) {
	var out []User
	if err := c.send(ctx, http.MethodGet, "/users", findQuery(search), nil, nil, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) User(ctx context.Context, id string) (*User, error) {
	var out User
	if err := c.send(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, nil, nil, 0, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser registers a user. No login is needed.
func (c *Client) CreateUser(ctx context.Context, u NewUser) (*User, error) {
	var d form.FormData
	d.AddField("name", u.Name)
	d.AddField("email", u.Email)
	d.AddField("password", u.Password)
	d.AddField("password_confirmation", u.Password)
	d.AddFile("avatar", u.AvatarPath, nil)

	var out User
	if err := c.sendForm(ctx, http.MethodPost, "/users", &d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUserAvatar replaces the avatar of user id with the image at path.
func (c *Client) UpdateUserAvatar(ctx context.Context, id, path string) (*User, error) {
	var d form.FormData
	d.AddFile("avatar", path, nil)

	var out User
	if err := c.sendForm(ctx, http.MethodPatch, "/users/"+url.PathEscape(id), &d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser applies mode to the user. Erase returns a nil user.
func (c *Client) DeleteUser(ctx context.Context, id, mode string) (*User, error) {
	var out User
	if err := c.sendJSON(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), deleteRequest{Mode: mode}, &out); err != nil {
		return nil, err
	}
	if mode == ModeErase {
		return nil, nil
	}
	return &out, nil
}

// sendForm streams d with its exact Content-Length.
func (c *Client) sendForm(ctx context.Context, method, path string, d *form.FormData, out any) error {
	fs, err := d.IntoFormStream()
	if err != nil {
		return err
	}
	defer fs.Reader.Close()

	header := http.Header{}
	header.Set("Content-Type", fs.ContentType())
	return c.send(ctx, method, path, nil, header, fs.Reader, fs.Count, out)
}
