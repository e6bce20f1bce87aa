package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/orgbook/internal/client/api"
	"github.com/dmitrijs2005/orgbook/internal/common"
)

func (a *App) ListUsers(ctx context.Context, search string) error {
	us, err := a.client.Users(ctx, search)
	if err != nil {
		return err
	}
	if len(us) == 0 {
		fmt.Fprintln(a.out, "No users")
		return nil
	}
	for i := range us {
		printUserLine(a.out, &us[i])
	}
	return nil
}

func (a *App) ShowUser(ctx context.Context, id string) error {
	u, err := a.client.User(ctx, id)
	if err != nil {
		return err
	}
	printUser(a.out, u)
	return nil
}

// AddUser registers a user. The password is asked twice and must match.
func (a *App) AddUser(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirmation, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	if string(password) != string(confirmation) {
		return fmt.Errorf("passwords do not match")
	}

	avatar, err := getSimpleText(a.reader, "Enter path to avatar image", a.out)
	if err != nil {
		return err
	}

	u, err := a.client.CreateUser(ctx, api.NewUser{
		Name:       name,
		Email:      email,
		Password:   string(password),
		AvatarPath: avatar,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "User added")
	printUser(a.out, u)
	return nil
}

func (a *App) ChangeAvatar(ctx context.Context, id, path string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	u, err := a.client.UpdateUserAvatar(ctx, id, path)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Avatar updated")
	printUser(a.out, u)
	return nil
}
