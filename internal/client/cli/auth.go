package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/orgbook/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for email and password and exchanges them for an access
// token. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Login(ctx, email, string(password)); err != nil {
		return fmt.Errorf("login unsuccessful: %w", err)
	}

	a.userName = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout forgets the access token.
func (a *App) Logout(_ context.Context) error {
	a.client.SetToken("")
	a.userName = ""
	return nil
}

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return fmt.Errorf("%w: run 'login' first", common.ErrorUnauthorized)
	}
	return nil
}
