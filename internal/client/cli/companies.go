package cli

import (
	"context"
	"fmt"
	"time"
)

const (
	kindCompanies = "companies"
	kindUsers     = "users"
)

func (a *App) ListCompanies(ctx context.Context, search string) error {
	cs, err := a.client.Companies(ctx, search)
	if err != nil {
		return err
	}
	if len(cs) == 0 {
		fmt.Fprintln(a.out, "No companies")
		return nil
	}
	for i := range cs {
		printCompanyLine(a.out, &cs[i])
	}
	return nil
}

func (a *App) ShowCompany(ctx context.Context, id string) error {
	c, err := a.client.Company(ctx, id)
	if err != nil {
		return err
	}
	printCompany(a.out, c)
	return nil
}

// AddCompany prompts for name and founding date.
func (a *App) AddCompany(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter company name", a.out)
	if err != nil {
		return err
	}
	since, err := getSimpleText(a.reader, "Enter founding date (YYYY-MM-DD)", a.out)
	if err != nil {
		return err
	}
	if _, err := time.Parse("2006-01-02", since); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", since)
	}

	c, err := a.client.CreateCompany(ctx, name, since)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Company added")
	printCompany(a.out, c)
	return nil
}

// Delete trashes, restores or erases a company or user.
func (a *App) Delete(ctx context.Context, kind, id, mode string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	switch kind {
	case kindCompanies:
		c, err := a.client.DeleteCompany(ctx, id, mode)
		if err != nil {
			return err
		}
		if c != nil {
			printCompany(a.out, c)
		}
	case kindUsers:
		u, err := a.client.DeleteUser(ctx, id, mode)
		if err != nil {
			return err
		}
		if u != nil {
			printUser(a.out, u)
		}
	default:
		return fmt.Errorf("unknown record kind %q", kind)
	}

	fmt.Fprintf(a.out, "Done: %s %s\n", mode, id)
	return nil
}
