package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/orgbook/internal/client/api"
)

const timeLayout = "2006-01-02 15:04:05"

func trashedMark(deletedAt *time.Time) string {
	if deletedAt == nil {
		return ""
	}
	return " [trashed]"
}

func printCompanyLine(w io.Writer, c *api.Company) {
	fmt.Fprintf(w, "%s  %s (since %s)%s\n", c.ID, c.Name, c.Since, trashedMark(c.DeletedAt))
}

func printUserLine(w io.Writer, u *api.User) {
	fmt.Fprintf(w, "%s  %s <%s>%s\n", u.ID, u.Name, u.Email, trashedMark(u.DeletedAt))
}

func printCompany(w io.Writer, c *api.Company) {
	fmt.Fprintf(w, "ID:      %s\n", c.ID)
	fmt.Fprintf(w, "Name:    %s\n", c.Name)
	fmt.Fprintf(w, "Since:   %s\n", c.Since)
	printTimestamps(w, c.CreatedAt, c.UpdatedAt, c.DeletedAt)
}

func printUser(w io.Writer, u *api.User) {
	fmt.Fprintf(w, "ID:      %s\n", u.ID)
	fmt.Fprintf(w, "Name:    %s\n", u.Name)
	fmt.Fprintf(w, "Email:   %s\n", u.Email)
	fmt.Fprintf(w, "Avatar:  %s\n", u.Avatar)
	printTimestamps(w, u.CreatedAt, u.UpdatedAt, u.DeletedAt)
}

func printTimestamps(w io.Writer, created, updated time.Time, deleted *time.Time) {
	fmt.Fprintf(w, "Created: %s\n", created.Local().Format(timeLayout))
	fmt.Fprintf(w, "Updated: %s\n", updated.Local().Format(timeLayout))
	if deleted != nil {
		fmt.Fprintf(w, "Trashed: %s\n", deleted.Local().Format(timeLayout))
	}
}
