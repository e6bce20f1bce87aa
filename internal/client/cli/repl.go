package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/orgbook/internal/client/api"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ListCompanies(ctx context.Context, search string) error
	ShowCompany(ctx context.Context, id string) error
	AddCompany(ctx context.Context) error
	ListUsers(ctx context.Context, search string) error
	ShowUser(ctx context.Context, id string) error
	AddUser(ctx context.Context) error
	ChangeAvatar(ctx context.Context, id, path string) error
	Delete(ctx context.Context, kind, id, mode string) error
}

const (
	helpGuest = "Available commands: companies [search], company <id>, users [search], user <id>, adduser, login, exit"
	helpUser  = "Available commands: companies [search], company <id>, addcompany, users [search], user <id>, adduser, " +
		"avatar <id> <path>, trash|restore|erase <companies|users> <id>, logout, exit"
)

// runREPL starts a read-eval-print loop for the orgbook CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Command errors are printed and the loop goes
// on. The loop exits on EOF or when the user types "exit" or "quit".
//
//	help                                      show available commands
//	login | logout                            authenticate / drop the token
//	companies [search]                        list companies
//	company <id>                              show one company
//	addcompany                                add a company (login required)
//	users [search]                            list users
//	user <id>                                 show one user
//	adduser                                   register a user with an avatar
//	avatar <id> <path>                        replace a user's avatar (login required)
//	trash|restore|erase <companies|users> <id>
//	exit | quit                               leave the program
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("orgbook%s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "companies":
			cmdErr = a.ListCompanies(ctx, strings.Join(args, " "))

		case "company":
			if len(args) != 1 {
				printlnFn("Usage: company <id>")
				continue
			}
			cmdErr = a.ShowCompany(ctx, args[0])

		case "addcompany":
			cmdErr = a.AddCompany(ctx)

		case "users":
			cmdErr = a.ListUsers(ctx, strings.Join(args, " "))

		case "user":
			if len(args) != 1 {
				printlnFn("Usage: user <id>")
				continue
			}
			cmdErr = a.ShowUser(ctx, args[0])

		case "adduser":
			cmdErr = a.AddUser(ctx)

		case "avatar":
			if len(args) != 2 {
				printlnFn("Usage: avatar <id> <path>")
				continue
			}
			cmdErr = a.ChangeAvatar(ctx, args[0], args[1])

		case api.ModeTrash, api.ModeRestore, api.ModeErase:
			if len(args) != 2 || (args[0] != kindCompanies && args[0] != kindUsers) {
				printlnFn(fmt.Sprintf("Usage: %s <companies|users> <id>", cmd))
				continue
			}
			cmdErr = a.Delete(ctx, args[0], args[1], cmd)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}

		if err != nil {
			return
		}
	}
}
