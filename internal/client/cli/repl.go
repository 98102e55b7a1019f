package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App implements it;
// tests use a recording stub.
type execIface interface {
	isLoggedIn() bool
	refreshView(ctx context.Context)

	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Open(ctx context.Context, view string) error

	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

const (
	helpAnonymous = "Available commands: login, help, exit"
	helpLoggedIn  = "Available commands: open <board|users>, (l)ist, show <id>, add, edit <id>, delete <id>, whoami, logout, help, exit"
)

// runREPL reads commands from scanner and dispatches them to a until EOF or
// "exit"/"quit". Before each prompt the current view is re-checked, which
// is where a session torn down by the server sends the user to login.
//
//	Not logged in:
//	  - login            - authenticate
//	  - help             - show available commands
//	  - exit | quit      - leave the program
//
//	Logged in:
//	  - open <view>      - switch to the board or (admins) users view
//	  - list | l         - fetch and print the current view's records
//	  - show <id>        - print one record
//	  - add              - create a record in the current view
//	  - edit <id>        - change a record
//	  - delete <id>      - remove a record
//	  - whoami           - print the logged-in profile
//	  - logout           - end the session
//
// Handlers report their own failures; returned errors only end the command.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		a.refreshView(ctx)

		printlnFn(fmt.Sprintf("board %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open <board|users>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "l", "list":
			_ = a.List(ctx)

		case "add":
			_ = a.Add(ctx)

		case "show", "edit", "delete":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			switch cmd {
			case "show":
				_ = a.Show(ctx, args[0])
			case "edit":
				_ = a.Edit(ctx, args[0])
			case "delete":
				_ = a.Delete(ctx, args[0])
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
