package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	FirstLogin(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Logs(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the InGeniuZ CLI.
//
// It reads a line from reader, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help:           show available commands
//	  - register:       create an account
//	  - login:          password, then email and SMS codes
//	  - logs:           show the audit log
//	  - exit | quit:    leave the program
//
//	Logged in:
//	  - help:           show available commands
//	  - whoami:         show the current identity
//	  - firstlogin:     ask the provider whether this is the first login
//	  - logs:           show the audit log
//	  - logout:         log out
//	  - exit | quit:    leave the program
//
// Errors returned by command handlers are ignored here; handlers print
// their own errors. Commands prompt on the same reader, so it must be the
// only buffered reader over the input.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ingeniuz %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn("Available commands: whoami, firstlogin, logs, logout, exit")
			} else {
				printlnFn("Available commands: register, login, logs, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "firstlogin":
			_ = a.FirstLogin(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "logs":
			_ = a.Logs(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
