package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Unlock(ctx context.Context) error
	Logout(ctx context.Context) error
	SignOutAll(ctx context.Context) error

	Folders(ctx context.Context) error
	AddFolder(ctx context.Context, args []string) error
	EditFolder(ctx context.Context, args []string) error
	DeleteFolder(ctx context.Context, args []string) error

	Videos(ctx context.Context, args []string) error
	AddVideo(ctx context.Context, args []string) error
	ShowVideo(ctx context.Context, args []string) error
	EditVideo(ctx context.Context, args []string) error
	DeleteVideo(ctx context.Context, args []string) error

	Reminders(ctx context.Context, args []string) error
	AddReminder(ctx context.Context, args []string) error
	ToggleReminder(ctx context.Context, args []string) error
	DeleteReminder(ctx context.Context, args []string) error

	Open(ctx context.Context, args []string) error
	Paste(ctx context.Context) error
	Sync(ctx context.Context) error
	Export(ctx context.Context) error

	alert(err error)
}

const (
	guestHelp = "Available commands: register, login, unlock, open <link>, paste, exit"
	userHelp  = "Available commands:\n" +
		"  folders | mkfolder [name] | editfolder <n> | rmfolder <n>\n" +
		"  videos [-p youtube,tiktok] [-min 1] [-max 5] [-sort newest|oldest|importance] [folder]\n" +
		"  add [url] | show <n> | edit <n> | rm <n>\n" +
		"  reminders [n] | remind [n] | toggle <n> | rmreminder <n>\n" +
		"  open <link> | paste | sync | export | logout | signout | exit"
)

// runREPL starts a simple read–eval–print loop for the BiblioTube CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Library commands require a signed-in user. Errors returned by handlers are
// shown with a.alert and never stop the loop. The loop exits on EOF or when
// the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("bt> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		report := func(err error) {
			if err != nil {
				a.alert(err)
			}
		}
		member := func(fn func() error) {
			if !a.isLoggedIn() {
				printlnFn("Please log in first.")
				return
			}
			report(fn())
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(userHelp)
			} else {
				printlnFn(guestHelp)
			}

		case "register":
			report(a.Register(ctx))

		case "login":
			report(a.Login(ctx))

		case "unlock":
			report(a.Unlock(ctx))

		case "open":
			report(a.Open(ctx, args))

		case "paste":
			report(a.Paste(ctx))

		case "logout":
			member(func() error { return a.Logout(ctx) })

		case "signout":
			report(a.SignOutAll(ctx))

		case "folders":
			member(func() error { return a.Folders(ctx) })

		case "mkfolder":
			member(func() error { return a.AddFolder(ctx, args) })

		case "editfolder":
			member(func() error { return a.EditFolder(ctx, args) })

		case "rmfolder":
			member(func() error { return a.DeleteFolder(ctx, args) })

		case "l", "videos":
			member(func() error { return a.Videos(ctx, args) })

		case "add":
			member(func() error { return a.AddVideo(ctx, args) })

		case "show":
			member(func() error { return a.ShowVideo(ctx, args) })

		case "edit":
			member(func() error { return a.EditVideo(ctx, args) })

		case "rm":
			member(func() error { return a.DeleteVideo(ctx, args) })

		case "reminders":
			member(func() error { return a.Reminders(ctx, args) })

		case "remind":
			member(func() error { return a.AddReminder(ctx, args) })

		case "toggle":
			member(func() error { return a.ToggleReminder(ctx, args) })

		case "rmreminder":
			member(func() error { return a.DeleteReminder(ctx, args) })

		case "sync":
			member(func() error { return a.Sync(ctx) })

		case "export":
			member(func() error { return a.Export(ctx) })

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
