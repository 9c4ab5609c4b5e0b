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

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	List(ctx context.Context) error
	Locate(ctx context.Context) error
	Zoom(ctx context.Context, delta int) error
	Pan(ctx context.Context, args []string) error
	Click(ctx context.Context, args []string) error
	Set(ctx context.Context, args []string) error
	Fill(ctx context.Context) error
	ToggleOwner(ctx context.Context) error
	SubmitOwner(ctx context.Context) error
	Submit(ctx context.Context) error
	Cancel(ctx context.Context) error
	View(ctx context.Context) error
}

const (
	guestHelp = "Available commands: register, login, (l)ist, locate, zoomin (+), zoomout (-), pan, view, exit"
	userHelp  = "Available commands: (l)ist, locate, zoomin (+), zoomout (-), pan, click, set, fill, owner, " +
		"owner-submit, submit, cancel, view, logout, delete-account, exit"
)

// runREPL starts a simple read-eval-print loop for the placemark client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
//	Anyone:
//	  - help: show available commands
//	  - register | login: account management
//	  - l | list: fetch and show locations
//	  - locate: centre the map on the device position
//	  - zoomin | + / zoomout | -: change the zoom level
//	  - pan <lat> <lng>: move the map
//	  - view: show the map state and the open draft
//	  - exit | quit: leave the program
//
//	Signed in:
//	  - click <lat> <lng> | click px <x> <y>: start a location draft
//	  - set <field> <value>: fill one draft field
//	  - fill: fill several fields as name=value lines
//	  - owner / owner-submit: show the owner section / send it on its own
//	  - submit / cancel: create the location / discard the draft
//	  - logout / delete-account
//
// Handler errors are already shown to the user by the handler itself; the
// loop only keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func(context.Context) string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("placemark %s > ", statusFn(ctx)))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(userHelp)
			} else {
				printlnFn(guestHelp)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "delete-account":
			_ = a.DeleteAccount(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "locate":
			_ = a.Locate(ctx)

		case "zoomin", "+":
			_ = a.Zoom(ctx, 1)

		case "zoomout", "-":
			_ = a.Zoom(ctx, -1)

		case "pan":
			_ = a.Pan(ctx, args)

		case "click":
			_ = a.Click(ctx, args)

		case "set":
			_ = a.Set(ctx, args)

		case "fill":
			_ = a.Fill(ctx)

		case "owner":
			_ = a.ToggleOwner(ctx)

		case "owner-submit":
			_ = a.SubmitOwner(ctx)

		case "submit":
			_ = a.Submit(ctx)

		case "cancel":
			_ = a.Cancel(ctx)

		case "view":
			_ = a.View(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
