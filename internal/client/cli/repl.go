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
	isLoggedIn() bool
	Login(ctx context.Context) error
	Import(ctx context.Context) error
	Forget(ctx context.Context) error
	List(ctx context.Context) error
	SetFilter(ctx context.Context, name string) error
	New(ctx context.Context, args []string) error
	Publish(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	Export(ctx context.Context, id, dir string) error
	Status(ctx context.Context) error
}

// runREPL reads commands line by line and dispatches them to a. The loop
// exits on scanner EOF, on ctx cancellation, or when the user types "exit"
// or "quit".
//
//	Locked:
//	  - login            : unlock the identity key (or create one)
//	  - import           : store an existing key
//	  - forget           : remove the stored key
//	  - status, help, exit
//
//	Unlocked:
//	  - (l)ist           : show the current list
//	  - filter NAME      : active | drafts | archived
//	  - new [pair=A,B] IMAGE...
//	  - publish ID, archive ID, delete ID
//	  - remove ID        : delete if the network has it, archive otherwise
//	  - export ID [DIR]  : write images in story order
//	  - status, help, exit
//
// Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("fk %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, filter, new, publish, archive, delete, remove, export, status, exit")
			} else {
				printlnFn("Available commands: login, import, forget, status, exit")
			}

		case "login":
			err = a.Login(ctx)

		case "import":
			err = a.Import(ctx)

		case "forget":
			if a.isLoggedIn() {
				printlnFn("Restart the client to forget the unlocked key")
				continue
			}
			err = a.Forget(ctx)

		case "status":
			err = a.Status(ctx)

		case "l", "list":
			err = a.List(ctx)

		case "filter":
			if len(args) != 1 {
				printlnFn("Usage: filter active|drafts|archived")
				continue
			}
			err = a.SetFilter(ctx, args[0])

		case "new":
			err = a.New(ctx, args)

		case "publish", "archive", "delete", "remove":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			err = itemCommand(ctx, a, cmd, args[0])

		case "export":
			if len(args) < 1 || len(args) > 2 {
				printlnFn("Usage: export <id> [dir]")
				continue
			}
			dir := ""
			if len(args) == 2 {
				dir = args[1]
			}
			err = a.Export(ctx, args[0], dir)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

func itemCommand(ctx context.Context, a execIface, cmd, id string) error {
	switch cmd {
	case "publish":
		return a.Publish(ctx, id)
	case "archive":
		return a.Archive(ctx, id)
	case "delete":
		return a.Delete(ctx, id)
	default:
		return a.Remove(ctx, id)
	}
}
