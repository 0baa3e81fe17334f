package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	var parts []string
	if epoch, ok := a.host.Epoch(); ok {
		parts = append(parts, fmt.Sprintf("epoch %d", epoch.Epoch))
	}
	if !a.isLoggedIn() {
		parts = append(parts, "locked")
	}
	if mode := a.mode(); mode != "" {
		parts = append(parts, string(mode))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Root greets the user, offers to unlock the key and runs the REPL.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to flipkeeper CLI (type 'help' for commands)")

	if err := a.Login(ctx); err != nil {
		printlnFn("Error:", err)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}
