package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.userName)
}

// Root restores the persisted session, if any, and runs the REPL until the
// user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintf(a.out, "Welcome to %s CLI (type 'help' for commands)\n", a.config.AppName)

	if id, err := a.session.CurrentIdentity(ctx); err != nil {
		a.log.Warn(ctx, "reading session failed", "error", err)
	} else if id != nil {
		a.userName = id.Username
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
