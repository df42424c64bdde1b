package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ingeniuz/internal/client/audit"
)

// WhoAmI prints the persisted identity and, for JWT tokens, when it expires.
func (a *App) WhoAmI(ctx context.Context) error {
	id, err := a.session.CurrentIdentity(ctx)
	if err != nil {
		return a.report(err)
	}
	if id == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	a.userName = id.Username

	fmt.Fprintf(a.out, "%s <%s>\n", id.Username, id.Email)
	exp, ok, err := a.session.TokenExpiry(ctx)
	if err != nil {
		return a.report(err)
	}
	if ok {
		fmt.Fprintf(a.out, "Token expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}

// Logs prints the audit log in append order.
func (a *App) Logs(ctx context.Context) error {
	entries, err := a.logs.ReadAll(ctx)
	if err != nil {
		return a.report(err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No log entries.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(a.out, formatEntry(e))
	}
	return nil
}

func formatEntry(e audit.Entry) string {
	line := fmt.Sprintf("%s %-5s %s", e.Timestamp.Format(time.RFC3339), e.Level, e.Message)
	if e.UserID != "" {
		line += " user=" + e.UserID
	}
	switch c := e.Context.(type) {
	case audit.ActionContext:
		line += " action=" + c.Action
	case audit.FailureContext:
		line += fmt.Sprintf(" error=%q", c.Error)
	}
	return line
}
