package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ingeniuz/internal/client/client"
)

// getRequiredText, getCode and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getRequiredText = GetRequiredText
	getCode         = GetCode
	getPassword     = GetPassword
)

// Register prompts for username, email and phone and creates the account.
func (a *App) Register(ctx context.Context) error {
	username, err := getRequiredText(a.reader, "Enter username", a.out)
	if err != nil {
		return a.report(err)
	}
	email, err := getRequiredText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.report(err)
	}
	phone, err := getRequiredText(a.reader, "Enter phone number", a.out)
	if err != nil {
		return a.report(err)
	}

	if err := a.authService.Register(ctx, username, email, phone); err != nil {
		return a.report(err)
	}

	fmt.Fprintln(a.out, "Success! You can log in now.")
	return nil
}

// Login runs the whole ceremony: password, then the email and SMS codes.
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getRequiredText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.report(err)
	}

	password, err := getPassword(a.out)
	if err != nil {
		return a.report(err)
	}
	defer clear(password)

	needs2FA, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, client.ErrSingleFactorLogin) {
			fmt.Fprintln(a.out, "The provider did not ask for verification codes, so no session was created.")
			return err
		}
		return a.report(err)
	}
	if !needs2FA {
		return nil
	}

	if a.codes != nil {
		if e, s, err := a.codes.Codes(email); err == nil {
			fmt.Fprintf(a.out, "[dev] email code: %s, sms code: %s\n", e, s)
		}
	}

	emailOtp, err := getCode(a.reader, "Enter the code sent to your email", a.out)
	if err != nil {
		a.authService.Reset()
		return a.report(err)
	}
	smsOtp, err := getCode(a.reader, "Enter the code sent to your phone", a.out)
	if err != nil {
		a.authService.Reset()
		return a.report(err)
	}

	id, err := a.authService.CompleteTwoFactor(ctx, email, emailOtp, smsOtp)
	if err != nil {
		return a.report(err)
	}

	a.userName = id.Username
	fmt.Fprintf(a.out, "Welcome, %s!\n", id.Username)

	if first, err := a.authService.IsFirstUser(ctx, email); err == nil && first {
		fmt.Fprintf(a.out, "Looks like this is your first login to %s. Questions? Write to %s.\n",
			a.config.AppName, a.config.SupportEmail)
	}
	return nil
}

// FirstLogin asks the provider whether the signed-in account is new.
func (a *App) FirstLogin(ctx context.Context) error {
	id, err := a.session.CurrentIdentity(ctx)
	if err != nil {
		return a.report(err)
	}
	if id == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	first, err := a.authService.IsFirstUser(ctx, id.Email)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "First login: %t\n", first)
	return nil
}

// Logout deletes the session token and keeps the profile hints.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return a.report(err)
	}
	a.authService.Reset()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// report prints err verbatim for the user and returns it.
func (a *App) report(err error) error {
	fmt.Fprintln(a.out, "Error:", err.Error())
	return err
}
