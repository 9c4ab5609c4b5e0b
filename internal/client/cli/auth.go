package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/placemark/internal/client/models"
	"github.com/dmitrijs2005/placemark/internal/client/session"
)

func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		printError(err)
		return err
	}
	password, err := GetPassword(a.out, "Password")
	if err != nil {
		printError(err)
		return err
	}

	if _, err := a.guard.Login(ctx, username, password); err != nil {
		printValidation(err)
		return err
	}
	printSuccess("Signed in as %s, %d locations loaded", username, a.catalog.Len())
	return nil
}

func (a *App) Register(ctx context.Context) error {
	var form models.Registration
	var err error

	prompts := []struct {
		label string
		dst   *string
	}{
		{"Username", &form.Username},
		{"First name", &form.FirstName},
		{"Second name", &form.SecondName},
		{"Phone", &form.Phone},
	}
	for _, p := range prompts {
		if *p.dst, err = GetSimpleText(a.reader, p.label, a.out); err != nil {
			printError(err)
			return err
		}
	}

	email, err := GetSimpleText(a.reader, "Email (optional)", a.out)
	if err != nil {
		printError(err)
		return err
	}
	if email = strings.TrimSpace(email); email != "" {
		form.Email = &email
	}

	if form.Password, err = GetPassword(a.out, "Password"); err != nil {
		printError(err)
		return err
	}
	if form.ConfirmPassword, err = GetPassword(a.out, "Confirm password"); err != nil {
		printError(err)
		return err
	}
	if form.Password != form.ConfirmPassword {
		err := errors.New("passwords do not match")
		printError(err)
		return err
	}

	msg, err := a.guard.Register(ctx, form)
	if err != nil {
		printValidation(err)
		return err
	}
	if msg == "" {
		msg = "Registered"
	}
	printSuccess("%s. You can now log in.", msg)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.flow.Cancel(); err != nil {
		printError(err)
		return err
	}
	if err := a.guard.Logout(ctx); err != nil {
		printError(err)
		return err
	}
	printSuccess("Signed out")
	return nil
}

func (a *App) DeleteAccount(ctx context.Context) error {
	answer, err := GetSimpleText(a.reader, "Delete your account? Type 'yes' to confirm", a.out)
	if err != nil {
		printError(err)
		return err
	}
	if answer != "yes" {
		printMuted("Cancelled")
		return nil
	}

	if err := a.guard.DeleteAccount(ctx); err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) || errors.Is(err, session.ErrRefreshFailed) {
			printWarning("Your session has ended, please log in again")
		} else {
			printError(err)
		}
		return err
	}
	_ = a.flow.Cancel()
	printSuccess("Account deleted")
	return nil
}

// printValidation shows each server or form message on its own line.
func printValidation(err error) {
	ve, ok := models.IsValidation(err)
	if !ok {
		printError(err)
		return
	}
	for _, m := range ve.Messages {
		printlnFn(errorStyle.Render("  - " + m))
	}
}
