package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/placemark/internal/client/session"
)

func (a *App) Set(ctx context.Context, args []string) error {
	if len(args) < 2 {
		printlnFn("Usage: set <field> <value>")
		return errUsage
	}
	if err := a.flow.SetField(args[0], strings.Join(args[1:], " ")); err != nil {
		printError(err)
		return err
	}
	return nil
}

func (a *App) Fill(ctx context.Context) error {
	if _, ok := a.flow.Draft(); !ok {
		printlnFn("No draft, click the map first")
		return nil
	}
	fields, bad, err := GetFields(a.reader, a.out)
	if err != nil {
		printError(err)
		return err
	}
	for _, line := range bad {
		printWarning("ignored %q, expected name=value", line)
	}
	for _, f := range fields {
		if err := a.flow.SetField(f.Name, f.Value); err != nil {
			printError(err)
		}
	}
	printlnFn(renderDraft(a.flow))
	return nil
}

// ToggleOwner shows or hides the owner section and, when it opens with no
// owner information yet, prompts for it.
func (a *App) ToggleOwner(ctx context.Context) error {
	visible, err := a.flow.ToggleOwnerDetails()
	if err != nil {
		printError(err)
		return err
	}
	if !visible {
		printMuted("Owner details hidden")
		return nil
	}

	d, _ := a.flow.Draft()
	if d.OwnerInfo == "" {
		info, err := GetMultiline(a.reader, "Owner information", a.out)
		if err != nil {
			printError(err)
			return err
		}
		if err := a.flow.SetField("owner_info", info); err != nil {
			printError(err)
			return err
		}
	}
	printMuted("Owner details shown")
	return nil
}

func (a *App) SubmitOwner(ctx context.Context) error {
	if err := a.flow.SubmitOwnerInfo(ctx); err != nil {
		a.printSubmitError(err)
		return err
	}
	printSuccess("Owner information sent")
	return nil
}

func (a *App) Submit(ctx context.Context) error {
	rec, err := a.flow.Submit(ctx)
	if err != nil {
		a.printSubmitError(err)
		return err
	}
	printSuccess("Created %s", rec.String())
	return nil
}

func (a *App) Cancel(ctx context.Context) error {
	if err := a.flow.Cancel(); err != nil {
		printError(err)
		return err
	}
	printMuted("Draft discarded")
	return nil
}

func (a *App) printSubmitError(err error) {
	switch {
	case isSessionEnded(err):
		printWarning("Your session has ended, please log in again. The draft is kept.")
	default:
		printValidation(err)
	}
}

func isSessionEnded(err error) bool {
	var ae *session.AuthError
	return errors.As(err, &ae)
}
