package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) record(name string, args ...string) error {
	if len(args) > 0 {
		name += " " + strings.Join(args, " ")
	}
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn(ctx context.Context) bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error  { return f.record("register") }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) DeleteAccount(ctx context.Context) error { return f.record("delete-account") }
func (f *fakeExec) List(ctx context.Context) error          { return f.record("list") }
func (f *fakeExec) Locate(ctx context.Context) error        { return f.record("locate") }
func (f *fakeExec) Zoom(ctx context.Context, delta int) error {
	return f.record(fmt.Sprintf("zoom %+d", delta))
}
func (f *fakeExec) Pan(ctx context.Context, args []string) error   { return f.record("pan", args...) }
func (f *fakeExec) Click(ctx context.Context, args []string) error { return f.record("click", args...) }
func (f *fakeExec) Set(ctx context.Context, args []string) error   { return f.record("set", args...) }
func (f *fakeExec) Fill(ctx context.Context) error                 { return f.record("fill") }
func (f *fakeExec) ToggleOwner(ctx context.Context) error          { return f.record("owner") }
func (f *fakeExec) SubmitOwner(ctx context.Context) error          { return f.record("owner-submit") }
func (f *fakeExec) Submit(ctx context.Context) error               { return f.record("submit") }
func (f *fakeExec) Cancel(ctx context.Context) error               { return f.record("cancel") }
func (f *fakeExec) View(ctx context.Context) error                 { return f.record("view") }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"l",
		"+",
		"zoomout",
		"pan 52.5 13.4",
		"click 52.5 13.4",
		"set name Corner Cafe",
		"fill",
		"owner",
		"owner-submit",
		"submit",
		"cancel",
		"view",
		"locate",
		"logout",
		"delete-account",
		"register",
		"exit",
		"list",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func(context.Context) string { return "status" }, bufio.NewReader(input))

	want := []string{
		"login", "list", "zoom +1", "zoom -1", "pan 52.5 13.4", "click 52.5 13.4",
		"set name Corner Cafe", "fill", "owner", "owner-submit", "submit", "cancel", "view",
		"locate", "logout", "delete-account", "register",
	}
	if strings.Join(exec.calls, "|") != strings.Join(want, "|") {
		t.Fatalf("calls mismatch:\n got %v\nwant %v", exec.calls, want)
	}
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := captureOutput(t)

	runREPL(context.Background(), &fakeExec{}, func(context.Context) string { return "" },
		bufio.NewReader(strings.NewReader("help\n")))
	runREPL(context.Background(), &fakeExec{loggedIn: true}, func(context.Context) string { return "" },
		bufio.NewReader(strings.NewReader("help\n")))

	var helps []string
	for _, l := range *out {
		if strings.HasPrefix(l, "Available commands") {
			helps = append(helps, l)
		}
	}
	if len(helps) != 2 || helps[0] != guestHelp || helps[1] != userHelp {
		t.Fatalf("unexpected help output: %v", helps)
	}
}

func TestRunREPL_UnknownAndLastLineWithoutNewline(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func(context.Context) string { return "s" },
		bufio.NewReader(strings.NewReader("\nfoobar\nview")))

	if len(exec.calls) != 1 || exec.calls[0] != "view" {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
	found := false
	for _, l := range *out {
		if strings.Contains(l, "Unknown command:") && strings.Contains(l, "foobar") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unknown command notice, got %v", *out)
	}
}
