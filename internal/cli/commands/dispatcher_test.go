package commands

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"ClinicDesk/internal/cli/api"
	"ClinicDesk/internal/cli/session"
	"ClinicDesk/internal/config"
)

// fakeCmd позволяет управлять возвратом ошибок из Run
type fakeCmd struct {
	name, usage, desc string
	run               func(ctx context.Context, cfg *config.Config, args []string) error
}

func (f fakeCmd) Name() string        { return f.name }
func (f fakeCmd) Description() string { return f.desc }
func (f fakeCmd) Usage() string       { return f.usage }
func (f fakeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	return f.run(ctx, cfg, args)
}

func TestDispatcher_HelpAndUnknown(t *testing.T) {
	out := withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{}) })
	if !strings.Contains(out, "ClinicDesk CLI") {
		t.Fatalf("global help expected")
	}
	for _, name := range []string{"login", "logout", "whoami", "register", "doctors", "appointments", "invoices", "prescriptions", "opforms", "dashboard"} {
		if !strings.Contains(out, name) {
			t.Fatalf("help must list %q", name)
		}
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"help"}) })
	if !strings.Contains(out, "Usage:") {
		t.Fatalf("usage expected")
	}

	code := Dispatch(context.Background(), &config.Config{}, []string{"help", "login"})
	if code != 0 {
		t.Fatalf("expected 0 for help login, got %d", code)
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"help", "nope"}) })
	if !strings.Contains(out, "Unknown command") {
		t.Fatalf("unknown command message expected")
	}

	code = Dispatch(context.Background(), &config.Config{}, []string{"no-such"})
	if code != 2 {
		t.Fatalf("expected 2 for unknown command, got %d", code)
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"appoint"}) })
	if !strings.Contains(out, "Did you mean: appointments?") {
		t.Fatalf("suggestion expected, got: %s", out)
	}
}

func TestDispatcher_HelpSectionsAndFlag(t *testing.T) {
	out := FormatGlobalUsage()
	acc, cli := strings.Index(out, "Account commands:"), strings.Index(out, "Clinic commands:")
	if acc < 0 || cli < 0 || acc > cli {
		t.Fatalf("account section must precede clinic section:\n%s", out)
	}
	if i := strings.Index(out, "  login"); i < acc || i > cli {
		t.Fatalf("login must be listed under account commands")
	}

	var code int
	out = withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"doctors", "--help"}) })
	if code != 0 || !strings.HasPrefix(out, "Usage: doctors") {
		t.Fatalf("command --help must print its usage, got %d: %s", code, out)
	}
}

func TestDispatcher_RunPaths(t *testing.T) {
	cmdOK := fakeCmd{name: "x", usage: "x", run: func(_ context.Context, _ *config.Config, _ []string) error { return nil }}
	RegisterCmd(cmdOK)
	if code := Dispatch(context.Background(), &config.Config{}, []string{"x"}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	cmdUsage := fakeCmd{name: "u", usage: "u <arg>", run: func(_ context.Context, _ *config.Config, _ []string) error { return ErrUsage }}
	RegisterCmd(cmdUsage)
	out := withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"u"}) })
	if !strings.Contains(out, "Usage: u <arg>") {
		t.Fatalf("usage text expected")
	}

	cmdErr := fakeCmd{name: "e", usage: "e", run: func(_ context.Context, _ *config.Config, _ []string) error { return fmt.Errorf("boom") }}
	RegisterCmd(cmdErr)
	var code int
	out = withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"e"}) })
	if code != 1 || !strings.Contains(out, "e error: boom") {
		t.Fatalf("error line expected, got %d: %s", code, out)
	}
	if strings.Contains(out, "clinicctl login") {
		t.Fatalf("login hint must only follow auth failures")
	}
}

func TestDispatcher_UnauthorizedPrintsLoginHint(t *testing.T) {
	RegisterCmd(fakeCmd{name: "secure", usage: "secure", run: func(_ context.Context, _ *config.Config, _ []string) error {
		return fmt.Errorf("list: %w", &api.Error{Kind: api.KindUnauthorized, Status: 401, Message: api.MsgUnauthorized})
	}})
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"secure"}) })
	if code != 1 {
		t.Fatalf("expected 1, got %d", code)
	}
	if !strings.Contains(out, api.MsgUnauthorized) || !strings.Contains(out, "clinicctl login") {
		t.Fatalf("unauthorized message and login hint expected, got: %s", out)
	}
}

func TestDispatcher_MalformedTokenPrintsLoginHint(t *testing.T) {
	RegisterCmd(fakeCmd{name: "mangled", usage: "mangled", run: func(_ context.Context, _ *config.Config, _ []string) error {
		_, err := session.DecodeIdentity("a.%%%.c")
		return err
	}})
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"mangled"}) })
	if code != 1 {
		t.Fatalf("expected 1, got %d", code)
	}
	if !strings.Contains(out, "Invalid token. Please log in again.") || !strings.Contains(out, "clinicctl login") {
		t.Fatalf("invalid token message and login hint expected, got: %s", out)
	}
}
