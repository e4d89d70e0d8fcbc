package commands

import (
	"context"
	"fmt"

	"ClinicDesk/internal/config"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Sign in; --remember keeps the session across terminals" }
func (loginCmd) Usage() string       { return "login [--remember] [--password <pw>] <email>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("login")
	remember := fs.Bool("remember", false, "store the credential durably")
	password := fs.String("password", "", "password (prompted when omitted)")
	rest, err := parseArgs(fs, args)
	if err != nil || len(rest) != 1 {
		return ErrUsage
	}
	email := rest[0]

	pw := *password
	if pw == "" {
		if pw, err = readPassword("Password: "); err != nil {
			return err
		}
	}

	e, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.auth.Login(ctx, email, pw, *remember); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Logged in as %s\n", e.auth.CurrentUser())
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Forget the stored credential in both tiers" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	e, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer e.close()
	if err := e.auth.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

type whoamiCmd struct{}

func (whoamiCmd) Name() string        { return "whoami" }
func (whoamiCmd) Description() string { return "Show the signed-in user and where the credential lives" }
func (whoamiCmd) Usage() string       { return "whoami" }

func (whoamiCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	e, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer e.close()

	if !e.sess.IsAuthenticated() {
		fmt.Fprintln(Out, "Not logged in")
		return nil
	}
	durable, tab := e.sess.Tiers()
	fmt.Fprintf(Out, "User:    %s\n", e.auth.CurrentUser())
	fmt.Fprintf(Out, "Active:  %s\n", e.sess.CredentialTier())
	fmt.Fprintf(Out, "Durable: %t\n", durable)
	fmt.Fprintf(Out, "Tab:     %t\n", tab)
	return nil
}

func init() {
	RegisterCmd(loginCmd{})
	RegisterCmd(logoutCmd{})
	RegisterCmd(whoamiCmd{})
}
