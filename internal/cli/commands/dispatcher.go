package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"slices"
	"strings"

	"ClinicDesk/internal/cli/api"
	"ClinicDesk/internal/cli/session"
	"ClinicDesk/internal/config"
)

// Коды выхода процесса.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const (
	loginHint       = "Run 'clinicctl login <email>' to sign in."
	invalidTokenMsg = "Invalid token. Please log in again."
)

// Dispatch runs the command named by args[0] and returns the process exit code.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if !flag.Parsed() {
		flag.Parse()
	}
	// --help может остаться среди аргументов команды
	if slices.Contains(args, "--help") || slices.Contains(args, "-h") {
		if len(args) > 1 {
			if c, ok := Get(args[0]); ok {
				fmt.Fprintf(Out, "Usage: %s\n  %s\n", c.Usage(), c.Description())
				return exitOK
			}
		}
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitOK
	}

	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitUsage
	}

	name := strings.ToLower(args[0])
	if name == "help" {
		return help(args[1:])
	}

	c, ok := Get(name)
	if !ok {
		unknown(name)
		return exitUsage
	}

	err := c.Run(ctx, cfg, args[1:])
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return exitUsage
	default:
		fmt.Fprintf(Out, "%s error: %v\n", name, err)
		// аналог редиректа на страницу входа
		switch {
		case errors.Is(err, session.ErrMalformedToken):
			fmt.Fprintln(Out, invalidTokenMsg)
			fmt.Fprintln(Out, loginHint)
		case api.IsKind(err, api.KindUnauthorized), errors.Is(err, session.ErrNoCredential):
			fmt.Fprintln(Out, loginHint)
		}
		return exitFailure
	}
}

func help(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitOK
	}
	c, ok := Get(args[0])
	if !ok {
		unknown(args[0])
		return exitUsage
	}
	fmt.Fprintf(Out, "Usage: %s\n  %s\n", c.Usage(), c.Description())
	return exitOK
}

func unknown(name string) {
	fmt.Fprintf(Out, "Unknown command: %s\n", name)
	if s := suggest(name); len(s) > 0 {
		fmt.Fprintf(Out, "Did you mean: %s?\n", strings.Join(s, ", "))
	}
	fmt.Fprintln(Out)
	fmt.Fprint(Out, FormatGlobalUsage())
}
