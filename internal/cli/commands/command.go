package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"ClinicDesk/internal/config"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command is one clinicctl subcommand.
type Command interface {
	Name() string
	Description() string
	// Usage returns the exact usage string, e.g. "login <email> [--remember]".
	Usage() string
	// Run executes the command with args that follow its name.
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

var registry = map[string]Command{}

// Out - общий writer для вывода CLI. По умолчанию os.Stdout, в тестах подменяется.
var Out io.Writer = os.Stdout

// accountCommands работают с учётной записью и сессией; остальные команды - клинические.
var accountCommands = map[string]bool{
	"register": true, "login": true, "logout": true, "whoami": true,
	"forgot-password": true, "reset-password": true, "countries": true,
}

// RegisterCmd adds a command to the registry. Called from init() of each command file.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

func Get(name string) (Command, bool) {
	c, ok := registry[strings.ToLower(name)]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// suggest возвращает команды, начинающиеся с prefix (для опечаток вроде "appoint").
func suggest(prefix string) []string {
	if len(prefix) < 2 {
		return nil
	}
	var out []string
	for _, c := range List() {
		if strings.HasPrefix(c.Name(), prefix) || strings.HasPrefix(prefix, c.Name()) {
			out = append(out, c.Name())
		}
	}
	return out
}

// FormatGlobalUsage builds the help text, account commands first.
func FormatGlobalUsage() string {
	var b strings.Builder
	b.WriteString("ClinicDesk CLI\n\nUsage:\n  clinicctl [--api-url <URL>] [--debug] <command> [args]\n")

	var account, clinic []Command
	for _, c := range List() {
		if accountCommands[c.Name()] {
			account = append(account, c)
		} else {
			clinic = append(clinic, c)
		}
	}
	for _, sec := range []struct {
		title string
		cmds  []Command
	}{{"Account", account}, {"Clinic", clinic}} {
		if len(sec.cmds) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s commands:\n", sec.title)
		for _, c := range sec.cmds {
			fmt.Fprintf(&b, "  %-44s %s\n", c.Usage(), c.Description())
		}
	}
	b.WriteString("\nRun 'clinicctl help <command>' for details.\n")
	return b.String()
}
