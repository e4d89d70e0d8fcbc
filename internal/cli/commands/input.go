package commands

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// In - источник ввода для интерактивных подсказок; в тестах переназначается.
var In io.Reader = os.Stdin

// readPassword читает пароль без эха, если stdin - терминал, иначе одну строку из In.
var readPassword = func(prompt string) (string, error) {
	fmt.Fprint(Out, prompt)
	if f, ok := In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(Out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return readLine()
}

var (
	inReader *bufio.Reader
	inSource io.Reader
)

func readLine() (string, error) {
	if inReader == nil || inSource != In {
		inReader, inSource = bufio.NewReader(In), In
	}
	line, err := inReader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// newFlagSet creates a quiet flag set; parse errors are reported as ErrUsage by the caller.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseArgs parses flags that may appear before or after positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var rest []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, ErrUsage
		}
		args = fs.Args()
		if len(args) == 0 {
			return rest, nil
		}
		rest = append(rest, args[0])
		args = args[1:]
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrUsage
	}
	return id, nil
}

// subcommand splits "doctors get 5" into ("get", ["5"]); no args means def.
func subcommand(args []string, def string) (string, []string) {
	if len(args) == 0 {
		return def, nil
	}
	return strings.ToLower(args[0]), args[1:]
}

// savePDF пишет PDF в path, по умолчанию <prefix>_<id>.pdf в текущем каталоге.
func savePDF(path, prefix string, id int64, data []byte) error {
	if path == "" {
		path = fmt.Sprintf("%s_%d.pdf", prefix, id)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Saved %s (%d bytes)\n", path, len(data))
	return nil
}
