package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// printTable выводит строки с выравниванием по колонкам.
func printTable(header []string, rows [][]string) {
	w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	_ = w.Flush()
	fmt.Fprintf(Out, "Total: %d\n", len(rows))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
