package main

import (
	"fmt"
	"runtime"
)

func (r *CommandRegistry) versionCommand(args []string, out Output) error {
	cmd := r.commands["version"]
	fs := cmd.NewFlagSet(out)
	verbose := fs.Bool("verbose", false, "Show build details")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintf(out.Stdout, "odmconv %s (commit: %s, built: %s)\n", r.version.Version, r.version.Commit, r.version.Date)
	if *verbose {
		table := NewTableWriter([]string{"Setting", "Value"})
		table.AddRow([]string{"Go", runtime.Version()})
		table.AddRow([]string{"Platform", runtime.GOOS + "/" + runtime.GOARCH})
		table.Print(out.Stdout)
	}
	return nil
}
