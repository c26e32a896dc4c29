package main

import (
	"fmt"
	"strconv"

	"github.com/bestit/odm-param-converter-bundle/pkg/paramconv"
)

func (r *CommandRegistry) validateCommand(args []string, out Output) error {
	fs := r.commands["validate"].NewFlagSet(out)
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	cfg, path, err := loadConfig(positional)
	if err != nil {
		return err
	}

	fmt.Fprintf(out.Stdout, "✓ %s is valid\n\n", path)

	if len(cfg.Converters) > 0 {
		table := NewTableWriter([]string{"Converter", "Class", "Lookup", "Optional"})
		for _, c := range cfg.Converters {
			table.AddRow([]string{c.Name, c.Class, describeLookup(c.Options), strconv.FormatBool(c.Optional)})
		}
		table.Print(out.Stdout)
	}

	fmt.Fprintf(out.Stdout, "\n%d converter(s), %d document class(es)\n", len(cfg.Converters), len(cfg.Documents))
	return nil
}

// describeLookup summarizes how a converter finds its document.
func describeLookup(raw map[string]any) string {
	opts, err := paramconv.ParseOptions(raw)
	if err != nil {
		return "invalid options"
	}

	finder := "findOneBy"
	if opts.RepositoryMethod != "" {
		finder = opts.RepositoryMethod
		if opts.MapMethodSignature {
			finder += " (signature)"
		}
	}

	source := "all attributes"
	if opts.Mapping != nil {
		source = fmt.Sprintf("%d mapped attribute(s)", len(opts.Mapping))
	}

	return fmt.Sprintf("id=%s, else %s via %s", opts.PrimaryKey(), source, finder)
}
