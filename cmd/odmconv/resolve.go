package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bestit/odm-param-converter-bundle/pkg/paramconv"
)

// attrFlags collects repeated --attr key=value flags in order.
type attrFlags [][2]string

func (a *attrFlags) String() string {
	parts := make([]string, 0, len(*a))
	for _, kv := range *a {
		parts = append(parts, kv[0]+"="+kv[1])
	}
	return strings.Join(parts, ",")
}

func (a *attrFlags) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("attribute %q must be key=value", v)
	}
	*a = append(*a, [2]string{key, value})
	return nil
}

func (a attrFlags) bag() *paramconv.Bag {
	bag := paramconv.NewBag()
	for _, kv := range a {
		bag.Set(kv[0], kv[1])
	}
	return bag
}

func (r *CommandRegistry) resolveCommand(args []string, out Output) error {
	fs := r.commands["resolve"].NewFlagSet(out)
	converter := fs.String("converter", "", "Converter name (may be omitted when the config declares exactly one)")
	verbose := fs.Bool("verbose", false, "Log the resolution chain to stderr")
	var attrs attrFlags
	fs.Var(&attrs, "attr", "Request attribute as key=value (repeatable)")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig(positional)
	if err != nil {
		return err
	}

	name := *converter
	if name == "" {
		if len(cfg.Converters) != 1 {
			return errors.New("--converter is required when the config declares more than one converter")
		}
		name = cfg.Converters[0].Name
	}
	conv, ok := cfg.Converter(name)
	if !ok {
		return fmt.Errorf("unknown converter: %s", name)
	}

	resolver, err := newResolver(cfg, newLogger(out.Stderr, *verbose))
	if err != nil {
		return err
	}

	decl := conv.Declaration()
	if !resolver.Supports(decl) {
		return fmt.Errorf("converter %s is not supported: class %s has no repository", decl.Name, decl.Class)
	}

	bag := attrs.bag()
	if err := resolver.Apply(context.Background(), bag, decl); err != nil {
		return err
	}

	data, err := yaml.Marshal(map[string]any{decl.Name: bag.Get(decl.Name)})
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = out.Stdout.Write(data)
	return err
}
