package main

import (
	"fmt"
	"os"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	versionInfo := VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	registry := NewCommandRegistry(versionInfo, os.Stdout, os.Stderr)
	registerCommands(registry)

	if err := registry.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func registerCommands(r *CommandRegistry) {
	r.Register(&Command{
		Name:        "validate",
		Description: "Validate an odmconv configuration file",
		Usage:       "odmconv validate [config-file]",
		Examples: []string{
			"odmconv validate odmconv.yaml",
			"ODMCONV_CONFIG=odmconv.yaml odmconv validate",
		},
		Run: r.validateCommand,
	})

	r.Register(&Command{
		Name:        "resolve",
		Description: "Resolve one converter against request attributes",
		Usage:       "odmconv resolve [config-file] --converter NAME [--attr key=value ...]",
		Examples: []string{
			"odmconv resolve odmconv.yaml --converter user --attr userId=2",
			"odmconv resolve odmconv.yaml --converter bySlug --attr slug=abc --verbose",
		},
		Run: r.resolveCommand,
	})

	r.Register(&Command{
		Name:        "serve",
		Description: "Serve the configured converters over HTTP",
		Usage:       "odmconv serve [config-file] [--listen ADDR] [--route PATTERN]",
		Examples: []string{
			"odmconv serve odmconv.yaml",
			"odmconv serve odmconv.yaml --listen :9090 --route /users/{userId}",
		},
		Run: r.serveCommand,
	})

	r.Register(&Command{
		Name:        "version",
		Description: "Show version information",
		Usage:       "odmconv version",
		Run:         r.versionCommand,
	})
}
