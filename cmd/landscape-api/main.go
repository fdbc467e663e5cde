package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sufield/landscape"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes: 1 for local and usage errors, 2 when the remote API rejected
// or failed the request, so scripts can tell the two apart.
const (
	exitUsage  = 1
	exitRemote = 2
)

func main() {
	versionInfo := VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	registry := NewCommandRegistry(versionInfo)
	registerCommands(registry)

	if err := registry.Execute(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		var apiErr *landscape.APIError
		if errors.As(err, &apiErr) {
			os.Exit(exitRemote)
		}
		os.Exit(exitUsage)
	}
}

func registerCommands(r *CommandRegistry) {
	// Register call command
	r.Register(&Command{
		Name:        "call",
		Description: "Invoke an API action by its exact name",
		Usage:       "landscape-api call <ActionName> [key=value ...] [flags]",
		Examples: []string{
			"landscape-api call GetComputers limit=5",
			"landscape-api call GetAPIInfo",
			"landscape-api call GetScriptCode script_id=7 --raw",
			"landscape-api call CreateScript title=cleanup code=@cleanup.sh",
		},
		Run: callCommand,
	})

	// Register version command
	r.Register(&Command{
		Name:        "version",
		Description: "Show version information",
		Usage:       "landscape-api version",
		Examples: []string{
			"landscape-api version",
		},
		Run: func(args []string) error { return versionCommand(r.version, args) },
	})

	// Register help command
	r.Register(&Command{
		Name:        "help",
		Description: "Show help information",
		Usage:       "landscape-api help",
		Examples: []string{
			"landscape-api help",
		},
		Run: func(args []string) error {
			r.PrintHelp(os.Stdout)
			return nil
		},
	})

	// Everything else is an action name in kebab-case.
	r.SetFallback(actionCommand)
}
