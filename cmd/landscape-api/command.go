package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// Command represents a CLI command with common functionality
type Command struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Run         func(args []string) error
}

// NewFlagSet creates a standardized flag set for a command. Parse errors are
// returned, not exited on, so main can map them to the usage exit code.
func (c *Command) NewFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet(c.Name, flag.ContinueOnError)
	fs.Usage = func() { c.PrintUsage() }
	return fs
}

// PrintUsage prints standardized usage information
func (c *Command) PrintUsage() {
	fmt.Fprintf(os.Stderr, "%s\n\n", c.Description)
	fmt.Fprintf(os.Stderr, "USAGE:\n    %s\n\n", c.Usage)
	if len(c.Examples) > 0 {
		fmt.Fprintf(os.Stderr, "EXAMPLES:\n")
		for _, example := range c.Examples {
			fmt.Fprintf(os.Stderr, "    %s\n", example)
		}
	}
}

// CommandRegistry manages all CLI commands
type CommandRegistry struct {
	commands map[string]*Command
	fallback func(name string, args []string) error
	version  VersionInfo
}

// VersionInfo holds build-time version information
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry(v VersionInfo) *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]*Command),
		version:  v,
	}
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
}

// SetFallback installs the handler for names that match no registered
// command; the action dispatcher hangs off this.
func (r *CommandRegistry) SetFallback(run func(name string, args []string) error) {
	r.fallback = run
}

// Execute runs the appropriate command based on args
func (r *CommandRegistry) Execute(args []string) error {
	if len(args) < 1 {
		r.PrintHelp(os.Stdout)
		return fmt.Errorf("no command specified")
	}

	cmdName := args[0]

	// Handle special commands
	switch cmdName {
	case "help", "-h", "--help":
		r.PrintHelp(os.Stdout)
		return nil
	}

	// Execute registered command
	cmd, ok := r.commands[cmdName]
	if !ok {
		if r.fallback != nil {
			return r.fallback(cmdName, args[1:])
		}
		r.PrintHelp(os.Stderr)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	return cmd.Run(args[1:])
}

// PrintHelp prints overall CLI help
func (r *CommandRegistry) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "landscape-api - CLI for the Landscape fleet-management API")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "    landscape-api <command> [arguments]")
	fmt.Fprintln(w, "    landscape-api <action-name> [key=value ...]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "COMMANDS:")

	// Print commands in a consistent order
	order := []string{"call", "version", "help"}
	for _, name := range order {
		if cmd, ok := r.commands[name]; ok {
			fmt.Fprintf(w, "    %-12s %s\n", cmd.Name, cmd.Description)
		}
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Any other first argument is treated as an API action name in")
	fmt.Fprintln(w, "kebab-case: 'get-computers' invokes the GetComputers action.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'landscape-api <command> --help' for more information on a command.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "    # List five computers tagged 'web'")
	fmt.Fprintln(w, "    landscape-api get-computers limit=5 tags.1=web")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "    # Invoke an action by its exact server-side name")
	fmt.Fprintln(w, "    landscape-api call GetAPIInfo")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "    # Tag computers matched by a query")
	fmt.Fprintln(w, "    landscape-api add-tags-to-computers query=id:42 tags.1=needs-reboot")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Credentials come from --uri/--key/--secret, the LANDSCAPE_API_*")
	fmt.Fprintln(w, "environment variables, or the YAML file named by --config.")
}
