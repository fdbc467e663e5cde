package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sufield/landscape/params"
)

// callCommand invokes an action by its exact server-side name:
//
//	landscape-api call GetComputers limit=5 tags.1=web
func callCommand(args []string) error {
	fs := newInvokeFlagSet("call")
	cf, raw := registerInvokeFlags(fs)
	rest, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}

	if len(rest) < 1 {
		return fmt.Errorf("usage: landscape-api call <ActionName> [key=value ...]")
	}
	return invokeAction(cf, rest[0], rest[1:], *raw, os.Stdout)
}

// actionCommand handles the shorthand form where the first argument is an
// action name in kebab-case:
//
//	landscape-api get-computers limit=5
func actionCommand(name string, args []string) error {
	action, err := kebabToAction(name)
	if err != nil {
		return err
	}

	fs := newInvokeFlagSet(name)
	cf, raw := registerInvokeFlags(fs)
	rest, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	return invokeAction(cf, action, rest, *raw, os.Stdout)
}

// parseInterspersed parses args allowing flags and positional arguments in
// any order, which the flag package alone does not: it stops at the first
// non-flag argument. Each leading run of flags is parsed, then one positional
// is collected, until the arguments are exhausted.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func newInvokeFlagSet(name string) *flag.FlagSet {
	cmd := &Command{
		Name:        name,
		Description: "Invoke the " + name + " API action",
		Usage:       "landscape-api " + name + " [key=value ...] [flags]",
	}
	return cmd.NewFlagSet()
}

func registerInvokeFlags(fs *flag.FlagSet) (*clientFlags, *bool) {
	cf := &clientFlags{}
	cf.register(fs)
	raw := fs.Bool("raw", false, "print the response body verbatim instead of JSON")
	return cf, raw
}

// invokeAction runs the parse -> invoke -> print pipeline shared by the call
// command and the kebab-case shorthand.
func invokeAction(cf *clientFlags, action string, args []string, raw bool, out io.Writer) error {
	p, err := parseParams(args)
	if err != nil {
		return err
	}

	client, err := cf.newClient()
	if err != nil {
		return err
	}

	ctx := context.Background()

	// GetScriptCode returns plain text, not JSON; print it verbatim.
	if raw || action == "GetScriptCode" {
		body, err := client.InvokeRaw(ctx, action, p)
		if err != nil {
			return err
		}
		_, err = out.Write(body)
		return err
	}

	result, err := client.Invoke(ctx, action, p)
	if err != nil {
		return err
	}
	return printJSON(out, result)
}

// parseParams turns key=value arguments into a parameter map. Dotted keys
// build nested structures the way the wire format does: tags.1=web tags.2=db
// becomes a two-element list, limits.memory=512 a nested mapping. A value of
// @path reads the parameter from a file, for script bodies and the like.
func parseParams(args []string) (params.Map, error) {
	if len(args) == 0 {
		return nil, nil
	}

	var flat params.FlatSet
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q is not of the form key=value", arg)
		}
		if strings.HasPrefix(value, "@") {
			data, err := os.ReadFile(value[1:])
			if err != nil {
				return nil, fmt.Errorf("read parameter file for %s: %w", key, err)
			}
			value = string(data)
		}
		flat = append(flat, params.Pair{Key: key, Value: value})
	}
	return params.Nest(flat)
}

// kebabToAction maps a kebab-case command name onto the server's CamelCase
// action vocabulary: get-computers -> GetComputers, get-api-info -> GetAPIInfo.
func kebabToAction(name string) (string, error) {
	var b strings.Builder
	for _, part := range strings.Split(name, "-") {
		if part == "" {
			return "", fmt.Errorf("bad action name %q", name)
		}
		if acronym, ok := actionAcronyms[part]; ok {
			b.WriteString(acronym)
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String(), nil
}

// Acronyms the action vocabulary spells in full caps.
var actionAcronyms = map[string]string{
	"api": "API",
	"apt": "APT",
	"gpg": "GPG",
	"id":  "ID",
	"ids": "IDs",
	"ssl": "SSL",
	"url": "URL",
}

func printJSON(out io.Writer, result any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
