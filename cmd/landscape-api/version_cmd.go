package main

import (
	"flag"
	"fmt"
	"runtime"

	"github.com/sufield/landscape/signing"
)

// versionCommand prints build information and the API versions the client
// speaks.
func versionCommand(v VersionInfo, args []string) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	verbose := fs.Bool("verbose", false, "include build metadata")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Printf("landscape-api %s\n", v.Version)
	if *verbose {
		fmt.Printf("  commit:       %s\n", v.Commit)
		fmt.Printf("  built:        %s\n", v.Date)
		fmt.Printf("  go:           %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		fmt.Printf("  api versions: %s (default), %s\n", signing.LatestVersion, signing.FutureVersion)
	}
	return nil
}
