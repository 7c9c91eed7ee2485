// Package main is the entry point for the vcdmigrate CLI.
//
// vcdmigrate finishes an NSX-V to NSX-T migration in VMware Cloud
// Director: it validates both org VDCs, moves catalog items, tears down
// the NSX-V side, and gives the target VDC and its networks their final
// names.
//
// For detailed usage information, run:
//
//	vcdmigrate --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/vcdmigrate/cmd/vcdmigrate/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
