// Package main is the entry point for the eksward CLI.
//
// eksward is a command-line tool for assessing EKS cluster upgrade
// readiness. It builds an addon version catalog for a region, compares
// each cluster's installed addons against a target Kubernetes version,
// and writes per-cluster compatibility reports plus a combined summary.
//
// Commands: init, prepare, assess, version, completion.
//
// For detailed usage information, run:
//
//	eksward --help
package main

import (
	"fmt"
	"os"

	"github.com/eksward/eksward/cmd/eksward/commands"
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
