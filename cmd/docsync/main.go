// Package main provides the entry point for the docsync CLI tool.
package main

import (
	"github.com/agentstation/docsync/cmd/docsync/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
