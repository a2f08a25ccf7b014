package main

import (
	"prodguard/internal/cli"
	_ "prodguard/internal/checks/free"
	_ "prodguard/internal/checks/premium"
)

// These variables are populated by the build via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.SetBuildInfo(version, commit, date)
	cli.Execute()
}
