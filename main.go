package main

import (
	"os"

	"github.com/insightdelivered/statement-parser/internal/cli"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	root := cli.NewRootCommand(cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if err := root.Execute(); err != nil {
		os.Exit(cli.ReportError(os.Stderr, err))
	}
}
