package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/dukex/betula/pkg/log"
)

// configFlags is shared by every subcommand, following the teacher's
// pattern of redeclaring flags per-command rather than a global set.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the runner config YAML file",
			Value:   "./betula.yaml",
			Sources: cli.EnvVars("BETULA_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:                  "betula",
		EnableShellCompletion: true,
		Usage:                 "Run and inspect a behavior-tree runtime",
		Commands: []*cli.Command{
			runCommand(),
			dumpCommand(),
			validateCommand(),
			listTypesCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.WithModule("betula").WithError(err).Fatal("betula exited with an error")
	}
}
