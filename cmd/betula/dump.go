package main

import (
	"context"
	"encoding/json"
	"fmt"

	cli "github.com/urfave/cli/v3"
)

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Print a stored tree document as JSON",
		ArgsUsage: "NAME",
		Flags:     configFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return fmt.Errorf("betula dump: NAME is required")
			}

			cfg, logger, err := loadConfig(cmd.String("config"), cmd.String("log-level"))
			if err != nil {
				return err
			}

			repo, err := buildRepository(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer repo.Close(ctx)

			doc, err := repo.Load(ctx, name)
			if err != nil {
				return fmt.Errorf("betula dump: loading %q: %w", name, err)
			}

			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}

			fmt.Println(string(out))

			return nil
		},
	}
}
