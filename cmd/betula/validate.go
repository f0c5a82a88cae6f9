package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/dukex/betula/pkg/treesupport"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Decode a stored tree document and report unresolved types",
		ArgsUsage: "NAME",
		Flags:     configFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return fmt.Errorf("betula validate: NAME is required")
			}

			cfg, logger, err := loadConfig(cmd.String("config"), cmd.String("log-level"))
			if err != nil {
				return err
			}

			support, err := buildTreeSupport(cfg, logger)
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
				return fmt.Errorf("betula validate: loading %q: %w", name, err)
			}

			_, failure, err := treesupport.Decode(doc, support)
			if err != nil {
				return fmt.Errorf("betula validate: %s failed to decode: %w", name, err)
			}

			if failure != nil && !failure.Empty() {
				fmt.Printf("%s decoded with unresolved types:\n", name)

				for nodeType, ids := range failure.UnknownNodeTypes {
					fmt.Printf("  unknown node type %s: %d node(s)\n", nodeType, len(ids))
				}

				for valueType, ids := range failure.UnknownValueTypes {
					fmt.Printf("  unknown value type %s: %d blackboard(s)\n", valueType, len(ids))
				}

				return fmt.Errorf("betula validate: %s has unresolved types", name)
			}

			fmt.Printf("%s is valid\n", name)

			return nil
		},
	}
}
