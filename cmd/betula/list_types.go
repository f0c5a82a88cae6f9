package main

import (
	"context"
	"fmt"
	"sort"

	cli "github.com/urfave/cli/v3"
)

func listTypesCommand() *cli.Command {
	return &cli.Command{
		Name:  "list-types",
		Usage: "List the node and value types registered for this project",
		Flags: configFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := loadConfig(cmd.String("config"), cmd.String("log-level"))
			if err != nil {
				return err
			}

			support, err := buildTreeSupport(cfg, logger)
			if err != nil {
				return err
			}

			nodeTypes := make([]string, 0, len(support.NodeTypes()))
			for _, t := range support.NodeTypes() {
				nodeTypes = append(nodeTypes, string(t))
			}

			sort.Strings(nodeTypes)

			fmt.Println("node types:")

			for _, t := range nodeTypes {
				fmt.Printf("  %s\n", t)
			}

			valueTypes := make([]string, 0, len(support.ValueTypes()))
			for _, t := range support.ValueTypes() {
				valueTypes = append(valueTypes, string(t))
			}

			sort.Strings(valueTypes)

			fmt.Println("value types:")

			for _, t := range valueTypes {
				fmt.Printf("  %s\n", t)
			}

			return nil
		},
	}
}
