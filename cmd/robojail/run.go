package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ehrlich-b/robojail/internal/jail"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "run [name] -- [command...]",
		Short:              "Run a command inside a jail",
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			command := args[1:]
			if len(command) > 0 && command[0] == "--" {
				command = command[1:]
			}
			if len(command) == 0 {
				return fmt.Errorf("no command given; usage: robojail run %s -- <command>", name)
			}

			reg, err := openRegistry()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			code, err := jail.Run(reg, cfg, name, command)
			if err != nil {
				return err
			}
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
	return cmd
}
