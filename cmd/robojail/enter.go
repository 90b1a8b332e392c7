package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ehrlich-b/robojail/internal/jail"
)

func enterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enter [name]",
		Short: "Enter a jail interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rec, err := reg.Get(name)
			if err != nil {
				return err
			}
			if len(rec.Entrypoint) > 0 {
				fmt.Printf("Running '%s' in jail '%s'...\n", strings.Join(rec.Entrypoint, " "), name)
			} else {
				fmt.Printf("Entering jail '%s'...\n", name)
			}

			code, err := jail.Enter(reg, cfg, name)
			if err != nil {
				return err
			}
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
}
