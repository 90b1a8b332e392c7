package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ehrlich-b/robojail/internal/jail"
)

func destroyCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "destroy [name]",
		Short: "Destroy a jail and its worktree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			if err := jail.Destroy(reg, name, force); err != nil {
				return err
			}
			fmt.Printf("Destroyed jail '%s'\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Kill a running jail and force-remove a dirty worktree")
	return cmd
}
