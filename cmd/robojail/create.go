package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ehrlich-b/robojail/internal/jail"
)

func createCmd() *cobra.Command {
	var name, repo, branch, entrypoint string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new jail from a git repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}

			rec, err := jail.Create(reg, jail.CreateOptions{
				Name:       name,
				RepoPath:   repo,
				BaseRef:    branch,
				Entrypoint: entrypoint,
			})
			if err != nil {
				return err
			}

			if len(rec.Entrypoint) > 0 {
				fmt.Println("Entrypoint:", strings.Join(rec.Entrypoint, " "))
			}
			fmt.Printf("Created jail '%s' at %s\n", rec.Name, rec.WorktreePath)
			fmt.Printf("Branch: %s\n", rec.BranchName)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Jail name (required)")
	cmd.Flags().StringVar(&repo, "repo", "", "Path to the source git repository (required)")
	cmd.Flags().StringVar(&branch, "branch", "", "Base ref to branch from (default HEAD)")
	cmd.Flags().StringVar(&entrypoint, "entrypoint", "", "Command to run when entering this jail, e.g. \"claude --dangerously-skip-permissions\"")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("repo")

	return cmd
}
