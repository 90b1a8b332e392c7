package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ehrlich-b/robojail/internal/jail"
	"github.com/ehrlich-b/robojail/internal/registry"
	"github.com/ehrlich-b/robojail/internal/vcs"
)

func statusCmd() *cobra.Command {
	var asJSON, showDiff, watch bool

	cmd := &cobra.Command{
		Use:   "status [name]",
		Short: "Show a jail's uncommitted worktree changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			reg, err := openRegistry()
			if err != nil {
				return err
			}

			if watch {
				return watchStatus(reg, name, asJSON, showDiff)
			}
			return printStatus(reg, name, asJSON, showDiff)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Include the full diff")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-print status whenever the worktree changes")
	return cmd
}

func printStatus(reg *registry.Registry, name string, asJSON, showDiff bool) error {
	report, err := jail.Status(reg, name, showDiff)
	if err != nil {
		return err
	}

	if asJSON {
		out := struct {
			Name     string        `json:"name"`
			Modified []string      `json:"modified"`
			Added    []string      `json:"added"`
			Deleted  []string      `json:"deleted"`
			Stats    vcs.DiffStats `json:"stats"`
		}{Name: report.Name, Modified: report.Modified, Added: report.Added, Deleted: report.Deleted, Stats: report.Stats}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	total := len(report.Modified) + len(report.Added) + len(report.Deleted)
	if total == 0 {
		fmt.Printf("Jail '%s': No changes\n", name)
	} else {
		fmt.Printf("Jail '%s': %d file(s) changed (+%d, -%d)\n",
			name, report.Stats.FilesChanged, report.Stats.Insertions, report.Stats.Deletions)
		printGroup("Modified", "M", report.Modified)
		printGroup("Added", "A", report.Added)
		printGroup("Deleted", "D", report.Deleted)
	}

	if showDiff && report.Diff != "" {
		fmt.Println("\n--- Diff ---\n")
		fmt.Print(report.Diff)
	}
	return nil
}

func printGroup(title, code string, files []string) {
	if len(files) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, f := range files {
		fmt.Printf("  %s %s\n", code, f)
	}
}

// watchStatus re-prints status whenever the jail's worktree changes,
// coalescing bursts of fsnotify events (a `git checkout` or a build tool
// writing dozens of files at once) into a single redraw rather than one
// per event.
func watchStatus(reg *registry.Registry, name string, asJSON, showDiff bool) error {
	rec, err := reg.Get(name)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTreeRecursive(watcher, rec.WorktreePath); err != nil {
		return fmt.Errorf("watch %s: %w", rec.WorktreePath, err)
	}

	if err := printStatus(reg, name, asJSON, showDiff); err != nil {
		return err
	}

	const debounce = 300 * time.Millisecond
	var timer *time.Timer
	redraw := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				_ = watcher.Add(event.Name)
			}
			if timer == nil {
				timer = time.AfterFunc(debounce, func() { redraw <- struct{}{} })
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Println("robojail: watch error:", err)
		case <-redraw:
			fmt.Println()
			if err := printStatus(reg, name, asJSON, showDiff); err != nil {
				return err
			}
		}
	}
}

func addTreeRecursive(watcher *fsnotify.Watcher, root string) error {
	return walkDirsSkippingDotGit(root, func(dir string) error {
		return watcher.Add(dir)
	})
}
