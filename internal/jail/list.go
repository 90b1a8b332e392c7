package jail

import (
	"path/filepath"
	"strings"

	"github.com/ehrlich-b/robojail/internal/registry"
)

// ListEntry is one row of jail status summary, independent of output
// format (table or JSON — that choice belongs to cmd/robojail).
type ListEntry struct {
	Name    string `json:"name"`
	Repo    string `json:"repo"`
	Branch  string `json:"branch"`
	Created string `json:"created"`
	Status  string `json:"status"` // "running" or "stopped"
}

// List returns a summary of every known jail, oldest first.
func List(reg *registry.Registry) []ListEntry {
	recs := reg.List()
	entries := make([]ListEntry, 0, len(recs))
	for _, rec := range recs {
		status := "stopped"
		if rec.PID != nil && registry.IsPIDAlive(*rec.PID) {
			status = "running"
		}
		entries = append(entries, ListEntry{
			Name:    rec.Name,
			Repo:    filepath.Base(rec.RepoPath),
			Branch:  strings.TrimPrefix(rec.BranchName, "robojail/"),
			Created: rec.CreatedAt.Format("2006-01-02 15:04:05"),
			Status:  status,
		})
	}
	return entries
}
