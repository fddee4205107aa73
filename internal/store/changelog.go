package store

import (
	"fmt"
	"os"
	"time"
)

// Changelog appends one timestamped line per mutation to the shared todo
// file so staff can see what the tools touched and when.
type Changelog struct {
	path string
	tool string
}

// NewChangelog creates a changelog writer tagging entries with the tool name.
// An empty path disables logging.
func NewChangelog(path, tool string) *Changelog {
	return &Changelog{path: path, tool: tool}
}

// Append records one entry. Failures are returned, not fatal; a mutation
// that already persisted should not be rolled back over a log line.
func (c *Changelog) Append(line string) error {
	if c.path == "" {
		return nil
	}

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open changelog: %w", err)
	}
	defer f.Close()

	entry := fmt.Sprintf("%s — %s — by %s\n", time.Now().Format("2006-01-02 15:04"), line, c.tool)
	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("failed to append changelog: %w", err)
	}

	return nil
}
