package commands

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/lorehash/boorudex/internal/export"
)

// Export snapshots every entry reachable from the monitored tags into
// a portable SQLite file for offline querying.
func Export(c *cli.Context) error {
	ctl, closeFn, err := buildController(c)
	if err != nil {
		return err
	}
	defer closeFn()

	entries, err := ctl.ExportEntries(c.Context)
	if err != nil {
		return cli.Exit(fmt.Sprintf("gathering entries: %v", err), 1)
	}

	out := addExtension(c.String("out"), "db")
	snap, err := export.Open(out)
	if err != nil {
		return cli.Exit(fmt.Sprintf("opening snapshot: %v", err), 1)
	}
	defer snap.Close()

	if err := snap.WriteAll(c.Context, entries); err != nil {
		return cli.Exit(fmt.Sprintf("writing snapshot: %v", err), 1)
	}

	fmt.Printf("exported %d entries to %s\n", len(entries), out)
	return nil
}

func addExtension(path, ext string) string {
	if filepath.Ext(path) == "" {
		return path + "." + ext
	}
	return path
}
