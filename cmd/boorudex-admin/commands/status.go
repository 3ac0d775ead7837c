package commands

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lorehash/boorudex/internal/report"
)

// Status prints queue depth and indexed count for each monitored tag,
// mirroring the original get_indexer_status.py report. With --out, the
// same data is additionally rendered to a file via the requested
// --format generator.
func Status(c *cli.Context) error {
	ctl, closeFn, err := buildController(c)
	if err != nil {
		return err
	}
	defer closeFn()

	statuses, err := ctl.Status(c.Context)
	if err != nil {
		return cli.Exit(fmt.Sprintf("fetching status: %v", err), 1)
	}

	for _, s := range statuses {
		fmt.Printf("%s: %d items queued, %d items indexed\n", s.Tag, s.QueueDepth, s.IndexedSize)
	}

	out := c.String("out")
	if out == "" {
		return nil
	}

	sr := report.StatusReport{GeneratedAt: time.Now(), Tags: statuses}

	var gen report.Generator
	switch c.String("format") {
	case "json":
		gen = report.NewJSONReportGenerator()
	case "text", "":
		gen = report.NewTextReportGenerator()
	default:
		return cli.Exit(fmt.Sprintf("unsupported report format: %s", c.String("format")), 1)
	}

	if err := gen.Generate(sr, out); err != nil {
		return cli.Exit(fmt.Sprintf("writing report: %v", err), 1)
	}
	return nil
}
