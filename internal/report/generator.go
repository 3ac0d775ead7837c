// Package report renders control-plane status snapshots to disk, in
// the teacher's per-format-generator style (§6): one small type per
// output format, sharing a common data shape.
package report

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lorehash/boorudex/pkg/api"
)

// StatusReport is the data every generator renders: a snapshot of
// each monitored tag's ingestion progress.
type StatusReport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Tags        []api.TagStatus `json:"tags"`
}

// Generator writes a StatusReport to outputPath in its own format.
type Generator interface {
	Generate(report StatusReport, outputPath string) error
}

func writeFile(logger *logrus.Logger, outputPath string, data []byte, kind string) error {
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s report: %w", kind, err)
	}
	logger.Infof("%s report saved to: %s", kind, outputPath)
	return nil
}
