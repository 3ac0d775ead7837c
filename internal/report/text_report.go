package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// TextReportGenerator renders a StatusReport as human-readable text.
type TextReportGenerator struct {
	logger *logrus.Logger
}

// NewTextReportGenerator creates a new text report generator.
func NewTextReportGenerator() *TextReportGenerator {
	return &TextReportGenerator{logger: logrus.New()}
}

func (t *TextReportGenerator) Generate(report StatusReport, outputPath string) error {
	return writeFile(t.logger, outputPath, []byte(t.content(report)), "text")
}

func (t *TextReportGenerator) content(report StatusReport) string {
	var sb strings.Builder

	sb.WriteString("INDEXER STATUS REPORT\n")
	sb.WriteString("======================\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", report.GeneratedAt.Format(time.RFC3339)))

	var totalQueued, totalIndexed int64
	for _, s := range report.Tags {
		sb.WriteString(fmt.Sprintf("%s: %d items queued, %d items indexed\n", s.Tag, s.QueueDepth, s.IndexedSize))
		totalQueued += s.QueueDepth
		totalIndexed += s.IndexedSize
	}

	sb.WriteString(fmt.Sprintf("\nTotals: %d tags, %d queued, %d indexed\n", len(report.Tags), totalQueued, totalIndexed))
	return sb.String()
}
