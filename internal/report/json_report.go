package report

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// JSONReportGenerator renders a StatusReport as indented JSON.
type JSONReportGenerator struct {
	logger *logrus.Logger
}

// NewJSONReportGenerator creates a new JSON report generator.
func NewJSONReportGenerator() *JSONReportGenerator {
	return &JSONReportGenerator{logger: logrus.New()}
}

func (j *JSONReportGenerator) Generate(report StatusReport, outputPath string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return writeFile(j.logger, outputPath, data, "JSON")
}
