package report_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorehash/boorudex/internal/report"
	"github.com/lorehash/boorudex/pkg/api"
)

func sample() report.StatusReport {
	return report.StatusReport{
		Tags: []api.TagStatus{
			{Tag: "hakurei_reimu", QueueDepth: 3, IndexedSize: 120},
			{Tag: "kirisame_marisa", QueueDepth: 0, IndexedSize: 88},
		},
	}
}

func TestJSONReportGenerator_Generate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	require.NoError(t, report.NewJSONReportGenerator().Generate(sample(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded report.StatusReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded.Tags, 2)
	assert.Equal(t, "hakurei_reimu", decoded.Tags[0].Tag)
}

func TestTextReportGenerator_Generate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.txt")
	require.NoError(t, report.NewTextReportGenerator().Generate(sample(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hakurei_reimu: 3 items queued, 120 items indexed")
	assert.Contains(t, string(data), "Totals: 2 tags, 3 queued, 208 indexed")
}
