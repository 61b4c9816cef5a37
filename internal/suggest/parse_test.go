package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chart-dashboard/internal/model"
)

func TestParseSuggestions_StripsMarkdownFence(t *testing.T) {
	response := "```json\n" +
		`[{"title": "Sales by region", "type": "bar", "xAxis": "Region", "yAxis": "Sales", "aggregation": "sum", "description": "totals per region"}]` +
		"\n```"

	got, err := parseSuggestions(response, []string{"Region", "Sales"})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "Sales by region", got[0].Title)
	assert.Equal(t, model.ChartBar, got[0].Type)
	assert.Equal(t, "totals per region", got[0].Description)
}

func TestParseSuggestions_DefaultsUnknownLabels(t *testing.T) {
	response := `[{"title": "T", "type": "hexbin", "xAxis": "Region", "yAxis": "Sales", "aggregation": "median", "id": "model-made-this-up"}]`

	got, err := parseSuggestions(response, []string{"Region", "Sales"})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, model.ChartBar, got[0].Type, "unknown kind falls back to bar")
	assert.Equal(t, model.AggSum, got[0].Aggregation, "unknown aggregation falls back to sum")
	assert.Empty(t, got[0].ID, "model-invented ids are discarded")
}

func TestParseSuggestions_DropsInvalidItems(t *testing.T) {
	response := `[
		{"title": "Keep", "type": "pie", "xAxis": "Region", "yAxis": "Sales", "aggregation": "count"},
		{"title": "Bad axis", "type": "bar", "xAxis": "Imaginary", "yAxis": "Sales", "aggregation": "sum"},
		{"title": "", "type": "bar", "xAxis": "Region", "yAxis": "Sales", "aggregation": "sum"}
	]`

	got, err := parseSuggestions(response, []string{"Region", "Sales"})
	require.NoError(t, err)

	require.Len(t, got, 1, "one bad item never sinks the batch")
	assert.Equal(t, "Keep", got[0].Title)
}

func TestParseSuggestions_MalformedResponse(t *testing.T) {
	_, err := parseSuggestions("Sure! Here are some charts you could try.", []string{"Region"})
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	ds := &model.Dataset{
		FileName: "sales.csv",
		Columns:  []string{"Region", "Sales"},
		Rows: []model.Row{
			{"Region": "East", "Sales": float64(100)},
			{"Region": "West", "Sales": float64(80)},
		},
	}

	prompt := BuildPrompt(ds)

	assert.Contains(t, prompt, `DATASET: "sales.csv", 2 rows`)
	assert.Contains(t, prompt, "- Region (text; e.g. East, West)")
	assert.Contains(t, prompt, "- Sales (numeric; e.g. 100, 80)")
	assert.Contains(t, prompt, "Respond with valid JSON only")
}
