package suggest

import (
	"fmt"
	"strings"

	"go-chart-dashboard/internal/model"
)

// BuildPrompt generates the advisor prompt from the dataset's shape: column
// names, an inferred per-column kind and a few sample values. The row data
// itself never leaves the process.
func BuildPrompt(ds *model.Dataset) string {
	var b strings.Builder

	b.WriteString(`You are a chart advisor for a data dashboard application.

YOUR ROLE:
Propose charts for the dataset described below. Only reference listed columns; do NOT invent columns and do NOT compute any values.

`)
	b.WriteString(fmt.Sprintf("DATASET: %q, %d rows\n\nCOLUMNS:\n", ds.FileName, len(ds.Rows)))
	for _, col := range ds.Columns {
		b.WriteString(describeColumn(ds, col))
	}
	b.WriteString(`
RESPONSE FORMAT:
Return a JSON array of 3 to 5 suggestions, each shaped like:
  {"title": "...", "type": "bar|line|area|pie|donut|scatter", "xAxis": "<column>", "yAxis": "<column>", "aggregation": "sum|count|average", "description": "one sentence on why this chart is useful"}

For frequency charts, set xAxis and yAxis to the same column with aggregation "count".

Respond with valid JSON only:`)

	return b.String()
}

// describeColumn renders one "- name (kind; e.g. a, b, c)" line
func describeColumn(ds *model.Dataset, col string) string {
	const maxSamples = 4

	numeric, text := 0, 0
	samples := make([]string, 0, maxSamples)
	seen := make(map[string]bool)

	for _, row := range ds.Rows {
		cell := row[col]
		if cell == nil {
			continue
		}
		if _, ok := cell.(float64); ok {
			numeric++
		} else {
			text++
		}
		if len(samples) < maxSamples {
			s := model.CellString(cell)
			if s != "" && !seen[s] {
				seen[s] = true
				samples = append(samples, s)
			}
		}
	}

	kind := "text"
	switch {
	case numeric > 0 && text == 0:
		kind = "numeric"
	case numeric > 0:
		kind = "mixed"
	}

	if len(samples) == 0 {
		return fmt.Sprintf("- %s (%s)\n", col, kind)
	}
	return fmt.Sprintf("- %s (%s; e.g. %s)\n", col, kind, strings.Join(samples, ", "))
}
