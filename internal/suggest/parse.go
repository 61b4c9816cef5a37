package suggest

import (
	"encoding/json"
	"fmt"
	"strings"

	"go-chart-dashboard/internal/dashboard"
	"go-chart-dashboard/internal/model"
)

// parseSuggestions extracts chart suggestions from the model's reply. The
// reply is a JSON array, frequently wrapped in a markdown code fence.
// Unknown kind or aggregation labels fall back to defaults instead of
// sinking the item; items that still fail validation against the dataset's
// columns are dropped one by one, never the whole batch.
func parseSuggestions(response string, columns []string) ([]model.Suggestion, error) {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var items []model.Suggestion
	if err := json.Unmarshal([]byte(response), &items); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w (response: %.200s)", err, response)
	}

	out := make([]model.Suggestion, 0, len(items))
	for _, item := range items {
		if !item.Type.Valid() {
			item.Type = model.ChartBar
		}
		if !item.Aggregation.Valid() {
			item.Aggregation = model.AggSum
		}
		item.ID = "" // ids are assigned at acceptance, not by the model
		if err := dashboard.ValidateChartConfig(item.ChartConfig, columns); err != nil {
			fmt.Printf("❌ Suggest: dropping suggestion %q: %v\n", item.Title, err)
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
