package dashboard

import (
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"go-chart-dashboard/internal/model"
)

// SortCharts returns the charts reordered by key without touching the input
// slice. The sort is stable: ties keep their original relative order, even
// when two ids carry the same timestamp. Unknown keys fall back to
// newest-first, the order users see by default.
func SortCharts(charts []model.ChartConfig, key model.SortKey) []model.ChartConfig {
	out := make([]model.ChartConfig, len(charts))
	copy(out, charts)

	switch key {
	case model.SortDateAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return chartTime(out[i]) < chartTime(out[j])
		})
	case model.SortTitleAsc:
		c := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Title, out[j].Title) < 0
		})
	case model.SortTitleDesc:
		c := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Title, out[j].Title) > 0
		})
	case model.SortTypeAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Type < out[j].Type
		})
	default: // SortDateDesc and anything unrecognized
		sort.SliceStable(out, func(i, j int) bool {
			return chartTime(out[i]) > chartTime(out[j])
		})
	}
	return out
}

// chartTime reads the creation timestamp embedded in a chart id. Ids that
// fail to parse sink to the oldest end.
func chartTime(cfg model.ChartConfig) int64 {
	ts, err := strconv.ParseInt(cfg.ID, 10, 64)
	if err != nil {
		return 0
	}
	return ts
}
