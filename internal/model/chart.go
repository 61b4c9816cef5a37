package model

import (
	"strconv"
	"sync"
	"time"
)

// ChartKind enumerates the supported chart renderings
type ChartKind string

const (
	ChartBar     ChartKind = "bar"
	ChartLine    ChartKind = "line"
	ChartArea    ChartKind = "area"
	ChartPie     ChartKind = "pie"
	ChartDonut   ChartKind = "donut"
	ChartScatter ChartKind = "scatter"
)

// Valid reports whether k is one of the supported chart kinds
func (k ChartKind) Valid() bool {
	switch k {
	case ChartBar, ChartLine, ChartArea, ChartPie, ChartDonut, ChartScatter:
		return true
	}
	return false
}

// AggregationKind enumerates how measure values are reduced per group
type AggregationKind string

const (
	AggSum     AggregationKind = "sum"
	AggCount   AggregationKind = "count"
	AggAverage AggregationKind = "average"
)

// Valid reports whether k is one of the supported aggregations
func (k AggregationKind) Valid() bool {
	switch k {
	case AggSum, AggCount, AggAverage:
		return true
	}
	return false
}

// SortKey selects the ordering of the chart list. Anything outside the
// five known keys falls back to SortDateDesc.
type SortKey string

const (
	SortDateDesc  SortKey = "date-desc" // newest first, the default
	SortDateAsc   SortKey = "date-asc"
	SortTitleAsc  SortKey = "title-asc"
	SortTitleDesc SortKey = "title-desc"
	SortTypeAsc   SortKey = "type-asc"
)

// ChartConfig describes a single chart on the dashboard
type ChartConfig struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Type        ChartKind       `json:"type"`
	XAxis       string          `json:"xAxis"`       // group column
	YAxis       string          `json:"yAxis"`       // measure column
	Aggregation AggregationKind `json:"aggregation"`
}

// Suggestion is a proposed chart with a short rationale
type Suggestion struct {
	ChartConfig
	Description string `json:"description"`
}

var (
	idMu   sync.Mutex
	lastID int64
)

// NewChartID returns a millisecond timestamp as a decimal string.
// IDs are strictly increasing even when the clock stalls, so they double
// as a creation-order key for sorting.
func NewChartID() string {
	idMu.Lock()
	defer idMu.Unlock()
	now := time.Now().UnixMilli()
	if now <= lastID {
		now = lastID + 1
	}
	lastID = now
	return strconv.FormatInt(now, 10)
}
