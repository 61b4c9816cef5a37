package engine

import (
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"go-chart-dashboard/internal/model"
)

// groupAccum collects the numeric pool for one group while rows stream by
type groupAccum struct {
	sum  float64
	pool int // numeric cells only; text that fails to parse never lands here
}

// Aggregate reduces rows to one output row per distinct group value. Group
// cells are bucketed by their string rendering, so the number 5 and the text
// "5" share a group. The result row carries the group label under groupColumn
// and the aggregate under measureColumn, keeping the Row shape renderers
// already consume.
//
// Counting a column against itself is a frequency count: every row counts,
// missing cells included, and the counts sum to len(rows). In every other
// mode the measure pool keeps only cells that coerce to a number; groups
// whose pool stays empty are left out of the result entirely, never emitted
// as zero.
//
// Output order is part of the contract: ascending by group key, numerically
// when every group cell was a number, in English collation order otherwise.
// Aggregate never fails; bad cells are data-quality noise, not errors.
func Aggregate(rows []model.Row, groupColumn, measureColumn string, kind model.AggregationKind) []model.Row {
	if kind == model.AggCount && groupColumn == measureColumn {
		return frequencies(rows, groupColumn)
	}

	groups := make(map[string]*groupAccum)
	keys := make([]string, 0)
	numericKeys := true

	for _, row := range rows {
		cell := row[groupColumn]
		if !isNumericCell(cell) {
			numericKeys = false
		}
		key := model.CellString(cell)
		acc, seen := groups[key]
		if !seen {
			acc = &groupAccum{}
			groups[key] = acc
			keys = append(keys, key)
		}
		num, ok := model.CellNumber(row[measureColumn])
		if !ok {
			continue // dropped, not zeroed
		}
		acc.sum += num
		acc.pool++
	}

	sortGroupKeys(keys, numericKeys)

	out := make([]model.Row, 0, len(keys))
	for _, key := range keys {
		acc := groups[key]
		if acc.pool == 0 {
			continue
		}
		var value float64
		switch kind {
		case model.AggSum:
			value = acc.sum
		case model.AggCount:
			value = float64(acc.pool)
		case model.AggAverage:
			value = acc.sum / float64(acc.pool)
		default:
			value = 0 // unreachable through the closed enum
		}
		row := model.Row{groupColumn: key}
		row[measureColumn] = value
		out = append(out, row)
	}
	return out
}

// frequencies counts rows per distinct stringified value of one column, the
// shape behind "how many of each" charts where the same column is both axis
// and measure. No numeric coercion; every row lands in exactly one bucket.
func frequencies(rows []model.Row, column string) []model.Row {
	counts := make(map[string]int)
	keys := make([]string, 0)
	numericKeys := true

	for _, row := range rows {
		cell := row[column]
		if !isNumericCell(cell) {
			numericKeys = false
		}
		key := model.CellString(cell)
		if _, seen := counts[key]; !seen {
			keys = append(keys, key)
		}
		counts[key]++
	}

	sortGroupKeys(keys, numericKeys)

	out := make([]model.Row, 0, len(keys))
	for _, key := range keys {
		row := model.Row{column: key}
		row[column] = float64(counts[key]) // same column, the count wins
		out = append(out, row)
	}
	return out
}

// sortGroupKeys orders group keys ascending: numerically when the source
// column held only numbers, otherwise by English collation so labels sort
// the way users read them
func sortGroupKeys(keys []string, numeric bool) {
	if numeric {
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.ParseFloat(keys[i], 64)
			b, _ := strconv.ParseFloat(keys[j], 64)
			return a < b
		})
		return
	}
	collate.New(language.English).SortStrings(keys)
}

func isNumericCell(v interface{}) bool {
	switch v.(type) {
	case float64, int:
		return true
	}
	return false
}
