package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chart-dashboard/internal/model"
)

func salesRows() []model.Row {
	return []model.Row{
		{"Region": "East", "Sales": float64(100)},
		{"Region": "East", "Sales": float64(50)},
		{"Region": "West", "Sales": float64(80)},
	}
}

func TestAggregate_Average(t *testing.T) {
	got := Aggregate(salesRows(), "Region", "Sales", model.AggAverage)

	want := []model.Row{
		{"Region": "East", "Sales": float64(75)},
		{"Region": "West", "Sales": float64(80)},
	}
	assert.Equal(t, want, got, "East averages to 75 and sorts before West")
}

func TestAggregate_SumAndCount(t *testing.T) {
	sum := Aggregate(salesRows(), "Region", "Sales", model.AggSum)
	require.Len(t, sum, 2)
	assert.Equal(t, float64(150), sum[0]["Sales"], "East sum")
	assert.Equal(t, float64(80), sum[1]["Sales"], "West sum")

	count := Aggregate(salesRows(), "Region", "Sales", model.AggCount)
	require.Len(t, count, 2)
	assert.Equal(t, float64(2), count[0]["Sales"], "East count")
	assert.Equal(t, float64(1), count[1]["Sales"], "West count")
}

func TestAggregate_FrequencyCountsEveryRow(t *testing.T) {
	rows := []model.Row{
		{"status": "open"},
		{"status": "closed"},
		{"status": "open"},
		{"status": nil},
		{"status": "open"},
	}

	got := Aggregate(rows, "status", "status", model.AggCount)

	require.Len(t, got, 3, "one row per distinct value, missing included")
	total := 0.0
	for _, row := range got {
		count, ok := row["status"].(float64)
		require.True(t, ok, "frequency cell must be numeric")
		total += count
	}
	assert.Equal(t, float64(len(rows)), total, "counts sum to the row count")
}

func TestAggregate_EmptyPoolGroupOmitted(t *testing.T) {
	rows := []model.Row{
		{"g": "A", "m": "n/a"},
		{"g": "A", "m": nil},
		{"g": "B", "m": "10"},
	}

	got := Aggregate(rows, "g", "m", model.AggSum)

	want := []model.Row{{"g": "B", "m": float64(10)}}
	assert.Equal(t, want, got, "group A has no numeric pool and must vanish, not zero")
}

func TestAggregate_MixedTypeGroupsCollapse(t *testing.T) {
	rows := []model.Row{
		{"bucket": float64(5), "v": float64(1)},
		{"bucket": "5", "v": float64(2)},
	}

	got := Aggregate(rows, "bucket", "v", model.AggSum)

	require.Len(t, got, 1, "number 5 and text \"5\" stringify alike")
	assert.Equal(t, "5", got[0]["bucket"])
	assert.Equal(t, float64(3), got[0]["v"])
}

func TestAggregate_NumericKeysSortNumerically(t *testing.T) {
	rows := []model.Row{
		{"year": float64(100), "v": float64(1)},
		{"year": float64(2), "v": float64(1)},
		{"year": float64(30), "v": float64(1)},
	}

	got := Aggregate(rows, "year", "v", model.AggSum)

	labels := make([]string, 0, len(got))
	for _, row := range got {
		labels = append(labels, row["year"].(string))
	}
	assert.Equal(t, []string{"2", "30", "100"}, labels, "numeric order, not lexicographic")
}

func TestAggregate_TextKeysSortByCollation(t *testing.T) {
	rows := []model.Row{
		{"fruit": "cherry", "v": float64(1)},
		{"fruit": "Banana", "v": float64(1)},
		{"fruit": "apple", "v": float64(1)},
	}

	got := Aggregate(rows, "fruit", "v", model.AggSum)

	labels := make([]string, 0, len(got))
	for _, row := range got {
		labels = append(labels, row["fruit"].(string))
	}
	assert.Equal(t, []string{"apple", "Banana", "cherry"}, labels, "collation order ignores case, byte order would not")
}

func TestAggregate_DeterministicAcrossPermutations(t *testing.T) {
	a := []model.Row{
		{"Region": "West", "Sales": float64(80)},
		{"Region": "East", "Sales": float64(50)},
		{"Region": "East", "Sales": float64(100)},
	}

	first, err := json.Marshal(Aggregate(salesRows(), "Region", "Sales", model.AggSum))
	require.NoError(t, err)
	second, err := json.Marshal(Aggregate(a, "Region", "Sales", model.AggSum))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second), "permuted input, identical output bytes")
}

func TestAggregate_EmptyRows(t *testing.T) {
	for _, kind := range []model.AggregationKind{model.AggSum, model.AggCount, model.AggAverage} {
		t.Run(string(kind), func(t *testing.T) {
			got := Aggregate(nil, "g", "m", kind)
			require.NotNil(t, got)
			assert.Empty(t, got)
		})
	}

	got := Aggregate([]model.Row{}, "g", "g", model.AggCount)
	require.NotNil(t, got)
	assert.Empty(t, got, "frequency path on empty input")
}

func TestAggregate_UnknownKindProducesZero(t *testing.T) {
	rows := []model.Row{{"g": "A", "m": float64(7)}}

	got := Aggregate(rows, "g", "m", model.AggregationKind("median"))

	require.Len(t, got, 1)
	assert.Equal(t, float64(0), got[0]["m"])
}

func TestAggregate_AbsentColumns(t *testing.T) {
	rows := []model.Row{{"a": float64(1)}, {"a": float64(2)}}

	sum := Aggregate(rows, "nope", "missing", model.AggSum)
	assert.Empty(t, sum, "no numeric pool anywhere, nothing to emit")

	freq := Aggregate(rows, "nope", "nope", model.AggCount)
	require.Len(t, freq, 1, "absent column groups everything under the empty label")
	assert.Equal(t, float64(2), freq[0]["nope"])
}

func TestAggregate_InputUntouched(t *testing.T) {
	rows := salesRows()
	before, err := json.Marshal(rows)
	require.NoError(t, err)

	Aggregate(rows, "Region", "Sales", model.AggAverage)

	after, err := json.Marshal(rows)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}
