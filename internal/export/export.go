package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"go-chart-dashboard/internal/model"
)

// WriteCSV streams aggregated chart rows as a two-column CSV: the group
// label and the aggregated value, headed by the column names the chart was
// built on
func WriteCSV(w io.Writer, rows []model.Row, groupColumn, measureColumn string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{groupColumn, measureColumn}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			model.CellString(row[groupColumn]),
			model.CellString(row[measureColumn]),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON streams aggregated chart rows as indented JSON with a small
// header describing where the data came from
func WriteJSON(w io.Writer, chart model.ChartConfig, rows []model.Row) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	payload := map[string]interface{}{
		"export_info": map[string]interface{}{
			"chart_id":    chart.ID,
			"title":       chart.Title,
			"aggregation": chart.Aggregation,
			"exported_at": time.Now().UTC(),
			"row_count":   len(rows),
		},
		"data": rows,
	}
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// AttachmentName turns a chart title into a safe download file name
func AttachmentName(title, format string) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = "chart"
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	return name + "." + format
}
