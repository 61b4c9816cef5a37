package dashboard

import (
	"fmt"
	"strings"

	"go-chart-dashboard/internal/model"
)

// ValidationError reports every offending chart field at once so callers can
// render one message instead of replaying failures field by field
type ValidationError struct {
	Fields []string `json:"fields"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("chart config invalid: %s", strings.Join(e.Fields, ", "))
}

// ValidateChartConfig checks a candidate chart before it may enter the list.
// The title must survive trimming; both axes must be named and, when
// knownColumns is non-nil, refer to columns of the loaded dataset. The axes
// may legally coincide (frequency counts chart a column against itself).
// Bulk import paths (suggestion batches, restored snapshots) rely on getting
// an error back instead of a panic, one bad item must never sink the rest.
func ValidateChartConfig(cfg model.ChartConfig, knownColumns []string) error {
	fields := make([]string, 0, 3)
	if strings.TrimSpace(cfg.Title) == "" {
		fields = append(fields, "title")
	}
	if !columnOK(cfg.XAxis, knownColumns) {
		fields = append(fields, "xAxis")
	}
	if !columnOK(cfg.YAxis, knownColumns) {
		fields = append(fields, "yAxis")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func columnOK(name string, known []string) bool {
	if name == "" {
		return false
	}
	if known == nil {
		return true // no dataset loaded yet, nothing to check membership against
	}
	for _, col := range known {
		if col == name {
			return true
		}
	}
	return false
}
