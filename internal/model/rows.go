package model

import (
	"strconv"
	"strings"
)

// Row is a schema-agnostic record mapping column names to cell values.
// Cells are normalized to one of three shapes: float64 (numeric),
// string (text) or nil (missing).
type Row map[string]interface{}

// Dataset holds an uploaded tabular file after decoding
type Dataset struct {
	FileName string   `json:"fileName"`
	Columns  []string `json:"columns"` // original column order
	Rows     []Row    `json:"rows"`
}

// ParseCell normalizes a raw cell into a Row value: empty cells become
// nil, numeric-looking cells become float64, everything else stays a string
func ParseCell(raw string) interface{} {
	if raw == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// CellString renders a cell as a group label. Missing cells render as "",
// numbers without a trailing ".0" so 100.0 and "100" land in the same group
func CellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// CellNumber coerces a cell to a float64 for measuring. Text is trimmed
// and parsed; missing and unparseable cells report false
func CellNumber(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
