package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"go-chart-dashboard/internal/model"
)

// Decode reads an uploaded tabular file into a Dataset. The format comes
// from the file extension: .csv through encoding/csv, .xlsx/.xlsm through
// excelize. The column set derives once from the header row; cells are
// normalized with model.ParseCell so empty cells read as missing and
// numeric-looking text becomes numbers.
func Decode(r io.Reader, fileName string) (*model.Dataset, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return decodeCSV(r, fileName)
	case ".xlsx", ".xlsm":
		return decodeXLSX(r, fileName)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", fileName)
	}
}

func decodeCSV(r io.Reader, fileName string) (*model.Dataset, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := cleanHeaders(headers)

	rows := make([]model.Row, 0)
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}
		row := make(model.Row, len(columns))
		for i, col := range columns {
			row[col] = model.ParseCell(record[i])
		}
		rows = append(rows, row)
	}

	fmt.Printf("📄 Dataset: decoded %d rows, %d columns from %s\n", len(rows), len(columns), fileName)
	return &model.Dataset{FileName: fileName, Columns: columns, Rows: rows}, nil
}

func decodeXLSX(r io.Reader, fileName string) (*model.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", fileName)
	}
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", sheets[0])
	}
	columns := cleanHeaders(cells[0])

	rows := make([]model.Row, 0, len(cells)-1)
	for _, record := range cells[1:] {
		if blankRecord(record) {
			continue // spreadsheet tails are full of these
		}
		row := make(model.Row, len(columns))
		for i, col := range columns {
			raw := ""
			if i < len(record) { // excelize trims trailing empties per row
				raw = record[i]
			}
			row[col] = model.ParseCell(raw)
		}
		rows = append(rows, row)
	}

	fmt.Printf("📄 Dataset: decoded %d rows, %d columns from %s (sheet %s)\n", len(rows), len(columns), fileName, sheets[0])
	return &model.Dataset{FileName: fileName, Columns: columns, Rows: rows}, nil
}

// cleanHeaders trims whitespace and strips stray quotes from column names
func cleanHeaders(headers []string) []string {
	columns := make([]string, len(headers))
	for i, h := range headers {
		clean := strings.TrimSpace(h)
		columns[i] = strings.ReplaceAll(clean, `"`, "")
	}
	return columns
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if cell != "" {
			return false
		}
	}
	return true
}
