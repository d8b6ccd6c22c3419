package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// readRows loads the whole upload into memory as a string grid,
// dispatching on the file extension: CSV, legacy .xls, or xlsx.
func readRows(reader io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		r := csv.NewReader(bytes.NewReader(data))
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("file is empty")
		}
		return rows, nil
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		if workbook.NumSheets() == 0 {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows := workbook.ReadAllCells(200000)
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	default:
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("no worksheet found")
		}

		rows, err := file.GetRows(sheetName)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	}
}

// normalizeHeader collapses a header cell to a comparable key:
// "XLC Operation", "xlc_operation" and "XLCOperation" all match.
func normalizeHeader(header string) string {
	lowered := strings.ToLower(strings.TrimSpace(header))
	lowered = strings.ReplaceAll(lowered, " ", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return strings.ReplaceAll(lowered, "-", "")
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// headerIndex maps normalized header names to column positions
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, cell := range header {
		key := normalizeHeader(cell)
		if key == "" {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}
	return index
}
