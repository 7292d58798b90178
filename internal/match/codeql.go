package match

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// CodeQL CSV column layout: the file path sits in column 5, the start
// row in column 6 and the end row in column 8 (1-indexed columns).
const (
	codeqlFileCol  = 4
	codeqlStartCol = 5
	codeqlEndCol   = 7
	codeqlMinCols  = 8
)

// LoadCodeQL reads function records from a CodeQL result CSV. Rows that
// are too short or carry non-numeric line fields are skipped rather
// than failing the load; CodeQL exports routinely mix row shapes.
func LoadCodeQL(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CodeQL CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CodeQL CSV %s: %w", path, err)
	}

	var records []Record
	for _, row := range rows {
		if len(row) < codeqlMinCols {
			continue
		}

		startRow, err := strconv.Atoi(row[codeqlStartCol])
		if err != nil {
			continue
		}
		endRow, err := strconv.Atoi(row[codeqlEndCol])
		if err != nil {
			continue
		}

		records = append(records, Record{
			File:     row[codeqlFileCol],
			StartRow: startRow,
			EndRow:   endRow,
		})
	}

	return records, nil
}
