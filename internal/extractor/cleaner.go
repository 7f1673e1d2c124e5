package extractor

import (
	"fmt"
	"strings"

	"github.com/BerylCAtieno/document-processing-service/internal/pdfengine"
)

// CleanedTable is a rectangular grid of strings.
type CleanedTable [][]string

// CleanTable normalizes a raw detection. Absent rows are dropped; every other
// row is kept, including rows that are entirely blank, and right-padded with
// empty strings to the widest row. Cells are stringified and trimmed; holes
// become "".
func CleanTable(raw pdfengine.RawTable) CleanedTable {
	cleaned := CleanedTable{}
	width := 0

	for _, row := range raw {
		if row == nil {
			continue
		}

		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cellString(cell))
		}
		if len(cells) > width {
			width = len(cells)
		}
		cleaned = append(cleaned, cells)
	}

	for i, row := range cleaned {
		for len(row) < width {
			row = append(row, "")
		}
		cleaned[i] = row
	}

	return cleaned
}

func cellString(cell pdfengine.RawCell) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case *string:
		if v == nil {
			return ""
		}
		return strings.TrimSpace(*v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Width returns the longest row length, 0 for an empty table.
func (t CleanedTable) Width() int {
	width := 0
	for _, row := range t {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}
