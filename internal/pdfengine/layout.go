package pdfengine

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// LayoutConfig tunes table detection over positioned text. Distances are in
// PDF points.
type LayoutConfig struct {
	// LineTolerance is the maximum baseline difference for glyphs on one line.
	LineTolerance float64
	// CellGapFactor times the font size is the horizontal gap that splits cells.
	CellGapFactor float64
	// MinCellGap is the lower bound of the cell-splitting gap.
	MinCellGap float64
	// ColumnTolerance is how far apart cell starts may be within one column.
	ColumnTolerance float64
	// MinRows is the minimum number of consecutive multi-cell lines in a table.
	MinRows int
	// MinColumns is the minimum number of cells for a line to count as a row.
	MinColumns int
}

func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		LineTolerance:   2.0,
		CellGapFactor:   1.0,
		MinCellGap:      4.0,
		ColumnTolerance: 10.0,
		MinRows:         2,
		MinColumns:      2,
	}
}

type textCell struct {
	x, right float64
	text     string
}

type textLine struct {
	y     float64
	cells []textCell
}

// DetectTables finds table regions in a page's glyphs. Runs of consecutive
// lines that split into at least MinColumns cells form a region; cell starts
// across the region are clustered into columns. Rows come back ragged, with
// nil where a column has no cell.
func DetectTables(texts []pdf.Text, cfg LayoutConfig) []RawTable {
	lines := groupLines(texts, cfg)

	var tables []RawTable
	for _, region := range tableRegions(lines, cfg) {
		tables = append(tables, buildRawTable(region, cfg))
	}
	return tables
}

// groupLines buckets glyphs by baseline, top of the page first, and splits
// each bucket into cells.
func groupLines(texts []pdf.Text, cfg LayoutConfig) []textLine {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		glyphs = append(glyphs, t)
	}
	if len(glyphs) == 0 {
		return nil
	}

	sort.SliceStable(glyphs, func(i, j int) bool {
		if glyphs[i].Y != glyphs[j].Y {
			return glyphs[i].Y > glyphs[j].Y
		}
		return glyphs[i].X < glyphs[j].X
	})

	var lines []textLine
	start := 0
	for i := 1; i <= len(glyphs); i++ {
		if i < len(glyphs) && glyphs[start].Y-glyphs[i].Y <= cfg.LineTolerance {
			continue
		}
		bucket := glyphs[start:i]
		if cells := splitCells(bucket, cfg); len(cells) > 0 {
			lines = append(lines, textLine{y: glyphs[start].Y, cells: cells})
		}
		start = i
	}
	return lines
}

func splitCells(glyphs []pdf.Text, cfg LayoutConfig) []textCell {
	sorted := make([]pdf.Text, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var (
		cells   []textCell
		current *textCell
		sb      strings.Builder
	)
	flush := func() {
		if current == nil {
			return
		}
		// Combining marks arrive as their own glyphs, so composition
		// happens on the whole cell.
		if text := strings.TrimSpace(sb.String()); text != "" {
			current.text = norm.NFC.String(text)
			cells = append(cells, *current)
		}
		sb.Reset()
		current = nil
	}

	for _, g := range sorted {
		blank := strings.TrimSpace(g.S) == ""
		if current == nil {
			if blank {
				continue
			}
			current = &textCell{x: g.X, right: g.X + g.W}
			sb.WriteString(g.S)
			continue
		}

		gap := math.Max(cfg.MinCellGap, cfg.CellGapFactor*g.FontSize)
		if g.X-current.right > gap {
			flush()
			if blank {
				continue
			}
			current = &textCell{x: g.X, right: g.X + g.W}
			sb.WriteString(g.S)
			continue
		}

		sb.WriteString(g.S)
		if end := g.X + g.W; end > current.right {
			current.right = end
		}
	}
	flush()

	return cells
}

func tableRegions(lines []textLine, cfg LayoutConfig) [][]textLine {
	var (
		regions [][]textLine
		run     []textLine
	)
	closeRun := func() {
		if len(run) >= cfg.MinRows {
			regions = append(regions, run)
		}
		run = nil
	}

	for _, line := range lines {
		if len(line.cells) >= cfg.MinColumns {
			run = append(run, line)
			continue
		}
		closeRun()
	}
	closeRun()

	return regions
}

type column struct {
	min, max float64
}

func buildRawTable(region []textLine, cfg LayoutConfig) RawTable {
	var starts []float64
	for _, line := range region {
		for _, c := range line.cells {
			starts = append(starts, c.x)
		}
	}
	columns := clusterColumns(starts, cfg.ColumnTolerance)

	table := make(RawTable, 0, len(region))
	for _, line := range region {
		row := RawRow{}
		for _, c := range line.cells {
			idx := nearestColumn(columns, c.x)
			for len(row) <= idx {
				row = append(row, nil)
			}
			if existing, ok := row[idx].(string); ok {
				row[idx] = existing + " " + c.text
			} else {
				row[idx] = c.text
			}
		}
		table = append(table, row)
	}
	return table
}

func clusterColumns(starts []float64, tolerance float64) []column {
	if len(starts) == 0 {
		return nil
	}
	sorted := make([]float64, len(starts))
	copy(sorted, starts)
	sort.Float64s(sorted)

	columns := []column{{min: sorted[0], max: sorted[0]}}
	for _, x := range sorted[1:] {
		last := &columns[len(columns)-1]
		if x-last.max <= tolerance {
			last.max = x
			continue
		}
		columns = append(columns, column{min: x, max: x})
	}
	return columns
}

func nearestColumn(columns []column, x float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, col := range columns {
		var dist float64
		switch {
		case x < col.min:
			dist = col.min - x
		case x > col.max:
			dist = x - col.max
		}
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}
