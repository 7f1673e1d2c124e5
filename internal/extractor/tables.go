package extractor

import (
	"context"

	"github.com/BerylCAtieno/document-processing-service/internal/models"
	"github.com/BerylCAtieno/document-processing-service/internal/pdfengine"
	"github.com/BerylCAtieno/document-processing-service/internal/utils"
)

type TableExtractor struct {
	opener pdfengine.Opener
	logger *utils.Logger
}

func NewTableExtractor(opener pdfengine.Opener, logger *utils.Logger) *TableExtractor {
	return &TableExtractor{opener: opener, logger: logger}
}

// ExtractTables walks the pages in order and returns one record per detected
// table that is non-empty after cleaning. Page numbers and table indexes are
// 1-based; the table index restarts on every page and counts skipped
// detections too. A document without tables yields an empty, non-nil slice.
func (e *TableExtractor) ExtractTables(ctx context.Context, path string) ([]models.TableRecord, error) {
	e.logger.Info("Starting table extraction", "path", path)

	if err := checkPDF("tables", path); err != nil {
		e.logger.Warn("Table extraction rejected", "path", path, "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, &ExtractionError{Op: "tables", Path: path, Err: err}
	}

	doc, err := e.opener.Open(path)
	if err != nil {
		return nil, &ExtractionError{Op: "tables", Path: path, Err: err}
	}
	defer doc.Close()

	pages, err := doc.Pages()
	if err != nil {
		return nil, &ExtractionError{Op: "tables", Path: path, Err: err}
	}
	e.logger.Debug("PDF opened", "path", path, "pages", len(pages))

	records := []models.TableRecord{}
	for i, page := range pages {
		pageNum := i + 1

		detections, err := page.ExtractTables()
		if err != nil {
			return nil, &ExtractionError{Op: "tables", Path: path, Err: err}
		}
		e.logger.Debug("Tables detected", "page", pageNum, "count", len(detections))

		for j, raw := range detections {
			tableIndex := j + 1
			if len(raw) == 0 {
				continue
			}

			cleaned := CleanTable(raw)
			if len(cleaned) == 0 {
				e.logger.Debug("Table empty after cleaning", "page", pageNum, "table_index", tableIndex)
				continue
			}

			record := models.TableRecord{
				Page:       pageNum,
				TableIndex: tableIndex,
				Rows:       len(cleaned),
				Columns:    cleaned.Width(),
				Data:       cleaned,
			}
			records = append(records, record)
			e.logger.Debug("Table added", "page", pageNum, "table_index", tableIndex, "rows", record.Rows, "columns", record.Columns)
		}
	}

	if len(records) == 0 {
		e.logger.Info("No tables found in PDF", "path", path, "pages", len(pages))
	} else {
		e.logger.Info("Table extraction complete", "path", path, "pages", len(pages), "tables", len(records))
	}

	return records, nil
}
