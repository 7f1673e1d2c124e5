package extractor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/BerylCAtieno/document-processing-service/internal/models"
	"github.com/BerylCAtieno/document-processing-service/internal/pdfengine"
	"github.com/BerylCAtieno/document-processing-service/internal/pdfengine/pdftest"
	"github.com/BerylCAtieno/document-processing-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These run the real engine over generated documents.

func TestLedongthucTablesEndToEnd(t *testing.T) {
	path := pdftest.Write(t, t.TempDir(), "invoice.pdf", pdftest.Options{},
		pdftest.Page{},
		pdftest.Grid(72, 700, 100, 20,
			[]string{"Name", "Qty", "Price"},
			[]string{"Bolt", "12", "0.50"},
			[]string{"Nut", "30", "0.10"},
		))
	e := NewTableExtractor(pdfengine.NewLedongthuc(), utils.NewNopLogger())

	records, err := e.ExtractTables(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, []models.TableRecord{{
		Rows: 3, Columns: 3, Page: 2, TableIndex: 1,
		Data: [][]string{
			{"Name", "Qty", "Price"},
			{"Bolt", "12", "0.50"},
			{"Nut", "30", "0.10"},
		},
	}}, records)
}

func TestLedongthucBlankDocument(t *testing.T) {
	path := pdftest.Write(t, t.TempDir(), "blank.pdf", pdftest.Options{}, pdftest.Page{})
	engine := pdfengine.NewLedongthuc()
	logger := utils.NewNopLogger()

	text, err := NewTextExtractor(engine, logger).ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, NoTextFound, text)

	records, err := NewTableExtractor(engine, logger).ExtractTables(context.Background(), path)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestLedongthucCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.pdf")
	valid := pdftest.Build(pdftest.Options{}, pdftest.Grid(72, 700, 100, 20, []string{"a", "b"}, []string{"c", "d"}))
	require.NoError(t, os.WriteFile(path, valid[:len(valid)/2], 0o644))

	_, err := NewTextExtractor(pdfengine.NewLedongthuc(), utils.NewNopLogger()).ExtractText(context.Background(), path)

	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Contains(t, err.Error(), "error extracting text from PDF: failed to open PDF")
}
