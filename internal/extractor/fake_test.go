package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BerylCAtieno/document-processing-service/internal/pdfengine"
)

// fakeOpener serves a fixed set of pages and records whether the document
// was closed.
type fakeOpener struct {
	pages   []pdfengine.Page
	openErr error
	pageErr error
	opened  int
	closed  int
}

func (o *fakeOpener) Open(path string) (pdfengine.Document, error) {
	if o.openErr != nil {
		return nil, o.openErr
	}
	o.opened++
	return &fakeDocument{opener: o}, nil
}

type fakeDocument struct {
	opener *fakeOpener
}

func (d *fakeDocument) Pages() ([]pdfengine.Page, error) {
	if d.opener.pageErr != nil {
		return nil, d.opener.pageErr
	}
	return d.opener.pages, nil
}

func (d *fakeDocument) Close() error {
	d.opener.closed++
	return nil
}

type fakePage struct {
	text      string
	tables    []pdfengine.RawTable
	textErr   error
	tablesErr error
}

func (p fakePage) ExtractText() (string, error) {
	return p.text, p.textErr
}

func (p fakePage) ExtractTables() ([]pdfengine.RawTable, error) {
	return p.tables, p.tablesErr
}

// writePDF creates an empty file with the given name; the fake engine never
// reads it.
func writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}
