// Package pdfengine is the boundary to the PDF parsing library. The extractor
// only sees the Opener, Document and Page interfaces, so it can be exercised
// against fakes without a real PDF.
package pdfengine

// RawCell is a cell as reported by the parser. nil marks a hole.
type RawCell = any

// RawRow is a row of cells. A nil RawRow marks an absent row.
type RawRow []RawCell

// RawTable is one detected table region, possibly ragged.
type RawTable []RawRow

// Opener opens documents. Implementations must be safe for concurrent use.
type Opener interface {
	Open(path string) (Document, error)
}

// Document is an opened PDF. Close must be called on every path once Open
// has succeeded.
type Document interface {
	Pages() ([]Page, error)
	Close() error
}

// Page gives access to a single page's text and table detections.
type Page interface {
	// ExtractText returns the page text, or "" when the page has none.
	ExtractText() (string, error)
	// ExtractTables returns the raw table detections in parser order. The
	// result and its elements may be nil.
	ExtractTables() ([]RawTable, error)
}
