package pdfengine

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// Ledongthuc is an Opener backed by github.com/ledongthuc/pdf. Tables are
// derived from positioned text, see DetectTables.
type Ledongthuc struct {
	Layout LayoutConfig
}

func NewLedongthuc() *Ledongthuc {
	return &Ledongthuc{Layout: DefaultLayoutConfig()}
}

func (l *Ledongthuc) Open(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	// The handle is ours, so it is closed even when the parser panics.
	var r *pdf.Reader
	if err := guard(func() error {
		var err error
		r, err = pdf.NewReader(f, fi.Size())
		return err
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	return &ledongthucDocument{file: f, reader: r, layout: l.Layout}, nil
}

type ledongthucDocument struct {
	file   *os.File
	reader *pdf.Reader
	layout LayoutConfig
}

func (d *ledongthucDocument) Pages() ([]Page, error) {
	var pages []Page
	err := guard(func() error {
		numPages := d.reader.NumPage()
		pages = make([]Page, 0, numPages)
		for i := 1; i <= numPages; i++ {
			pages = append(pages, &ledongthucPage{page: d.reader.Page(i), number: i, layout: d.layout})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read page tree: %w", err)
	}
	return pages, nil
}

func (d *ledongthucDocument) Close() error {
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}

type ledongthucPage struct {
	page   pdf.Page
	number int
	layout LayoutConfig
}

func (p *ledongthucPage) ExtractText() (string, error) {
	if p.page.V.IsNull() {
		return "", nil
	}

	var text string
	err := guard(func() error {
		var err error
		text, err = p.page.GetPlainText(nil)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("page %d: %w", p.number, err)
	}
	return norm.NFC.String(text), nil
}

func (p *ledongthucPage) ExtractTables() ([]RawTable, error) {
	if p.page.V.IsNull() {
		return nil, nil
	}

	var texts []pdf.Text
	err := guard(func() error {
		texts = p.page.Content().Text
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", p.number, err)
	}

	return DetectTables(texts, p.layout), nil
}

// guard runs fn and converts a parser panic into an error. The library panics
// on several kinds of malformed input.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %s", strings.TrimSpace(fmt.Sprint(r)))
		}
	}()
	return fn()
}
