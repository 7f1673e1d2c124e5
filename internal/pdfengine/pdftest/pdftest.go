// Package pdftest builds small, valid PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Font resource names available to every page.
const (
	// Helvetica with WinAnsiEncoding and a flat 500 unit advance for 32-126.
	Helvetica = "F1"
	// Raw passes string bytes through undecoded, so UTF-8 bytes in a Word
	// come back as the runes they encode. It has no widths.
	Raw = "F2"
)

// Word is one run of text drawn at X, Y.
type Word struct {
	Font string
	Size float64
	X, Y float64
	Text string
}

// Page is the content of one page. A page with no words has no content
// stream at all.
type Page struct {
	Words []Word
}

// Grid lays rows out as words on a regular grid, top row first.
func Grid(x, y, colStep, rowStep float64, rows ...[]string) Page {
	var p Page
	for r, row := range rows {
		for c, cell := range row {
			p.Words = append(p.Words, Word{
				Font: Helvetica,
				Size: 10,
				X:    x + float64(c)*colStep,
				Y:    y - float64(r)*rowStep,
				Text: cell,
			})
		}
	}
	return p
}

// Options tweak the document structure.
type Options struct {
	// ExtraPageCount is added to the page tree's /Count without adding
	// kids, so the trailing page numbers resolve to null pages.
	ExtraPageCount int
}

// Build serializes pages into PDF bytes.
func Build(opts Options, pages ...Page) []byte {
	// 1 catalog, 2 page tree, 3 and 4 fonts, then a page object and an
	// optional content stream per page.
	var objects []string
	objects = append(objects, "", "", fontHelvetica(), fontRaw())

	var kids []string
	for _, p := range pages {
		pageNum := len(objects) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))

		if len(p.Words) == 0 {
			objects = append(objects, pageDict(""))
			continue
		}
		contentNum := pageNum + 1
		objects = append(objects, pageDict(fmt.Sprintf(" /Contents %d 0 R", contentNum)))
		stream := contentStream(p.Words)
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	objects[0] = "<< /Type /Catalog /Pages 2 0 R >>"
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pages)+opts.ExtraPageCount)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

// Write builds the document into dir/name and returns its path.
func Write(t testing.TB, dir, name string, opts Options, pages ...Page) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Build(opts, pages...), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	return path
}

func pageDict(contents string) string {
	return "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792]" +
		" /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >>" + contents + " >>"
}

func fontHelvetica() string {
	widths := strings.TrimSpace(strings.Repeat("500 ", 126-32+1))
	return "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding" +
		" /FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>"
}

func fontRaw() string {
	return "<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /RawBytes >>"
}

func contentStream(words []Word) string {
	var sb strings.Builder
	for _, w := range words {
		fmt.Fprintf(&sb, "BT /%s %g Tf %g %g Td (%s) Tj ET\n", w.Font, w.Size, w.X, w.Y, escape(w.Text))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return r.Replace(s)
}
