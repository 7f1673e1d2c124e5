package extractor

import (
	"context"
	"strings"

	"github.com/BerylCAtieno/document-processing-service/internal/pdfengine"
	"github.com/BerylCAtieno/document-processing-service/internal/utils"
)

// NoTextFound is returned in place of an empty extraction result.
const NoTextFound = "No text found in PDF. The PDF might contain only images."

type TextExtractor struct {
	opener pdfengine.Opener
	logger *utils.Logger
}

func NewTextExtractor(opener pdfengine.Opener, logger *utils.Logger) *TextExtractor {
	return &TextExtractor{opener: opener, logger: logger}
}

// ExtractText concatenates the trimmed text of every page that has some,
// separated by a blank line. It never returns an empty string on success.
func (e *TextExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	if err := checkPDF("text", path); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", &ExtractionError{Op: "text", Path: path, Err: err}
	}

	doc, err := e.opener.Open(path)
	if err != nil {
		return "", &ExtractionError{Op: "text", Path: path, Err: err}
	}
	defer doc.Close()

	pages, err := doc.Pages()
	if err != nil {
		return "", &ExtractionError{Op: "text", Path: path, Err: err}
	}

	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		text, err := page.ExtractText()
		if err != nil {
			return "", &ExtractionError{Op: "text", Path: path, Err: err}
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}

	result := strings.Join(parts, "\n\n")
	if strings.TrimSpace(result) == "" {
		e.logger.Info("No text layer found", "path", path, "pages", len(pages))
		return NoTextFound, nil
	}

	e.logger.Debug("Text extracted", "path", path, "pages", len(pages), "text_length", len(result))
	return result, nil
}
