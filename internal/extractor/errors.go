package extractor

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrNotFound means the path does not exist on disk.
	ErrNotFound = errors.New("file not found")
	// ErrInvalidFormat means the path exists but is not a .pdf file.
	ErrInvalidFormat = errors.New("file is not a PDF")
)

// ExtractionError wraps any failure inside the PDF engine.
type ExtractionError struct {
	Op   string // "text" or "tables"
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	switch e.Op {
	case "tables":
		return fmt.Sprintf("error extracting tables from PDF: %v", e.Err)
	default:
		return fmt.Sprintf("error extracting text from PDF: %v", e.Err)
	}
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// checkPDF verifies the path exists and carries a .pdf suffix, in that order.
func checkPDF(op, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return &ExtractionError{Op: op, Path: path, Err: err}
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("%w: %s", ErrInvalidFormat, path)
	}
	return nil
}
