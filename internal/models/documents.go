package models

import (
	"time"
)

type ExtractRequest struct {
	FilePath string `json:"file_path" validate:"required"`
}

type ExtractTextResponse struct {
	Success       bool   `json:"success"`
	FilePath      string `json:"file_path"`
	ExtractedText string `json:"extractedText"`
}

type ExtractTablesResponse struct {
	Success  bool          `json:"success"`
	FilePath string        `json:"file_path"`
	Tables   []TableRecord `json:"tables"`
}

// TableRecord describes one table found in a document.
type TableRecord struct {
	Rows       int        `json:"rows"`
	Columns    int        `json:"columns"`
	Data       [][]string `json:"data"`
	Page       int        `json:"page"`
	TableIndex int        `json:"table_index"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type RootResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

const (
	KindText   = "text"
	KindTables = "tables"
)

// ExtractionRecord is one entry of the extraction audit log.
type ExtractionRecord struct {
	ID            string    `json:"id" db:"id"`
	Kind          string    `json:"kind" db:"kind"`
	RequestedPath string    `json:"requested_path" db:"requested_path"`
	ResolvedPath  string    `json:"resolved_path" db:"resolved_path"`
	Success       bool      `json:"success" db:"success"`
	StatusCode    int       `json:"status_code" db:"status_code"`
	TableCount    int       `json:"table_count" db:"table_count"`
	TextLength    int       `json:"text_length" db:"text_length"`
	Error         string    `json:"error,omitempty" db:"error"`
	DurationMS    int64     `json:"duration_ms" db:"duration_ms"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type ExtractionListResponse struct {
	Extractions []ExtractionRecord `json:"extractions"`
}
