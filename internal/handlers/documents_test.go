package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BerylCAtieno/document-processing-service/internal/models"
	"github.com/BerylCAtieno/document-processing-service/internal/utils"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	extractText     func(ctx context.Context, filePath string) (*models.ExtractTextResponse, error)
	extractTables   func(ctx context.Context, filePath string) (*models.ExtractTablesResponse, error)
	getExtraction   func(ctx context.Context, id string) (*models.ExtractionRecord, error)
	listExtractions func(ctx context.Context, limit int) ([]models.ExtractionRecord, error)
}

func (m *mockService) ExtractText(ctx context.Context, filePath string) (*models.ExtractTextResponse, error) {
	return m.extractText(ctx, filePath)
}

func (m *mockService) ExtractTables(ctx context.Context, filePath string) (*models.ExtractTablesResponse, error) {
	return m.extractTables(ctx, filePath)
}

func (m *mockService) GetExtraction(ctx context.Context, id string) (*models.ExtractionRecord, error) {
	return m.getExtraction(ctx, id)
}

func (m *mockService) ListExtractions(ctx context.Context, limit int) ([]models.ExtractionRecord, error) {
	return m.listExtractions(ctx, limit)
}

func newHandler(svc *mockService) *DocumentHandler {
	return NewDocumentHandler(svc, utils.NewNopLogger(), 0)
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

func TestHealthAndRoot(t *testing.T) {
	h := newHandler(&mockService{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"document-processing"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Document Processing Service API"}`, rec.Body.String())
}

func TestExtractText(t *testing.T) {
	var gotPath string
	h := newHandler(&mockService{
		extractText: func(ctx context.Context, filePath string) (*models.ExtractTextResponse, error) {
			gotPath = filePath
			return &models.ExtractTextResponse{Success: true, FilePath: "../backend/" + filePath, ExtractedText: "Hello"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(`{"file_path":"uploads/a.pdf"}`))
	rec := httptest.NewRecorder()
	h.ExtractText(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "uploads/a.pdf", gotPath)
	assert.JSONEq(t, `{"success":true,"file_path":"../backend/uploads/a.pdf","extractedText":"Hello"}`, rec.Body.String())
}

func TestExtractTextServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"not found", utils.NewNotFoundError("File not found: uploads/a.pdf"), http.StatusNotFound, "File not found: uploads/a.pdf"},
		{"forbidden", utils.NewForbiddenError("Access denied: /etc/a.pdf"), http.StatusForbidden, "Access denied: /etc/a.pdf"},
		{"processing", utils.WrapInternalError("Error processing file: bad", errors.New("bad")), http.StatusInternalServerError, "Error processing file: bad"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(&mockService{
				extractText: func(ctx context.Context, filePath string) (*models.ExtractTextResponse, error) {
					return nil, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(`{"file_path":"uploads/a.pdf"}`))
			rec := httptest.NewRecorder()
			h.ExtractText(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantDetail, decodeDetail(t, rec))
		})
	}
}

func TestExtractRequestValidation(t *testing.T) {
	called := false
	h := newHandler(&mockService{
		extractTables: func(ctx context.Context, filePath string) (*models.ExtractTablesResponse, error) {
			called = true
			return &models.ExtractTablesResponse{Success: true, Tables: []models.TableRecord{}}, nil
		},
	})

	for _, body := range []string{`{}`, `{"file_path":""}`, `not json`, `{"file_path":42}`} {
		req := httptest.NewRequest(http.MethodPost, "/extract-tables", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.ExtractTables(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
		assert.NotEmpty(t, decodeDetail(t, rec), body)
	}
	assert.False(t, called)
}

func TestExtractRequestTooLarge(t *testing.T) {
	h := NewDocumentHandler(&mockService{}, utils.NewNopLogger(), 16)

	body := `{"file_path":"` + strings.Repeat("a", 64) + `.pdf"}`
	rec := httptest.NewRecorder()
	h.ExtractText(rec, httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(body)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestExtractTables(t *testing.T) {
	h := newHandler(&mockService{
		extractTables: func(ctx context.Context, filePath string) (*models.ExtractTablesResponse, error) {
			return &models.ExtractTablesResponse{
				Success:  true,
				FilePath: filePath,
				Tables: []models.TableRecord{{
					Rows: 1, Columns: 2, Page: 1, TableIndex: 1,
					Data: [][]string{{"a", "b"}},
				}},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/extract-tables", strings.NewReader(`{"file_path":"x.pdf"}`))
	rec := httptest.NewRecorder()
	h.ExtractTables(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"file_path":"x.pdf","tables":[
		{"rows":1,"columns":2,"data":[["a","b"]],"page":1,"table_index":1}]}`, rec.Body.String())
}

func TestGetExtraction(t *testing.T) {
	h := newHandler(&mockService{
		getExtraction: func(ctx context.Context, id string) (*models.ExtractionRecord, error) {
			if id == "abc" {
				return &models.ExtractionRecord{ID: "abc", Kind: models.KindText}, nil
			}
			return nil, utils.NewNotFoundError("Extraction not found")
		},
	})

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/extractions/abc", nil), map[string]string{"id": "abc"})
	rec := httptest.NewRecorder()
	h.GetExtraction(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got models.ExtractionRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "abc", got.ID)

	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/extractions/zzz", nil), map[string]string{"id": "zzz"})
	rec = httptest.NewRecorder()
	h.GetExtraction(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Extraction not found", decodeDetail(t, rec))
}

func TestListExtractions(t *testing.T) {
	var gotLimit int
	h := newHandler(&mockService{
		listExtractions: func(ctx context.Context, limit int) ([]models.ExtractionRecord, error) {
			gotLimit = limit
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	h.ListExtractions(rec, httptest.NewRequest(http.MethodGet, "/extractions?limit=5", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, gotLimit)
	assert.JSONEq(t, `{"extractions":[]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ListExtractions(rec, httptest.NewRequest(http.MethodGet, "/extractions?limit=abc", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
