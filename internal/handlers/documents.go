package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/BerylCAtieno/document-processing-service/internal/models"
	"github.com/BerylCAtieno/document-processing-service/internal/services"
	"github.com/BerylCAtieno/document-processing-service/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const (
	DefaultMaxBodyBytes = 1 << 20 // 1MB
)

type DocumentHandler struct {
	service  services.DocumentService
	logger   *utils.Logger
	validate *validator.Validate
	maxBytes int64
}

func NewDocumentHandler(service services.DocumentService, logger *utils.Logger, maxBytes int64) *DocumentHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return &DocumentHandler{
		service:  service,
		logger:   logger,
		validate: validator.New(),
		maxBytes: maxBytes,
	}
}

func (h *DocumentHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "ok",
		Service: "document-processing",
	})
}

func (h *DocumentHandler) Root(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, models.RootResponse{
		Message: "Document Processing Service API",
	})
}

func (h *DocumentHandler) ExtractText(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRequest(w, r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp, err := h.service.ExtractText(r.Context(), req.FilePath)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *DocumentHandler) ExtractTables(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeRequest(w, r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp, err := h.service.ExtractTables(r.Context(), req.FilePath)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *DocumentHandler) GetExtraction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Extraction ID is required"))
		return
	}

	rec, err := h.service.GetExtraction(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, rec)
}

func (h *DocumentHandler) ListExtractions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.respondError(w, utils.NewUnprocessableError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	records, err := h.service.ListExtractions(r.Context(), limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if records == nil {
		records = []models.ExtractionRecord{}
	}

	h.respondJSON(w, http.StatusOK, models.ExtractionListResponse{Extractions: records})
}

// decodeRequest reads the JSON body. Malformed or incomplete bodies are
// reported as 422, oversized ones as 413.
func (h *DocumentHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (*models.ExtractRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	var req models.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &utils.AppError{
				StatusCode: http.StatusRequestEntityTooLarge,
				Message:    "Request body too large",
			}
		}
		return nil, utils.NewUnprocessableError("Invalid request body: " + err.Error())
	}

	if err := h.validate.Struct(&req); err != nil {
		return nil, utils.NewUnprocessableError("file_path is required")
	}

	return &req, nil
}

func (h *DocumentHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *DocumentHandler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request error", "status", status, "error", err)
	} else {
		h.logger.Warn("Request error", "status", status, "error", message)
	}

	h.respondJSON(w, status, models.ErrorResponse{Detail: message})
}
