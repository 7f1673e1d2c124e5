package services

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/BerylCAtieno/document-processing-service/internal/config"
	"github.com/BerylCAtieno/document-processing-service/internal/extractor"
	"github.com/BerylCAtieno/document-processing-service/internal/models"
	"github.com/BerylCAtieno/document-processing-service/internal/pdfengine"
	"github.com/BerylCAtieno/document-processing-service/internal/repository"
	"github.com/BerylCAtieno/document-processing-service/internal/resolver"
	"github.com/BerylCAtieno/document-processing-service/internal/storage"
	"github.com/BerylCAtieno/document-processing-service/internal/utils"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

type DocumentService interface {
	ExtractText(ctx context.Context, filePath string) (*models.ExtractTextResponse, error)
	ExtractTables(ctx context.Context, filePath string) (*models.ExtractTablesResponse, error)
	GetExtraction(ctx context.Context, id string) (*models.ExtractionRecord, error)
	ListExtractions(ctx context.Context, limit int) ([]models.ExtractionRecord, error)
}

type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

type TableExtractor interface {
	ExtractTables(ctx context.Context, path string) ([]models.TableRecord, error)
}

// Deps are the collaborators of the document service. Repo and Storage are
// optional.
type Deps struct {
	Resolver *resolver.Resolver
	Text     TextExtractor
	Tables   TableExtractor
	Repo     repository.Repository
	Storage  storage.Storage
	Logger   *utils.Logger
}

type documentService struct {
	resolver *resolver.Resolver
	text     TextExtractor
	tables   TableExtractor
	repo     repository.Repository
	storage  storage.Storage
	logger   *utils.Logger
}

// NewService wires the service from configuration. repo may be nil when the
// audit log is disabled.
func NewService(repo repository.Repository, cfg *config.Config, logger *utils.Logger) (DocumentService, error) {
	var store storage.Storage
	if cfg.S3Endpoint != "" {
		s3Storage, err := storage.NewS3Storage(cfg)
		if err != nil {
			return nil, err
		}
		store = s3Storage
	}

	engine := pdfengine.NewLedongthuc()

	return New(Deps{
		Resolver: resolver.New(cfg.BackendDir,
			resolver.WithAllowedRoots(cfg.AllowedRoots...),
			resolver.WithLogger(logger)),
		Text:    extractor.NewTextExtractor(engine, logger),
		Tables:  extractor.NewTableExtractor(engine, logger),
		Repo:    repo,
		Storage: store,
		Logger:  logger,
	}), nil
}

func New(d Deps) DocumentService {
	return &documentService{
		resolver: d.Resolver,
		text:     d.Text,
		tables:   d.Tables,
		repo:     d.Repo,
		storage:  d.Storage,
		logger:   d.Logger,
	}
}

func (s *documentService) ExtractText(ctx context.Context, filePath string) (*models.ExtractTextResponse, error) {
	rec := s.newRecord(models.KindText, filePath)
	s.logger.Info("Text extraction requested", "file_path", filePath)

	path, display, cleanup, prepErr := s.prepare(ctx, models.KindText, filePath)
	if prepErr != nil {
		s.finish(ctx, rec, prepErr)
		return nil, prepErr
	}
	defer cleanup()
	rec.ResolvedPath = display
	s.logger.Info("Resolved file path", "file_path", filePath, "resolved", display)

	text, err := s.text.ExtractText(ctx, path)
	if err != nil {
		appErr := s.mapError(models.KindText, filePath, display, err)
		s.finish(ctx, rec, appErr)
		return nil, appErr
	}

	rec.TextLength = len(text)
	s.finish(ctx, rec, nil)

	return &models.ExtractTextResponse{
		Success:       true,
		FilePath:      display,
		ExtractedText: text,
	}, nil
}

func (s *documentService) ExtractTables(ctx context.Context, filePath string) (*models.ExtractTablesResponse, error) {
	rec := s.newRecord(models.KindTables, filePath)
	s.logger.Info("Table extraction requested", "file_path", filePath)

	path, display, cleanup, prepErr := s.prepare(ctx, models.KindTables, filePath)
	if prepErr != nil {
		s.finish(ctx, rec, prepErr)
		return nil, prepErr
	}
	defer cleanup()
	rec.ResolvedPath = display
	s.logger.Info("Resolved file path", "file_path", filePath, "resolved", display)

	tables, err := s.tables.ExtractTables(ctx, path)
	if err != nil {
		appErr := s.mapError(models.KindTables, filePath, display, err)
		s.finish(ctx, rec, appErr)
		return nil, appErr
	}
	if tables == nil {
		tables = []models.TableRecord{}
	}

	rec.TableCount = len(tables)
	s.finish(ctx, rec, nil)

	return &models.ExtractTablesResponse{
		Success:  true,
		FilePath: display,
		Tables:   tables,
	}, nil
}

func (s *documentService) GetExtraction(ctx context.Context, id string) (*models.ExtractionRecord, error) {
	if s.repo == nil {
		return nil, utils.NewNotFoundError("Extraction log is disabled")
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get extraction", "error", err, "id", id)
		return nil, utils.WrapInternalError("Failed to retrieve extraction", err)
	}
	if rec == nil {
		return nil, utils.NewNotFoundError("Extraction not found")
	}

	return rec, nil
}

func (s *documentService) ListExtractions(ctx context.Context, limit int) ([]models.ExtractionRecord, error) {
	if s.repo == nil {
		return nil, utils.NewNotFoundError("Extraction log is disabled")
	}

	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	records, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list extractions", "error", err)
		return nil, utils.WrapInternalError("Failed to list extractions", err)
	}

	return records, nil
}

// prepare turns the requested path into a local file. It returns the path to
// read, the path to report back, and a cleanup func that is always safe to call.
func (s *documentService) prepare(ctx context.Context, kind, filePath string) (string, string, func(), *utils.AppError) {
	noop := func() {}

	if s.storage != nil && storage.IsRemote(filePath) {
		local, cleanup, err := s.storage.Fetch(ctx, filePath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", "", noop, utils.NewNotFoundError("File not found: " + filePath)
			}
			s.logger.Error("Failed to fetch remote document", "error", err, "file_path", filePath)
			return "", "", noop, utils.WrapInternalError(errorPrefix(kind)+err.Error(), err)
		}
		return local, filePath, cleanup, nil
	}

	resolved := s.resolver.Resolve(filePath)
	if !s.resolver.Allowed(resolved) {
		s.logger.Warn("Path outside allowed roots", "file_path", filePath, "resolved", resolved)
		return "", "", noop, utils.NewForbiddenError("Access denied: " + resolved)
	}

	return resolved, resolved, noop, nil
}

// mapError reports a missing file under the path the caller sent, not the
// resolved one.
func (s *documentService) mapError(kind, requested, path string, err error) *utils.AppError {
	if errors.Is(err, extractor.ErrNotFound) {
		s.logger.Warn("File not found", "file_path", requested, "path", path)
		return utils.NewNotFoundError("File not found: " + requested)
	}

	s.logger.Error("Extraction failed", "kind", kind, "path", path, "error", err)
	return utils.WrapInternalError(errorPrefix(kind)+err.Error(), err)
}

func errorPrefix(kind string) string {
	if kind == models.KindTables {
		return "Error extracting tables: "
	}
	return "Error processing file: "
}

func (s *documentService) newRecord(kind, filePath string) *models.ExtractionRecord {
	return &models.ExtractionRecord{
		ID:            utils.GenerateID(),
		Kind:          kind,
		RequestedPath: filePath,
		CreatedAt:     time.Now().UTC(),
	}
}

// finish completes the audit record and stores it. Storage failures are
// logged and never fail the request.
func (s *documentService) finish(ctx context.Context, rec *models.ExtractionRecord, appErr *utils.AppError) {
	rec.DurationMS = time.Since(rec.CreatedAt).Milliseconds()
	if appErr != nil {
		rec.StatusCode = appErr.StatusCode
		rec.Error = appErr.Message
	} else {
		rec.Success = true
		rec.StatusCode = 200
	}

	s.logger.Info("Extraction finished",
		"id", rec.ID,
		"kind", rec.Kind,
		"status", rec.StatusCode,
		"tables", rec.TableCount,
		"text_length", rec.TextLength,
		"duration_ms", rec.DurationMS)

	if s.repo == nil {
		return
	}
	if err := s.repo.Create(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn("Failed to record extraction", "error", err, "id", rec.ID)
	}
}
