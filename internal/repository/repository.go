package repository

import (
	"context"
	"database/sql"

	"github.com/BerylCAtieno/document-processing-service/internal/models"
	"github.com/jmoiron/sqlx"
)

// Repository persists the extraction audit log.
type Repository interface {
	Create(ctx context.Context, rec *models.ExtractionRecord) error
	GetByID(ctx context.Context, id string) (*models.ExtractionRecord, error)
	ListRecent(ctx context.Context, limit int) ([]models.ExtractionRecord, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rec *models.ExtractionRecord) error {
	query := `
		INSERT INTO extractions (id, kind, requested_path, resolved_path, success, status_code,
		                         table_count, text_length, error, duration_ms, created_at)
		VALUES (:id, :kind, :requested_path, :resolved_path, :success, :status_code,
		        :table_count, :text_length, :error, :duration_ms, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, rec)
	return err
}

func (r *repository) GetByID(ctx context.Context, id string) (*models.ExtractionRecord, error) {
	var rec models.ExtractionRecord

	query := `
		SELECT id, kind, requested_path, resolved_path, success, status_code,
		       table_count, text_length, error, duration_ms, created_at
		FROM extractions
		WHERE id = ?
	`

	err := r.db.GetContext(ctx, &rec, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]models.ExtractionRecord, error) {
	records := []models.ExtractionRecord{}

	query := `
		SELECT id, kind, requested_path, resolved_path, success, status_code,
		       table_count, text_length, error, duration_ms, created_at
		FROM extractions
		ORDER BY created_at DESC, id
		LIMIT ?
	`

	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, err
	}

	return records, nil
}
