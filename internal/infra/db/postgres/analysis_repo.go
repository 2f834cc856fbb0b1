package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sqlx.DB
}

func NewAnalysisRepository(db *sqlx.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

const insertAnalysis = `
INSERT INTO pothole_analyses
  (id, latitude, longitude, status, potholes_detected, error_message, result_json, created_at)
VALUES (:id, :latitude, :longitude, :status, :potholes_detected, :error_message, :result_json, :created_at)
ON CONFLICT (id) DO UPDATE SET
  status=EXCLUDED.status,
  potholes_detected=EXCLUDED.potholes_detected,
  error_message=EXCLUDED.error_message,
  result_json=EXCLUDED.result_json;
`

// Save inserts or updates an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, rec *domain.Record) error {
	a := *rec
	if strings.TrimSpace(a.Result) == "" {
		a.Result = "{}"
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.NamedExecContext(ctx, insertAnalysis, &a)
	return err
}

// Paginate returns a page of analysis records ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Record, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	const q = `
SELECT id, latitude, longitude, status, potholes_detected, error_message, result_json, created_at
FROM pothole_analyses
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2;
`
	var out []*domain.Record
	if err := r.db.SelectContext(ctx, &out, q, pageSize, (page-1)*pageSize); err != nil {
		return nil, err
	}
	return out, nil
}
