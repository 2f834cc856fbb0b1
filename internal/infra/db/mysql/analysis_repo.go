package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO pothole_analyses
  (id, latitude, longitude, status, potholes_detected, error_message, result_json, created_at)
VALUES (?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  status=VALUES(status), potholes_detected=VALUES(potholes_detected),
  error_message=VALUES(error_message), result_json=VALUES(result_json);
`
	a := normalizeRecord(*rec, time.Now())
	_, err := r.db.ExecContext(ctx, q,
		a.ID, a.Latitude, a.Longitude, string(a.Status), a.PotholesDetected, a.Error, a.Result, a.CreatedAt)
	return err
}

// Paginate returns a page of analysis records ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Record, error) {
	if pageSize <= 0 {
		pageSize = 20
	}

	const q = `
SELECT id, latitude, longitude, status, potholes_detected, error_message, result_json, created_at
FROM pothole_analyses
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset(page, pageSize))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var a domain.Record
		var status string
		if err := rows.Scan(&a.ID, &a.Latitude, &a.Longitude, &status, &a.PotholesDetected, &a.Error, &a.Result, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Status = domain.Status(status)
		out = append(out, &a)
	}
	return out, rows.Err()
}
