package mysql

import (
	"strings"
	"time"

	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/analysis"
)

// normalizeRecord isi default untuk kolom NOT NULL
func normalizeRecord(r domain.Record, now time.Time) domain.Record {
	if strings.TrimSpace(r.Result) == "" {
		// result_json column requires valid JSON; use empty object
		r.Result = "{}"
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return r
}

// offset converts a 1-based page into a row offset.
func offset(page, pageSize int) int {
	if page <= 0 {
		page = 1
	}
	return (page - 1) * pageSize
}
