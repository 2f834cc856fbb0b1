package mysql

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/analysis"
)

func TestNormalizeRecord(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	got := normalizeRecord(domain.Record{ID: "a"}, now)
	assert.Equal(t, "{}", got.Result)
	assert.Equal(t, now, got.CreatedAt)

	jkt := time.FixedZone("WIB", 7*3600)
	got = normalizeRecord(domain.Record{Result: `{"x":1}`, CreatedAt: time.Date(2025, 3, 1, 17, 0, 0, 0, jkt)}, now)
	assert.Equal(t, `{"x":1}`, got.Result)
	assert.Equal(t, now, got.CreatedAt)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, offset(0, 20))
	assert.Equal(t, 0, offset(1, 20))
	assert.Equal(t, 40, offset(3, 20))
}

// Butuh MySQL beneran: POTHOLE_TEST_MYSQL_DSN=user:pass@tcp(127.0.0.1:3306)/db?parseTime=true
func TestAnalysisRepositoryRoundTrip(t *testing.T) {
	dsn := os.Getenv("POTHOLE_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("POTHOLE_TEST_MYSQL_DSN not set")
	}
	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	repo := NewAnalysisRepository(db)
	rec := &domain.Record{
		ID:               uuid.NewString(),
		Latitude:         40.7128,
		Longitude:        -74.006,
		Status:           domain.StatusCompleted,
		PotholesDetected: 2,
		Result:           `{"id":"x"}`,
		CreatedAt:        time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Save(ctx, rec))

	list, err := repo.Paginate(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rec.ID, list[0].ID)
	assert.Equal(t, 2, list[0].PotholesDetected)
}
