package reports

import (
	"context"
	"fmt"
	"log"

	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/reports"
)

// Service implements use-cases untuk snapshot laporan pothole
type Service struct {
	Source    domain.Source
	Snapshots domain.SnapshotStore
	Query     domain.Query
}

// RefreshResult describes one fetch run.
type RefreshResult struct {
	Count           int  `json:"count"`
	PotholeMentions int  `json:"pothole_mentions"`
	Written         bool `json:"written"`
}

// Refresh pulls the latest reports once and overwrites the snapshot.
// An empty result leaves the existing snapshot untouched.
func (s *Service) Refresh(ctx context.Context) (RefreshResult, error) {
	log.Printf("fetching pothole reports limit=%d", s.Query.Limit)

	list, err := s.Source.Fetch(ctx, s.Query)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("fetch reports: %w", err)
	}
	if len(list) == 0 {
		log.Printf("no pothole reports found with the specified criteria")
		return RefreshResult{}, nil
	}

	if err := s.Snapshots.Write(ctx, list); err != nil {
		return RefreshResult{}, fmt.Errorf("write snapshot: %w", err)
	}

	res := RefreshResult{Count: len(list), Written: true}
	for _, r := range list {
		if r.MentionsPothole() {
			res.PotholeMentions++
		}
	}
	log.Printf("snapshot saved reports=%d pothole_mentions=%d", res.Count, res.PotholeMentions)
	return res, nil
}

// List returns the snapshot exactly as stored.
func (s *Service) List(ctx context.Context) ([]byte, error) {
	return s.Snapshots.Read(ctx)
}
