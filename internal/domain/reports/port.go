package reports

import "context"

// Source port (open-data provider)
type Source interface {
	Fetch(ctx context.Context, q Query) ([]Report, error)
}

// SnapshotStore port (local copy of the latest fetch)
type SnapshotStore interface {
	Write(ctx context.Context, reports []Report) error
	// Read returns the snapshot bytes verbatim.
	Read(ctx context.Context) ([]byte, error)
}
