package reports

import "errors"

// ErrSnapshotNotFound indicates the fetcher has not written a snapshot yet.
var ErrSnapshotNotFound = errors.New("snapshot not found")
