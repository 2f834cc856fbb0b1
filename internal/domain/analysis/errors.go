package analysis

import "errors"

// ErrHistoryDisabled is returned when no history repository is configured.
var ErrHistoryDisabled = errors.New("analysis history is not configured")
