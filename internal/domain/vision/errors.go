package vision

import "errors"

// ErrQuotaExceeded indicates the provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("vision quota exceeded")

// ErrUnauthorized indicates the provider rejected the API key.
var ErrUnauthorized = errors.New("vision provider rejected api key")
