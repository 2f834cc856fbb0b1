package analysis

// PaginatedResult represents a page of history records
type PaginatedResult struct {
	Data     []*Record `json:"data"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}
