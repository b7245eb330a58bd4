package entity

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ListRequest is the common pagination + search query for listing endpoints.
type ListRequest struct {
	Page   int
	Limit  int
	Search string
}

// Normalize clamps pagination parameters to sane values.
func (r *ListRequest) Normalize() {
	if r.Page < 1 {
		r.Page = defaultPage
	}
	if r.Limit < 1 {
		r.Limit = defaultLimit
	}
	if r.Limit > maxLimit {
		r.Limit = maxLimit
	}
}

// Offset returns the row offset for the normalized page.
func (r *ListRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// Pagination is the envelope returned alongside every listing.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	HasNextPage bool `json:"has_next_page"`
}

// NewPagination computes the envelope from a normalized request and a total count.
func NewPagination(req *ListRequest, total int) Pagination {
	totalPages := (total + req.Limit - 1) / req.Limit
	return Pagination{
		CurrentPage: req.Page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNextPage: req.Page < totalPages,
	}
}
