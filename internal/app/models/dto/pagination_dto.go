package dto

// PaginationInfo describes one page of a paginated list
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}

// HasPrevious reports whether a page exists before the current one
func (p PaginationInfo) HasPrevious() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether a page exists after the current one
func (p PaginationInfo) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// PreviousPage returns the previous page number
func (p PaginationInfo) PreviousPage() int {
	return p.CurrentPage - 1
}

// NextPage returns the next page number
func (p PaginationInfo) NextPage() int {
	return p.CurrentPage + 1
}

// Offset returns the number of items before the current page
func (p PaginationInfo) Offset() uint64 {
	if p.CurrentPage < 1 {
		return 0
	}
	return uint64((p.CurrentPage - 1) * p.PageSize)
}

// StartIndex is the 1-based index of the first item on the page, 0 when empty
func (p PaginationInfo) StartIndex() int64 {
	if p.TotalItems == 0 {
		return 0
	}
	return int64(p.Offset()) + 1
}

// EndIndex is the 1-based index of the last item on the page
func (p PaginationInfo) EndIndex() int64 {
	end := int64(p.Offset()) + int64(p.PageSize)
	if end > p.TotalItems {
		return p.TotalItems
	}
	return end
}
