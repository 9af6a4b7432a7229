package helpers

import (
	"math"
	"strconv"
	"strings"

	"github.com/yigit/studentrecords/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	DefaultPage     = 1 // pages are 1-based
)

// ResolvePage turns a raw ?page= value into a page that exists for totalItems.
// Values that are not integers fall back to the first page; integers outside
// [1, totalPages] fall back to the last page. An empty result still has one page.
func ResolvePage(pageParam string, totalItems int64, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}

	totalPages := 1
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(size)))
	}

	page, err := strconv.Atoi(strings.TrimSpace(pageParam))
	switch {
	case err != nil:
		page = DefaultPage
	case page < 1 || page > totalPages:
		page = totalPages
	}

	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}
	return uint64((page - 1) * size), size
}
