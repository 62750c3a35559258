// Package pagination presents one fixed-size page of an ordered sequence
// together with the metadata a pager needs.
package pagination

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

// DefaultPageSize is used when a non-positive page size is requested
const DefaultPageSize = 10

// List is one page of a sequence. TotalPages is at least 1, so an empty
// sequence has one empty page. PageIndex is 1-based and always within
// [1, TotalPages].
type List[T any] struct {
	Items           []T  `json:"items"`
	PageIndex       int  `json:"pageIndex"`
	PageSize        int  `json:"pageSize"`
	TotalCount      int  `json:"totalCount"`
	TotalPages      int  `json:"totalPages"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
}

// New builds the requested page of source. Out of range page indexes are
// clamped instead of rejected. source is not modified.
func New[T any](source []T, pageIndex, pageSize int) *List[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	count := len(source)
	totalPages := max(1, (count+pageSize-1)/pageSize)

	pageIndex = min(pageIndex, totalPages)
	pageIndex = max(pageIndex, 1)

	start := min((pageIndex-1)*pageSize, count)
	end := min(start+pageSize, count)

	items := make([]T, end-start)
	copy(items, source[start:end])

	return &List[T]{
		Items:           items,
		PageIndex:       pageIndex,
		PageSize:        pageSize,
		TotalCount:      count,
		TotalPages:      totalPages,
		HasPreviousPage: pageIndex > 1,
		HasNextPage:     pageIndex < totalPages,
	}
}

// FromSeq materializes seq and builds the requested page
func FromSeq[T any](seq iter.Seq[T], pageIndex, pageSize int) *List[T] {
	return New(slices.Collect(seq), pageIndex, pageSize)
}

// ParsePage reads a 1-based page number from a query value. Missing or
// malformed values yield page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Map converts the items of a page, keeping its metadata
func Map[T, U any](page *List[T], fn func(T) U) *List[U] {
	items := make([]U, len(page.Items))
	for i, item := range page.Items {
		items[i] = fn(item)
	}
	return &List[U]{
		Items:           items,
		PageIndex:       page.PageIndex,
		PageSize:        page.PageSize,
		TotalCount:      page.TotalCount,
		TotalPages:      page.TotalPages,
		HasPreviousPage: page.HasPreviousPage,
		HasNextPage:     page.HasNextPage,
	}
}
