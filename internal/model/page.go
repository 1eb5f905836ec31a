package model

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a 1-based page number and a page size.
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest normalises out-of-range values to the defaults.
func NewPageRequest(page, size int) PageRequest {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	// Keep (page-1)*size within int so Offset never wraps negative.
	if maxPage := math.MaxInt/size + 1; page > maxPage {
		page = maxPage
	}
	return PageRequest{Page: page, Size: size}
}

// Offset is the number of rows skipped before this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}

// Limit is the maximum number of rows on this page.
func (p PageRequest) Limit() int {
	return p.Size
}

// Page is one page of results plus the total across all pages.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// NewPage builds a page; content is never nil so it serializes as [].
func NewPage[T any](content []T, req PageRequest, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return &Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}
