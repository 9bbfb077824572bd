// Package v1 implements the version 1 HTTP API routers.
package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/helixml/newsdesk/domain/repository"
	"github.com/helixml/newsdesk/infrastructure/api/jsonapi"
	"github.com/helixml/newsdesk/internal/config"
)

// PaginationParams holds the requested page.
type PaginationParams struct {
	page     int
	pageSize int
}

// NewPaginationParams creates params for the first page of pageSize
// items. A pageSize outside 1..MaxPageSize falls back to the default.
func NewPaginationParams(pageSize int) PaginationParams {
	return PaginationParams{page: 1, pageSize: config.DefaultPageSize}.WithPageSize(pageSize)
}

// ParsePagination reads page and page_size from the query string.
// Invalid values are ignored; page_size is capped at MaxPageSize.
func ParsePagination(r *http.Request, defaultPageSize int) PaginationParams {
	params := NewPaginationParams(defaultPageSize)
	q := r.URL.Query()
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params = params.WithPage(page)
	}
	if size, err := strconv.Atoi(q.Get("page_size")); err == nil && size >= 1 {
		params = params.WithPageSize(size)
	}
	return params
}

// Page returns the 1-indexed page number.
func (p PaginationParams) Page() int { return p.page }

// PageSize returns the page size.
func (p PaginationParams) PageSize() int { return p.pageSize }

// Offset returns the number of items before the page.
func (p PaginationParams) Offset() int {
	return (p.page - 1) * p.pageSize
}

// WithPage returns a copy on the given page.
func (p PaginationParams) WithPage(page int) PaginationParams {
	if page < 1 {
		page = 1
	}
	p.page = page
	return p
}

// WithPageSize returns a copy with the given page size.
func (p PaginationParams) WithPageSize(size int) PaginationParams {
	switch {
	case size < 1:
		size = config.DefaultPageSize
	case size > config.MaxPageSize:
		size = config.MaxPageSize
	}
	p.pageSize = size
	return p
}

// Options returns repository options selecting the page.
func (p PaginationParams) Options() []repository.Option {
	return repository.WithPagination(p.pageSize, p.Offset())
}

func (p PaginationParams) totalPages(total int64) int {
	return int((total + int64(p.pageSize) - 1) / int64(p.pageSize))
}

// PaginationMeta builds the meta object for a page.
func PaginationMeta(params PaginationParams, total int64) *jsonapi.Meta {
	return &jsonapi.Meta{
		"page":        params.Page(),
		"page_size":   params.PageSize(),
		"total_count": total,
		"total_pages": params.totalPages(total),
	}
}

// PaginationLinks builds first, last, prev and next links.
func PaginationLinks(r *http.Request, params PaginationParams, total int64) *jsonapi.Links {
	totalPages := params.totalPages(total)

	buildURL := func(page int) string {
		q := r.URL.Query()
		q.Set("page", strconv.Itoa(page))
		q.Set("page_size", strconv.Itoa(params.PageSize()))
		return fmt.Sprintf("%s?%s", r.URL.Path, q.Encode())
	}

	links := jsonapi.Links{
		Self:  buildURL(params.Page()),
		First: buildURL(1),
	}
	if totalPages > 0 {
		links.Last = buildURL(totalPages)
	}
	if params.Page() > 1 {
		links.Prev = buildURL(params.Page() - 1)
	}
	if params.Page() < totalPages {
		links.Next = buildURL(params.Page() + 1)
	}
	return &links
}
