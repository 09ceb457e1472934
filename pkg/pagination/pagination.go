// Package pagination slices result lists into fixed-size pages.
// Pages are numbered from 1.
package pagination

import (
	"github.com/agentstation/atlas/pkg/constants"
)

// Info describes a page window.
type Info struct {
	Page       int `json:"page" yaml:"page"`
	PageSize   int `json:"pageSize" yaml:"pageSize"`
	TotalItems int `json:"totalItems" yaml:"totalItems"`
	TotalPages int `json:"totalPages" yaml:"totalPages"`
}

// HasNext reports whether a later page exists.
func (i Info) HasNext() bool { return i.Page < i.TotalPages }

// HasPrev reports whether an earlier page exists.
func (i Info) HasPrev() bool { return i.Page > 1 }

// Page is a window over a list.
type Page[T any] struct {
	Items []T `json:"items" yaml:"items"`
	Info
}

// TotalPages returns ceil(n/size), with at least one page so that an empty
// list still has a page to show its empty state on.
func TotalPages(n, size int) int {
	if size <= 0 {
		size = constants.DefaultPageSize
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Clamp limits page to [1, TotalPages(n, size)].
func Clamp(page, n, size int) int {
	return min(max(page, 1), TotalPages(n, size))
}

// Paginate returns items [(page-1)*size, page*size). A page outside
// [1, TotalPages] yields an empty window rather than an error.
// A size <= 0 uses the default page size.
func Paginate[T any](items []T, size, page int) Page[T] {
	if size <= 0 {
		size = constants.DefaultPageSize
	}
	p := Page[T]{
		Info: Info{
			Page:       page,
			PageSize:   size,
			TotalItems: len(items),
			TotalPages: TotalPages(len(items), size),
		},
	}
	if page < 1 {
		p.Items = []T{}
		return p
	}
	start := (page - 1) * size
	if start >= len(items) {
		p.Items = []T{}
		return p
	}
	end := min(start+size, len(items))
	p.Items = items[start:end:end]
	return p
}

// Paginator tracks the current page of a changing list. The zero value is
// not usable; create one with New.
type Paginator struct {
	size  int
	page  int
	total int
}

// New returns a paginator on page 1.
func New(size int) *Paginator {
	if size <= 0 {
		size = constants.DefaultPageSize
	}
	return &Paginator{size: size, page: 1}
}

// Size returns the page size.
func (p *Paginator) Size() int { return p.size }

// Page returns the current page.
func (p *Paginator) Page() int { return p.page }

// Reset returns to page 1 for a new list of n items.
func (p *Paginator) Reset(n int) {
	p.total = n
	p.page = 1
}

// Resize updates the item count without leaving the current page unless it
// no longer exists.
func (p *Paginator) Resize(n int) {
	p.total = n
	p.page = Clamp(p.page, n, p.size)
}

// SetPage moves to page, clamped to the valid range, and returns the page
// actually selected.
func (p *Paginator) SetPage(page int) int {
	p.page = Clamp(page, p.total, p.size)
	return p.page
}

// TotalPages returns the page count for the current list.
func (p *Paginator) TotalPages() int {
	return TotalPages(p.total, p.size)
}
