package pagination

import (
	"errors"
	"strconv"
)

// PageSizes are the page sizes the dashboard offers.
var PageSizes = []int{5, 10, 20, 50}

// DefaultPageSize is used when a page is requested without a size.
const DefaultPageSize = 10

var (
	ErrInvalidPageSize = errors.New("Invalid page_size")
	ErrInvalidPage     = errors.New("Invalid page")
)

// Window describes one contiguous page over a collection of Total items.
type Window struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	Start      int `json:"-"`
	End        int `json:"-"`
}

// NewWindow computes the page window. There is always at least one page, and page is
// clamped to [1, TotalPages] so navigating past either end lands on the first or last page.
func NewWindow(total, page, size int) Window {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return Window{Page: page, PageSize: size, Total: total, TotalPages: pages, Start: start, End: end}
}

// Offset is the number of items before the window.
func (w Window) Offset() int { return w.Start }

// Next returns the window one page later, stopping at the last page.
func (w Window) Next() Window { return NewWindow(w.Total, w.Page+1, w.PageSize) }

// Prev returns the window one page earlier, stopping at the first page.
func (w Window) Prev() Window { return NewWindow(w.Total, w.Page-1, w.PageSize) }

// Slice returns the items of w taken from the fully fetched collection.
func Slice[T any](items []T, w Window) []T {
	if w.Start >= len(items) {
		return []T{}
	}
	end := w.End
	if end > len(items) {
		end = len(items)
	}
	return items[w.Start:end]
}

// Filter keeps the items for which keep returns true, preserving order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// IsAllowedPageSize returns true if size is one of PageSizes.
func IsAllowedPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// Request is a parsed page request. Requested is false when neither page nor page_size was given.
type Request struct {
	Page      int
	PageSize  int
	Requested bool
}

// ParseRequest reads raw page and page_size query values.
func ParseRequest(rawPage, rawSize string) (Request, error) {
	req := Request{Page: 1, PageSize: DefaultPageSize}
	if rawPage == "" && rawSize == "" {
		return req, nil
	}
	req.Requested = true
	if rawPage != "" {
		p, err := strconv.Atoi(rawPage)
		if err != nil {
			return req, ErrInvalidPage
		}
		req.Page = p
	}
	if rawSize != "" {
		s, err := strconv.Atoi(rawSize)
		if err != nil || !IsAllowedPageSize(s) {
			return req, ErrInvalidPageSize
		}
		req.PageSize = s
	}
	return req, nil
}
