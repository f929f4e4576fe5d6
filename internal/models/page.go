package models

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPageNumber keeps Number*MaxPageSize within int.
	MaxPageNumber = math.MaxInt / MaxPageSize
)

// Page is a zero-based page request.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page into the supported range.
func (p Page) Normalize() Page {
	if p.Number < 0 {
		p.Number = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	return p
}

// Offset is the number of items before the page. It saturates at math.MaxInt.
func (p Page) Offset() int {
	if p.Number <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Number > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Number * p.Size
}

// PageResult is one page of items together with the total count.
type PageResult[T any] struct {
	Items []T
	Total int
	Page  Page
}

func (r *PageResult[T]) TotalPages() int {
	if r.Page.Size <= 0 {
		return 0
	}
	return (r.Total + r.Page.Size - 1) / r.Page.Size
}

func (r *PageResult[T]) IsLast() bool {
	return r.Page.Number+1 >= r.TotalPages()
}
