package domain

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
)

type Pagination struct {
	Page int
	Size int
}

// NewPagination coerces invalid input to defaults instead of rejecting it.
func NewPagination(page, size int) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Pagination{Page: page, Size: size}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Size
}

func (p Pagination) Limit() int {
	return p.Size
}

// TotalPages is max(1, totalRecords/size) with integer division.
func TotalPages(totalRecords, size int) int {
	if size < 1 {
		size = DefaultSize
	}
	return max(1, totalRecords/size)
}

// Page is one page of a listing plus its bookkeeping.
type Page[T any] struct {
	Items        []T
	Pagination   Pagination
	TotalRecords int
}

func (p Page[T]) TotalPages() int {
	return TotalPages(p.TotalRecords, p.Pagination.Size)
}
