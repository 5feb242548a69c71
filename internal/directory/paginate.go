package directory

import "fmt"

// Page is one slice of a filtered result set.
type Page[T any] struct {
	Visible    []T
	TotalPages int
}

// TotalPages computes the page count for a filtered set. An empty set reports
// one page, never zero, so callers can render "page 1 of 1" instead of a
// degenerate "page 0 of 0". This policy is applied uniformly across every
// directory.
func TotalPages(count, pageSize int) int {
	if pageSize < 1 {
		panic(fmt.Sprintf("directory: invalid page size %d", pageSize))
	}
	if count == 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

// ClampPage re-clamps a requested page into [1, totalPages]. Callers apply it
// after the filtered set shrinks so pagination never lands on an empty page.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate slices items for the given 1-based page. It is referentially
// transparent and does not clamp: a page beyond the end yields an empty
// Visible slice, and the caller (the page controller) owns re-clamping via
// ClampPage before asking again. Page or size below 1 is a programmer error.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if page < 1 {
		panic(fmt.Sprintf("directory: invalid page %d", page))
	}
	totalPages := TotalPages(len(items), pageSize)

	start := (page - 1) * pageSize
	if start >= len(items) {
		return Page[T]{Visible: []T{}, TotalPages: totalPages}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return Page[T]{Visible: items[start:end], TotalPages: totalPages}
}
