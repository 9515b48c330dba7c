// Package pagination slices an ordered sequence of entities into
// fixed-size pages. Bad page input never errors: a missing or
// non-numeric page number lands on page 1, a number past the end is
// clamped to the last page.
package pagination

import (
	"fmt"
	"strconv"
)

// DefaultPerPage is the page size used by all list views.
const DefaultPerPage = 10

// Page holds one page of items plus the metadata templates need to
// render pagination controls.
type Page[T any] struct {
	Items       []T
	Number      int
	TotalPages  int
	TotalItems  int
	HasNext     bool
	HasPrevious bool
}

// NextNumber returns the following page number. Only meaningful when
// HasNext is true.
func (p Page[T]) NextNumber() int { return p.Number + 1 }

// PreviousNumber returns the preceding page number. Only meaningful
// when HasPrevious is true.
func (p Page[T]) PreviousNumber() int { return p.Number - 1 }

// Paginate slices items into pages of perPage and returns the page
// named by rawPage, a raw query-string value. A non-positive perPage
// is an invalid configuration and panics.
func Paginate[T any](items []T, rawPage string, perPage int) Page[T] {
	if perPage < 1 {
		panic(fmt.Sprintf("pagination: per-page must be positive, got %d", perPage))
	}

	total := (len(items) + perPage - 1) / perPage
	if total == 0 {
		// An empty sequence still has one (empty) page.
		total = 1
	}

	number, err := strconv.Atoi(rawPage)
	if err != nil || number < 1 {
		number = 1
	}
	if number > total {
		number = total
	}

	start := (number - 1) * perPage
	end := start + perPage
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:       items[start:end],
		Number:      number,
		TotalPages:  total,
		TotalItems:  len(items),
		HasNext:     number < total,
		HasPrevious: number > 1,
	}
}
