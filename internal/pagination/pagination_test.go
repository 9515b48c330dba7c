package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i + 1
	}
	return items
}

func TestPaginateSplitsIntoPages(t *testing.T) {
	items := numbers(14)

	first := Paginate(items, "1", 10)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 2, first.TotalPages)
	assert.Equal(t, 14, first.TotalItems)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrevious)

	second := Paginate(items, "2", 10)
	assert.Len(t, second.Items, 4)
	assert.Equal(t, []int{11, 12, 13, 14}, second.Items)
	assert.False(t, second.HasNext)
	assert.True(t, second.HasPrevious)
}

func TestPaginateDefaultsToFirstPage(t *testing.T) {
	items := numbers(14)

	for _, raw := range []string{"", "abc", "0", "-3", "1.5"} {
		page := Paginate(items, raw, 10)
		assert.Equal(t, 1, page.Number, "raw page %q", raw)
		assert.Len(t, page.Items, 10)
	}
}

func TestPaginateClampsPastTheEnd(t *testing.T) {
	items := numbers(14)

	page := Paginate(items, "99", 10)
	assert.Equal(t, 2, page.Number)
	assert.Len(t, page.Items, 4)
	assert.False(t, page.HasNext)
}

func TestPaginateEmptySequence(t *testing.T) {
	page := Paginate([]int{}, "3", 10)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrevious)
}

func TestPaginateExactMultiple(t *testing.T) {
	page := Paginate(numbers(20), "2", 10)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 2, page.TotalPages)
	assert.False(t, page.HasNext)
}

func TestPaginateInvalidPerPagePanics(t *testing.T) {
	require.Panics(t, func() {
		Paginate(numbers(5), "1", 0)
	})
	require.Panics(t, func() {
		Paginate(numbers(5), "1", -1)
	})
}
