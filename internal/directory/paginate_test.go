package directory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i + 1
	}
	return items
}

func TestPaginateSplitsSevenAcrossTwoPages(t *testing.T) {
	items := numbered(7)

	page1 := Paginate(items, 1, 6)
	page2 := Paginate(items, 2, 6)

	assert.Len(t, page1.Visible, 6)
	assert.Len(t, page2.Visible, 1)
	assert.Equal(t, 2, page1.TotalPages)
	assert.Equal(t, 2, page2.TotalPages)
}

// Concatenating every page in order must reproduce the input exactly: no
// overlap, no gaps, original order.
func TestPaginateCoversWithoutOverlapOrGaps(t *testing.T) {
	for _, tc := range []struct{ count, pageSize int }{
		{0, 6}, {1, 6}, {6, 6}, {7, 6}, {13, 5}, {25, 10},
	} {
		t.Run(fmt.Sprintf("%d items size %d", tc.count, tc.pageSize), func(t *testing.T) {
			items := numbered(tc.count)
			totalPages := TotalPages(tc.count, tc.pageSize)

			gathered := []int{}
			for page := 1; page <= totalPages; page++ {
				gathered = append(gathered, Paginate(items, page, tc.pageSize).Visible...)
			}
			assert.Equal(t, items, gathered)
		})
	}
}

func TestPaginateEmptyListReportsOnePage(t *testing.T) {
	page := Paginate([]int{}, 1, 6)

	assert.Empty(t, page.Visible)
	assert.Equal(t, 1, page.TotalPages, "empty result must render as page 1 of 1, never 0 of 0")
}

func TestPaginateBeyondEndYieldsEmptyWithoutClamping(t *testing.T) {
	items := numbered(3)

	page := Paginate(items, 5, 6)

	assert.Empty(t, page.Visible)
	assert.Equal(t, 1, page.TotalPages)
}

func TestPaginateIsIdempotent(t *testing.T) {
	items := numbered(9)

	first := Paginate(items, 2, 4)
	second := Paginate(items, 2, 4)

	assert.Equal(t, first, second)
	assert.Equal(t, numbered(9), items)
}

func TestPaginateInvalidArgumentsPanic(t *testing.T) {
	assert.Panics(t, func() { Paginate(numbered(3), 0, 6) })
	assert.Panics(t, func() { Paginate(numbered(3), 1, 0) })
	assert.Panics(t, func() { TotalPages(3, 0) })
}

// A filter change can shrink the result set under the current page. The
// controller clamps before slicing again so the user never lands on an empty
// page.
func TestClampPageAfterShrink(t *testing.T) {
	items := numbered(10)
	const pageSize = 6

	// Page 2 of 10 items is valid.
	require.NotEmpty(t, Paginate(items, 2, pageSize).Visible)

	// Filtering down to 3 items invalidates page 2.
	shrunk := numbered(3)
	totalPages := TotalPages(len(shrunk), pageSize)
	clamped := ClampPage(2, totalPages)

	assert.Equal(t, 1, clamped)
	assert.Len(t, Paginate(shrunk, clamped, pageSize).Visible, 3)
}

func TestClampPageBounds(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 4))
	assert.Equal(t, 1, ClampPage(-2, 4))
	assert.Equal(t, 4, ClampPage(9, 4))
	assert.Equal(t, 3, ClampPage(3, 4))
	assert.Equal(t, 1, ClampPage(2, 0), "degenerate total pages clamps to 1")
}
