package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePageParams(t *testing.T) {
	tests := []struct {
		name               string
		page, size         int
		wantPage, wantSize int
	}{
		{"defaults for zero values", 0, 0, 1, DefaultPageSize},
		{"negative page", -3, 20, 1, 20},
		{"size over the cap", 1, 500, 1, DefaultPageSize},
		{"valid values pass through", 7, 25, 7, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := NormalizePageParams(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(2, 10, 35)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 4, info.TotalPages)
	assert.Equal(t, 10, info.PageSize)
	assert.Equal(t, int64(35), info.TotalItems)

	// an empty result set still reports one page
	info = NewPaginationInfo(1, 10, 0)
	assert.Equal(t, 1, info.TotalPages)
	assert.Equal(t, 1, info.CurrentPage)

	// a page beyond the end is clamped
	info = NewPaginationInfo(9, 10, 35)
	assert.Equal(t, 4, info.CurrentPage)
}
