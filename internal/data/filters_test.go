package data

import (
	"testing"

	"github.com/bks/clubcoordinator/internal/assert"
	"github.com/bks/clubcoordinator/internal/validator"
)

func TestFiltersSort(t *testing.T) {
	f := Filters{Sort: "-name", SortSafeList: []string{"name", "-name"}}
	assert.Equal(t, f.sortColumn(), "name")
	assert.Equal(t, f.sortDirection(), "DESC")

	f.Sort = "name"
	assert.Equal(t, f.sortDirection(), "ASC")
}

func TestFiltersSortUnsafePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unsafe sort value")
		}
	}()

	f := Filters{Sort: "name; DROP TABLE teams", SortSafeList: []string{"name"}}
	f.sortColumn()
}

func TestValidateFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		valid   bool
	}{
		{
			name:    "valid",
			filters: Filters{Page: 1, PageSize: 20, Sort: "name", SortSafeList: []string{"name"}},
			valid:   true,
		},
		{
			name:    "zero page",
			filters: Filters{Page: 0, PageSize: 20, Sort: "name", SortSafeList: []string{"name"}},
			valid:   false,
		},
		{
			name:    "oversized page size",
			filters: Filters{Page: 1, PageSize: 500, Sort: "name", SortSafeList: []string{"name"}},
			valid:   false,
		},
		{
			name:    "unknown sort",
			filters: Filters{Page: 1, PageSize: 20, Sort: "coach", SortSafeList: []string{"name"}},
			valid:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateFilters(v, tt.filters)
			assert.Equal(t, v.Valid(), tt.valid)
		})
	}
}

func TestCalculateMetadata(t *testing.T) {
	metadata := calculateMetadata(95, 2, 20)
	assert.Equal(t, metadata.CurrentPage, 2)
	assert.Equal(t, metadata.LastPage, 5)
	assert.Equal(t, metadata.TotalRecords, 95)

	assert.Equal(t, calculateMetadata(0, 1, 20), Metadata{})
}
