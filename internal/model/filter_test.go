package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiltersFromMap(t *testing.T) {
	id := "6f1e2d3c-4b5a-4678-9abc-def012345678"
	f := FiltersFromMap(map[string]any{
		"brand_name":           "Toyota",
		"car_id":               id,
		"price_min":            float64(30000),
		"price_max":            100000.5,
		"year_manufacture_min": float64(2020),
		"doors_min":            float64(4),
		"doors_max":            4,
		"fuel_type":            "flex",
	})

	require.NotNil(t, f.BrandName)
	assert.Equal(t, "Toyota", *f.BrandName)
	require.NotNil(t, f.CarID)
	assert.Equal(t, id, f.CarID.String())
	require.NotNil(t, f.PriceMin)
	assert.Equal(t, 30000.0, *f.PriceMin)
	require.NotNil(t, f.PriceMax)
	assert.Equal(t, 100000.5, *f.PriceMax)
	require.NotNil(t, f.YearManufactureMin)
	assert.Equal(t, 2020, *f.YearManufactureMin)
	require.NotNil(t, f.DoorsMin)
	assert.Equal(t, 4, *f.DoorsMin)
	require.NotNil(t, f.FuelType)
	assert.Equal(t, "flex", *f.FuelType)
	assert.Nil(t, f.ColorName)
}

func TestFiltersFromMapDropsBadValues(t *testing.T) {
	f := FiltersFromMap(map[string]any{
		"brand_name": "   ",
		"car_id":     "not-a-uuid",
		"doors_min":  4.5,
		"price_min":  "cheap",
	})

	assert.Nil(t, f.BrandName)
	assert.Nil(t, f.CarID)
	assert.Nil(t, f.DoorsMin)
	assert.Nil(t, f.PriceMin)
}

func TestPaginationNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       Pagination
		max      int
		wantPage int
		wantSize int
		wantOrd  string
	}{
		{"defaults", Pagination{}, MaxPageSize, 1, 20, DefaultOrdering},
		{"negative page", Pagination{Page: -3, PageSize: 10}, MaxPageSize, 1, 10, DefaultOrdering},
		{"oversized page_size clamped", Pagination{Page: 2, PageSize: 500}, MaxPageSize, 2, 100, DefaultOrdering},
		{"allowed ordering kept", Pagination{Page: 1, PageSize: 10, Ordering: "price"}, MaxPageSize, 1, 10, "price"},
		{"descending ordering kept", Pagination{Page: 1, PageSize: 10, Ordering: "-mileage"}, MaxPageSize, 1, 10, "-mileage"},
		{"unknown ordering falls back", Pagination{Page: 1, PageSize: 10, Ordering: "color; DROP TABLE cars"}, MaxPageSize, 1, 10, DefaultOrdering},
		{"conversational clamp", Pagination{Page: 1, PageSize: 50}, ConversationalPageSize, 1, 10, DefaultOrdering},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize(tt.max)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantSize, got.PageSize)
			assert.Equal(t, tt.wantOrd, got.Ordering)
		})
	}
}

func TestOrderingColumn(t *testing.T) {
	col, ok := OrderingColumn("-price")
	require.True(t, ok)
	assert.Equal(t, "c.price DESC", col)

	col, ok = OrderingColumn("year_model")
	require.True(t, ok)
	assert.Equal(t, "c.year_model ASC", col)

	col, ok = OrderingColumn("")
	require.True(t, ok)
	assert.Equal(t, "c.created_at DESC", col)

	_, ok = OrderingColumn("brand_name")
	assert.False(t, ok)
}

func TestTotalPagesFor(t *testing.T) {
	assert.Equal(t, 0, TotalPagesFor(0, 20))
	assert.Equal(t, 1, TotalPagesFor(1, 20))
	assert.Equal(t, 1, TotalPagesFor(20, 20))
	assert.Equal(t, 2, TotalPagesFor(21, 20))
	assert.Equal(t, 0, TotalPagesFor(10, 0))
}
