package model

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// Canonical filter keys. Every filter that reaches the query executor uses
// exactly this vocabulary; range attributes always appear as _min/_max pairs.
const (
	FilterCarID        = "car_id"
	FilterBrandID      = "brand_id"
	FilterColorID      = "color_id"
	FilterEngineID     = "engine_id"
	FilterCarModelID   = "car_model_id"
	FilterCarNameID    = "car_name_id"
	FilterBrandName    = "brand_name"
	FilterCarName      = "car_name"
	FilterColorName    = "color_name"
	FilterEngineName   = "engine_name"
	FilterCarModelName = "car_model_name"
	FilterFuelType     = "fuel_type"
	FilterTransmission = "transmission"
	FilterSearch       = "search"
)

// RangeAttributes are the attributes that expand into _min/_max pairs.
var RangeAttributes = []string{"price", "year_manufacture", "year_model", "mileage", "doors"}

// CanonicalKeys is the closed set of keys a canonical filter map may contain.
var CanonicalKeys = func() map[string]bool {
	keys := map[string]bool{
		FilterCarID:        true,
		FilterBrandID:      true,
		FilterColorID:      true,
		FilterEngineID:     true,
		FilterCarModelID:   true,
		FilterCarNameID:    true,
		FilterBrandName:    true,
		FilterCarName:      true,
		FilterColorName:    true,
		FilterEngineName:   true,
		FilterCarModelName: true,
		FilterFuelType:     true,
		FilterTransmission: true,
		FilterSearch:       true,
	}
	for _, attr := range RangeAttributes {
		keys[attr+"_min"] = true
		keys[attr+"_max"] = true
	}
	return keys
}()

// CarFilters is the typed form of a canonical filter set. Nil means the
// filter is absent; _min/_max bounds are independently optional and inclusive.
type CarFilters struct {
	CarID      *uuid.UUID
	BrandID    *uuid.UUID
	ColorID    *uuid.UUID
	EngineID   *uuid.UUID
	CarModelID *uuid.UUID
	CarNameID  *uuid.UUID

	BrandName    *string
	CarName      *string
	ColorName    *string
	EngineName   *string
	CarModelName *string

	FuelType     *string
	Transmission *string
	Search       *string

	PriceMin *float64
	PriceMax *float64

	YearManufactureMin *int
	YearManufactureMax *int
	YearModelMin       *int
	YearModelMax       *int
	MileageMin         *int
	MileageMax         *int
	DoorsMin           *int
	DoorsMax           *int
}

// FiltersFromMap converts a canonical filter map into typed filters. Values
// that cannot be coerced to the expected type are dropped, never passed
// through.
func FiltersFromMap(m map[string]any) *CarFilters {
	f := &CarFilters{}
	for key, value := range m {
		switch key {
		case FilterCarID:
			f.CarID = asUUID(value)
		case FilterBrandID:
			f.BrandID = asUUID(value)
		case FilterColorID:
			f.ColorID = asUUID(value)
		case FilterEngineID:
			f.EngineID = asUUID(value)
		case FilterCarModelID:
			f.CarModelID = asUUID(value)
		case FilterCarNameID:
			f.CarNameID = asUUID(value)
		case FilterBrandName:
			f.BrandName = asString(value)
		case FilterCarName:
			f.CarName = asString(value)
		case FilterColorName:
			f.ColorName = asString(value)
		case FilterEngineName:
			f.EngineName = asString(value)
		case FilterCarModelName:
			f.CarModelName = asString(value)
		case FilterFuelType:
			f.FuelType = asString(value)
		case FilterTransmission:
			f.Transmission = asString(value)
		case FilterSearch:
			f.Search = asString(value)
		case "price_min":
			f.PriceMin = asFloat(value)
		case "price_max":
			f.PriceMax = asFloat(value)
		case "year_manufacture_min":
			f.YearManufactureMin = asInt(value)
		case "year_manufacture_max":
			f.YearManufactureMax = asInt(value)
		case "year_model_min":
			f.YearModelMin = asInt(value)
		case "year_model_max":
			f.YearModelMax = asInt(value)
		case "mileage_min":
			f.MileageMin = asInt(value)
		case "mileage_max":
			f.MileageMax = asInt(value)
		case "doors_min":
			f.DoorsMin = asInt(value)
		case "doors_max":
			f.DoorsMax = asInt(value)
		}
	}
	return f
}

func asString(v any) *string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	s = strings.TrimSpace(s)
	return &s
}

func asFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case float32:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	}
	return nil
}

func asInt(v any) *int {
	switch n := v.(type) {
	case int:
		return &n
	case int64:
		i := int(n)
		return &i
	case float64:
		if n != math.Trunc(n) {
			return nil
		}
		i := int(n)
		return &i
	}
	return nil
}

func asUUID(v any) *uuid.UUID {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

// Ordering fields accepted by the query executor, mapped to catalog columns.
var orderingColumns = map[string]string{
	"created_at":       "c.created_at",
	"price":            "c.price",
	"year_manufacture": "c.year_manufacture",
	"year_model":       "c.year_model",
	"mileage":          "c.mileage",
	"doors":            "c.doors",
}

// DefaultOrdering is most-recently-created first.
const DefaultOrdering = "-created_at"

// MaxPageSize bounds page_size for direct protocol calls.
const MaxPageSize = 100

// ConversationalPageSize bounds result pages on the conversational surface.
const ConversationalPageSize = 10

// Pagination is a validated pagination request.
type Pagination struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Ordering string `json:"ordering"`
}

// Normalize clamps the request into its allowed bounds and falls back to the
// default ordering when the requested field is not allow-listed.
func (p Pagination) Normalize(maxPageSize int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	if _, ok := OrderingColumn(p.Ordering); !ok || p.Ordering == "" {
		p.Ordering = DefaultOrdering
	}
	return p
}

// OrderingColumn resolves an ordering field (optionally prefixed with "-")
// into a SQL ORDER BY expression. Returns false for fields outside the
// allow-list.
func OrderingColumn(ordering string) (string, bool) {
	if ordering == "" {
		ordering = DefaultOrdering
	}
	direction := "ASC"
	field := ordering
	if strings.HasPrefix(ordering, "-") {
		direction = "DESC"
		field = ordering[1:]
	}
	column, ok := orderingColumns[field]
	if !ok {
		return "", false
	}
	return column + " " + direction, true
}

// SearchPage is a finite page of catalog results.
type SearchPage struct {
	Results    []CarDetail `json:"results"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// TotalPagesFor computes ceil(total/pageSize).
func TotalPagesFor(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
