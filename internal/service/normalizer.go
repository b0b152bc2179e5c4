package service

import (
	"strings"

	"carsearch/internal/model"
)

// Key synonyms accepted on the raw filter path, including the Portuguese
// aliases generation backends tend to produce.
var filterSynonyms = map[string]string{
	"marca":              model.FilterBrandName,
	"brand":              model.FilterBrandName,
	"nome_marca":         model.FilterBrandName,
	"modelo":             model.FilterCarName,
	"nome_carro":         model.FilterCarName,
	"model":              model.FilterCarName,
	"cor":                model.FilterColorName,
	"color":              model.FilterColorName,
	"motor":              model.FilterEngineName,
	"engine":             model.FilterEngineName,
	"combustivel":        model.FilterFuelType,
	"fuel":               model.FilterFuelType,
	"transmissao":        model.FilterTransmission,
	"preco_min":          "price_min",
	"preco_max":          "price_max",
	"preco":              "price",
	"ano_min":            "year_manufacture_min",
	"ano_max":            "year_manufacture_max",
	"quilometragem_min":  "mileage_min",
	"quilometragem_max":  "mileage_max",
	"quilometragem":      "mileage",
	"portas":             "doors",
	"ano":                "year",
}

// rangeFilterAttrs are the attributes whose operator objects expand into
// _min/_max pairs on the raw path.
var rangeFilterAttrs = map[string]bool{
	"price":            true,
	"year_manufacture": true,
	"mileage":          true,
	"doors":            true,
}

// NormalizeRawFilters converts an arbitrarily shaped filter payload into the
// canonical flat filter map. It strips query-style operators, expands range
// objects into _min/_max pairs, resolves key synonyms, and drops everything
// it cannot interpret. Pure: the input map is never mutated.
func NormalizeRawFilters(raw map[string]any) map[string]any {
	normalized := map[string]any{}
	if raw == nil {
		return normalized
	}

	for rawKey, rawValue := range raw {
		key := strings.ToLower(strings.TrimSpace(rawKey))
		if mapped, ok := filterSynonyms[key]; ok {
			key = mapped
		}
		value := stripOperator(rawValue)
		if value == nil || value == "" {
			continue
		}

		if obj, ok := value.(map[string]any); ok {
			minVal, maxVal := rangeBounds(obj)
			if rangeFilterAttrs[key] {
				if minVal != nil {
					normalized[key+"_min"] = minVal
				}
				if maxVal != nil {
					normalized[key+"_max"] = maxVal
				}
				continue
			}
			// Unknown single-key wrapper objects reduce to their value;
			// anything more structured is dropped.
			if len(obj) == 1 {
				for _, only := range obj {
					if only != nil && only != "" {
						normalized[key] = only
					}
				}
			}
			continue
		}

		switch key {
		case "doors":
			if doors, ok := asWholeInt(value); ok {
				normalized["doors_min"] = doors
				normalized["doors_max"] = doors
			}
			continue
		case "year":
			applyYear(normalized, value)
			continue
		}

		normalized[key] = value
	}

	// Only canonical keys leave the normalizer.
	for key, value := range normalized {
		if !model.CanonicalKeys[key] || value == nil {
			delete(normalized, key)
		}
	}
	return normalized
}

// stripOperator unwraps equality-style operator objects, leaving range
// objects intact for expansion.
func stripOperator(value any) any {
	obj, ok := value.(map[string]any)
	if !ok {
		return value
	}
	for _, op := range []string{"$eq", "eq", "=", "value"} {
		if inner, present := obj[op]; present {
			return inner
		}
	}
	return value
}

// rangeBounds extracts min/max bounds from an operator object. The first
// non-nil value wins for each bound.
func rangeBounds(obj map[string]any) (minVal, maxVal any) {
	for _, op := range []string{"$gte", "gte", "min"} {
		if v, present := obj[op]; present && v != nil && minVal == nil {
			minVal = v
		}
	}
	for _, op := range []string{"$lte", "lte", "max"} {
		if v, present := obj[op]; present && v != nil && maxVal == nil {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// applyYear resolves a bare year value: an integer pins all four year bounds,
// the categorical values open a window on the matching side.
func applyYear(normalized map[string]any, value any) {
	if year, ok := asWholeInt(value); ok {
		normalized["year_manufacture_min"] = year
		normalized["year_manufacture_max"] = year
		normalized["year_model_min"] = year
		normalized["year_model_max"] = year
		return
	}
	if s, ok := value.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case model.YearRecent, "recente":
			normalized["year_manufacture_min"] = recentYearFloor
			normalized["year_model_min"] = recentYearFloor
		case model.YearOld, "antigo":
			normalized["year_manufacture_max"] = oldYearCeiling
			normalized["year_model_max"] = oldYearCeiling
		}
	}
}

// Price range category boundaries and categorical year windows.
const (
	budgetPriceCeiling = 50000.0
	midPriceFloor      = 30000.0
	midPriceCeiling    = 100000.0
	luxuryPriceFloor   = 100000.0
	recentYearFloor    = 2020
	oldYearCeiling     = 2015
)

// FiltersFromPreferences translates an accumulated preference map into the
// canonical flat filter map. Pure.
func FiltersFromPreferences(prefs model.Preferences) map[string]any {
	filters := map[string]any{}

	if brand, ok := prefs[model.PrefBrand].(string); ok && brand != "" {
		filters[model.FilterBrandName] = brand
	}
	if name, ok := prefs[model.PrefModel].(string); ok && name != "" {
		filters[model.FilterCarName] = name
	}
	if color, ok := prefs[model.PrefColor].(string); ok && color != "" {
		filters[model.FilterColorName] = color
	}
	if fuel, ok := prefs[model.PrefFuelType].(string); ok && fuel != "" {
		filters[model.FilterFuelType] = fuel
	}
	if tr, ok := prefs[model.PrefTransmission].(string); ok && tr != "" {
		filters[model.FilterTransmission] = tr
	}

	switch prefs[model.PrefPriceRange] {
	case model.PriceRangeBudget:
		filters["price_max"] = budgetPriceCeiling
	case model.PriceRangeMid:
		filters["price_min"] = midPriceFloor
		filters["price_max"] = midPriceCeiling
	case model.PriceRangeLuxury:
		filters["price_min"] = luxuryPriceFloor
	}

	if year := prefs[model.PrefYear]; year != nil {
		applyYear(filters, year)
	}

	if mileage, ok := asWholeInt(prefs[model.PrefMileage]); ok && mileage > 0 {
		filters["mileage_max"] = mileage
	}

	if doors, ok := asWholeInt(prefs[model.PrefDoors]); ok && doors > 0 {
		filters["doors_min"] = doors
		filters["doors_max"] = doors
	}

	return filters
}

// asWholeInt coerces numeric JSON values to int, rejecting fractions.
func asWholeInt(value any) (int, bool) {
	switch n := value.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
