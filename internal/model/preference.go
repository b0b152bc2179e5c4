package model

// Preference Map keys the extractor is allowed to produce. Anything outside
// this set is dropped before it reaches conversation state.
const (
	PrefBrand        = "brand"
	PrefModel        = "model"
	PrefPriceRange   = "price_range"
	PrefYear         = "year"
	PrefFuelType     = "fuel_type"
	PrefTransmission = "transmission"
	PrefColor        = "color"
	PrefDoors        = "doors"
	PrefMileage      = "mileage"
	PrefUsage        = "usage"
)

// PreferenceKeys is the closed Preference Map vocabulary.
var PreferenceKeys = map[string]bool{
	PrefBrand:        true,
	PrefModel:        true,
	PrefPriceRange:   true,
	PrefYear:         true,
	PrefFuelType:     true,
	PrefTransmission: true,
	PrefColor:        true,
	PrefDoors:        true,
	PrefMileage:      true,
	PrefUsage:        true,
}

// Price range categories.
const (
	PriceRangeBudget = "budget"
	PriceRangeMid    = "mid"
	PriceRangeLuxury = "luxury"
)

// Categorical year values.
const (
	YearRecent = "recent"
	YearOld    = "old"
)

// Preferences is a sparse attribute map accumulated across conversation
// turns.
type Preferences map[string]any

// MergePreferences combines an accumulated map with newly extracted values:
// new non-nil values overwrite the same key, keys the new map does not
// mention persist. Pure; neither input is mutated.
func MergePreferences(old, new Preferences) Preferences {
	merged := make(Preferences, len(old)+len(new))
	for k, v := range old {
		merged[k] = v
	}
	for k, v := range new {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		merged[k] = v
	}
	return merged
}

// ValidatePreferences drops unknown keys and nil/empty values.
func ValidatePreferences(p Preferences) Preferences {
	valid := make(Preferences, len(p))
	for k, v := range p {
		if !PreferenceKeys[k] || v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		valid[k] = v
	}
	return valid
}
