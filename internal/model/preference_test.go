package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergePreferences(t *testing.T) {
	old := Preferences{"brand": "toyota", "color": "black"}
	incoming := Preferences{"color": "red", "year": 2022, "doors": nil, "model": ""}

	merged := MergePreferences(old, incoming)

	assert.Equal(t, "toyota", merged["brand"], "unmentioned keys persist")
	assert.Equal(t, "red", merged["color"], "new values overwrite")
	assert.Equal(t, 2022, merged["year"])
	assert.NotContains(t, merged, "doors", "nil values do not overwrite")
	assert.NotContains(t, merged, "model", "empty strings do not overwrite")

	// Inputs are untouched.
	assert.Equal(t, "black", old["color"])
	assert.Len(t, incoming, 4)
}

func TestValidatePreferences(t *testing.T) {
	valid := ValidatePreferences(Preferences{
		"brand":       "honda",
		"year":        "recent",
		"horsepower":  300,
		"price_range": "",
		"mileage":     nil,
	})

	assert.Equal(t, Preferences{"brand": "honda", "year": "recent"}, valid)
}
