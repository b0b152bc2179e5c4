package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"carsearch/internal/model"
)

func TestClarifyingQuestionPriority(t *testing.T) {
	tests := []struct {
		name  string
		prefs model.Preferences
		want  string
	}{
		{"nothing known asks for brand", model.Preferences{}, "Which car brand do you prefer?"},
		{"brand known asks for price", model.Preferences{"brand": "toyota"}, "What's your price range: budget, mid, or luxury?"},
		{"model satisfies the brand question", model.Preferences{"model": "civic"}, "What's your price range: budget, mid, or luxury?"},
		{
			"brand and price known asks for year",
			model.Preferences{"brand": "toyota", "price_range": "mid"},
			"What year of car are you looking for?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClarifyingQuestion(tt.prefs))
		})
	}
}

func TestFormatResults(t *testing.T) {
	cars := []model.CarDetail{
		testCar("Toyota", "Corolla", 2022),
		testCar("Toyota", "Yaris", 2021),
	}
	prefs := model.Preferences{"brand": "Toyota", "price_range": "mid"}

	out := FormatResults(cars, prefs)

	assert.Contains(t, out, "I found 2 car(s) Toyota in the mid range")
	assert.Contains(t, out, "1. **Toyota Corolla (2022)**")
	assert.Contains(t, out, "2. **Toyota Yaris (2021)**")
	assert.Contains(t, out, "Mileage: 42000 km")
	// Missing preferences are suggested, known ones are not.
	assert.Contains(t, out, "the vehicle year")
	assert.NotContains(t, out, "a price range")
}

func TestFormatResultsEmpty(t *testing.T) {
	out := FormatResults(nil, model.Preferences{})
	assert.Contains(t, out, "couldn't find")
}
