package service

import (
	"fmt"
	"strings"

	"carsearch/internal/model"
)

// FormatResults renders a result page as conversational text: personalized
// header, numbered car entries, and a footer suggesting refinements for
// preferences the user has not given yet. Deterministic; no backend call.
func FormatResults(cars []model.CarDetail, prefs model.Preferences) string {
	if len(cars) == 0 {
		return "I couldn't find any cars matching your criteria. Want to adjust the search?"
	}

	var b strings.Builder
	b.WriteString(resultsHeader(prefs, len(cars)))
	b.WriteString("\n\n")
	for i, car := range cars {
		b.WriteString(formatCar(car, i+1))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(suggestionsFooter(prefs))
	return b.String()
}

func resultsHeader(prefs model.Preferences, count int) string {
	qualifiers := ""
	if brand, ok := prefs[model.PrefBrand].(string); ok && brand != "" {
		qualifiers += " " + brand
	}
	if year := prefs[model.PrefYear]; year != nil {
		qualifiers += fmt.Sprintf(" from %v", year)
	}
	if pr, ok := prefs[model.PrefPriceRange].(string); ok && pr != "" {
		qualifiers += fmt.Sprintf(" in the %s range", pr)
	}
	return fmt.Sprintf("I found %d car(s)%s matching your criteria:", count, qualifiers)
}

func formatCar(car model.CarDetail, index int) string {
	price := "price not listed"
	if car.Price > 0 {
		price = fmt.Sprintf("$%.2f", car.Price)
	}
	mileage := "not listed"
	if car.Mileage > 0 {
		mileage = fmt.Sprintf("%d km", car.Mileage)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d. **%s %s (%d)**\n", index, car.CarName.Brand.Name, car.CarName.Name, car.YearManufacture)
	fmt.Fprintf(&b, "   Price: %s\n", price)
	fmt.Fprintf(&b, "   Color: %s\n", car.Color.Name)
	fmt.Fprintf(&b, "   Fuel: %s\n", car.FuelType)
	fmt.Fprintf(&b, "   Transmission: %s\n", car.Transmission)
	fmt.Fprintf(&b, "   Mileage: %s\n", mileage)
	fmt.Fprintf(&b, "   Doors: %d\n", car.Doors)
	return b.String()
}

func suggestionsFooter(prefs model.Preferences) string {
	var suggestions []string
	if prefs[model.PrefPriceRange] == nil {
		suggestions = append(suggestions, "a price range")
	}
	if prefs[model.PrefYear] == nil {
		suggestions = append(suggestions, "the vehicle year")
	}
	if prefs[model.PrefColor] == nil {
		suggestions = append(suggestions, "a preferred color")
	}
	if prefs[model.PrefFuelType] == nil {
		suggestions = append(suggestions, "a fuel type")
	}
	if len(suggestions) == 0 {
		return "Would you like more details on any of these cars?"
	}
	return "To narrow this down, you could tell me: " + strings.Join(suggestions, ", ")
}

// Canned clarifying questions, in priority order of what helps a search most.
var clarifyingQuestions = []struct {
	key      string
	question string
}{
	{model.PrefBrand, "Which car brand do you prefer?"},
	{model.PrefPriceRange, "What's your price range: budget, mid, or luxury?"},
	{model.PrefYear, "What year of car are you looking for?"},
	{model.PrefFuelType, "Which fuel type do you prefer?"},
	{model.PrefTransmission, "Do you prefer manual or automatic transmission?"},
	{model.PrefColor, "Any preferred color?"},
	{model.PrefDoors, "How many doors?"},
	{model.PrefMileage, "What's the maximum mileage you would accept?"},
}

// MissingAttribute returns the highest-priority preference the user has not
// given yet, or "" when everything is known. A brand is not considered
// missing when a model is already known.
func MissingAttribute(prefs model.Preferences) string {
	for _, cq := range clarifyingQuestions {
		if prefs[cq.key] != nil {
			continue
		}
		if cq.key == model.PrefBrand && prefs[model.PrefModel] != nil {
			continue
		}
		return cq.key
	}
	return ""
}

// ClarifyingQuestion picks one canned question about the highest-priority
// missing preference.
func ClarifyingQuestion(prefs model.Preferences) string {
	missing := MissingAttribute(prefs)
	for _, cq := range clarifyingQuestions {
		if cq.key == missing {
			return cq.question
		}
	}
	return "What other characteristics matter to you?"
}
