package llm

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Static is a deterministic generation backend built on keyword lexicons. It
// needs no external process, always reports available, and keeps the
// conversational surface functional when no model server is running.
type Static struct{}

// NewStatic creates the deterministic backend.
func NewStatic() *Static { return &Static{} }

// Name implements Generator.
func (s *Static) Name() string { return "static" }

// Available implements Generator; the static backend is always up.
func (s *Static) Available(ctx context.Context) bool { return true }

// Generate implements Generator. Extraction returns a JSON preference map
// derived from the raw input text; the other tasks return fixed templates.
func (s *Static) Generate(ctx context.Context, req Request) (string, error) {
	switch req.Task {
	case TaskExtractPreferences:
		prefs := ExtractKeywords(req.Input)
		out, err := json.Marshal(prefs)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case TaskGenerateQuestion:
		return "Could you tell me a bit more about what you're looking for, like a brand or a price range?", nil
	default:
		return "Here is what I found based on your preferences.", nil
	}
}

var knownBrands = []string{
	"toyota", "honda", "ford", "chevrolet", "volkswagen", "fiat", "hyundai",
	"nissan", "renault", "bmw", "mercedes", "audi", "jeep", "kia", "peugeot",
}

// colorTerms maps recognized color words, including common Portuguese
// aliases, to canonical color names.
var colorTerms = map[string]string{
	"black": "black", "preto": "black",
	"white": "white", "branco": "white",
	"silver": "silver", "prata": "silver",
	"red": "red", "vermelho": "red",
	"blue": "blue", "azul": "blue",
	"gray": "gray", "grey": "gray", "cinza": "gray",
	"green": "green", "verde": "green",
}

var fuelTerms = map[string]string{
	"gasoline": "gasoline", "gasolina": "gasoline", "petrol": "gasoline",
	"ethanol": "ethanol", "etanol": "ethanol", "alcohol": "ethanol",
	"flex":     "flex",
	"diesel":   "diesel",
	"electric": "electric", "eletrico": "electric",
	"hybrid": "hybrid", "hibrido": "hybrid",
}

var transmissionTerms = map[string]string{
	"manual":     "manual",
	"automatic":  "automatic",
	"automatico": "automatic",
	"cvt":        "cvt",
}

var usageTerms = map[string]string{
	"family": "family", "familia": "family",
	"work": "work", "trabalho": "work",
	"city": "city", "cidade": "city",
	"travel": "travel", "viagem": "travel", "trip": "travel",
}

var (
	yearPattern  = regexp.MustCompile(`\b(19[89]\d|20[0-4]\d)\b`)
	doorsPattern = regexp.MustCompile(`\b([2-5])\s*(?:doors?|portas?)\b`)
)

// ExtractKeywords derives a preference map from free text by lexicon lookup.
// It is intentionally conservative: a term must match exactly to be used.
func ExtractKeywords(text string) map[string]any {
	lower := strings.ToLower(text)
	words := tokenize(lower)
	prefs := map[string]any{}

	for _, brand := range knownBrands {
		if words[brand] {
			prefs["brand"] = brand
			break
		}
	}
	for term, color := range colorTerms {
		if words[term] {
			prefs["color"] = color
			break
		}
	}
	for term, fuel := range fuelTerms {
		if words[term] {
			prefs["fuel_type"] = fuel
			break
		}
	}
	for term, tr := range transmissionTerms {
		if words[term] {
			prefs["transmission"] = tr
			break
		}
	}
	for term, usage := range usageTerms {
		if words[term] {
			prefs["usage"] = usage
			break
		}
	}

	switch {
	case containsAny(lower, "cheap", "budget", "affordable", "barato", "economico"):
		prefs["price_range"] = "budget"
	case containsAny(lower, "luxury", "premium", "luxo"):
		prefs["price_range"] = "luxury"
	case containsAny(lower, "mid-range", "mid range", "medium price", "preco medio"):
		prefs["price_range"] = "mid"
	}

	if m := yearPattern.FindString(lower); m != "" {
		year, _ := strconv.Atoi(m)
		prefs["year"] = year
	} else if containsAny(lower, "new", "recent", "novo", "recente") {
		prefs["year"] = "recent"
	} else if containsAny(lower, "old", "antigo", "used", "usado") {
		prefs["year"] = "old"
	}

	if m := doorsPattern.FindStringSubmatch(lower); len(m) > 1 {
		doors, _ := strconv.Atoi(m[1])
		prefs["doors"] = doors
	}

	if containsAny(lower, "low mileage", "baixa quilometragem", "few miles") {
		prefs["mileage"] = 50000
	}

	return prefs
}

func tokenize(text string) map[string]bool {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

func containsAny(text string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
