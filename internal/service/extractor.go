package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"carsearch/internal/llm"
	"carsearch/internal/model"
	"carsearch/internal/utils"
)

// Extractor turns free-form user messages into validated preference maps.
// The generation backend does the heavy lifting; keyword extraction covers
// backend failures so a turn never dies on a bad completion.
type Extractor struct {
	generator llm.Generator
	logger    *zap.Logger
}

// NewExtractor creates an extractor over a generation backend.
func NewExtractor(generator llm.Generator, logger *zap.Logger) *Extractor {
	return &Extractor{generator: generator, logger: logger}
}

// Extract pulls preferences out of a user message. The accumulated map and
// the previously shown cars are passed to the backend as context so
// refinements resolve against them. The result only ever contains
// whitelisted keys.
func (e *Extractor) Extract(ctx context.Context, message string, accumulated model.Preferences, previous []model.CarDetail) model.Preferences {
	out, err := e.generator.Generate(ctx, llm.Request{
		Task:   llm.TaskExtractPreferences,
		System: llm.ExtractionSystemPrompt,
		Prompt: llm.ExtractionPrompt(message, accumulated, carSummaries(previous)),
		Input:  message,
	})
	if err == nil {
		parsed, perr := utils.ParseLLMObject(out)
		if perr == nil {
			return model.ValidatePreferences(parsed)
		}
		e.logger.Warn("unparseable extraction output, falling back to keywords",
			zap.Error(perr))
	} else {
		e.logger.Warn("extraction backend failed, falling back to keywords",
			zap.Error(err))
	}

	return model.ValidatePreferences(llm.ExtractKeywords(message))
}

// carSummaries renders prior results as one line per car for prompt context.
func carSummaries(cars []model.CarDetail) []string {
	if len(cars) == 0 {
		return nil
	}
	out := make([]string, len(cars))
	for i, car := range cars {
		out[i] = fmt.Sprintf("%s %s (%d), %s, %s, $%.2f",
			car.CarName.Brand.Name, car.CarName.Name, car.YearManufacture,
			car.Color.Name, car.FuelType, car.Price)
	}
	return out
}

// Question asks the backend for one clarifying question about the most
// useful missing preference, degrading to the canned question when the
// backend fails or everything is already known.
func (e *Extractor) Question(ctx context.Context, prefs model.Preferences) string {
	missing := MissingAttribute(prefs)
	if missing == "" {
		return ClarifyingQuestion(prefs)
	}
	out, err := e.generator.Generate(ctx, llm.Request{
		Task:   llm.TaskGenerateQuestion,
		Prompt: llm.QuestionPrompt(prefs, missing),
	})
	out = strings.TrimSpace(out)
	if err != nil || out == "" {
		return ClarifyingQuestion(prefs)
	}
	return out
}

// Phrases that signal the user is narrowing a previous result set rather
// than starting over.
var refinementPhrases = []string{
	"from that list",
	"from this list",
	"of those",
	"among those",
	"only the",
	"just the",
	"show only",
	"show me the ones",
	"filter by",
	"narrow",
	"refine",
	"specify",
}

// Attribute mentions that, after a search, usually mean "apply this to what
// you already showed me".
var refinementAttributes = []string{
	"color", "price", "year", "fuel", "transmission",
	"doors", "mileage", "brand", "model",
}

// IsRefinement reports whether a message refines an earlier search. Without
// previous results there is nothing to refine, so it is always false.
func IsRefinement(message string, hasPreviousResults bool) bool {
	if !hasPreviousResults {
		return false
	}
	lower := strings.ToLower(message)
	for _, phrase := range refinementPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	for _, attr := range refinementAttributes {
		if strings.Contains(lower, attr) {
			return true
		}
	}
	return false
}
