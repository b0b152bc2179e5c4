package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"carsearch/internal/llm"
	"carsearch/internal/model"
)

// stubGenerator returns a fixed output or error.
type stubGenerator struct {
	output string
	err    error
	up     bool
}

func (s *stubGenerator) Name() string                       { return "stub" }
func (s *stubGenerator) Available(ctx context.Context) bool { return s.up }
func (s *stubGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	return s.output, s.err
}

// capturingGenerator remembers the last request it served.
type capturingGenerator struct {
	output  string
	lastReq llm.Request
}

func (c *capturingGenerator) Name() string                       { return "capturing" }
func (c *capturingGenerator) Available(ctx context.Context) bool { return true }
func (c *capturingGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	c.lastReq = req
	return c.output, nil
}

func TestExtractParsesBackendJSON(t *testing.T) {
	e := NewExtractor(&stubGenerator{
		output: `{"brand": "toyota", "price_range": "budget"}`,
		up:     true,
	}, zap.NewNop())

	prefs := e.Extract(context.Background(), "cheap toyota please", nil, nil)

	assert.Equal(t, model.Preferences{"brand": "toyota", "price_range": "budget"}, prefs)
}

func TestExtractDropsUnknownKeys(t *testing.T) {
	e := NewExtractor(&stubGenerator{
		output: `{"brand": "honda", "horsepower": 300, "owner_name": "bob"}`,
		up:     true,
	}, zap.NewNop())

	prefs := e.Extract(context.Background(), "a honda", nil, nil)

	assert.Equal(t, model.Preferences{"brand": "honda"}, prefs)
}

func TestExtractHandlesFencedOutput(t *testing.T) {
	e := NewExtractor(&stubGenerator{
		output: "Sure! Here you go:\n```json\n{\"color\": \"red\"}\n```",
		up:     true,
	}, zap.NewNop())

	prefs := e.Extract(context.Background(), "a red one", nil, nil)

	assert.Equal(t, model.Preferences{"color": "red"}, prefs)
}

func TestExtractFallsBackOnBackendError(t *testing.T) {
	e := NewExtractor(&stubGenerator{err: errors.New("backend down")}, zap.NewNop())

	prefs := e.Extract(context.Background(), "I want a cheap Toyota with automatic transmission", nil, nil)

	assert.Equal(t, "toyota", prefs["brand"])
	assert.Equal(t, "budget", prefs["price_range"])
	assert.Equal(t, "automatic", prefs["transmission"])
}

func TestExtractFallsBackOnGarbageOutput(t *testing.T) {
	e := NewExtractor(&stubGenerator{output: "I cannot help with that", up: true}, zap.NewNop())

	prefs := e.Extract(context.Background(), "a black diesel car from 2019", nil, nil)

	assert.Equal(t, "black", prefs["color"])
	assert.Equal(t, "diesel", prefs["fuel_type"])
	assert.Equal(t, 2019, prefs["year"])
}

func TestExtractCarriesPriorResults(t *testing.T) {
	gen := &capturingGenerator{output: `{"color": "red"}`}
	e := NewExtractor(gen, zap.NewNop())

	prior := []model.CarDetail{testCar("Honda", "Civic", 2021)}
	e.Extract(context.Background(), "only the red ones", model.Preferences{"brand": "honda"}, prior)

	assert.Contains(t, gen.lastReq.Prompt, "Honda Civic (2021)")
	assert.Contains(t, gen.lastReq.Prompt, "brand: honda")
	assert.Contains(t, gen.lastReq.Prompt, "only the red ones")
}

func TestExtractWithoutPriorResults(t *testing.T) {
	gen := &capturingGenerator{output: `{}`}
	e := NewExtractor(gen, zap.NewNop())

	e.Extract(context.Background(), "hello", nil, nil)

	assert.NotContains(t, gen.lastReq.Prompt, "Cars currently shown")
}

func TestQuestionUsesBackend(t *testing.T) {
	gen := &capturingGenerator{output: "Which brand catches your eye?"}
	e := NewExtractor(gen, zap.NewNop())

	question := e.Question(context.Background(), model.Preferences{})

	assert.Equal(t, "Which brand catches your eye?", question)
	assert.Equal(t, llm.TaskGenerateQuestion, gen.lastReq.Task)
	assert.Contains(t, gen.lastReq.Prompt, "Missing attribute: brand")
}

func TestQuestionFallsBackOnBackendError(t *testing.T) {
	e := NewExtractor(&stubGenerator{err: errors.New("backend down")}, zap.NewNop())

	question := e.Question(context.Background(), model.Preferences{"brand": "toyota"})

	assert.Equal(t, "What's your price range: budget, mid, or luxury?", question)
}

func TestIsRefinement(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		hasResults bool
		want       bool
	}{
		{"no previous results", "only the red ones", false, false},
		{"refinement phrase", "show only the red ones", true, true},
		{"from that list", "from that list, which is cheapest?", true, true},
		{"attribute mention", "what about the price?", true, true},
		{"fresh request", "hello there", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRefinement(tt.message, tt.hasResults))
		})
	}
}
