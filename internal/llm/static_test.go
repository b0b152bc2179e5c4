package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]any
	}{
		{
			name:  "brand and price",
			input: "I want a cheap Toyota",
			want:  map[string]any{"brand": "toyota", "price_range": "budget"},
		},
		{
			name:  "color fuel transmission",
			input: "a black diesel with automatic transmission",
			want:  map[string]any{"color": "black", "fuel_type": "diesel", "transmission": "automatic"},
		},
		{
			name:  "explicit year",
			input: "something from 2021",
			want:  map[string]any{"year": 2021},
		},
		{
			name:  "recent year",
			input: "a recent car",
			want:  map[string]any{"year": "recent"},
		},
		{
			name:  "old car",
			input: "an old vehicle is fine",
			want:  map[string]any{"year": "old"},
		},
		{
			name:  "doors",
			input: "needs 4 doors",
			want:  map[string]any{"doors": 4},
		},
		{
			name:  "low mileage",
			input: "low mileage please",
			want:  map[string]any{"mileage": 50000},
		},
		{
			name:  "usage",
			input: "a car for my family",
			want:  map[string]any{"usage": "family"},
		},
		{
			name:  "portuguese aliases",
			input: "um carro preto a gasolina",
			want:  map[string]any{"color": "black", "fuel_type": "gasoline"},
		},
		{
			name:  "nothing recognized",
			input: "hello there",
			want:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeywords(tt.input))
		})
	}
}

func TestStaticGenerateExtraction(t *testing.T) {
	s := NewStatic()

	out, err := s.Generate(context.Background(), Request{
		Task:  TaskExtractPreferences,
		Input: "a luxury BMW",
	})
	require.NoError(t, err)

	var prefs map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &prefs))
	assert.Equal(t, "bmw", prefs["brand"])
	assert.Equal(t, "luxury", prefs["price_range"])
}

func TestStaticAlwaysAvailable(t *testing.T) {
	assert.True(t, NewStatic().Available(context.Background()))
}

// failingGenerator is always up but errors on every call.
type failingGenerator struct{}

func (failingGenerator) Name() string                       { return "failing" }
func (failingGenerator) Available(ctx context.Context) bool { return true }
func (failingGenerator) Generate(ctx context.Context, req Request) (string, error) {
	return "", errors.New("always fails")
}

// downGenerator is never available.
type downGenerator struct{}

func (downGenerator) Name() string                       { return "down" }
func (downGenerator) Available(ctx context.Context) bool { return false }
func (downGenerator) Generate(ctx context.Context, req Request) (string, error) {
	return "", errors.New("unreachable")
}

func TestFallbackDegradesOnError(t *testing.T) {
	f := NewFallback(failingGenerator{}, NewStatic(), zap.NewNop())

	out, err := f.Generate(context.Background(), Request{
		Task:  TaskExtractPreferences,
		Input: "a red honda",
	})
	require.NoError(t, err)

	var prefs map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &prefs))
	assert.Equal(t, "honda", prefs["brand"])
	assert.Equal(t, "red", prefs["color"])
}

func TestFallbackSkipsUnavailablePrimary(t *testing.T) {
	f := NewFallback(downGenerator{}, NewStatic(), zap.NewNop())

	out, err := f.Generate(context.Background(), Request{
		Task:  TaskExtractPreferences,
		Input: "a manual fiat",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "fiat")
	assert.True(t, f.Available(context.Background()))
}

func TestTaskConfigDefaults(t *testing.T) {
	cfg := configFor(Request{Task: TaskExtractPreferences})
	assert.Equal(t, 0.1, cfg.Temperature)
	assert.Equal(t, 512, cfg.MaxTokens)

	cfg = configFor(Request{Task: "unknown", Temperature: 0.9, MaxTokens: 64})
	assert.Equal(t, 0.9, cfg.Temperature)
	assert.Equal(t, 64, cfg.MaxTokens)
}
