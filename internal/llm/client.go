package llm

import "context"

// Generation tasks. Each task carries its own sampling defaults: extraction
// wants determinism, response generation tolerates some variety.
const (
	TaskExtractPreferences = "extract_preferences"
	TaskGenerateResponse   = "generate_response"
	TaskGenerateQuestion   = "generate_question"
)

// TaskConfig holds per-task sampling parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
}

// TaskConfigs maps each generation task to its sampling defaults.
var TaskConfigs = map[string]TaskConfig{
	TaskExtractPreferences: {Temperature: 0.1, MaxTokens: 512},
	TaskGenerateResponse:   {Temperature: 0.7, MaxTokens: 1024},
	TaskGenerateQuestion:   {Temperature: 0.5, MaxTokens: 256},
}

// Request is a single generation call.
type Request struct {
	Task        string
	System      string
	Prompt      string
	Input       string // raw user text, available to deterministic backends
	Temperature float64
	MaxTokens   int
}

// Generator produces text completions. Implementations must be safe for
// concurrent use.
type Generator interface {
	// Name identifies the backend for logging.
	Name() string
	// Available reports whether the backend can currently serve requests.
	Available(ctx context.Context) bool
	// Generate runs one completion and returns the raw text output.
	Generate(ctx context.Context, req Request) (string, error)
}

// configFor resolves sampling parameters for a request, request values
// winning over task defaults.
func configFor(req Request) TaskConfig {
	cfg, ok := TaskConfigs[req.Task]
	if !ok {
		cfg = TaskConfig{Temperature: 0.3, MaxTokens: 512}
	}
	if req.Temperature > 0 {
		cfg.Temperature = req.Temperature
	}
	if req.MaxTokens > 0 {
		cfg.MaxTokens = req.MaxTokens
	}
	return cfg
}
