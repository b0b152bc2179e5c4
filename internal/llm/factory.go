package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Options configures backend construction.
type Options struct {
	Provider    string // "ollama", "static", "auto"
	OllamaURL   string
	OllamaModel string
	Timeout     time.Duration
}

// New builds a generator for the requested provider. "auto" wires the Ollama
// client with the static backend as fallback, so generation keeps working
// when the model server is down.
func New(opts Options, logger *zap.Logger) Generator {
	switch opts.Provider {
	case "static":
		return NewStatic()
	case "ollama":
		return NewOllamaClient(opts.OllamaURL, opts.OllamaModel, opts.Timeout, logger)
	default:
		primary := NewOllamaClient(opts.OllamaURL, opts.OllamaModel, opts.Timeout, logger)
		return NewFallback(primary, NewStatic(), logger)
	}
}

// Fallback routes generation to a primary backend and degrades to a secondary
// one when the primary is unavailable or errors.
type Fallback struct {
	primary   Generator
	secondary Generator
	logger    *zap.Logger
}

// NewFallback composes two generators.
func NewFallback(primary, secondary Generator, logger *zap.Logger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

// Name implements Generator.
func (f *Fallback) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

// Available implements Generator; true if either backend can serve.
func (f *Fallback) Available(ctx context.Context) bool {
	return f.primary.Available(ctx) || f.secondary.Available(ctx)
}

// Generate implements Generator.
func (f *Fallback) Generate(ctx context.Context, req Request) (string, error) {
	if f.primary.Available(ctx) {
		out, err := f.primary.Generate(ctx, req)
		if err == nil {
			return out, nil
		}
		f.logger.Warn("primary generation backend failed, degrading",
			zap.String("backend", f.primary.Name()),
			zap.String("task", req.Task),
			zap.Error(err))
	}
	return f.secondary.Generate(ctx, req)
}
