// Package llm defines the provider-neutral completion contract used for structuring and tailoring.
package llm

import (
	"context"
	"errors"
)

// Request is a single system+user completion.
type Request struct {
	System      string
	User        string
	Temperature float32
	// JSON asks the provider for a JSON object response.
	JSON bool
}

// Client completes prompts against a language model.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrNotConfigured is returned when no provider credentials are set.
var ErrNotConfigured = errors.New("llm provider not configured")

// Unconfigured is used when the provider is disabled or missing credentials.
type Unconfigured struct{}

// Complete always returns ErrNotConfigured.
func (Unconfigured) Complete(ctx context.Context, req Request) (string, error) {
	return "", ErrNotConfigured
}

// Func adapts a function into a Client. Handy in tests.
type Func func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f Func) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
