// Package llm puts the generative text backends behind one Generator
// interface. Every call is bounded by a timeout, retried on transient
// errors, rate limited and guarded by a circuit breaker. Failures come back
// as a Result value, never as a panic or a bare error, so each classifier
// stage can take its own fallback path.
package llm

import (
	"context"

	"github.com/rotisserie/eris"
)

// ErrDisabled is the failure returned when no backend is configured.
var ErrDisabled = eris.New("llm: generation disabled")

// ErrEmptyResponse is returned when a backend answers with no text.
var ErrEmptyResponse = eris.New("llm: empty response")

// Request is one prompt for a pipeline stage.
type Request struct {
	Stage       string // pipeline stage, for logs and cost accounting
	System      string
	Prompt      string
	MaxTokens   int // 0 uses the backend default
	Temperature *float64
}

// Usage counts tokens for one call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Result is the outcome of a generation. OK is false whenever Err is set.
type Result struct {
	OK    bool
	Text  string
	Err   error
	Usage Usage
}

// Failed builds a failed result.
func Failed(err error) Result {
	return Result{Err: err}
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) Result
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) Result

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) Result {
	return f(ctx, req)
}

type disabled struct{}

func (disabled) Generate(context.Context, Request) Result { return Failed(ErrDisabled) }

// Disabled always fails with ErrDisabled.
var Disabled Generator = disabled{}

// Enabled reports whether g can reach a backend.
func Enabled(g Generator) bool {
	return g != nil && g != Disabled
}

// Temperature returns a pointer for Request.Temperature.
func Temperature(t float64) *float64 { return &t }
