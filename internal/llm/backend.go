package llm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ad-intel/pkg/anthropic"
	"github.com/sells-group/ad-intel/pkg/perplexity"
)

// Completion is a backend's raw answer.
type Completion struct {
	Text  string
	Usage Usage
}

// Backend is a single generative API. Backends do not retry.
type Backend interface {
	Name() string
	Complete(ctx context.Context, req Request) (Completion, error)
}

// AnthropicBackend calls the Anthropic Messages API.
type AnthropicBackend struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropicBackend creates a backend for model. maxTokens is used when a
// request does not set its own.
func NewAnthropicBackend(client anthropic.Client, model string, maxTokens int) *AnthropicBackend {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &AnthropicBackend{client: client, model: model, maxTokens: maxTokens}
}

// Name implements Backend.
func (b *AnthropicBackend) Name() string { return "anthropic" }

// Complete implements Backend.
func (b *AnthropicBackend) Complete(ctx context.Context, req Request) (Completion, error) {
	maxTokens := b.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	resp, err := b.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       b.model,
		MaxTokens:   int64(maxTokens),
		System:      anthropic.CachedSystem(req.System),
		Messages:    []anthropic.Message{{Role: "user", Content: req.Prompt}},
		Prefill:     "{",
		Temperature: req.Temperature,
	})
	if err != nil {
		return Completion{}, eris.Wrapf(err, "llm: anthropic %s", req.Stage)
	}
	resp.Usage.LogCost(b.model, req.Stage)

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return Completion{}, ErrEmptyResponse
	}
	return Completion{
		Text: text,
		Usage: Usage{
			InputTokens:  resp.Usage.InputTokens + resp.Usage.CacheCreationInputTokens + resp.Usage.CacheReadInputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}, nil
}

// PerplexityBackend calls the Perplexity chat completions API.
type PerplexityBackend struct {
	client perplexity.Client
}

// NewPerplexityBackend creates a backend; the model is the client's.
func NewPerplexityBackend(client perplexity.Client) *PerplexityBackend {
	return &PerplexityBackend{client: client}
}

// Name implements Backend.
func (b *PerplexityBackend) Name() string { return "perplexity" }

// Complete implements Backend.
func (b *PerplexityBackend) Complete(ctx context.Context, req Request) (Completion, error) {
	var msgs []perplexity.Message
	if req.System != "" {
		msgs = append(msgs, perplexity.Message{Role: "system", Content: req.System})
	}
	msgs = append(msgs, perplexity.Message{Role: "user", Content: req.Prompt})

	pr := perplexity.ChatCompletionRequest{Messages: msgs, Temperature: req.Temperature, DisableSearch: true}
	if req.MaxTokens > 0 {
		n := req.MaxTokens
		pr.MaxTokens = &n
	}

	resp, err := b.client.ChatCompletion(ctx, pr)
	if err != nil {
		return Completion{}, eris.Wrapf(err, "llm: perplexity %s", req.Stage)
	}
	text := resp.Content()
	if text == "" {
		return Completion{}, ErrEmptyResponse
	}
	return Completion{
		Text: text,
		Usage: Usage{
			InputTokens:  int64(resp.Usage.PromptTokens),
			OutputTokens: int64(resp.Usage.CompletionTokens),
		},
	}, nil
}
