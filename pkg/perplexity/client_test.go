package perplexity

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okBody = `{"id":"1","choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}],"usage":{}}`

func TestChatCompletion(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    string
		wantStatus int
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body: `{
				"id": "cmpl-123",
				"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"product_type\":\"beauty\"}"}}],
				"usage": {"prompt_tokens": 10, "completion_tokens": 5},
				"citations": ["https://example.com"]
			}`,
		},
		{
			name:       "rate_limit",
			status:     http.StatusTooManyRequests,
			body:       `{"error": "rate limit exceeded"}`,
			wantErr:    "unexpected status 429",
			wantStatus: 429,
		},
		{
			name:       "forbidden",
			status:     http.StatusForbidden,
			body:       `{"error":"invalid api key"}`,
			wantErr:    "invalid api key",
			wantStatus: 403,
		},
		{
			name:    "malformed_response",
			status:  http.StatusOK,
			body:    `{invalid json`,
			wantErr: "unmarshal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL))
			resp, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
				Messages: []Message{{Role: "user", Content: "classify"}},
			})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, resp)
				if tt.wantStatus != 0 {
					var apiErr *APIError
					require.True(t, errors.As(err, &apiErr))
					assert.Equal(t, tt.wantStatus, apiErr.HTTPStatus())
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "cmpl-123", resp.ID)
			assert.Equal(t, `{"product_type":"beauty"}`, resp.Content())
			assert.Equal(t, 5, resp.Usage.CompletionTokens)
			assert.Equal(t, []string{"https://example.com"}, resp.Citations)
		})
	}
}

func TestChatCompletion_Models(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		reqName string
		want    string
	}{
		{"default", nil, "", defaultModel},
		{"client option", []Option{WithModel("sonar-pro")}, "", "sonar-pro"},
		{"request wins", []Option{WithModel("sonar-pro")}, "sonar-reasoning", "sonar-reasoning"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req ChatCompletionRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, tt.want, req.Model)
				_, _ = w.Write([]byte(okBody))
			}))
			defer srv.Close()

			client := NewClient("k", append(tt.opts, WithBaseURL(srv.URL))...)
			_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
				Model:    tt.reqName,
				Messages: []Message{{Role: "user", Content: "x"}},
			})
			require.NoError(t, err)
		})
	}
}

func TestChatCompletion_OptionalFieldsOmitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var raw map[string]any
		require.NoError(t, json.Unmarshal(body, &raw))
		assert.NotContains(t, raw, "temperature")
		assert.NotContains(t, raw, "max_tokens")
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL)).ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "x"}},
	})
	require.NoError(t, err)
}

func TestChatCompletion_TemperatureAndMaxTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Temperature)
		require.NotNil(t, req.MaxTokens)
		assert.InDelta(t, 0.0, *req.Temperature, 0.001)
		assert.Equal(t, 300, *req.MaxTokens)
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	temp, maxTokens := 0.0, 300
	_, err := NewClient("k", WithBaseURL(srv.URL)).ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages:    []Message{{Role: "user", Content: "x"}},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})
	require.NoError(t, err)
}

func TestChatCompletion_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient("k", WithBaseURL(srv.URL)).ChatCompletion(ctx, ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "x"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send request")
}

func TestAPIError_TruncatesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL)).ChatCompletion(context.Background(), ChatCompletionRequest{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Len(t, apiErr.Body, 512)
}

func TestContent_NoChoices(t *testing.T) {
	assert.Empty(t, (&ChatCompletionResponse{}).Content())
}

func TestNewClient_Defaults(t *testing.T) {
	custom := &http.Client{}
	c := NewClient("my-key", WithHTTPClient(custom)).(*httpClient)
	assert.Equal(t, "my-key", c.apiKey)
	assert.Equal(t, defaultBaseURL, c.baseURL)
	assert.Equal(t, defaultModel, c.model)
	assert.Same(t, custom, c.http)
}

func TestContent_StripsReasoning(t *testing.T) {
	resp := &ChatCompletionResponse{Choices: []Choice{{Message: Message{
		Content: "<think>\nthe ad mentions shawarma\n</think>\n{\"category\":\"restaurant\"}",
	}}}}
	assert.Equal(t, `{"category":"restaurant"}`, resp.Content())
}

func TestChatCompletion_DisableSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, true, raw["disable_search"])
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL+"/")).ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages:      []Message{{Role: "user", Content: "x"}},
		DisableSearch: true,
	})
	require.NoError(t, err)
}

func TestWithTimeout(t *testing.T) {
	c := NewClient("k", WithTimeout(5*time.Second), WithModel("sonar-pro"))
	assert.Equal(t, 5*time.Second, c.(*httpClient).http.Timeout)
	assert.Equal(t, "sonar-pro", c.Model())

	c = NewClient("k", WithTimeout(0))
	assert.Equal(t, 60*time.Second, c.(*httpClient).http.Timeout)
}
