// Package llm talks to OpenAI-compatible chat completion APIs. Gateway makes a single call,
// Queue serializes calls with a minimal interval between them and Generator builds reply prompts
// and normalizes completions into plain comment text.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/engager/pkg/config"
	"github.com/umputun/engager/pkg/domain"
)

// ErrMalformedResponse is returned when completion has no choices or empty content
var ErrMalformedResponse = errors.New("malformed completion response")

// Request is one chat completion call
type Request struct {
	Endpoint  string // full chat completions url
	APIKey    string
	Model     string
	System    string
	Prompt    string
	MaxTokens int // zero means config default
}

// Gateway makes exactly one chat completion request per call, no retries
type Gateway struct {
	cfg        config.LLMConfig
	httpClient *http.Client
}

// NewGateway makes a gateway. Temperature, top_p, max_tokens and timeout are taken from cfg.
func NewGateway(cfg config.LLMConfig) *Gateway {
	return &Gateway{cfg: cfg, httpClient: &http.Client{}}
}

// Complete sends request and returns the first choice content
func (g *Gateway) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := g.call(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrMalformedResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// Probe checks the api with a tiny request using endpoint, key and model from settings
func (g *Gateway) Probe(ctx context.Context, s domain.Settings) error {
	_, err := g.call(ctx, Request{
		Endpoint:  s.APIEndpoint,
		APIKey:    s.APIKey,
		Model:     s.Model,
		System:    "You are a helpful assistant.",
		Prompt:    "Test connection",
		MaxTokens: 5,
	})
	if err != nil {
		return fmt.Errorf("api connection test failed: %w", err)
	}
	return nil
}

func (g *Gateway) call(ctx context.Context, req Request) (openai.ChatCompletionResponse, error) {
	endpoint := req.Endpoint
	if endpoint == "" {
		endpoint = domain.DefaultAPIEndpoint
	}
	clientConfig := openai.DefaultConfig(req.APIKey)
	clientConfig.BaseURL = baseURL(endpoint)
	clientConfig.HTTPClient = g.httpClient
	client := openai.NewClientWithConfig(clientConfig)

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.cfg.MaxTokens
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		MaxTokens:   maxTokens,
		Temperature: float32(g.cfg.Temperature),
		TopP:        float32(g.cfg.TopP),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		return resp, fmt.Errorf("llm request to %s failed: %w", endpoint, err)
	}
	return resp, nil
}

// baseURL converts full completions endpoint to the base url expected by the client,
// which appends /chat/completions itself
func baseURL(endpoint string) string {
	return strings.TrimSuffix(strings.TrimSuffix(endpoint, "/"), "/chat/completions")
}
