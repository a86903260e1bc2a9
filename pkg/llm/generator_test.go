package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/engager/pkg/config"
	"github.com/umputun/engager/pkg/domain"
	"github.com/umputun/engager/pkg/llm"
	"github.com/umputun/engager/pkg/llm/mocks"
)

func TestGenerator_Generate(t *testing.T) {
	tests := []struct {
		name    string
		resp    string
		want    string
		wantErr bool
	}{
		{name: "plain", resp: "Nice post!", want: "Nice post!"},
		{name: "quoted", resp: `"Nice post!"`, want: "Nice post!"},
		{name: "quoted with spaces", resp: "  \" Nice post! \"  ", want: "Nice post!"},
		{name: "only one pair stripped", resp: `""Nice""`, want: `"Nice"`},
		{name: "leading quote only", resp: `"Nice post!`, want: `"Nice post!`},
		{name: "markup stripped", resp: "<b>Great</b> point &amp; well said", want: "Great point & well said"},
		{name: "self-closing tag stripped", resp: "Love it!<br/>", want: "Love it!"},
		{name: "comparison kept", resp: "a<b and c>d", want: "a<b and c>d"},
		{name: "less than kept", resp: "x < y", want: "x < y"},
		{name: "math kept", resp: "5 < 6 & 7 > 3", want: "5 < 6 & 7 > 3"},
		{name: "unclosed tag kept", resp: "use <br> wisely", want: "use <br> wisely"},
		{name: "markup only kept as text", resp: "<script>x</script>", want: "<script>x</script>"},
		{name: "apostrophe kept", resp: "It's true", want: "It's true"},
		{name: "empty", resp: "   ", wantErr: true},
		{name: "empty quotes", resp: `""`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &mocks.RequesterMock{DoFunc: func(ctx context.Context, r llm.Request) (string, error) {
				return tt.resp, nil
			}}
			gen := llm.NewGenerator(req, config.LLMConfig{})
			got, err := gen.Generate(context.Background(), domain.DefaultSettings(), "hello world", "")
			if tt.wantErr {
				assert.ErrorIs(t, err, llm.ErrEmptyComment)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerator_Request(t *testing.T) {
	req := &mocks.RequesterMock{DoFunc: func(ctx context.Context, r llm.Request) (string, error) {
		return "ok", nil
	}}
	gen := llm.NewGenerator(req, config.LLMConfig{})
	s := domain.DefaultSettings()
	s.APIKey = "k"

	_, err := gen.Generate(context.Background(), s, "hello world", "")
	require.NoError(t, err)
	require.Len(t, req.DoCalls(), 1)
	r := req.DoCalls()[0].Req
	assert.Equal(t, "k", r.APIKey)
	assert.Equal(t, domain.DefaultAPIEndpoint, r.Endpoint)
	assert.Equal(t, domain.DefaultModel, r.Model)
	assert.Equal(t, "You are a helpful assistant that generates engaging Twitter comments.", r.System)
	assert.Contains(t, r.Prompt, `comment for this tweet: "hello world".`)
	assert.Contains(t, r.Prompt, "Don't use hashtags or emojis.")
	assert.NotContains(t, r.Prompt, "Linked article excerpt")
}

func TestGenerator_Prompt(t *testing.T) {
	t.Run("link context", func(t *testing.T) {
		gen := llm.NewGenerator(nil, config.LLMConfig{})
		p := gen.Prompt("read this", " Go 1.25 ships new GC ")
		assert.Contains(t, p, `"read this"`)
		assert.Contains(t, p, "\nLinked article excerpt: Go 1.25 ships new GC")
	})

	t.Run("custom template and system", func(t *testing.T) {
		req := &mocks.RequesterMock{DoFunc: func(ctx context.Context, r llm.Request) (string, error) {
			return "ok", nil
		}}
		gen := llm.NewGenerator(req, config.LLMConfig{SystemPrompt: "be brief", PromptTemplate: "reply to: %s"})
		_, err := gen.Generate(context.Background(), domain.DefaultSettings(), "hi", "")
		require.NoError(t, err)
		assert.Equal(t, "reply to: hi", req.DoCalls()[0].Req.Prompt)
		assert.Equal(t, "be brief", req.DoCalls()[0].Req.System)
	})

	t.Run("invalid template falls back", func(t *testing.T) {
		gen := llm.NewGenerator(nil, config.LLMConfig{PromptTemplate: "no placeholder"})
		assert.Contains(t, gen.Prompt("x", ""), `for this tweet: "x"`)
	})
}

func TestGenerator_Error(t *testing.T) {
	req := &mocks.RequesterMock{DoFunc: func(ctx context.Context, r llm.Request) (string, error) {
		return "", llm.ErrMalformedResponse
	}}
	gen := llm.NewGenerator(req, config.LLMConfig{})
	_, err := gen.Generate(context.Background(), domain.DefaultSettings(), "hi", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrMalformedResponse))
}
