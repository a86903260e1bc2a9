package llm

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/engager/pkg/config"
	"github.com/umputun/engager/pkg/domain"
)

//go:generate moq -out mocks/requester.go -pkg mocks -skip-ensure -fmt goimports . Requester

// ErrEmptyComment is returned when completion normalizes to an empty string
var ErrEmptyComment = errors.New("empty comment")

const (
	defaultSystemPrompt   = "You are a helpful assistant that generates engaging Twitter comments."
	defaultPromptTemplate = `Generate a relevant, engaging, and positive comment for this tweet: "%s". ` +
		`The comment should be concise (max 280 characters), conversational, and sound natural. ` +
		`Don't use hashtags or emojis.`
)

// Requester serves completion requests, usually a Queue
type Requester interface {
	Do(ctx context.Context, req Request) (string, error)
}

// Generator makes reply comments for posts
type Generator struct {
	requester Requester
	system    string
	template  string
	policy    *bluemonday.Policy
}

// NewGenerator makes a generator sending requests through r
func NewGenerator(r Requester, cfg config.LLMConfig) *Generator {
	res := &Generator{
		requester: r,
		system:    cfg.SystemPrompt,
		template:  cfg.PromptTemplate,
		policy:    bluemonday.StrictPolicy(),
	}
	if res.system == "" {
		res.system = defaultSystemPrompt
	}
	if res.template == "" || strings.Count(res.template, "%s") != 1 {
		res.template = defaultPromptTemplate
	}
	return res
}

// Generate returns a normalized comment for post text. linkContext is an optional excerpt of
// the linked article. Any error means no comment.
func (g *Generator) Generate(ctx context.Context, s domain.Settings, text, linkContext string) (string, error) {
	resp, err := g.requester.Do(ctx, Request{
		Endpoint: s.APIEndpoint,
		APIKey:   s.APIKey,
		Model:    s.Model,
		System:   g.system,
		Prompt:   g.Prompt(text, linkContext),
	})
	if err != nil {
		return "", fmt.Errorf("generate comment: %w", err)
	}
	return g.normalize(resp)
}

// Prompt builds the user prompt for post text
func (g *Generator) Prompt(text, linkContext string) string {
	prompt := fmt.Sprintf(g.template, text)
	if linkContext = strings.TrimSpace(linkContext); linkContext != "" {
		prompt += "\nLinked article excerpt: " + linkContext
	}
	return prompt
}

// markupRe matches a closing or self-closing tag, plain comparisons like "a<b and c>d" don't match
var markupRe = regexp.MustCompile(`</[a-zA-Z][a-zA-Z0-9]*\s*>|<[a-zA-Z][a-zA-Z0-9]*(\s[^<>]*)?/>`)

// normalize trims and strips one pair of surrounding quotes. Markup is removed only if the text has
// real tags and something is left after removal.
func (g *Generator) normalize(resp string) (string, error) {
	res := strings.TrimSpace(resp)
	if len(res) >= 2 && strings.HasPrefix(res, `"`) && strings.HasSuffix(res, `"`) {
		res = strings.TrimSpace(res[1 : len(res)-1])
	}
	if markupRe.MatchString(res) {
		if clean := strings.TrimSpace(html.UnescapeString(g.policy.Sanitize(res))); clean != "" {
			res = clean
		}
	}
	if res == "" {
		return "", ErrEmptyComment
	}
	return res, nil
}
