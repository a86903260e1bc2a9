// Package automation runs the engagement loop over a rendered feed page. The loop scans the page
// for unprocessed posts and hands at most one post per pass to the executor, which likes, follows
// and replies with randomized pacing. All DOM access goes through the Page interface.
package automation

import (
	"context"
	"errors"

	"github.com/umputun/engager/pkg/domain"
)

//go:generate moq -out mocks/page.go -pkg mocks -skip-ensure -fmt goimports . Page
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier
//go:generate moq -out mocks/generator.go -pkg mocks -skip-ensure -fmt goimports . CommentGenerator
//go:generate moq -out mocks/link_context.go -pkg mocks -skip-ensure -fmt goimports . LinkContext
//go:generate moq -out mocks/journal.go -pkg mocks -skip-ensure -fmt goimports . Journal
//go:generate moq -out mocks/settings_store.go -pkg mocks -skip-ensure -fmt goimports . SettingsStore

// ErrNotFound is returned when a selector chain has no match
var ErrNotFound = errors.New("element not found")

// Page is a rendered document the automation reads and acts on. Elements are addressed by refs
// returned from Query and Closest. An empty scope ref means the whole document.
type Page interface {
	Location(ctx context.Context) (url, title string, err error)
	Query(ctx context.Context, scope, selector string) ([]domain.Node, error)
	Closest(ctx context.Context, ref, selector string) (node domain.Node, found bool, err error)
	Click(ctx context.Context, ref string) error
	ScrollIntoView(ctx context.Context, ref string) error
	Focus(ctx context.Context, ref string) error
	SetContent(ctx context.Context, ref string, mode domain.FillMode, value string) error
	Dispatch(ctx context.Context, ref string, events ...string) error
	Content(ctx context.Context, ref string) (domain.Content, error)
	InsertText(ctx context.Context, ref, text string) error
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// Notifier shows a user-visible message
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// CommentGenerator makes reply text for a post
type CommentGenerator interface {
	Generate(ctx context.Context, s domain.Settings, text, linkContext string) (string, error)
}

// LinkContext returns an excerpt of the article linked in post text, empty if none
type LinkContext interface {
	Excerpt(ctx context.Context, postText string) (string, error)
}

// Journal records engagement actions
type Journal interface {
	Record(ctx context.Context, action *domain.Action) error
}

// SettingsStore provides settings and change notifications
type SettingsStore interface {
	Get(ctx context.Context) (domain.Settings, error)
	Set(ctx context.Context, s domain.Settings) error
	OnChange(fn func(domain.Settings)) (unsubscribe func())
}

// first returns the first node matching any selector of the chain, in chain order
func first(ctx context.Context, page Page, scope string, chain []string) (domain.Node, string, error) {
	for _, sel := range chain {
		nodes, err := page.Query(ctx, scope, sel)
		if err != nil {
			return domain.Node{}, "", err
		}
		if len(nodes) > 0 {
			return nodes[0], sel, nil
		}
	}
	return domain.Node{}, "", ErrNotFound
}

// firstMatching is like first but only accepts nodes passing the check
func firstMatching(ctx context.Context, page Page, scope string, chain []string, check func(domain.Node) bool) (domain.Node, string, error) {
	for _, sel := range chain {
		nodes, err := page.Query(ctx, scope, sel)
		if err != nil {
			return domain.Node{}, "", err
		}
		for _, n := range nodes {
			if check(n) {
				return n, sel, nil
			}
		}
	}
	return domain.Node{}, "", ErrNotFound
}
