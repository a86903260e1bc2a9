package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/engager/pkg/automation/mocks"
	"github.com/umputun/engager/pkg/domain"
	"github.com/umputun/engager/pkg/snapshot"
)

func TestIsOwnContent(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-time.Hour)

	tbl := []struct {
		name    string
		doc     string
		title   string
		replied []string
		blocked []string
		want    bool
	}{
		{name: "regular post", doc: feedHTML(post{id: "p1", author: "alice", text: "hi", posted: old})},
		{name: "replied indicator", doc: feedHTML(post{id: "p1", author: "alice", text: "hi", posted: old, social: "You replied"}),
			want: true},
		{name: "reposted by someone", doc: feedHTML(post{id: "p1", author: "alice", text: "hi", posted: old, social: "bob reposted"})},
		{name: "self label", doc: feedHTML(post{id: "p1", author: "me", text: "hi", posted: old, nameTag: "You"}), want: true},
		{name: "verified self", doc: `<html><body><article data-testid="tweet" aria-labelledby="p1">` +
			`<div data-testid="User-Name"><a href="/me">Me You<svg aria-label="Verified account"></svg></a></div>` +
			`</article></body></html>`, want: true},
		{name: "verified other", doc: feedHTML(post{id: "p1", author: "alice", text: "hi", posted: old, verified: true})},
		{name: "recent post", doc: feedHTML(post{id: "p1", author: "alice", text: "hi", posted: now.Add(-time.Minute)}), want: true},
		{name: "own thread", doc: `<html><body><div aria-label="Timeline: Conversation">` +
			`<article data-testid="tweet" aria-labelledby="p0"><div data-testid="User-Name"><span>You</span></div></article>` +
			post{id: "p1", author: "alice", text: "hi", posted: old}.html() + `</div></body></html>`, want: true},
		{name: "other thread", doc: `<html><body><div aria-label="Timeline: Conversation">` +
			post{id: "p1", author: "alice", text: "hi", posted: old}.html() + `</div></body></html>`},
		{name: "replies view title", doc: feedHTML(post{id: "p1", author: "alice", text: "hi", posted: old}), title: "Your replies / X",
			want: true},
		{name: "replied author", doc: feedHTML(post{id: "p1", author: "alice", text: "hi", posted: old}), replied: []string{"alice"},
			want: true},
		{name: "blocked author", doc: feedHTML(post{id: "p1", author: "alice", text: "hi", posted: old}), blocked: []string{"alice"},
			want: true},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			page, err := snapshot.NewFromString(tt.doc, "https://x.com/home")
			require.NoError(t, err)
			if tt.title != "" {
				page.SetLocation("https://x.com/home", tt.title)
			}
			session := NewSession(tt.blocked)
			for _, a := range tt.replied {
				session.MarkReplied(a)
			}
			nodes, err := page.Query(context.Background(), "", `article[aria-labelledby="p1"]`)
			require.NoError(t, err)
			require.Len(t, nodes, 1)

			p := domain.Post{ID: "p1", Ref: nodes[0].Ref, Author: "alice"}
			assert.Equal(t, tt.want, IsOwnContent(context.Background(), page, p, session, testOwnRules(), now))
		})
	}
}

func TestIsOwnContent_LookupErrorIsNotOwn(t *testing.T) {
	page := &mocks.PageMock{
		QueryFunc: func(ctx context.Context, scope, selector string) ([]domain.Node, error) {
			return nil, errors.New("page gone")
		},
	}
	session := NewSession([]string{"alice"})
	p := domain.Post{ID: "p1", Ref: "r1", Author: "alice"}
	assert.False(t, IsOwnContent(context.Background(), page, p, session, testOwnRules(), time.Now()),
		"errors stop checks and count as not own")
	assert.Len(t, page.QueryCalls(), 1)
}

func TestIsOwnContent_NoMaxAge(t *testing.T) {
	now := time.Now()
	page, err := snapshot.NewFromString(feedHTML(post{id: "p1", author: "alice", text: "hi", posted: now}), "https://x.com/home")
	require.NoError(t, err)
	nodes, err := page.Query(context.Background(), "", postSelector)
	require.NoError(t, err)

	p := domain.Post{ID: "p1", Ref: nodes[0].Ref, Author: "alice"}
	assert.False(t, IsOwnContent(context.Background(), page, p, NewSession(nil), OwnRules{}, now))
}
