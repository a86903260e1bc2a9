package automation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/umputun/engager/pkg/domain"
	"github.com/umputun/engager/pkg/settings"
	smocks "github.com/umputun/engager/pkg/settings/mocks"
	"github.com/umputun/engager/pkg/snapshot"
)

// post describes one rendered post of the test feed
type post struct {
	id       string
	author   string
	text     string
	posted   time.Time
	social   string // social context line, e.g. "You replied"
	nameTag  string // extra text in the user name block
	verified bool
	noFollow bool
	noReply  bool
}

func (p post) html() string {
	posted := p.posted
	if posted.IsZero() {
		posted = time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<article data-testid="tweet" aria-labelledby="%s">`, p.id)
	if p.social != "" {
		fmt.Fprintf(&b, `<div data-testid="socialContext"><span>%s</span></div>`, p.social)
	}
	b.WriteString(`<div data-testid="User-Name">`)
	fmt.Fprintf(&b, `<a href="/%s" role="link"><span>%s Name</span>`, p.author, strings.ToUpper(p.author[:1])+p.author[1:])
	if p.verified {
		b.WriteString(`<svg aria-label="Verified account" viewBox="0 0 22 22"></svg>`)
	}
	if p.nameTag != "" {
		fmt.Fprintf(&b, `<span>%s</span>`, p.nameTag)
	}
	fmt.Fprintf(&b, `</a><a href="/%s" role="link"><span>@%s</span></a></div>`, p.author, p.author)
	fmt.Fprintf(&b, `<a href="/%s/status/1"><time datetime="%s">Jan 2</time></a>`, p.author, posted.Format(time.RFC3339))
	if p.text != "" {
		fmt.Fprintf(&b, `<div data-testid="tweetText" lang="en"><span>%s</span></div>`, p.text)
	}
	b.WriteString(`<div role="group">`)
	if !p.noReply {
		b.WriteString(`<div role="button" data-testid="reply" aria-label="Reply"><svg viewBox="0 0 24 24" aria-hidden="true"></svg></div>`)
	}
	b.WriteString(`<div role="button" data-testid="like" aria-label="Like"><svg viewBox="0 0 24 24" aria-hidden="true"></svg></div>`)
	b.WriteString(`</div>`)
	if !p.noFollow {
		fmt.Fprintf(&b, `<div role="button" data-testid="followButton" aria-label="Follow @%s"><span>Follow</span></div>`, p.author)
	}
	b.WriteString(`</article>`)
	return b.String()
}

func feedHTML(posts ...post) string {
	var b strings.Builder
	b.WriteString(`<html><head><title>Home / X</title></head><body><main><div aria-label="Timeline: Your Home Timeline">`)
	for _, p := range posts {
		b.WriteString(p.html())
	}
	b.WriteString(`</div></main></body></html>`)
	return b.String()
}

// draftCompose is the reply dialog with a block editor
const draftCompose = `<div aria-labelledby="modal-header" role="dialog">` +
	`<div class="notranslate public-DraftEditor-content" contenteditable="true" data-testid="tweetTextarea_0" role="textbox">` +
	`<div data-contents="true"><div data-block="true"><div class="public-DraftStyleDefault-block">` +
	`<span data-offset-key="a-0-0"><br data-text="true"/></span></div></div></div></div>` +
	`<div role="button" data-testid="tweetButton"><span>Reply</span></div>` +
	`<div role="button" data-testid="app-bar-close" aria-label="Close"></div></div>`

// newFeed makes a snapshot page emulating the reply dialog lifecycle
func newFeed(t *testing.T, compose string, posts ...post) *snapshot.Page {
	t.Helper()
	page, err := snapshot.NewFromString(feedHTML(posts...), "https://x.com/home")
	require.NoError(t, err)
	if compose != "" {
		require.NoError(t, page.OnClick(`[data-testid="reply"]`, func(p *snapshot.Page) error {
			return p.Append("body", compose)
		}))
	}
	closeDialog := func(p *snapshot.Page) error { return p.Remove(`[aria-labelledby="modal-header"]`) }
	require.NoError(t, page.OnClick(`[data-testid="tweetButton"]`, closeDialog))
	require.NoError(t, page.OnClick(`[data-testid="app-bar-close"]`, closeDialog))
	return page
}

// memStore makes a settings store over an in-memory repository
func memStore(t *testing.T, initial domain.Settings) (*settings.Store, *smocks.RepositoryMock) {
	t.Helper()
	var mu sync.Mutex
	data := map[string]string{}
	repo := &smocks.RepositoryMock{
		GetSettingFunc: func(ctx context.Context, key string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			return data[key], nil
		},
		SetSettingFunc: func(ctx context.Context, key, value string) error {
			mu.Lock()
			defer mu.Unlock()
			data[key] = value
			return nil
		},
	}
	st := settings.NewStore(repo)
	_, err := st.Seed(context.Background(), initial)
	require.NoError(t, err)
	return st, repo
}

// enabledSettings has all actions on with an api key
func enabledSettings() domain.Settings {
	s := domain.DefaultSettings()
	s.AutomationEnabled = true
	s.APIKey = "k"
	return s
}

func testOwnRules() OwnRules {
	return OwnRules{SelfMarker: "You", MaxAge: 2 * time.Minute}
}
