package automation

import (
	"context"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/engager/pkg/domain"
)

// OwnRules configures the own-content heuristic
type OwnRules struct {
	SelfMarker string        // label the feed puts next to own name
	MaxAge     time.Duration // posts younger than this are treated as own
}

// IsOwnContent reports whether the post looks like our own output or one we should not touch.
// It is over-inclusive, any lookup error counts as not own.
func IsOwnContent(ctx context.Context, page Page, post domain.Post, session *Session, rules OwnRules, now time.Time) bool {
	marker := rules.SelfMarker
	if marker == "" {
		marker = "You"
	}

	checks := []struct {
		name  string
		check func() (bool, error)
	}{
		{"replied indicator", func() (bool, error) {
			return anyText(ctx, page, post.Ref, socialContextSelector, func(s string) bool { return strings.Contains(s, "You replied") })
		}},
		{"self label", func() (bool, error) {
			return anyText(ctx, page, post.Ref, userNameSpanSelector, func(s string) bool { return strings.Contains(s, marker) })
		}},
		{"verified self", func() (bool, error) { return verifiedSelf(ctx, page, post.Ref, marker) }},
		{"recent post", func() (bool, error) { return recentPost(ctx, page, post.Ref, rules.MaxAge, now) }},
		{"own thread", func() (bool, error) { return ownThread(ctx, page, post.Ref, marker) }},
		{"replies view", func() (bool, error) {
			_, title, err := page.Location(ctx)
			return strings.Contains(title, "Your replies") || strings.Contains(title, "Replies"), err
		}},
		{"replied author", func() (bool, error) { return session.HasReplied(post.Author), nil }},
		{"blocked author", func() (bool, error) { return session.IsBlocked(post.Author), nil }},
	}

	for _, c := range checks {
		ok, err := c.check()
		if err != nil {
			log.Printf("[WARN] own content check %q failed for %s: %v", c.name, post.ID, err)
			return false
		}
		if ok {
			log.Printf("[DEBUG] post %s looks like own content: %s", post.ID, c.name)
			return true
		}
	}
	return false
}

func anyText(ctx context.Context, page Page, scope, selector string, match func(string) bool) (bool, error) {
	nodes, err := page.Query(ctx, scope, selector)
	if err != nil {
		return false, err
	}
	for _, n := range nodes {
		if match(n.Text) {
			return true, nil
		}
	}
	return false, nil
}

func verifiedSelf(ctx context.Context, page Page, postRef, marker string) (bool, error) {
	badges, err := page.Query(ctx, postRef, verifiedSelector)
	if err != nil {
		return false, err
	}
	for _, b := range badges {
		name, found, err := page.Closest(ctx, b.Ref, userNameSelector)
		if err != nil {
			return false, err
		}
		if found && strings.Contains(name.Text, marker) {
			return true, nil
		}
	}
	return false, nil
}

func recentPost(ctx context.Context, page Page, postRef string, maxAge time.Duration, now time.Time) (bool, error) {
	if maxAge <= 0 {
		return false, nil
	}
	times, err := page.Query(ctx, postRef, timeSelector)
	if err != nil {
		return false, err
	}
	for _, t := range times {
		ts := t.Attr("datetime")
		if ts == "" {
			continue
		}
		posted, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			continue
		}
		if now.Sub(posted) < maxAge {
			return true, nil
		}
	}
	return false, nil
}

// ownThread checks if post with a reply control sits in a conversation we already took part in
func ownThread(ctx context.Context, page Page, postRef, marker string) (bool, error) {
	replies, err := page.Query(ctx, postRef, replyControlSelector)
	if err != nil || len(replies) == 0 {
		return false, err
	}
	thread, found, err := page.Closest(ctx, postRef, conversationSelector)
	if err != nil || !found {
		return false, err
	}
	return anyText(ctx, page, thread.Ref, userNameSpanSelector, func(s string) bool { return strings.Contains(s, marker) })
}
