package automation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/engager/pkg/domain"
)

// Executor performs like, follow and reply actions on one post
type Executor struct {
	session   *Session
	generator CommentGenerator
	links     LinkContext
	journal   Journal
	timings   Timings
	own       OwnRules
	now       func() time.Time

	mu         sync.RWMutex
	onGenerate func(ctx context.Context, err error)
}

// ExecutorParams defines executor dependencies, Links and Journal are optional
type ExecutorParams struct {
	Session   *Session
	Generator CommentGenerator
	Links     LinkContext
	Journal   Journal
	Timings   Timings
	Own       OwnRules
}

// NewExecutor makes an executor
func NewExecutor(p ExecutorParams) *Executor {
	return &Executor{
		session:   p.Session,
		generator: p.Generator,
		links:     p.Links,
		journal:   p.Journal,
		timings:   p.Timings,
		own:       p.Own,
		now:       time.Now,
	}
}

// OnGenerateFailure sets the hook called when reply generation fails
func (e *Executor) OnGenerateFailure(fn func(ctx context.Context, err error)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onGenerate = fn
}

// Process handles one post. The post is marked processed before anything else, policy skips
// return nil. Like and follow failures are logged and don't stop the rest.
func (e *Executor) Process(ctx context.Context, page Page, post domain.Post, s domain.Settings) error {
	e.session.MarkProcessed(post.ID)
	log.Printf("[DEBUG] processing post %s", post.ID)

	if author, err := ExtractAuthor(ctx, page, post.Ref); err == nil {
		post.Author = author
	} else if !errors.Is(err, ErrNotFound) {
		log.Printf("[WARN] can't resolve author of %s: %v", post.ID, err)
	}
	if text, err := ExtractText(ctx, page, post.Ref); err == nil {
		post.Text = text
	} else if !errors.Is(err, ErrNotFound) {
		log.Printf("[WARN] can't extract text of %s: %v", post.ID, err)
	}
	log.Printf("[DEBUG] post %s, author %q, text %q", post.ID, post.Author, short(post.Text, 50))

	if reason := e.skipReason(ctx, page, post); reason != "" {
		log.Printf("[DEBUG] skip post %s: %s", post.ID, reason)
		e.record(ctx, domain.ActionSkip, post, "", reason)
		return nil
	}

	if err := page.ScrollIntoView(ctx, post.Ref); err != nil {
		return fmt.Errorf("scroll to post %s: %w", post.ID, err)
	}
	if err := sleep(ctx, e.timings.ScrollSettle); err != nil {
		return err
	}

	if s.LikeEnabled {
		if err := e.like(ctx, page, post); err != nil {
			log.Printf("[WARN] like %s: %v", post.ID, err)
		}
		if err := sleep(ctx, randomDelay(e.timings.Action)); err != nil {
			return err
		}
	}

	blocked := e.session.IsBlocked(post.Author)
	if s.FollowEnabled && post.Author != "" && !blocked {
		if err := e.follow(ctx, page, post); err != nil {
			log.Printf("[WARN] follow %s: %v", post.Author, err)
		}
		if err := sleep(ctx, randomDelay(e.timings.Action)); err != nil {
			return err
		}
	}

	if s.CommentEnabled && post.Text != "" && post.Author != "" && !blocked {
		sent, err := e.Comment(ctx, page, post, s)
		if err != nil {
			log.Printf("[WARN] reply to %s: %v", post.ID, err)
		}
		if sent {
			e.session.MarkReplied(post.Author)
		}
		if err := sleep(ctx, randomDelay(e.timings.Comment)); err != nil {
			return err
		}
	}

	return sleep(ctx, randomDelay(e.timings.Pass))
}

// skipReason returns why the post must not be touched, empty if it can be
func (e *Executor) skipReason(ctx context.Context, page Page, post domain.Post) string {
	switch {
	case e.session.IsBlocked(post.Author):
		return "blocked author"
	case e.session.HasReplied(post.Author):
		return "already replied to author"
	case IsOwnContent(ctx, page, post, e.session, e.own, e.now()):
		return "own content"
	}
	return ""
}

func (e *Executor) like(ctx context.Context, page Page, post domain.Post) error {
	btn, sel, err := first(ctx, page, post.Ref, likeSelectors)
	if err != nil {
		return fmt.Errorf("like control: %w", err)
	}
	log.Printf("[DEBUG] like control found with %s", sel)
	if err := page.Click(ctx, btn.Ref); err != nil {
		return fmt.Errorf("click like: %w", err)
	}
	log.Printf("[INFO] liked post %s by %q", post.ID, post.Author)
	e.record(ctx, domain.ActionLike, post, "", "")
	return sleep(ctx, randomDelay(e.timings.Click))
}

func (e *Executor) follow(ctx context.Context, page Page, post domain.Post) error {
	if e.session.HasFollowed(post.Author) {
		return nil
	}
	btn, sel, err := firstMatching(ctx, page, post.Ref, followSelectors(post.Author), isFollowControl)
	if err != nil {
		return fmt.Errorf("follow control: %w", err)
	}
	log.Printf("[DEBUG] follow control found with %s, label %q", sel, btn.Label())
	if err := page.Click(ctx, btn.Ref); err != nil {
		return fmt.Errorf("click follow: %w", err)
	}
	e.session.MarkFollowed(post.Author)
	log.Printf("[INFO] followed %s", post.Author)
	e.record(ctx, domain.ActionFollow, post, "", "")
	return sleep(ctx, randomDelay(e.timings.Click))
}

func isFollowControl(n domain.Node) bool {
	label := n.Label()
	return strings.Contains(label, "follow") && !strings.Contains(label, "following") && !strings.Contains(label, "unfollow")
}

func (e *Executor) generateFailed(ctx context.Context, err error) {
	e.mu.RLock()
	fn := e.onGenerate
	e.mu.RUnlock()
	if fn != nil {
		fn(ctx, err)
	}
}

// record writes action to the journal, failures are only logged
func (e *Executor) record(ctx context.Context, kind domain.ActionKind, post domain.Post, text, detail string) {
	if e.journal == nil {
		return
	}
	action := &domain.Action{Kind: kind, PostID: post.ID, Author: post.Author, Text: text, Detail: detail}
	if err := e.journal.Record(ctx, action); err != nil {
		log.Printf("[WARN] can't record %s action for %s: %v", kind, post.ID, err)
	}
}

// short cuts s to n runes for logging
func short(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
