package automation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/engager/pkg/domain"
)

// Comment generates and submits one reply to the post. Returns true when the reply was attempted,
// in this case post and author are recorded as handled even if submit control was not found.
// On error the compose dialog is closed if open.
func (e *Executor) Comment(ctx context.Context, page Page, post domain.Post, s domain.Settings) (sent bool, err error) {
	switch {
	case e.session.IsCommented(post.ID):
		log.Printf("[DEBUG] already replied to post %s", post.ID)
		return false, nil
	case e.session.IsBlocked(post.Author):
		log.Printf("[DEBUG] no reply to %s, blocked author %s", post.ID, post.Author)
		return false, nil
	case e.session.HasReplied(post.Author):
		log.Printf("[DEBUG] no reply to %s, already replied to %s", post.ID, post.Author)
		return false, nil
	}

	replied, err := anyText(ctx, page, post.Ref, socialContextSelector, func(s string) bool { return strings.Contains(s, "You replied") })
	if err != nil {
		return false, fmt.Errorf("check replied indicator: %w", err)
	}
	if replied {
		log.Printf("[DEBUG] feed indicates post %s was already replied to", post.ID)
		e.session.MarkCommented(post.ID)
		e.session.MarkReplied(post.Author)
		return false, nil
	}
	if IsOwnContent(ctx, page, post, e.session, e.own, e.now()) {
		log.Printf("[DEBUG] no reply to %s, own content", post.ID)
		return false, nil
	}

	// generate before opening the dialog, generation latency must not race the dialog mount
	comment, err := e.generate(ctx, post, s)
	if err != nil {
		log.Printf("[WARN] no reply generated for %s: %v", post.ID, err)
		e.record(ctx, domain.ActionFail, post, "", err.Error())
		e.generateFailed(ctx, err)
		return false, nil
	}
	log.Printf("[DEBUG] generated reply for %s: %q", post.ID, comment)

	replyBtn, _, err := first(ctx, page, post.Ref, replySelectors)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Printf("[WARN] reply control not found for %s", post.ID)
			return false, nil
		}
		return false, fmt.Errorf("find reply control: %w", err)
	}

	opened := false
	defer func() {
		if err != nil && opened {
			e.closeCompose(ctx, page)
			_ = sleep(ctx, e.timings.ErrorClose)
		}
	}()

	if err = page.Click(ctx, replyBtn.Ref); err != nil {
		return false, fmt.Errorf("click reply: %w", err)
	}
	opened = true
	if err = sleep(ctx, e.timings.ComposeMount); err != nil {
		return false, err
	}

	editor, err := findEditor(ctx, page)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return false, fmt.Errorf("find editor: %w", err)
		}
		log.Printf("[WARN] no editor found for reply to %s, closing dialog", post.ID)
		e.closeCompose(ctx, page)
		return false, sleep(ctx, e.timings.ErrorClose)
	}

	if fillErr := FillEditor(ctx, page, editor, comment, e.timings.TypingDelay); fillErr != nil {
		log.Printf("[WARN] fill editor for %s: %v", post.ID, fillErr)
	}

	if err = sleep(ctx, e.timings.BeforeSubmit); err != nil {
		return false, err
	}

	submit, sel, err := firstMatching(ctx, page, "", submitSelectors, isSubmitControl)
	switch {
	case err == nil:
		log.Printf("[DEBUG] submit control found with %s, label %q", sel, submit.Label())
		if err = page.Click(ctx, submit.Ref); err != nil {
			return false, fmt.Errorf("click submit: %w", err)
		}
		log.Printf("[INFO] replied to %s by %q: %q", post.ID, post.Author, comment)
		e.record(ctx, domain.ActionReply, post, comment, "")
	case errors.Is(err, ErrNotFound):
		log.Printf("[WARN] submit control not found or disabled for %s, closing dialog", post.ID)
		e.closeCompose(ctx, page)
		e.record(ctx, domain.ActionFail, post, comment, "submit control not found")
	default:
		return false, fmt.Errorf("find submit control: %w", err)
	}
	if err = sleep(ctx, e.timings.AfterSubmit); err != nil {
		return false, err
	}

	e.session.MarkCommented(post.ID)
	e.session.MarkReplied(post.Author)
	return true, nil
}

func (e *Executor) generate(ctx context.Context, post domain.Post, s domain.Settings) (string, error) {
	linkContext := ""
	if e.links != nil {
		excerpt, err := e.links.Excerpt(ctx, post.Text)
		if err != nil {
			log.Printf("[DEBUG] no link context for %s: %v", post.ID, err)
		}
		linkContext = excerpt
	}
	return e.generator.Generate(ctx, s, post.Text, linkContext)
}

// findEditor looks up the reply text surface in the document, then any textbox in the dialog
func findEditor(ctx context.Context, page Page) (domain.Node, error) {
	editor, sel, err := first(ctx, page, "", editorSelectors)
	if err == nil {
		log.Printf("[DEBUG] editor found with %s", sel)
		return editor, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return domain.Node{}, err
	}
	dialog, _, err := first(ctx, page, "", []string{modalSelector})
	if err != nil {
		return domain.Node{}, err
	}
	editor, _, err = first(ctx, page, dialog.Ref, []string{modalInputSelector})
	return editor, err
}

func isSubmitControl(n domain.Node) bool {
	if n.Disabled() {
		return false
	}
	label := n.Label()
	return strings.Contains(label, "reply") || strings.Contains(label, "tweet") || strings.Contains(label, "post")
}

// closeCompose clicks the dialog close control if there is one
func (e *Executor) closeCompose(ctx context.Context, page Page) {
	nodes, err := page.Query(ctx, "", closeSelector)
	if err != nil || len(nodes) == 0 {
		return
	}
	if err := page.Click(ctx, nodes[0].Ref); err != nil {
		log.Printf("[WARN] can't close reply dialog: %v", err)
	}
}
