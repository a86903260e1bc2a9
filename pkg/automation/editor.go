package automation

import (
	"context"
	"fmt"
	"html"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/engager/pkg/domain"
)

// editorKind is a class of text surface with its own population method
type editorKind int

const (
	editorOther editorKind = iota
	editorBlock            // rich text block editor with span structure
	editorContentEditable
	editorFormControl
)

func (k editorKind) String() string {
	switch k {
	case editorBlock:
		return "block"
	case editorContentEditable:
		return "contenteditable"
	case editorFormControl:
		return "form"
	default:
		return "other"
	}
}

func classifyEditor(n domain.Node) editorKind {
	switch {
	case n.HasClass("public-DraftEditor-content") || n.Attr("data-testid") == "tweetTextarea_0":
		return editorBlock
	case n.Attr("contenteditable") == "true":
		return editorContentEditable
	case n.Tag == "textarea" || n.Tag == "input":
		return editorFormControl
	default:
		return editorOther
	}
}

// blockMarkup is the block editor structure holding a single line of text
func blockMarkup(text string) string {
	return `<div data-block="true"><div class="public-DraftStyleDefault-block public-DraftStyleDefault-ltr">` +
		`<span data-text="true">` + html.EscapeString(text) + `</span></div></div>`
}

// FillEditor puts text into the editor with the method matching its kind, fires input events the
// page listens to and verifies the result. If the text is not reflected it types text rune by rune.
func FillEditor(ctx context.Context, page Page, editor domain.Node, text string, typingDelay time.Duration) error {
	kind := classifyEditor(editor)
	log.Printf("[DEBUG] filling %s editor %s", kind, editor.Ref)

	var err error
	switch kind {
	case editorBlock:
		err = fillBlock(ctx, page, editor, text)
	case editorContentEditable:
		if err = page.SetContent(ctx, editor.Ref, domain.FillHTML, html.EscapeString(text)); err == nil {
			err = page.Dispatch(ctx, editor.Ref, "input", "change")
		}
	case editorFormControl:
		if err = page.SetContent(ctx, editor.Ref, domain.FillValue, text); err == nil {
			err = page.Dispatch(ctx, editor.Ref, "input", "change")
		}
	default:
		if err = page.SetContent(ctx, editor.Ref, domain.FillHTML, html.EscapeString(text)); err == nil {
			_ = page.SetContent(ctx, editor.Ref, domain.FillValue, text)
			err = page.Dispatch(ctx, editor.Ref, "input", "change", "keydown", "keyup", "keypress")
		}
	}
	if err != nil {
		log.Printf("[DEBUG] direct fill of %s editor failed: %v", kind, err)
	}

	if err := page.Focus(ctx, editor.Ref); err != nil {
		return fmt.Errorf("focus editor: %w", err)
	}

	content, err := page.Content(ctx, editor.Ref)
	if err != nil {
		return fmt.Errorf("read editor: %w", err)
	}
	if !content.Empty() && content.Contains(text) {
		return nil
	}
	log.Printf("[DEBUG] editor doesn't reflect the text, typing it")
	return typeText(ctx, page, editor, kind, text, typingDelay)
}

// fillBlock populates block editor spans, builds the block structure if there are none
func fillBlock(ctx context.Context, page Page, editor domain.Node, text string) error {
	if err := page.Focus(ctx, editor.Ref); err != nil {
		return err
	}

	err := fillSpans(ctx, page, editor, text)
	if err != nil {
		log.Printf("[DEBUG] span fill failed, inserting text: %v", err)
		if err = page.InsertText(ctx, editor.Ref, text); err != nil {
			log.Printf("[DEBUG] insert text failed: %v", err)
			target := editor.Ref
			if inner, _, ierr := first(ctx, page, editor.Ref, []string{draftBlockDivSelector}); ierr == nil {
				target = inner.Ref
			}
			if err = page.SetContent(ctx, target, domain.FillText, text); err != nil {
				return err
			}
		}
	}
	return page.Dispatch(ctx, editor.Ref, "input", "change", "keydown", "keyup")
}

func fillSpans(ctx context.Context, page Page, editor domain.Node, text string) error {
	if span, _, err := first(ctx, page, editor.Ref, []string{draftTextSpanSelector, draftOffsetSpanSelector}); err == nil {
		if err := page.SetContent(ctx, span.Ref, domain.FillText, text); err != nil {
			return err
		}
		return page.Dispatch(ctx, span.Ref, "input", "change")
	}

	if contents, _, err := first(ctx, page, editor.Ref, []string{draftContentsSelector}); err == nil {
		return page.SetContent(ctx, contents.Ref, domain.FillHTML, blockMarkup(text))
	}
	return page.SetContent(ctx, editor.Ref, domain.FillHTML, `<div data-contents="true">`+blockMarkup(text)+`</div>`)
}

// typeText types text one rune at a time into the span holding editor text, or into the editor
func typeText(ctx context.Context, page Page, editor domain.Node, kind editorKind, text string, delay time.Duration) error {
	target, mode := editor.Ref, domain.FillText
	span, _, spanErr := first(ctx, page, editor.Ref, []string{draftTextSpanSelector})
	switch {
	case spanErr == nil:
		target = span.Ref
	case kind == editorBlock || kind == editorContentEditable:
		mode = domain.FillHTML
	case kind == editorFormControl:
		mode = domain.FillValue
	}

	if err := page.SetContent(ctx, target, mode, ""); err != nil {
		return fmt.Errorf("clear editor: %w", err)
	}
	if err := page.Dispatch(ctx, target, "input"); err != nil {
		return err
	}

	runes := []rune(text)
	for i := range runes {
		typed := string(runes[:i+1])
		if mode == domain.FillHTML {
			typed = html.EscapeString(typed)
		}
		if err := page.SetContent(ctx, target, mode, typed); err != nil {
			return fmt.Errorf("type into editor: %w", err)
		}
		if err := page.Dispatch(ctx, target, "input"); err != nil {
			return err
		}
		if target != editor.Ref {
			if err := page.Dispatch(ctx, editor.Ref, "input"); err != nil {
				return err
			}
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}

	if err := page.Dispatch(ctx, target, "change", "keydown", "keyup"); err != nil {
		return err
	}
	if target != editor.Ref {
		return page.Dispatch(ctx, editor.Ref, "change", "keydown", "keyup")
	}
	return nil
}
