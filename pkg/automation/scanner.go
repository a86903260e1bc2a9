package automation

import (
	"context"
	"fmt"
	"strings"

	"github.com/umputun/engager/pkg/domain"
)

// Scan returns unprocessed posts in document order. Posts without id, already processed or
// nested in a modal dialog are dropped. Session state is not changed.
func Scan(ctx context.Context, page Page, session *Session) ([]domain.Post, error) {
	nodes, err := page.Query(ctx, "", postSelector)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}

	res := make([]domain.Post, 0, len(nodes))
	for _, n := range nodes {
		id := n.Attr("aria-labelledby")
		if id == "" || session.IsProcessed(id) {
			continue
		}
		_, inModal, err := page.Closest(ctx, n.Ref, modalSelector)
		if err != nil {
			return nil, fmt.Errorf("check modal for %s: %w", id, err)
		}
		if inModal {
			continue
		}
		res = append(res, domain.Post{ID: id, Ref: n.Ref})
	}
	return res, nil
}

// ExtractText returns post body text. The first selector with any usable element wins, texts of
// all its elements are joined with spaces. Elements inside cards, user names and social context
// are ignored.
func ExtractText(ctx context.Context, page Page, postRef string) (string, error) {
	for _, sel := range textSelectors {
		nodes, err := page.Query(ctx, postRef, sel)
		if err != nil {
			return "", err
		}
		parts := make([]string, 0, len(nodes))
		for _, n := range nodes {
			skip, err := insideAny(ctx, page, n.Ref, skipTextAncestors)
			if err != nil {
				return "", err
			}
			if skip {
				continue
			}
			if text := strings.TrimSpace(n.Text); text != "" {
				parts = append(parts, text)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " "), nil
		}
	}
	return "", ErrNotFound
}

// ExtractAuthor returns post author handle without @. A link with @handle text wins, otherwise
// the last path segment of the link href, unless it is a search or explore link.
func ExtractAuthor(ctx context.Context, page Page, postRef string) (string, error) {
	for _, sel := range authorSelectors {
		nodes, err := page.Query(ctx, postRef, sel)
		if err != nil {
			return "", err
		}
		for _, n := range nodes {
			if text := strings.TrimSpace(n.Text); strings.HasPrefix(text, "@") {
				return strings.TrimPrefix(text, "@"), nil
			}
			href := n.Attr("href")
			if !strings.Contains(href, "/") || strings.Contains(href, "search") || strings.Contains(href, "explore") {
				continue
			}
			segments := strings.FieldsFunc(href, func(r rune) bool { return r == '/' })
			if len(segments) > 0 {
				return segments[len(segments)-1], nil
			}
		}
	}
	return "", ErrNotFound
}

// insideAny checks if ref has an ancestor (or is itself) matching any of selectors
func insideAny(ctx context.Context, page Page, ref string, selectors []string) (bool, error) {
	for _, sel := range selectors {
		_, found, err := page.Closest(ctx, ref, sel)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}
