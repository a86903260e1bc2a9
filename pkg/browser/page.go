package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	log "github.com/go-pkgz/lgr"

	"github.com/umputun/engager/pkg/domain"
)

const mutationBinding = "engagerMutation"

// Page is a live chrome tab. Elements are tagged with data-engager-ref attributes, refs stay
// valid as long as the element is in the document.
type Page struct {
	tab context.Context

	watchOnce sync.Once
	mutations chan struct{}
	watchErr  error
}

type jsNode struct {
	Ref   string            `json:"ref"`
	Tag   string            `json:"tag"`
	Text  string            `json:"text"`
	Attrs map[string]string `json:"attrs"`
}

func (n jsNode) node() domain.Node {
	return domain.Node{Ref: n.Ref, Tag: n.Tag, Text: n.Text, Attrs: n.Attrs}
}

func newPage(tab context.Context) *Page {
	return &Page{tab: tab, mutations: make(chan struct{}, 1)}
}

// Location returns current url and document title
func (p *Page) Location(ctx context.Context) (url, title string, err error) {
	var res struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	}
	if err := p.eval(ctx, locationJS, &res); err != nil {
		return "", "", fmt.Errorf("get location: %w", err)
	}
	return res.URL, res.Title, nil
}

// Query returns elements matching css selector inside scope, whole document for empty scope
func (p *Page) Query(ctx context.Context, scope, selector string) ([]domain.Node, error) {
	var nodes []jsNode
	if err := p.eval(ctx, queryJS, &nodes, scope, selector); err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	res := make([]domain.Node, 0, len(nodes))
	for _, n := range nodes {
		res = append(res, n.node())
	}
	return res, nil
}

// Closest returns the element or its nearest ancestor matching selector
func (p *Page) Closest(ctx context.Context, ref, selector string) (domain.Node, bool, error) {
	var res struct {
		Found bool   `json:"found"`
		Node  jsNode `json:"node"`
	}
	if err := p.eval(ctx, closestJS, &res, ref, selector); err != nil {
		return domain.Node{}, false, fmt.Errorf("closest %q: %w", selector, err)
	}
	if !res.Found {
		return domain.Node{}, false, nil
	}
	return res.Node.node(), true, nil
}

// Click clicks the element
func (p *Page) Click(ctx context.Context, ref string) error {
	return p.exec(ctx, clickJS, ref)
}

// ScrollIntoView scrolls the element to the middle of the viewport
func (p *Page) ScrollIntoView(ctx context.Context, ref string) error {
	return p.exec(ctx, scrollJS, ref)
}

// Focus focuses the element
func (p *Page) Focus(ctx context.Context, ref string) error {
	return p.exec(ctx, focusJS, ref)
}

// SetContent replaces element text, inner html or value
func (p *Page) SetContent(ctx context.Context, ref string, mode domain.FillMode, value string) error {
	return p.exec(ctx, setContentJS, ref, mode.String(), value)
}

// Dispatch fires bubbling events on the element, key* names make keyboard events
func (p *Page) Dispatch(ctx context.Context, ref string, events ...string) error {
	if len(events) == 0 {
		return nil
	}
	return p.exec(ctx, dispatchJS, ref, events)
}

// Content reads element value, inner html and text
func (p *Page) Content(ctx context.Context, ref string) (domain.Content, error) {
	var res struct {
		Value string `json:"value"`
		HTML  string `json:"html"`
		Text  string `json:"text"`
	}
	if err := p.eval(ctx, contentJS, &res, ref); err != nil {
		return domain.Content{}, fmt.Errorf("read content of %s: %w", ref, err)
	}
	return domain.Content{Value: res.Value, HTML: res.HTML, Text: res.Text}, nil
}

// InsertText focuses the element and inserts text at the caret, like an input method does
func (p *Page) InsertText(ctx context.Context, ref, text string) error {
	if err := p.Focus(ctx, ref); err != nil {
		return err
	}
	return p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return input.InsertText(text).Do(ctx)
	}))
}

// Watch installs a mutation observer on the document body and returns a channel signaled on
// changes. The observer is reinstalled after each page load. The channel is never closed.
func (p *Page) Watch(ctx context.Context) (<-chan struct{}, error) {
	p.watchOnce.Do(func() {
		chromedp.ListenTarget(p.tab, func(ev any) {
			switch e := ev.(type) {
			case *runtime.EventBindingCalled:
				if e.Name == mutationBinding {
					p.signal()
				}
			case *page.EventLoadEventFired:
				// handlers must not block, the observer is installed from another goroutine
				go func() {
					if err := p.observe(p.tab); err != nil {
						log.Printf("[WARN] can't reinstall mutation observer: %v", err)
					}
					p.signal()
				}()
			}
		})
		err := p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
			return runtime.AddBinding(mutationBinding).Do(ctx)
		}))
		if err != nil {
			p.watchErr = fmt.Errorf("add mutation binding: %w", err)
			return
		}
		if err := p.observe(ctx); err != nil {
			p.watchErr = err
		}
	})
	if p.watchErr != nil {
		return nil, p.watchErr
	}
	return p.mutations, nil
}

// Notify shows a dismissible toast in the top right corner for 10 seconds
func (p *Page) Notify(ctx context.Context, title, message string) error {
	return p.exec(ctx, toastJS, title, message)
}

// Navigate opens url in the tab
func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.run(ctx, chromedp.Navigate(url))
}

func (p *Page) observe(ctx context.Context) error {
	var installed bool
	if err := p.eval(ctx, observeJS, &installed, mutationBinding); err != nil {
		return fmt.Errorf("install mutation observer: %w", err)
	}
	if !installed {
		return fmt.Errorf("install mutation observer: no document body")
	}
	return nil
}

func (p *Page) signal() {
	select {
	case p.mutations <- struct{}{}:
	default:
	}
}

// exec evaluates a snippet and ignores its result
func (p *Page) exec(ctx context.Context, fn string, args ...any) error {
	var ok bool
	return p.eval(ctx, fn, &ok, args...)
}

// eval calls js function fn with json encoded args and decodes its result into res
func (p *Page) eval(ctx context.Context, fn string, res any, args ...any) error {
	expr, err := expression(fn, args...)
	if err != nil {
		return err
	}
	return p.run(ctx, chromedp.Evaluate(expr, res))
}

// run executes actions in the tab, cancelled with either ctx or the tab
func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.tab)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// expression makes a self-contained js expression calling fn with args
func expression(fn string, args ...any) (string, error) {
	encoded := make([]string, 0, len(args))
	for _, a := range args {
		data, err := json.Marshal(a)
		if err != nil {
			return "", fmt.Errorf("encode argument: %w", err)
		}
		encoded = append(encoded, string(data))
	}
	return helpers + "\n(" + fn + ")(" + strings.Join(encoded, ", ") + ")", nil
}
