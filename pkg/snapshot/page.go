// Package snapshot implements an offline page over a saved HTML document. Clicks, fills and events
// are recorded instead of being sent to a browser. Click hooks can mutate the document to emulate
// what the live page does, e.g. mount the reply dialog.
package snapshot

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/umputun/engager/pkg/domain"
)

// Click is a recorded click
type Click struct {
	Node domain.Node // element state at click time
	node *html.Node
}

// Event is a recorded action on an element other than click
type Event struct {
	Ref  string
	Type string // dom event name, or scroll, focus, fill, insert
	Data string // filled or inserted value
}

type clickHook struct {
	matcher cascadia.Selector
	fn      func(p *Page) error
}

// Page is an offline page over a goquery document
type Page struct {
	mu     sync.Mutex
	doc    *goquery.Document
	url    string
	title  string
	refs   map[string]*html.Node
	nodes  map[*html.Node]string
	values map[*html.Node]string
	nextID int

	clicks    []Click
	events    []Event
	hooks     []clickHook
	mutations chan struct{}
}

// New parses HTML document from r, url is reported as page location
func New(r io.Reader, url string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &Page{
		doc:       doc,
		url:       url,
		refs:      map[string]*html.Node{},
		nodes:     map[*html.Node]string{},
		values:    map[*html.Node]string{},
		mutations: make(chan struct{}, 1),
	}, nil
}

// NewFromString parses HTML document from a string
func NewFromString(doc, url string) (*Page, error) {
	return New(strings.NewReader(doc), url)
}

// SetLocation changes reported url and title, empty title means the document title
func (p *Page) SetLocation(url, title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url, p.title = url, title
}

// OnClick registers fn called after a click on an element matching selector, or inside one
func (p *Page) OnClick(selector string, fn func(p *Page) error) error {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return fmt.Errorf("compile %q: %w", selector, err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hooks = append(p.hooks, clickHook{matcher: m, fn: fn})
	return nil
}

// Append parses markup and appends it to every element matching selector
func (p *Page) Append(selector, markup string) error {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return fmt.Errorf("compile %q: %w", selector, err)
	}
	p.mu.Lock()
	sel := p.doc.FindMatcher(m)
	if sel.Length() == 0 {
		p.mu.Unlock()
		return fmt.Errorf("no element matches %q", selector)
	}
	sel.AppendHtml(markup)
	p.mu.Unlock()
	p.mutated()
	return nil
}

// Remove removes all elements matching selector
func (p *Page) Remove(selector string) error {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return fmt.Errorf("compile %q: %w", selector, err)
	}
	p.mu.Lock()
	p.doc.FindMatcher(m).Remove()
	p.mu.Unlock()
	p.mutated()
	return nil
}

// Clicks returns recorded clicks in order
func (p *Page) Clicks() []Click {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Click(nil), p.clicks...)
}

// ClickCount returns number of clicks on elements matching selector
func (p *Page) ClickCount(selector string) int {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	res := 0
	for _, c := range p.clicks {
		if m.Match(c.node) {
			res++
		}
	}
	return res
}

// Events returns recorded events in order
func (p *Page) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// HTML renders the current document
func (p *Page) HTML() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return goquery.OuterHtml(p.doc.Selection)
}

// Location returns url and title of the page
func (p *Page) Location(_ context.Context) (url, title string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	title = p.title
	if title == "" {
		title = strings.TrimSpace(p.doc.Find("title").First().Text())
	}
	return p.url, title, nil
}

// Query returns elements matching selector inside scope, whole document for empty scope
func (p *Page) Query(_ context.Context, scope, selector string) ([]domain.Node, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", selector, err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	root, err := p.scope(scope)
	if err != nil {
		return nil, err
	}
	found := root.FindMatcher(m)
	res := make([]domain.Node, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		res = append(res, p.describe(s))
	})
	return res, nil
}

// Closest returns the element itself or its nearest ancestor matching selector
func (p *Page) Closest(_ context.Context, ref, selector string) (domain.Node, bool, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return domain.Node{}, false, fmt.Errorf("compile %q: %w", selector, err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	sel, err := p.element(ref)
	if err != nil {
		return domain.Node{}, false, err
	}
	found := sel.ClosestMatcher(m)
	if found.Length() == 0 {
		return domain.Node{}, false, nil
	}
	return p.describe(found.First()), true, nil
}

// Click records the click and runs hooks registered for the element or its ancestors
func (p *Page) Click(_ context.Context, ref string) error {
	p.mu.Lock()
	sel, err := p.element(ref)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.clicks = append(p.clicks, Click{Node: p.describe(sel), node: sel.Get(0)})
	var fns []func(p *Page) error
	for _, h := range p.hooks {
		if sel.ClosestMatcher(h.matcher).Length() > 0 {
			fns = append(fns, h.fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range fns {
		if err := fn(p); err != nil {
			return fmt.Errorf("click hook: %w", err)
		}
	}
	return nil
}

// ScrollIntoView records a scroll
func (p *Page) ScrollIntoView(_ context.Context, ref string) error {
	return p.record(ref, "scroll", "")
}

// Focus records a focus
func (p *Page) Focus(_ context.Context, ref string) error {
	return p.record(ref, "focus", "")
}

// Dispatch records dom events
func (p *Page) Dispatch(_ context.Context, ref string, events ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.element(ref); err != nil {
		return err
	}
	for _, e := range events {
		p.events = append(p.events, Event{Ref: ref, Type: e})
	}
	return nil
}

// SetContent replaces element text, inner html or value
func (p *Page) SetContent(_ context.Context, ref string, mode domain.FillMode, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	sel, err := p.element(ref)
	if err != nil {
		return err
	}
	n := sel.Get(0)
	switch mode {
	case domain.FillText:
		removeChildren(n)
		if value != "" {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
		}
	case domain.FillHTML:
		children, err := html.ParseFragment(strings.NewReader(value), n)
		if err != nil {
			return fmt.Errorf("parse fragment: %w", err)
		}
		removeChildren(n)
		for _, c := range children {
			n.AppendChild(c)
		}
	case domain.FillValue:
		p.values[n] = value
	default:
		return fmt.Errorf("unknown fill mode %d", mode)
	}
	p.events = append(p.events, Event{Ref: ref, Type: "fill", Data: value})
	return nil
}

// Content reads element value, inner html and text
func (p *Page) Content(_ context.Context, ref string) (domain.Content, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sel, err := p.element(ref)
	if err != nil {
		return domain.Content{}, err
	}
	inner, err := sel.Html()
	if err != nil {
		return domain.Content{}, fmt.Errorf("render %s: %w", ref, err)
	}
	n := sel.Get(0)
	value, ok := p.values[n]
	if !ok && n.DataAtom == atom.Input {
		value, _ = sel.Attr("value")
	}
	return domain.Content{Value: value, HTML: inner, Text: sel.Text()}, nil
}

// InsertText appends text to the element, like typing at the end of it
func (p *Page) InsertText(_ context.Context, ref, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	sel, err := p.element(ref)
	if err != nil {
		return err
	}
	sel.Get(0).AppendChild(&html.Node{Type: html.TextNode, Data: text})
	p.events = append(p.events, Event{Ref: ref, Type: "insert", Data: text})
	return nil
}

// Watch returns a channel signaled on document mutations made with Append and Remove
func (p *Page) Watch(_ context.Context) (<-chan struct{}, error) {
	return p.mutations, nil
}

// Mutate signals a document mutation
func (p *Page) Mutate() { p.mutated() }

func (p *Page) mutated() {
	select {
	case p.mutations <- struct{}{}:
	default:
	}
}

func (p *Page) record(ref, typ, data string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.element(ref); err != nil {
		return err
	}
	p.events = append(p.events, Event{Ref: ref, Type: typ, Data: data})
	return nil
}

// scope returns selection for scope ref, the document for empty ref. Must be called under lock.
func (p *Page) scope(ref string) (*goquery.Selection, error) {
	if ref == "" {
		return p.doc.Selection, nil
	}
	return p.element(ref)
}

// element returns selection of a single element by ref. Must be called under lock.
func (p *Page) element(ref string) (*goquery.Selection, error) {
	n, ok := p.refs[ref]
	if !ok {
		return nil, fmt.Errorf("unknown element ref %q", ref)
	}
	sel := p.doc.FindNodes(n)
	if sel.Length() == 0 {
		return nil, fmt.Errorf("element %s is detached", ref)
	}
	return sel, nil
}

// describe makes a node snapshot, assigning a ref on first sight. Must be called under lock.
func (p *Page) describe(s *goquery.Selection) domain.Node {
	n := s.Get(0)
	ref, ok := p.nodes[n]
	if !ok {
		p.nextID++
		ref = "s" + strconv.Itoa(p.nextID)
		p.nodes[n] = ref
		p.refs[ref] = n
	}
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[a.Key] = a.Val
	}
	return domain.Node{Ref: ref, Tag: n.Data, Text: s.Text(), Attrs: attrs}
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}
