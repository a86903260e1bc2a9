package domain

import (
	"slices"
	"strings"
)

// Post represents one rendered feed post. It exists only as long as the page keeps
// the corresponding node, nothing about it is persisted.
type Post struct {
	ID     string // derived from the post node, stable per render
	Ref    string // page handle of the post node
	Author string // handle without @, empty if unresolved
	Text   string
}

// Node is a snapshot of one DOM element
type Node struct {
	Ref   string
	Tag   string // lower-case tag name
	Text  string // textContent
	Attrs map[string]string
}

// Attr returns attribute value or empty string
func (n Node) Attr(name string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// HasAttr reports whether attribute is present
func (n Node) HasAttr(name string) bool {
	if n.Attrs == nil {
		return false
	}
	_, ok := n.Attrs[name]
	return ok
}

// HasClass checks class list for the given class
func (n Node) HasClass(class string) bool {
	return slices.Contains(strings.Fields(n.Attr("class")), class)
}

// Disabled reports whether the element is disabled either natively or via aria
func (n Node) Disabled() bool {
	return n.HasAttr("disabled") || n.Attr("aria-disabled") == "true"
}

// Label returns lower-cased trimmed text, used to match button captions
func (n Node) Label() string {
	return strings.ToLower(strings.TrimSpace(n.Text))
}

// Content is a readback of an editable element
type Content struct {
	Value string // value property, form controls only
	HTML  string // innerHTML
	Text  string // textContent
}

// Contains reports whether the content reflects the given text in any representation
func (c Content) Contains(text string) bool {
	return c.Value == text || c.HTML == text || strings.TrimSpace(c.Text) == text
}

// Empty reports whether content has neither value nor markup
func (c Content) Empty() bool {
	return c.Value == "" && c.HTML == ""
}

// FillMode defines how text is written into an element
type FillMode int

// fill modes
const (
	FillText  FillMode = iota // textContent
	FillHTML                  // innerHTML
	FillValue                 // value property
)

func (m FillMode) String() string {
	switch m {
	case FillText:
		return "text"
	case FillHTML:
		return "html"
	case FillValue:
		return "value"
	default:
		return "unknown"
	}
}
