// Package dom holds an in-memory HTML page that the widget renders into.
// It stands in for the browser document: element lookup by id, style and
// content insertion, the ready state and window-level flags.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/MrSnakeDoc/webring/internal/widget"
)

// ReadyState mirrors document.readyState.
type ReadyState int

const (
	Loading ReadyState = iota
	Interactive
	Complete
)

func (s ReadyState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Interactive:
		return "interactive"
	default:
		return "complete"
	}
}

// ErrNotFound is returned when an element id does not exist.
var ErrNotFound = errors.New("element not found")

// Page is a parsed HTML document. It is safe for concurrent use: mu guards
// the ready state and flags, tree guards the node tree.
type Page struct {
	mu      sync.Mutex
	state   ReadyState
	onReady []func()
	flags   map[string]bool

	tree sync.RWMutex
	root *html.Node
}

// Parse reads a complete HTML document.
func Parse(r io.Reader) (*Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return &Page{root: root, state: Complete, flags: make(map[string]bool)}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Page, error) {
	return Parse(strings.NewReader(s))
}

// ParseLoading reads a document that stays in the loading state until
// MarkReady is called; OnReady callbacks are queued until then.
func ParseLoading(r io.Reader) (*Page, error) {
	p, err := Parse(r)
	if err != nil {
		return nil, err
	}
	p.state = Loading
	return p, nil
}

// NewBlankPage returns an empty, complete document.
func NewBlankPage() *Page {
	p, err := ParseString("<!DOCTYPE html><html><head></head><body></body></html>")
	if err != nil {
		// The literal above always parses.
		panic(err)
	}
	return p
}

// ReadyState returns the current ready state.
func (p *Page) ReadyState() ReadyState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Loading reports whether the document is still loading.
func (p *Page) Loading() bool {
	return p.ReadyState() == Loading
}

// OnReady runs fn once the document is ready, immediately if it already is.
func (p *Page) OnReady(fn func()) {
	p.mu.Lock()
	if p.state == Loading {
		p.onReady = append(p.onReady, fn)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	fn()
}

// MarkReady moves a loading document to interactive, the point where
// DOMContentLoaded fires, and runs queued callbacks in registration order.
func (p *Page) MarkReady() {
	p.mu.Lock()
	if p.state != Loading {
		p.mu.Unlock()
		return
	}
	p.state = Interactive
	queued := p.onReady
	p.onReady = nil
	p.mu.Unlock()

	for _, fn := range queued {
		fn()
	}
}

// ClaimFlag sets a window-level flag and reports whether this call set it.
func (p *Page) ClaimFlag(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.flags[name] {
		return false
	}
	p.flags[name] = true
	return true
}

// ElementExists reports whether an element with id is present.
func (p *Page) ElementExists(id string) bool {
	p.tree.RLock()
	defer p.tree.RUnlock()
	return p.byID(id) != nil
}

// CountByID returns how many elements carry id.
func (p *Page) CountByID(id string) int {
	p.tree.RLock()
	defer p.tree.RUnlock()

	n := 0
	walk(p.root, func(node *html.Node) bool {
		if node.Type == html.ElementNode && attr(node, "id") == id {
			n++
		}
		return true
	})
	return n
}

// AppendToElement parses markup in the context of the element with id and
// appends the result as its last children.
func (p *Page) AppendToElement(id, markup string) error {
	p.tree.Lock()
	defer p.tree.Unlock()

	target := p.byID(id)
	if target == nil {
		return fmt.Errorf("%w: #%s", ErrNotFound, id)
	}
	return appendMarkup(target, markup)
}

// AppendToBody appends markup to <body>.
func (p *Page) AppendToBody(markup string) error {
	p.tree.Lock()
	defer p.tree.Unlock()

	body := p.first(atom.Body)
	if body == nil {
		return fmt.Errorf("%w: body", ErrNotFound)
	}
	return appendMarkup(body, markup)
}

// AppendStyle adds <style id="id"> with css to <head>.
func (p *Page) AppendStyle(id, css string) error {
	p.tree.Lock()
	defer p.tree.Unlock()

	head := p.first(atom.Head)
	if head == nil {
		return fmt.Errorf("%w: head", ErrNotFound)
	}
	style := &html.Node{
		Type:     html.ElementNode,
		Data:     "style",
		DataAtom: atom.Style,
		Attr:     []html.Attribute{{Key: "id", Val: id}},
	}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	head.AppendChild(style)
	return nil
}

// ScriptAttributes returns the data-* attributes of the first <script> whose
// src contains srcMatch. ok is false when no such script exists.
func (p *Page) ScriptAttributes(srcMatch string) (widget.MapAttributes, bool) {
	p.tree.RLock()
	defer p.tree.RUnlock()

	var script *html.Node
	walk(p.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Script && strings.Contains(attr(n, "src"), srcMatch) {
			script = n
			return false
		}
		return true
	})
	if script == nil {
		return widget.MapAttributes{}, false
	}

	attrs := widget.MapAttributes{}
	for _, a := range script.Attr {
		if strings.HasPrefix(a.Key, "data-") {
			attrs[a.Key] = a.Val
		}
	}
	return attrs, true
}

// OuterHTML renders the element with id, including the element itself.
func (p *Page) OuterHTML(id string) (string, bool) {
	p.tree.RLock()
	defer p.tree.RUnlock()

	n := p.byID(id)
	if n == nil {
		return "", false
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", false
	}
	return buf.String(), true
}

// Render writes the whole document.
func (p *Page) Render(w io.Writer) error {
	p.tree.RLock()
	defer p.tree.RUnlock()
	return html.Render(w, p.root)
}

// String renders the whole document, returning "" on error.
func (p *Page) String() string {
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

func (p *Page) byID(id string) *html.Node {
	var found *html.Node
	walk(p.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

func (p *Page) first(a atom.Atom) *html.Node {
	var found *html.Node
	walk(p.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return false
		}
		return true
	})
	return found
}

func appendMarkup(parent *html.Node, markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		return fmt.Errorf("failed to parse fragment: %w", err)
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	return nil
}

// walk visits nodes depth-first until visit returns false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
