// Package dom is a small mutable document model over golang.org/x/net/html.
// It provides the browser-like surface the in-page navigation needs: selector
// queries, element synthesis, attribute and class manipulation, events and
// focus.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document wraps a parsed HTML tree together with its listener and focus
// state. A Document is not safe for concurrent use; like a browser page it is
// driven from a single event loop.
type Document struct {
	root      *html.Node
	listeners map[*html.Node]map[string][]*Subscription
	focused   *html.Node
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return New(root), nil
}

// ParseString is Parse for an in-memory string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// New wraps an existing tree.
func New(root *html.Node) *Document {
	return &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]*Subscription),
	}
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Body returns the <body> element, or the root when there is none.
func (d *Document) Body() *html.Node {
	if b := d.Query("body"); b != nil {
		return b
	}
	return d.root
}

// QueryAll returns the descendants of the document matching selector, in
// document order.
func (d *Document) QueryAll(selector string) []*html.Node {
	return QueryAll(d.root, selector)
}

// Query returns the first match for selector, or nil.
func (d *Document) Query(selector string) *html.Node {
	nodes := d.QueryAll(selector)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// QueryAll returns the descendants of scope matching selector. An invalid
// selector matches nothing.
func QueryAll(scope *html.Node, selector string) []*html.Node {
	if scope == nil {
		return nil
	}
	return goquery.NewDocumentFromNode(scope).Find(selector).Nodes
}

// SelectOrMatches returns scope itself when it matches selector, otherwise
// the matching descendants of scope.
func SelectOrMatches(scope *html.Node, selector string) []*html.Node {
	if scope == nil {
		return nil
	}
	if Matches(scope, selector) {
		return []*html.Node{scope}
	}
	return QueryAll(scope, selector)
}

// Matches reports whether n matches selector.
func Matches(n *html.Node, selector string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	return goquery.NewDocumentFromNode(n).Is(selector)
}

// Closest walks from n up to the root and returns the first element matching
// selector.
func Closest(n *html.Node, selector string) *html.Node {
	for ; n != nil; n = n.Parent {
		if Matches(n, selector) {
			return n
		}
	}
	return nil
}

// GetElementByID returns the first element carrying id.
func (d *Document) GetElementByID(id string) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if v, ok := Attr(n, "id"); ok && v == id {
				found = n
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(d.root)
	return found
}

// Contains reports whether n is attached to the document tree.
func (d *Document) Contains(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == d.root {
			return true
		}
	}
	return false
}

// CreateElement returns a detached element node.
func CreateElement(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// CreateText returns a detached text node.
func CreateText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Append adds child as the last child of parent.
func Append(parent, child *html.Node) {
	parent.AppendChild(child)
}

// Prepend inserts child as the first child of parent.
func Prepend(parent, child *html.Node) {
	parent.InsertBefore(child, parent.FirstChild)
}

// Remove detaches n from its parent. Detached nodes are left alone.
func Remove(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Attr returns the value of the attribute key.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value or fallback when absent or empty.
func AttrOr(n *html.Node, key, fallback string) string {
	if v, ok := Attr(n, key); ok && v != "" {
		return v
	}
	return fallback
}

// SetAttr creates or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}

// Dataset reads a data-* attribute; name is given in attribute form, e.g.
// "heading-level".
func Dataset(n *html.Node, name string) string {
	v, _ := Attr(n, "data-"+name)
	return v
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

// HasClass reports whether class is in the class list of n.
func HasClass(n *html.Node, class string) bool {
	return slices.Contains(Classes(n), class)
}

// AddClass appends class to the class list when missing.
func AddClass(n *html.Node, class string) {
	cl := Classes(n)
	if slices.Contains(cl, class) {
		return
	}
	SetAttr(n, "class", strings.Join(append(cl, class), " "))
}

// RemoveClass drops every occurrence of class.
func RemoveClass(n *html.Node, class string) {
	cl := Classes(n)
	if !slices.Contains(cl, class) {
		return
	}
	cl = slices.DeleteFunc(cl, func(c string) bool { return c == class })
	if len(cl) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(cl, " "))
}

// TextContent concatenates every descendant text node, trimmed.
func TextContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// SetText replaces the children of n with a single text node.
func SetText(n *html.Node, s string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(CreateText(s))
}

// Render writes the whole document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document, or returns the render error text.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return err.Error()
	}
	return buf.String()
}

// OuterHTML renders a single node.
func OuterHTML(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}
