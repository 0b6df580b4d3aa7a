// Package htmlnode binds selq evaluators to golang.org/x/net/html
// documents. Element is a zero-copy view of an *html.Node implementing
// the selq.Node interface with HTML comparison semantics: attribute
// names are looked up case-insensitively. Tag names are reported as the
// net/html parser produces them (lowercased for HTML input) and are
// compared exactly, so an uppercase tag in a selector does not match.
package htmlnode

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/telwick/selq"
)

// Element is an element node of a parsed document. It is a defined
// type over html.Node rather than a wrapper struct so that converting
// the same node twice yields values that compare equal, which the
// structural evaluators rely on to stop ancestor walks at the root.
type Element html.Node

// Parse reads an HTML document and returns its document element.
func Parse(r io.Reader) (*Element, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return FromNode(doc), nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Element, error) {
	return Parse(strings.NewReader(s))
}

// FromNode returns the element view of n. Document nodes resolve to
// their document element; non-element nodes resolve to nil.
func FromNode(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	switch n.Type {
	case html.ElementNode:
		return (*Element)(n)
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				return (*Element)(c)
			}
		}
	}
	return nil
}

// Node returns the underlying html.Node.
func (e *Element) Node() *html.Node {
	return (*html.Node)(e)
}

func (e *Element) TagName() string {
	return e.Node().Data
}

func (e *Element) ID() string {
	return e.Attr("id")
}

func (e *Element) Classes() []string {
	return strings.Fields(e.Attr("class"))
}

func (e *Element) Attr(name string) string {
	for _, a := range e.Node().Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func (e *Element) HasAttr(name string) bool {
	for _, a := range e.Node().Attr {
		if strings.EqualFold(a.Key, name) {
			return true
		}
	}
	return false
}

// AttrNames returns the attribute names present on the element,
// lowercased. Used by the [^prefix] attribute-name selector.
func (e *Element) AttrNames() []string {
	names := make([]string, 0, len(e.Node().Attr))
	for _, a := range e.Node().Attr {
		names = append(names, strings.ToLower(a.Key))
	}
	return names
}

// OwnText returns the whitespace-normalized text held directly by the
// element.
func (e *Element) OwnText() string {
	var sb strings.Builder
	for c := e.Node().FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteByte(' ')
		}
	}
	return normalizeSpace(sb.String())
}

// Text returns the whitespace-normalized text of the element and all
// its descendants.
func (e *Element) Text() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.Node())
	return normalizeSpace(sb.String())
}

func (e *Element) Parent() selq.Node {
	p := e.Node().Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return (*Element)(p)
}

func (e *Element) Children() []selq.Node {
	var children []selq.Node
	for c := e.Node().FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, (*Element)(c))
		}
	}
	return children
}

func (e *Element) PrevSibling() selq.Node {
	for s := e.Node().PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return (*Element)(s)
		}
	}
	return nil
}

func (e *Element) IsRoot() bool {
	p := e.Node().Parent
	return p == nil || p.Type != html.ElementNode
}

func (e *Element) SiblingIndex() int {
	i := 1
	for s := e.Node().PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			i++
		}
	}
	return i
}

func (e *Element) SiblingIndexFromEnd() int {
	i := 1
	for s := e.Node().NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			i++
		}
	}
	return i
}

func (e *Element) SiblingIndexOfType() int {
	i := 1
	for s := e.Node().PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode && strings.EqualFold(s.Data, e.Node().Data) {
			i++
		}
	}
	return i
}

func (e *Element) SiblingIndexOfTypeFromEnd() int {
	i := 1
	for s := e.Node().NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode && strings.EqualFold(s.Data, e.Node().Data) {
			i++
		}
	}
	return i
}

// normalizeSpace collapses whitespace runs to single spaces and trims.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
