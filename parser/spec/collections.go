package spec

import (
	"strings"

	"github.com/heathj/htmldom/parser/webidl"
)

// HTMLCollection is a live, filtered view of the elements under a root. It
// never snapshots: access recomputes when the owning document's generation
// moved since the last walk.
// https://dom.spec.whatwg.org/#htmlcollection
type HTMLCollection struct {
	Root   *Node
	Filter func(*Node) bool

	generation uint64
	cached     []*Node
	primed     bool
}

func NewHTMLCollection(root *Node, filter func(*Node) bool) *HTMLCollection {
	return &HTMLCollection{Root: root, Filter: filter}
}

func (c *HTMLCollection) nodes() []*Node {
	doc := c.Root.nodeDocument()
	var gen uint64
	if doc != nil && doc.Document != nil {
		gen = doc.Document.generation
	}
	if c.primed && gen == c.generation {
		return c.cached
	}
	c.cached = c.cached[:0]
	for n := c.Root.nextInTreeOrder(c.Root); n != nil; n = n.nextInTreeOrder(c.Root) {
		if n.NodeType == ElementNode && c.Filter(n) {
			c.cached = append(c.cached, n)
		}
	}
	c.generation = gen
	c.primed = true
	return c.cached
}

func (c *HTMLCollection) Length() int {
	return len(c.nodes())
}

func (c *HTMLCollection) Item(i int) *Node {
	nodes := c.nodes()
	if i < 0 || i >= len(nodes) {
		return nil
	}
	return nodes[i]
}

// NamedItem matches by id first, then by a name attribute on HTML elements.
// https://dom.spec.whatwg.org/#dom-htmlcollection-nameditem
func (c *HTMLCollection) NamedItem(name webidl.DOMString) *Node {
	if name == "" {
		return nil
	}
	for _, n := range c.nodes() {
		if n.Element.Id == name {
			return n
		}
	}
	for _, n := range c.nodes() {
		if n.Element.NamespaceURI == Htmlns {
			if v, ok := n.GetAttribute("name"); ok && v == name {
				return n
			}
		}
	}
	return nil
}

func getElementsByTagName(root *Node, qualifiedName webidl.DOMString) *HTMLCollection {
	if qualifiedName == "*" {
		return NewHTMLCollection(root, func(*Node) bool { return true })
	}
	lower := webidl.DOMString(strings.ToLower(string(qualifiedName)))
	return NewHTMLCollection(root, func(n *Node) bool {
		if n.Element.NamespaceURI == Htmlns {
			return n.Element.QualifiedName() == lower
		}
		return n.Element.QualifiedName() == qualifiedName
	})
}

func getElementsByTagNameNS(root *Node, ns Namespace, localName webidl.DOMString) *HTMLCollection {
	return NewHTMLCollection(root, func(n *Node) bool {
		if localName != "*" && n.Element.LocalName != localName {
			return false
		}
		return n.Element.NamespaceURI == ns
	})
}

func getElementsByClassName(root *Node, classNames webidl.DOMString) *HTMLCollection {
	classes := strings.Fields(string(classNames))
	return NewHTMLCollection(root, func(n *Node) bool {
		if len(classes) == 0 {
			return false
		}
		have := strings.Fields(string(n.Element.ClassName))
		for _, want := range classes {
			found := false
			for _, h := range have {
				if h == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	})
}

// Element-scoped variants.

func (n *Node) GetElementsByTagName(qualifiedName webidl.DOMString) *HTMLCollection {
	return getElementsByTagName(n, qualifiedName)
}

func (n *Node) GetElementsByTagNameNS(ns Namespace, localName webidl.DOMString) *HTMLCollection {
	return getElementsByTagNameNS(n, ns, localName)
}

func (n *Node) GetElementsByClassName(classNames webidl.DOMString) *HTMLCollection {
	return getElementsByClassName(n, classNames)
}

// Children is the live collection of element children.
func (n *Node) Children() *HTMLCollection {
	return NewHTMLCollection(n, func(c *Node) bool { return c.ParentNode == n })
}

func (n *Node) FirstElementChild() *Node {
	for _, c := range n.ChildNodes {
		if c.NodeType == ElementNode {
			return c
		}
	}
	return nil
}

func (n *Node) LastElementChild() *Node {
	for i := len(n.ChildNodes) - 1; i >= 0; i-- {
		if n.ChildNodes[i].NodeType == ElementNode {
			return n.ChildNodes[i]
		}
	}
	return nil
}

func (n *Node) ChildElementCount() int {
	count := 0
	for _, c := range n.ChildNodes {
		if c.NodeType == ElementNode {
			count++
		}
	}
	return count
}
