package spec

import "github.com/heathj/htmldom/parser/webidl"

// https://dom.spec.whatwg.org/#nodelist
type NodeList []*Node

func (h *NodeList) Contains(n *Node) int {
	for i := range *h {
		if n == (*h)[i] {
			return i
		}
	}
	return -1
}

func (h *NodeList) Remove(i int) *Node {
	if i < 0 || i >= len(*h) {
		return nil
	}
	node := (*h)[i]
	*h = append((*h)[:i], (*h)[i+1:]...)
	return node
}

func (h *NodeList) RemoveNode(n *Node) *Node {
	return h.Remove(h.Contains(n))
}

// WedgeIn places n at index i, shifting the rest up.
func (h *NodeList) WedgeIn(i int, n *Node) {
	if i < 0 {
		return
	}
	if i >= len(*h) {
		*h = append(*h, n)
		return
	}
	*h = append((*h)[:i+1], (*h)[i:]...)
	(*h)[i] = n
}

func (h *NodeList) Pop() *Node {
	if len(*h) == 0 {
		return nil
	}
	popped := (*h)[len(*h)-1]
	*h = (*h)[:len(*h)-1]
	return popped
}

func (h *NodeList) Top() *Node {
	if len(*h) == 0 {
		return nil
	}
	return (*h)[len(*h)-1]
}

// PopUntil pops up to and including the first entry matching one of the HTML
// tag names.
func (h *NodeList) PopUntil(first webidl.DOMString, rest ...webidl.DOMString) *Node {
	for {
		popped := h.Pop()
		if popped == nil {
			return nil
		}
		if popped.isHTMLElement(first) {
			return popped
		}
		for _, tagName := range rest {
			if popped.isHTMLElement(tagName) {
				return popped
			}
		}
	}
}

func (h *NodeList) PopUntilConditions(funcs ...func(e *Node) bool) *Node {
	for {
		last := len(*h) - 1
		if last < 0 {
			return nil
		}
		for _, f := range funcs {
			if f((*h)[last]) {
				return (*h)[last]
			}
		}
		h.Pop()
	}
}

// isHTMLElement reports whether n is an element in the HTML namespace with the
// given local name.
func (n *Node) isHTMLElement(name webidl.DOMString) bool {
	return n.NodeType == ElementNode && n.Element.NamespaceURI == Htmlns && n.Element.LocalName == name
}

type scopeEntry struct {
	ns   Namespace
	name webidl.DOMString
}

var elementInScopeList = []scopeEntry{
	{Htmlns, "applet"},
	{Htmlns, "caption"},
	{Htmlns, "html"},
	{Htmlns, "table"},
	{Htmlns, "td"},
	{Htmlns, "th"},
	{Htmlns, "marquee"},
	{Htmlns, "object"},
	{Htmlns, "template"},
	{Mathmlns, "mi"},
	{Mathmlns, "mo"},
	{Mathmlns, "mn"},
	{Mathmlns, "ms"},
	{Mathmlns, "mtext"},
	{Mathmlns, "annotation-xml"},
	{Svgns, "foreignObject"},
	{Svgns, "desc"},
	{Svgns, "title"},
}

var listItemScopeList = append(append([]scopeEntry{}, elementInScopeList...),
	scopeEntry{Htmlns, "ol"}, scopeEntry{Htmlns, "ul"})
var buttonScopeList = append(append([]scopeEntry{}, elementInScopeList...),
	scopeEntry{Htmlns, "button"})
var tableScopeList = []scopeEntry{
	{Htmlns, "html"}, {Htmlns, "table"}, {Htmlns, "template"},
}

func (n *Node) matchesScopeEntry(e scopeEntry) bool {
	return n.NodeType == ElementNode && n.Element.NamespaceURI == e.ns && n.Element.LocalName == e.name
}

// https://html.spec.whatwg.org/multipage/parsing.html#has-an-element-in-the-specific-scope
func (c *NodeList) containsElementInSpecificScope(match func(*Node) bool, list []scopeEntry) bool {
	for i := len(*c) - 1; i >= 0; i-- {
		entry := (*c)[i]
		if match(entry) {
			return true
		}
		for _, e := range list {
			if entry.matchesScopeEntry(e) {
				return false
			}
		}
	}
	return false
}

func matchHTMLName(target webidl.DOMString) func(*Node) bool {
	return func(n *Node) bool { return n.isHTMLElement(target) }
}

func matchNode(target *Node) func(*Node) bool {
	return func(n *Node) bool { return n == target }
}

func (c *NodeList) ContainsElementInScope(target webidl.DOMString) bool {
	return c.containsElementInSpecificScope(matchHTMLName(target), elementInScopeList)
}

func (c *NodeList) ContainsElementsInScope(elems ...webidl.DOMString) bool {
	for _, elem := range elems {
		if c.ContainsElementInScope(elem) {
			return true
		}
	}
	return false
}

func (c *NodeList) ContainsNodeInScope(target *Node) bool {
	return c.containsElementInSpecificScope(matchNode(target), elementInScopeList)
}

func (c *NodeList) ContainsElementInListItemScope(target webidl.DOMString) bool {
	return c.containsElementInSpecificScope(matchHTMLName(target), listItemScopeList)
}

func (c *NodeList) ContainsElementInButtonScope(target webidl.DOMString) bool {
	return c.containsElementInSpecificScope(matchHTMLName(target), buttonScopeList)
}

func (c *NodeList) ContainsElementInTableScope(target webidl.DOMString) bool {
	return c.containsElementInSpecificScope(matchHTMLName(target), tableScopeList)
}

// Select scope inverts the list sense: everything except optgroup and option
// terminates the search.
func (c *NodeList) ContainsElementInSelectScope(target webidl.DOMString) bool {
	for i := len(*c) - 1; i >= 0; i-- {
		entry := (*c)[i]
		if entry.isHTMLElement(target) {
			return true
		}
		if !entry.isHTMLElement("optgroup") && !entry.isHTMLElement("option") {
			return false
		}
	}
	return false
}

type StackOfOpenElements struct {
	NodeList
}

func (s *StackOfOpenElements) Push(n *Node) {
	s.NodeList = append(s.NodeList, n)
}

type ActiveFormattingElements struct {
	NodeList
}

// Push applies the Noah's Ark clause: at most three entries with the same
// name, namespace, and attributes after the last marker.
// https://html.spec.whatwg.org/multipage/parsing.html#push-onto-the-list-of-active-formatting-elements
func (s *ActiveFormattingElements) Push(n *Node) {
	start := 0
	for i := len(s.NodeList) - 1; i >= 0; i-- {
		if s.NodeList[i].NodeType == ScopeMarkerNode {
			start = i + 1
			break
		}
	}

	similar := []*Node{}
	for i := start; i < len(s.NodeList); i++ {
		if compareNodes(s.NodeList[i], n) {
			similar = append(similar, s.NodeList[i])
		}
	}
	if len(similar) >= 3 {
		s.NodeList.RemoveNode(similar[0])
	}
	s.NodeList = append(s.NodeList, n)
}

func (s *ActiveFormattingElements) PushMarker() {
	s.NodeList = append(s.NodeList, ScopeMarker)
}

// https://html.spec.whatwg.org/multipage/parsing.html#clear-the-list-of-active-formatting-elements-up-to-the-last-marker
func (s *ActiveFormattingElements) ClearToLastMarker() {
	for {
		popped := s.NodeList.Pop()
		if popped == nil || popped.NodeType == ScopeMarkerNode {
			return
		}
	}
}

func compareNodes(a, b *Node) bool {
	if a.NodeType != ElementNode || b.NodeType != ElementNode {
		return false
	}
	if a.NodeName != b.NodeName {
		return false
	}
	if a.Element.NamespaceURI != b.Element.NamespaceURI {
		return false
	}
	if a.Attributes.Length() != b.Attributes.Length() {
		return false
	}
	for _, v := range b.Attributes.Attrs {
		e := a.Attributes.getAttributeByNSLocalName(v.Namespace, v.LocalName)
		if e == nil || v.Value != e.Value {
			return false
		}
	}
	return true
}
