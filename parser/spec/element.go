package spec

import (
	"strings"

	"github.com/heathj/htmldom/parser/webidl"
)

type Namespace uint

const (
	NoNamespace Namespace = iota
	Htmlns
	Mathmlns
	Svgns
	Xlinkns
	Xmlns
	Xmlnsns
)

// URI resolves the enum to the namespace name used on the wire.
func (n Namespace) URI() webidl.DOMString {
	switch n {
	case Htmlns:
		return "http://www.w3.org/1999/xhtml"
	case Mathmlns:
		return "http://www.w3.org/1998/Math/MathML"
	case Svgns:
		return "http://www.w3.org/2000/svg"
	case Xlinkns:
		return "http://www.w3.org/1999/xlink"
	case Xmlns:
		return "http://www.w3.org/XML/1998/namespace"
	case Xmlnsns:
		return "http://www.w3.org/2000/xmlns/"
	}
	return ""
}

func NamespaceFromURI(uri webidl.DOMString) Namespace {
	switch uri {
	case "http://www.w3.org/1999/xhtml":
		return Htmlns
	case "http://www.w3.org/1998/Math/MathML":
		return Mathmlns
	case "http://www.w3.org/2000/svg":
		return Svgns
	case "http://www.w3.org/1999/xlink":
		return Xlinkns
	case "http://www.w3.org/XML/1998/namespace":
		return Xmlns
	case "http://www.w3.org/2000/xmlns/":
		return Xmlnsns
	}
	return NoNamespace
}

// Element is https://dom.spec.whatwg.org/#interface-element
type Element struct {
	NamespaceURI      Namespace
	Prefix, LocalName webidl.DOMString
	Id, ClassName     webidl.DOMString
	ClassList         *DOMTokenList
	Attributes        *NamedNodeMap
	Kind              ElementKind

	// Template carries the content fragment for template elements, nil for
	// every other kind.
	Template *HTMLTemplate
}

// https://dom.spec.whatwg.org/#concept-element-qualified-name
func (e *Element) QualifiedName() webidl.DOMString {
	if e.Prefix != "" {
		return e.Prefix + ":" + e.LocalName
	}
	return e.LocalName
}

func (n *Node) HasAttributes() bool {
	return n.Element.Attributes.Length() > 0
}

func (n *Node) GetAttributeNames() []webidl.DOMString {
	names := make([]webidl.DOMString, 0, n.Element.Attributes.Length())
	for _, a := range n.Element.Attributes.Attrs {
		names = append(names, a.Name)
	}
	return names
}

func (n *Node) GetAttribute(qualifiedName webidl.DOMString) (webidl.DOMString, bool) {
	a := n.Element.Attributes.getAttributeByName(qualifiedName)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

func (n *Node) GetAttributeNS(ns Namespace, localName webidl.DOMString) (webidl.DOMString, bool) {
	a := n.Element.Attributes.getAttributeByNSLocalName(ns, localName)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

// https://dom.spec.whatwg.org/#dom-element-setattribute
func (n *Node) SetAttribute(qualifiedName, value webidl.DOMString) error {
	if !isValidAttributeName(qualifiedName) {
		return errorsWrapInvalidName(qualifiedName)
	}
	if n.Element.NamespaceURI == Htmlns && n.nodeDocument() != nil && n.nodeDocument().Document.Type == "html" {
		qualifiedName = webidl.DOMString(strings.ToLower(string(qualifiedName)))
	}
	if a := n.Element.Attributes.getAttributeByName(qualifiedName); a != nil {
		a.Value = value
		n.Element.Attributes.reflect(a)
		n.Element.Attributes.changed()
		return nil
	}
	n.Element.Attributes.append(NewAttr(qualifiedName, value))
	n.Element.Attributes.reflect(n.Element.Attributes.Attrs[len(n.Element.Attributes.Attrs)-1])
	return nil
}

func (n *Node) SetAttributeNS(ns Namespace, qualifiedName, value webidl.DOMString) error {
	prefix, localName, err := validateAndExtract(ns, qualifiedName)
	if err != nil {
		return err
	}
	if a := n.Element.Attributes.getAttributeByNSLocalName(ns, localName); a != nil {
		a.Value = value
		n.Element.Attributes.reflect(a)
		n.Element.Attributes.changed()
		return nil
	}
	attr := &Attr{
		Namespace: ns,
		Prefix:    prefix,
		LocalName: localName,
		Value:     value,
		Specified: true,
	}
	n.Element.Attributes.append(attr)
	n.Element.Attributes.reflect(attr)
	return nil
}

func (n *Node) RemoveAttribute(qualifiedName webidl.DOMString) {
	if a := n.Element.Attributes.getAttributeByName(qualifiedName); a != nil {
		n.Element.Attributes.removeAttr(a)
	}
}

func (n *Node) RemoveAttributeNS(ns Namespace, localName webidl.DOMString) {
	if a := n.Element.Attributes.getAttributeByNSLocalName(ns, localName); a != nil {
		n.Element.Attributes.removeAttr(a)
	}
}

func (n *Node) HasAttribute(qualifiedName webidl.DOMString) bool {
	return n.Element.Attributes.getAttributeByName(qualifiedName) != nil
}

func (n *Node) HasAttributeNS(ns Namespace, localName webidl.DOMString) bool {
	return n.Element.Attributes.getAttributeByNSLocalName(ns, localName) != nil
}

// https://dom.spec.whatwg.org/#dom-element-toggleattribute
func (n *Node) ToggleAttribute(qualifiedName webidl.DOMString, force ...bool) (bool, error) {
	if !isValidAttributeName(qualifiedName) {
		return false, errorsWrapInvalidName(qualifiedName)
	}
	has := n.HasAttribute(qualifiedName)
	want := !has
	if len(force) > 0 {
		want = force[0]
	}
	if want && !has {
		if err := n.SetAttribute(qualifiedName, ""); err != nil {
			return false, err
		}
		return true, nil
	}
	if !want && has {
		n.RemoveAttribute(qualifiedName)
	}
	return want, nil
}

func (n *Node) GetAttributeNode(qualifiedName webidl.DOMString) *Node {
	a := n.Element.Attributes.getAttributeByName(qualifiedName)
	if a == nil {
		return nil
	}
	return a.AsNode(n.nodeDocument())
}

func (n *Node) GetAttributeNodeNS(ns Namespace, localName webidl.DOMString) *Node {
	a := n.Element.Attributes.getAttributeByNSLocalName(ns, localName)
	if a == nil {
		return nil
	}
	return a.AsNode(n.nodeDocument())
}

func (n *Node) SetAttributeNode(attrNode *Node) (*Node, error) {
	old, err := n.Element.Attributes.SetNamedItem(attrNode.Attr)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, nil
	}
	return old.AsNode(n.nodeDocument()), nil
}

func (n *Node) RemoveAttributeNode(attrNode *Node) (*Node, error) {
	for _, a := range n.Element.Attributes.Attrs {
		if a == attrNode.Attr {
			n.Element.Attributes.removeAttr(a)
			return attrNode, nil
		}
	}
	return nil, notFoundError("attribute is not on this element")
}

// Matches and Closest need a selector engine, which this module does not
// carry.
func (n *Node) Matches(selectors webidl.DOMString) (bool, error) {
	return false, notSupportedError("selector matching is not available")
}

func (n *Node) Closest(selectors webidl.DOMString) (*Node, error) {
	return nil, notSupportedError("selector matching is not available")
}

// DOMTokenList is the classList view. Mutations write straight through to the
// backing attribute on the element; no observer machinery.
// https://dom.spec.whatwg.org/#domtokenlist
type DOMTokenList struct {
	element  *Node
	attrName webidl.DOMString
}

func (d *DOMTokenList) tokens() []webidl.DOMString {
	v, _ := d.element.GetAttribute(d.attrName)
	fields := strings.Fields(string(v))
	out := make([]webidl.DOMString, 0, len(fields))
	seen := map[string]bool{}
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, webidl.DOMString(f))
	}
	return out
}

func (d *DOMTokenList) write(tokens []webidl.DOMString) {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = string(t)
	}
	d.element.SetAttribute(d.attrName, webidl.DOMString(strings.Join(parts, " ")))
}

func (d *DOMTokenList) Length() int {
	return len(d.tokens())
}

func (d *DOMTokenList) Item(i int) webidl.DOMString {
	tokens := d.tokens()
	if i < 0 || i >= len(tokens) {
		return ""
	}
	return tokens[i]
}

func (d *DOMTokenList) ContainsToken(token webidl.DOMString) bool {
	for _, t := range d.tokens() {
		if t == token {
			return true
		}
	}
	return false
}

func (d *DOMTokenList) Add(tokens ...webidl.DOMString) error {
	cur := d.tokens()
	for _, token := range tokens {
		if err := validateToken(token); err != nil {
			return err
		}
		found := false
		for _, t := range cur {
			if t == token {
				found = true
				break
			}
		}
		if !found {
			cur = append(cur, token)
		}
	}
	d.write(cur)
	return nil
}

func (d *DOMTokenList) RemoveTokens(tokens ...webidl.DOMString) error {
	cur := d.tokens()
	for _, token := range tokens {
		if err := validateToken(token); err != nil {
			return err
		}
		for i := 0; i < len(cur); i++ {
			if cur[i] == token {
				cur = append(cur[:i], cur[i+1:]...)
				i--
			}
		}
	}
	d.write(cur)
	return nil
}

func (d *DOMTokenList) Toggle(token webidl.DOMString, force ...bool) (bool, error) {
	if err := validateToken(token); err != nil {
		return false, err
	}
	has := d.ContainsToken(token)
	want := !has
	if len(force) > 0 {
		want = force[0]
	}
	if want && !has {
		return true, d.Add(token)
	}
	if !want && has {
		return false, d.RemoveTokens(token)
	}
	return want, nil
}

func validateToken(token webidl.DOMString) error {
	if token == "" {
		return errorsWrapSyntax("empty token")
	}
	if strings.ContainsAny(string(token), " \t\n\f\r") {
		return errorsWrapInvalidChar(token)
	}
	return nil
}
