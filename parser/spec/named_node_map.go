package spec

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/heathj/htmldom/parser/webidl"
)

// NamedNodeMap is an ordered attribute list. Order is insertion order, which
// is what serialization round-trips. Uniqueness is on (namespace, localName).
// https://dom.spec.whatwg.org/#namednodemap
type NamedNodeMap struct {
	Attrs             []*Attr
	AssociatedElement *Node
}

func NewNamedNodeMap(attrs []*Attr, oe *Node) *NamedNodeMap {
	m := &NamedNodeMap{AssociatedElement: oe}
	for _, a := range attrs {
		m.append(a)
	}
	return m
}

func (n *NamedNodeMap) Length() int {
	return len(n.Attrs)
}

func (n *NamedNodeMap) Item(i int) *Attr {
	if i < 0 || i >= len(n.Attrs) {
		return nil
	}
	return n.Attrs[i]
}

// append adds without uniqueness checks; callers that take arbitrary input go
// through SetNamedItem.
func (n *NamedNodeMap) append(a *Attr) {
	a.OwnerElement = n.AssociatedElement
	if a.Name == "" {
		a.Name = a.qualifiedName()
	}
	n.Attrs = append(n.Attrs, a)
	n.changed()
}

func (a *Attr) qualifiedName() webidl.DOMString {
	if a.Prefix != "" {
		return a.Prefix + ":" + a.LocalName
	}
	return a.LocalName
}

// https://dom.spec.whatwg.org/#concept-element-attributes-get-by-name
func (n *NamedNodeMap) getAttributeByName(qn webidl.DOMString) *Attr {
	if n.AssociatedElement != nil &&
		n.AssociatedElement.Element.NamespaceURI == Htmlns &&
		n.AssociatedElement.nodeDocument() != nil &&
		n.AssociatedElement.nodeDocument().Document.Type == "html" {
		qn = webidl.DOMString(strings.ToLower(string(qn)))
	}
	for _, a := range n.Attrs {
		if a.Name == qn {
			return a
		}
	}
	return nil
}

func (n *NamedNodeMap) getAttributeByNSLocalName(ns Namespace, ln webidl.DOMString) *Attr {
	for _, a := range n.Attrs {
		if a.Namespace == ns && a.LocalName == ln {
			return a
		}
	}
	return nil
}

func (n *NamedNodeMap) GetNamedItem(qn webidl.DOMString) *Attr {
	return n.getAttributeByName(qn)
}

func (n *NamedNodeMap) GetNamedItemNS(ns Namespace, ln webidl.DOMString) *Attr {
	return n.getAttributeByNSLocalName(ns, ln)
}

// https://dom.spec.whatwg.org/#concept-element-attributes-set
func (n *NamedNodeMap) SetNamedItem(a *Attr) (*Attr, error) {
	if a.OwnerElement != nil && a.OwnerElement != n.AssociatedElement {
		return nil, errWrapInUse(a)
	}
	old := n.getAttributeByNSLocalName(a.Namespace, a.LocalName)
	if old == a {
		return a, nil
	}
	if old != nil {
		n.replaceAttr(old, a)
		return old, nil
	}
	n.append(a)
	n.reflect(a)
	return nil, nil
}

func (n *NamedNodeMap) SetNamedItemNS(a *Attr) (*Attr, error) {
	return n.SetNamedItem(a)
}

func (n *NamedNodeMap) replaceAttr(old, a *Attr) {
	for i := range n.Attrs {
		if n.Attrs[i] == old {
			n.Attrs[i] = a
			break
		}
	}
	old.OwnerElement = nil
	a.OwnerElement = n.AssociatedElement
	if a.Name == "" {
		a.Name = a.qualifiedName()
	}
	n.reflect(a)
	n.changed()
}

func (n *NamedNodeMap) RemoveNamedItem(qn webidl.DOMString) (*Attr, error) {
	a := n.getAttributeByName(qn)
	if a == nil {
		return nil, notFoundError("no attribute named %s", qn)
	}
	n.removeAttr(a)
	return a, nil
}

func (n *NamedNodeMap) RemoveNamedItemNS(ns Namespace, ln webidl.DOMString) (*Attr, error) {
	a := n.getAttributeByNSLocalName(ns, ln)
	if a == nil {
		return nil, notFoundError("no attribute %s in namespace %d", ln, ns)
	}
	n.removeAttr(a)
	return a, nil
}

func (n *NamedNodeMap) removeAttr(a *Attr) {
	for i := range n.Attrs {
		if n.Attrs[i] == a {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			break
		}
	}
	a.OwnerElement = nil
	n.unreflect(a)
	n.changed()
}

// reflect keeps the id/class fast paths on the element in sync.
func (n *NamedNodeMap) reflect(a *Attr) {
	if n.AssociatedElement == nil || a.Namespace != NoNamespace {
		return
	}
	switch a.LocalName {
	case "id":
		n.AssociatedElement.Element.Id = a.Value
	case "class":
		n.AssociatedElement.Element.ClassName = a.Value
	}
}

func (n *NamedNodeMap) unreflect(a *Attr) {
	if n.AssociatedElement == nil || a.Namespace != NoNamespace {
		return
	}
	switch a.LocalName {
	case "id":
		n.AssociatedElement.Element.Id = ""
	case "class":
		n.AssociatedElement.Element.ClassName = ""
	}
}

func (n *NamedNodeMap) changed() {
	if n.AssociatedElement == nil {
		return
	}
	if doc := n.AssociatedElement.nodeDocument(); doc != nil && doc.Document != nil {
		doc.Document.bumpGeneration()
	}
}

func errWrapInUse(a *Attr) error {
	return errors.Wrapf(ErrInUseAttribute, "attribute %s belongs to another element", a.Name)
}
