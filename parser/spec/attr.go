package spec

import "github.com/heathj/htmldom/parser/webidl"

// Attr is https://dom.spec.whatwg.org/#attr
type Attr struct {
	Namespace    Namespace
	Prefix       webidl.DOMString
	LocalName    webidl.DOMString
	Name         webidl.DOMString
	Value        webidl.DOMString
	OwnerElement *Node
	Specified    bool

	// ownerNode is the attr's node wrapper, created on demand by
	// GetAttributeNode and friends.
	ownerNode *Node
}

func NewAttr(name, value webidl.DOMString) *Attr {
	return &Attr{
		LocalName: name,
		Name:      name,
		Value:     value,
		Specified: true,
	}
}

// NewAttrNode wraps an Attr in its node form.
func NewAttrNode(od *Node, a *Attr) *Node {
	n := &Node{
		NodeType:      AttrNode,
		NodeName:      a.Name,
		OwnerDocument: od,
		Attr:          a,
	}
	a.ownerNode = n
	return n
}

// AsNode returns (and memoizes) the node form of the attr.
func (a *Attr) AsNode(od *Node) *Node {
	if a.ownerNode == nil {
		NewAttrNode(od, a)
	}
	return a.ownerNode
}
