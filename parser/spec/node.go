package spec

import (
	"sort"
	"strings"

	"github.com/heathj/htmldom/parser/webidl"
)

type NodeType uint16

const (
	ElementNode NodeType = iota + 1
	AttrNode
	TextNode
	CDATASectionNode
	ProcessingInstructionNode
	CommentNode
	DocumentNode
	DocumentTypeNode
	DocumentFragmentNode
	ScopeMarkerNode
)

type DocumentPosition uint16

const (
	Disconnected           DocumentPosition = 0x01
	Preceding              DocumentPosition = 0x02
	Following              DocumentPosition = 0x04
	Contains               DocumentPosition = 0x08
	ContainedBy            DocumentPosition = 0x10
	ImplementationSpecific DocumentPosition = 0x20
)

// ScopeMarker is the marker entry used by the list of active formatting
// elements. Markers carry no state, so one sentinel serves every position.
var ScopeMarker = &Node{
	NodeType: ScopeMarkerNode,
	NodeName: "marker",
}

// https://dom.spec.whatwg.org/#node
type Node struct {
	NodeType                                                        NodeType
	NodeName                                                        webidl.DOMString
	BaseURI                                                         webidl.USVString
	IsConnected                                                     bool
	OwnerDocument                                                   *Node
	ParentNode, FirstChild, LastChild, PreviousSibling, NextSibling *Node
	ChildNodes                                                      NodeList

	// Node kinds. Exactly the pointer matching NodeType is non-nil.
	*Element
	*Attr
	*Text
	*CDATASection
	*ProcessingInstruction
	*Comment
	*Document
	*DocumentType
	*DocumentFragment
}

// NewComment returns a comment node with its Data section filled.
func NewComment(data webidl.DOMString, od *Node) *Node {
	return &Node{
		NodeType:      CommentNode,
		NodeName:      "#comment",
		OwnerDocument: od,
		Comment: &Comment{
			CharacterData: &CharacterData{Data: data},
		},
	}
}

func NewTextNode(od *Node, text webidl.DOMString) *Node {
	return &Node{
		NodeType:      TextNode,
		NodeName:      "#text",
		OwnerDocument: od,
		Text: &Text{
			CharacterData: &CharacterData{Data: text},
		},
	}
}

func NewCDATASectionNode(od *Node, data webidl.DOMString) *Node {
	return &Node{
		NodeType:      CDATASectionNode,
		NodeName:      "#cdata-section",
		OwnerDocument: od,
		CDATASection: &CDATASection{
			Text: &Text{CharacterData: &CharacterData{Data: data}},
		},
	}
}

func NewProcessingInstructionNode(od *Node, target, data webidl.DOMString) *Node {
	return &Node{
		NodeType:      ProcessingInstructionNode,
		NodeName:      target,
		OwnerDocument: od,
		ProcessingInstruction: &ProcessingInstruction{
			Target:        target,
			CharacterData: &CharacterData{Data: data},
		},
	}
}

func NewDocTypeNode(name, pub, sys webidl.DOMString) *Node {
	return &Node{
		NodeType: DocumentTypeNode,
		NodeName: name,
		DocumentType: &DocumentType{
			Name:     name,
			PublicID: pub,
			SystemID: sys,
		},
	}
}

func NewDocumentFragmentNode(od *Node) *Node {
	return &Node{
		NodeType:         DocumentFragmentNode,
		NodeName:         "#document-fragment",
		OwnerDocument:    od,
		DocumentFragment: &DocumentFragment{},
	}
}

// NewDOMElement builds an element node of the given local name and namespace.
// The element kind comes from the registry for that (namespace, localName)
// pair. Optionals: prefix.
func NewDOMElement(od *Node, name webidl.DOMString, namespace Namespace, optionals ...webidl.DOMString) *Node {
	var prefix webidl.DOMString
	if len(optionals) >= 1 {
		prefix = optionals[0]
	}
	n := &Node{
		NodeType:      ElementNode,
		NodeName:      name,
		OwnerDocument: od,
		Element: &Element{
			NamespaceURI: namespace,
			Prefix:       prefix,
			LocalName:    name,
			Kind:         LookupElementKind(namespace, name),
		},
	}
	n.Element.Attributes = NewNamedNodeMap(nil, n)
	n.Element.ClassList = &DOMTokenList{element: n, attrName: "class"}
	initElementKind(n)
	return n
}

func serializeNodeType(node *Node, ident int) string {
	switch node.NodeType {
	case ElementNode:
		e := "<"
		switch node.Element.NamespaceURI {
		case Svgns:
			e += "svg "
		case Mathmlns:
			e += "math "
		}
		e += string(node.NodeName)
		if node.Attributes != nil && node.Attributes.Length() != 0 {
			e += ">"
			keys := make([]string, 0, node.Attributes.Length())
			byName := map[string]*Attr{}
			for _, attr := range node.Attributes.Attrs {
				keys = append(keys, string(attr.Name))
				byName[string(attr.Name)] = attr
			}
			sort.Strings(keys)
			spaces := "| "
			for i := 1; i < ident; i++ {
				spaces += "  "
			}
			for _, name := range keys {
				attr := byName[name]
				var ns string
				switch attr.Namespace {
				case Xmlnsns:
					ns = "xmlns "
				case Xmlns:
					ns = "xml "
				case Xlinkns:
					ns = "xlink "
				}
				e += "\n" + spaces + ns + name + "=\"" + string(attr.Value) + "\""
			}
		} else {
			e += ">"
		}
		return e
	case TextNode, CDATASectionNode:
		return "\"" + string(node.Text.Data) + "\""
	case CommentNode:
		return "<!-- " + string(node.Comment.Data) + " -->"
	case DocumentTypeNode:
		d := "<!DOCTYPE " + string(node.DocumentType.Name)
		pub := node.DocumentType.PublicID
		sys := node.DocumentType.SystemID
		if (len(pub) != 0 && pub != Missing) || (len(sys) != 0 && sys != Missing) {
			if pub == Missing {
				d += " \"\""
			} else {
				d += " \"" + string(pub) + "\""
			}
			if sys == Missing {
				d += " \"\""
			} else {
				d += " \"" + string(sys) + "\""
			}
		}
		d += ">"
		return d
	case DocumentNode:
		return "#document"
	case DocumentFragmentNode:
		return "#document-fragment"
	case ProcessingInstructionNode:
		return "<?" + string(node.ProcessingInstruction.Target) + " " + string(node.ProcessingInstruction.Data) + ">"
	default:
		return ""
	}
}

func (node *Node) serialize(ident int) string {
	ser := serializeNodeType(node, ident+1) + "\n"
	root := node.NodeType == DocumentNode || node.NodeType == DocumentFragmentNode
	if !root {
		spaces := "| "
		for i := 1; i < ident; i++ {
			spaces += "  "
		}
		ser = spaces + ser
	}
	for _, child := range node.ChildNodes {
		ser += child.serialize(ident + 1)
	}
	if node.NodeType == ElementNode && node.Element.Template != nil && node.Element.Template.Content != nil {
		spaces := "| "
		for i := 1; i < ident+1; i++ {
			spaces += "  "
		}
		ser += spaces + "content\n"
		for _, child := range node.Element.Template.Content.ChildNodes {
			ser += child.serialize(ident + 2)
		}
	}
	return ser
}

// String renders the tree in the html5lib "| " dump format used by the
// tree-construction tests.
func (node *Node) String() string {
	return strings.TrimRight(node.serialize(0), "\n")
}

// nodeDocument returns the node document: the owner document, or the node
// itself for documents.
func (n *Node) nodeDocument() *Node {
	if n.NodeType == DocumentNode {
		return n
	}
	return n.OwnerDocument
}

func (n *Node) GetRootNode() *Node {
	root := n
	for root.ParentNode != nil {
		root = root.ParentNode
	}
	return root
}

func (n *Node) HasChildNodes() bool {
	return len(n.ChildNodes) > 0
}

// index returns n's position in its parent's child list, -1 when detached.
func (n *Node) index() int {
	if n.ParentNode == nil {
		return -1
	}
	return n.ParentNode.ChildNodes.Contains(n)
}

func (n *Node) IsInclusiveDescendantOf(of *Node) bool {
	for i := n; i != nil; i = i.ParentNode {
		if i == of {
			return true
		}
	}
	return false
}

func (n *Node) Contains(on *Node) bool {
	if on == nil {
		return false
	}
	return on.IsInclusiveDescendantOf(n)
}

// nextInTreeOrder walks depth-first under root, nil at the end.
func (n *Node) nextInTreeOrder(root *Node) *Node {
	if len(n.ChildNodes) > 0 {
		return n.FirstChild
	}
	for i := n; i != nil && i != root; i = i.ParentNode {
		if i.NextSibling != nil {
			return i.NextSibling
		}
	}
	return nil
}

// previousInTreeOrder is the reverse walk; nil before root.
func (n *Node) previousInTreeOrder(root *Node) *Node {
	if n == root {
		return nil
	}
	if n.PreviousSibling != nil {
		prev := n.PreviousSibling
		for len(prev.ChildNodes) > 0 {
			prev = prev.LastChild
		}
		return prev
	}
	return n.ParentNode
}

// https://dom.spec.whatwg.org/#dom-node-comparedocumentposition
func (n *Node) CompareDocumentPosition(other *Node) DocumentPosition {
	if n == other {
		return 0
	}
	if n.GetRootNode() != other.GetRootNode() {
		return Disconnected | ImplementationSpecific | Preceding
	}
	if n.Contains(other) {
		return ContainedBy | Following
	}
	if other.Contains(n) {
		return Contains | Preceding
	}
	root := n.GetRootNode()
	for cur := root; cur != nil; cur = cur.nextInTreeOrder(root) {
		if cur == other {
			return Preceding
		}
		if cur == n {
			return Following
		}
	}
	return Disconnected
}

// https://dom.spec.whatwg.org/#concept-node-equals
func (n *Node) IsEqualNode(on *Node) bool {
	if on == nil || on.NodeType != n.NodeType {
		return false
	}
	switch n.NodeType {
	case DocumentTypeNode:
		if n.DocumentType.Name != on.DocumentType.Name ||
			n.DocumentType.PublicID != on.DocumentType.PublicID ||
			n.DocumentType.SystemID != on.DocumentType.SystemID {
			return false
		}
	case ElementNode:
		if n.Element.NamespaceURI != on.Element.NamespaceURI ||
			n.Element.Prefix != on.Element.Prefix ||
			n.Element.LocalName != on.Element.LocalName ||
			n.Element.Attributes.Length() != on.Element.Attributes.Length() {
			return false
		}
		for _, attr := range n.Element.Attributes.Attrs {
			oattr := on.Element.Attributes.getAttributeByNSLocalName(attr.Namespace, attr.LocalName)
			if oattr == nil || oattr.Value != attr.Value {
				return false
			}
		}
	case AttrNode:
		if n.Attr.Namespace != on.Attr.Namespace ||
			n.Attr.LocalName != on.Attr.LocalName ||
			n.Attr.Value != on.Attr.Value {
			return false
		}
	case ProcessingInstructionNode:
		if n.ProcessingInstruction.Target != on.ProcessingInstruction.Target ||
			n.ProcessingInstruction.Data != on.ProcessingInstruction.Data {
			return false
		}
	case TextNode, CDATASectionNode, CommentNode:
		if n.characterData().Data != on.characterData().Data {
			return false
		}
	}
	if len(n.ChildNodes) != len(on.ChildNodes) {
		return false
	}
	for i := range n.ChildNodes {
		if !n.ChildNodes[i].IsEqualNode(on.ChildNodes[i]) {
			return false
		}
	}
	return true
}

func (n *Node) IsSameNode(on *Node) bool { return n == on }

func (n *Node) characterData() *CharacterData {
	switch n.NodeType {
	case TextNode:
		return n.Text.CharacterData
	case CDATASectionNode:
		return n.CDATASection.Text.CharacterData
	case CommentNode:
		return n.Comment.CharacterData
	case ProcessingInstructionNode:
		return n.ProcessingInstruction.CharacterData
	}
	return nil
}

// https://dom.spec.whatwg.org/#dom-node-nodevalue
func (n *Node) NodeValue() webidl.DOMString {
	if cd := n.characterData(); cd != nil {
		return cd.Data
	}
	if n.NodeType == AttrNode {
		return n.Attr.Value
	}
	return ""
}

func (n *Node) SetNodeValue(v webidl.DOMString) {
	if cd := n.characterData(); cd != nil {
		n.ReplaceData(0, cd.length(), v)
		return
	}
	if n.NodeType == AttrNode {
		n.Attr.Value = v
		if oe := n.Attr.OwnerElement; oe != nil {
			oe.Element.Attributes.reflect(n.Attr)
			oe.Element.Attributes.changed()
		}
	}
}

// https://dom.spec.whatwg.org/#dom-node-textcontent
func (n *Node) TextContent() webidl.DOMString {
	switch n.NodeType {
	case ElementNode, DocumentFragmentNode:
		var sb strings.Builder
		for d := n.nextInTreeOrder(n); d != nil; d = d.nextInTreeOrder(n) {
			if d.NodeType == TextNode || d.NodeType == CDATASectionNode {
				sb.WriteString(string(d.Text.Data))
			}
		}
		return webidl.DOMString(sb.String())
	case AttrNode:
		return n.Attr.Value
	case TextNode, CDATASectionNode, CommentNode, ProcessingInstructionNode:
		return n.characterData().Data
	}
	return ""
}

func (n *Node) SetTextContent(v webidl.DOMString) {
	switch n.NodeType {
	case ElementNode, DocumentFragmentNode:
		var text *Node
		if v != "" {
			text = NewTextNode(n.nodeDocument(), v)
		}
		n.replaceAll(text)
	case AttrNode:
		n.SetNodeValue(v)
	case TextNode, CDATASectionNode, CommentNode, ProcessingInstructionNode:
		n.ReplaceData(0, n.characterData().length(), v)
	}
}

// https://dom.spec.whatwg.org/#locate-a-namespace-prefix
func (n *Node) LookupPrefix(namespace webidl.DOMString) webidl.DOMString {
	for elem := n.lookupStartElement(); elem != nil; elem = elem.ParentNode {
		if elem.NodeType != ElementNode {
			break
		}
		if elem.Element.NamespaceURI.URI() == namespace && elem.Element.Prefix != "" {
			return elem.Element.Prefix
		}
		for _, attr := range elem.Element.Attributes.Attrs {
			if attr.Prefix == "xmlns" && attr.Value == namespace {
				return attr.LocalName
			}
		}
	}
	return ""
}

// https://dom.spec.whatwg.org/#locate-a-namespace
func (n *Node) LookupNamespaceURI(prefix webidl.DOMString) webidl.DOMString {
	for elem := n.lookupStartElement(); elem != nil; elem = elem.ParentNode {
		if elem.NodeType != ElementNode {
			break
		}
		if elem.Element.Prefix == prefix && elem.Element.NamespaceURI.URI() != "" {
			return elem.Element.NamespaceURI.URI()
		}
		for _, attr := range elem.Element.Attributes.Attrs {
			if (attr.Prefix == "xmlns" && attr.LocalName == prefix) ||
				(prefix == "" && attr.Prefix == "" && attr.LocalName == "xmlns") {
				return attr.Value
			}
		}
	}
	return ""
}

func (n *Node) IsDefaultNamespace(namespace webidl.DOMString) bool {
	return n.LookupNamespaceURI("") == namespace
}

func (n *Node) lookupStartElement() *Node {
	switch n.NodeType {
	case ElementNode:
		return n
	case DocumentNode:
		return n.documentElementNode()
	case AttrNode:
		return n.Attr.OwnerElement
	default:
		if n.ParentNode != nil && n.ParentNode.NodeType == ElementNode {
			return n.ParentNode
		}
	}
	return nil
}

func (n *Node) documentElementNode() *Node {
	for _, child := range n.ChildNodes {
		if child.NodeType == ElementNode {
			return child
		}
	}
	return nil
}

// https://dom.spec.whatwg.org/#concept-node-clone
func (n *Node) CloneNode(deep bool) *Node {
	return n.cloneInto(n.nodeDocument(), deep)
}

func (n *Node) CloneNodeDef() *Node {
	return n.CloneNode(false)
}

func (n *Node) cloneInto(doc *Node, deep bool) *Node {
	var copy *Node
	switch n.NodeType {
	case ElementNode:
		copy = NewDOMElement(doc, n.Element.LocalName, n.Element.NamespaceURI, n.Element.Prefix)
		for _, attr := range n.Element.Attributes.Attrs {
			copy.Element.Attributes.append(&Attr{
				Namespace: attr.Namespace,
				Prefix:    attr.Prefix,
				LocalName: attr.LocalName,
				Name:      attr.Name,
				Value:     attr.Value,
			})
		}
		copy.Element.Id = n.Element.Id
		copy.Element.ClassName = n.Element.ClassName
		runCloningSteps(n, copy, deep)
	case DocumentNode:
		d := NewDocumentNode(n.Document.Type)
		d.Document.URL = n.Document.URL
		d.Document.DocumentURI = n.Document.DocumentURI
		d.Document.Mode = n.Document.Mode
		d.Document.CharacterSet = n.Document.CharacterSet
		d.Document.ContentType = n.Document.ContentType
		copy = d
		doc = d
	case DocumentTypeNode:
		copy = NewDocTypeNode(n.DocumentType.Name, n.DocumentType.PublicID, n.DocumentType.SystemID)
		copy.OwnerDocument = doc
	case AttrNode:
		copy = NewAttrNode(doc, &Attr{
			Namespace: n.Attr.Namespace,
			Prefix:    n.Attr.Prefix,
			LocalName: n.Attr.LocalName,
			Name:      n.Attr.Name,
			Value:     n.Attr.Value,
		})
	case TextNode:
		copy = NewTextNode(doc, n.Text.Data)
	case CDATASectionNode:
		copy = NewCDATASectionNode(doc, n.Text.Data)
	case CommentNode:
		copy = NewComment(n.Comment.Data, doc)
	case ProcessingInstructionNode:
		copy = NewProcessingInstructionNode(doc, n.ProcessingInstruction.Target, n.ProcessingInstruction.Data)
	case DocumentFragmentNode:
		copy = NewDocumentFragmentNode(doc)
	default:
		return nil
	}

	if deep {
		for _, child := range n.ChildNodes {
			copy.appendChildFast(child.cloneInto(doc, true))
		}
	}
	return copy
}
