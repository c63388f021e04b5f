package spec

import (
	"strings"

	"github.com/heathj/htmldom/parser/webidl"
)

// Compatibility modes inferred from the doctype.
const (
	NoQuirks      = "no-quirks"
	Quirks        = "quirks"
	LimitedQuirks = "limited-quirks"
)

// Document is https://dom.spec.whatwg.org/#interface-document
type Document struct {
	Implementation   DOMImplementation
	URL, DocumentURI webidl.USVString
	CharacterSet     webidl.DOMString
	ContentType      webidl.DOMString
	Doctype          *Node
	Type             string // "html" or "xml"
	Mode             string // NoQuirks, Quirks, LimitedQuirks

	// Inert marks the template contents document; parsers never script or
	// submit anything owned by it.
	Inert bool

	node *Node

	// generation invalidates live collections: every tree or attribute
	// mutation under this document bumps it.
	generation uint64

	liveRanges    []*Range
	liveIterators []*NodeIterator

	// templateDoc is the lazily created inert document that owns template
	// content fragments.
	templateDoc *Node
}

type HTMLDocument struct {
	*Node
}

func NewDocumentNode(docType string) *Node {
	n := &Node{
		NodeType: DocumentNode,
		NodeName: "#document",
		Document: &Document{
			Type:         docType,
			Mode:         NoQuirks,
			CharacterSet: "UTF-8",
			ContentType:  "text/html",
			URL:          "about:blank",
		},
	}
	if docType != "html" {
		n.Document.ContentType = "application/xml"
	}
	n.OwnerDocument = n
	n.Document.node = n
	n.Document.Implementation.document = n
	return n
}

func NewHTMLDocumentNode() *HTMLDocument {
	return &HTMLDocument{Node: NewDocumentNode("html")}
}

func (d *Document) bumpGeneration() {
	d.generation++
}

// CompatMode is the legacy name exposed on documents.
func (d *Document) CompatMode() webidl.DOMString {
	if d.Mode == Quirks {
		return "BackCompat"
	}
	return "CSS1Compat"
}

// templateContentsDocument returns the inert document that owns template
// contents, creating it on first use.
// https://html.spec.whatwg.org/multipage/scripting.html#appropriate-template-contents-owner-document
func (d *Document) templateContentsDocument(self *Node) *Node {
	if d.Inert {
		return self
	}
	if d.templateDoc == nil {
		d.templateDoc = NewDocumentNode(d.Type)
		d.templateDoc.Document.Inert = true
	}
	return d.templateDoc
}

// https://dom.spec.whatwg.org/#dom-document-createelement
func (d *Document) CreateElement(localName webidl.DOMString) (*Node, error) {
	if !isValidName(localName) {
		return nil, errorsWrapInvalidName(localName)
	}
	if d.Type == "html" {
		localName = webidl.DOMString(strings.ToLower(string(localName)))
	}
	ns := NoNamespace
	if d.Type == "html" || d.ContentType == "application/xhtml+xml" {
		ns = Htmlns
	}
	return NewDOMElement(d.node, localName, ns), nil
}

// https://dom.spec.whatwg.org/#dom-document-createelementns
func (d *Document) CreateElementNS(ns Namespace, qualifiedName webidl.DOMString) (*Node, error) {
	prefix, localName, err := validateAndExtract(ns, qualifiedName)
	if err != nil {
		return nil, err
	}
	return NewDOMElement(d.node, localName, ns, prefix), nil
}

func (d *Document) CreateDocumentFragment() *Node {
	return NewDocumentFragmentNode(d.node)
}

func (d *Document) CreateTextNode(data webidl.DOMString) *Node {
	return NewTextNode(d.node, data)
}

func (d *Document) CreateComment(data webidl.DOMString) *Node {
	return NewComment(data, d.node)
}

// https://dom.spec.whatwg.org/#dom-document-createcdatasection
func (d *Document) CreateCDATASection(data webidl.DOMString) (*Node, error) {
	if d.Type == "html" {
		return nil, notSupportedError("CDATA sections are not available in HTML documents")
	}
	if strings.Contains(string(data), "]]>") {
		return nil, errorsWrapInvalidChar(data)
	}
	return NewCDATASectionNode(d.node, data), nil
}

// https://dom.spec.whatwg.org/#dom-document-createprocessinginstruction
func (d *Document) CreateProcessingInstruction(target, data webidl.DOMString) (*Node, error) {
	if !isValidName(target) {
		return nil, errorsWrapInvalidName(target)
	}
	if strings.Contains(string(data), "?>") {
		return nil, errorsWrapInvalidChar(data)
	}
	return NewProcessingInstructionNode(d.node, target, data), nil
}

func (d *Document) CreateAttribute(localName webidl.DOMString) (*Node, error) {
	if !isValidName(localName) {
		return nil, errorsWrapInvalidName(localName)
	}
	if d.Type == "html" {
		localName = webidl.DOMString(strings.ToLower(string(localName)))
	}
	return NewAttrNode(d.node, NewAttr(localName, "")), nil
}

func (d *Document) CreateAttributeNS(ns Namespace, qualifiedName webidl.DOMString) (*Node, error) {
	prefix, localName, err := validateAndExtract(ns, qualifiedName)
	if err != nil {
		return nil, err
	}
	a := &Attr{
		Namespace: ns,
		Prefix:    prefix,
		LocalName: localName,
		Specified: true,
	}
	return NewAttrNode(d.node, a), nil
}

// https://dom.spec.whatwg.org/#dom-document-importnode
func (d *Document) ImportNode(node *Node, deep bool) (*Node, error) {
	if node.NodeType == DocumentNode {
		return nil, notSupportedError("cannot import a document")
	}
	return node.cloneInto(d.node, deep), nil
}

// https://dom.spec.whatwg.org/#dom-document-adoptnode
func (d *Document) AdoptNode(node *Node) (*Node, error) {
	if node.NodeType == DocumentNode {
		return nil, notSupportedError("cannot adopt a document")
	}
	if node.NodeType == DocumentFragmentNode && node.DocumentFragment.Host != nil {
		return nil, hierarchyRequestError("cannot adopt a shadow or template content root")
	}
	d.node.adopt(node)
	return node, nil
}

// GetElementById returns the first element in tree order with the given id.
// https://dom.spec.whatwg.org/#dom-nonelementparentnode-getelementbyid
func (d *Document) GetElementById(id webidl.DOMString) *Node {
	if id == "" {
		return nil
	}
	root := d.node
	for n := root.nextInTreeOrder(root); n != nil; n = n.nextInTreeOrder(root) {
		if n.NodeType == ElementNode && n.Element.Id == id {
			return n
		}
	}
	return nil
}

func (d *Document) GetElementsByTagName(qualifiedName webidl.DOMString) *HTMLCollection {
	return getElementsByTagName(d.node, qualifiedName)
}

func (d *Document) GetElementsByTagNameNS(ns Namespace, localName webidl.DOMString) *HTMLCollection {
	return getElementsByTagNameNS(d.node, ns, localName)
}

func (d *Document) GetElementsByClassName(classNames webidl.DOMString) *HTMLCollection {
	return getElementsByClassName(d.node, classNames)
}

func (d *Document) CreateRange() *Range {
	r := &Range{
		startContainer: d.node,
		endContainer:   d.node,
	}
	d.liveRanges = append(d.liveRanges, r)
	r.document = d
	return r
}

func (d *Document) CreateNodeIterator(root *Node, whatToShow uint, filter NodeFilter) *NodeIterator {
	if whatToShow == 0 {
		whatToShow = ShowAll
	}
	it := &NodeIterator{
		root:                       root,
		referenceNode:              root,
		pointerBeforeReferenceNode: true,
		whatToShow:                 whatToShow,
		filter:                     filter,
	}
	d.liveIterators = append(d.liveIterators, it)
	it.document = d
	return it
}

func (d *Document) CreateTreeWalker(root *Node, whatToShow uint, filter NodeFilter) *TreeWalker {
	if whatToShow == 0 {
		whatToShow = ShowAll
	}
	return &TreeWalker{
		root:        root,
		currentNode: root,
		whatToShow:  whatToShow,
		filter:      filter,
	}
}

// Head returns the first head element child of the document element.
func (h *HTMLDocument) Head() *Node {
	if html := h.Node.documentElementNode(); html != nil {
		for _, c := range html.ChildNodes {
			if c.isHTMLElement("head") {
				return c
			}
		}
	}
	return nil
}

// Body returns the first body or frameset child of the document element.
// https://html.spec.whatwg.org/multipage/dom.html#dom-document-body
func (h *HTMLDocument) Body() *Node {
	if html := h.Node.documentElementNode(); html != nil {
		for _, c := range html.ChildNodes {
			if c.isHTMLElement("body") || c.isHTMLElement("frameset") {
				return c
			}
		}
	}
	return nil
}

// Title is the text of the first title element in tree order.
func (h *HTMLDocument) Title() webidl.DOMString {
	for n := h.Node.nextInTreeOrder(h.Node); n != nil; n = n.nextInTreeOrder(h.Node) {
		if n.isHTMLElement("title") {
			return n.TextContent()
		}
	}
	return ""
}

// Forms is the live collection of form elements.
func (h *HTMLDocument) Forms() *HTMLCollection {
	return getElementsByTagName(h.Node, "form")
}
