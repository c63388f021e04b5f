package spec

import "github.com/heathj/htmldom/parser/webidl"

// https://dom.spec.whatwg.org/#domimplementation
type DOMImplementation struct {
	document *Node
}

func (d *DOMImplementation) CreateDocumentType(name, publicID, systemID webidl.DOMString) (*Node, error) {
	if !isValidName(name) {
		return nil, errorsWrapInvalidName(name)
	}
	dt := NewDocTypeNode(name, publicID, systemID)
	dt.OwnerDocument = d.document
	return dt, nil
}

func (d *DOMImplementation) CreateHTMLDocument(title ...webidl.DOMString) *Node {
	doc := NewDocumentNode("html")
	doctype := NewDocTypeNode("html", "", "")
	doctype.OwnerDocument = doc
	doc.AppendChild(doctype)
	html := NewDOMElement(doc, "html", Htmlns)
	doc.AppendChild(html)
	head := NewDOMElement(doc, "head", Htmlns)
	html.AppendChild(head)
	if len(title) > 0 {
		t := NewDOMElement(doc, "title", Htmlns)
		t.AppendChild(NewTextNode(doc, title[0]))
		head.AppendChild(t)
	}
	html.AppendChild(NewDOMElement(doc, "body", Htmlns))
	return doc
}
