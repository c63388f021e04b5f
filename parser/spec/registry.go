package spec

import (
	"github.com/heathj/htmldom/parser/webidl"
)

// ElementKind names the interface a (namespace, localName) pair maps to,
// e.g. a → HTMLAnchorElement. Unknown HTML names map to HTMLUnknownElement.
type ElementKind string

const (
	KindHTMLUnknownElement ElementKind = "HTMLUnknownElement"
	KindHTMLElement        ElementKind = "HTMLElement"
	KindSVGElement         ElementKind = "SVGElement"
	KindMathMLElement      ElementKind = "MathMLElement"
)

var htmlKindTable = map[webidl.DOMString]ElementKind{
	"a":          "HTMLAnchorElement",
	"abbr":       KindHTMLElement,
	"address":    KindHTMLElement,
	"area":       "HTMLAreaElement",
	"article":    KindHTMLElement,
	"aside":      KindHTMLElement,
	"audio":      "HTMLAudioElement",
	"b":          KindHTMLElement,
	"base":       "HTMLBaseElement",
	"bdi":        KindHTMLElement,
	"bdo":        KindHTMLElement,
	"blockquote": "HTMLQuoteElement",
	"body":       "HTMLBodyElement",
	"br":         "HTMLBRElement",
	"button":     "HTMLButtonElement",
	"canvas":     "HTMLCanvasElement",
	"caption":    "HTMLTableCaptionElement",
	"cite":       KindHTMLElement,
	"code":       KindHTMLElement,
	"col":        "HTMLTableColElement",
	"colgroup":   "HTMLTableColElement",
	"data":       "HTMLDataElement",
	"datalist":   "HTMLDataListElement",
	"dd":         KindHTMLElement,
	"del":        "HTMLModElement",
	"details":    "HTMLDetailsElement",
	"dfn":        KindHTMLElement,
	"dialog":     "HTMLDialogElement",
	"dir":        "HTMLDirectoryElement",
	"div":        "HTMLDivElement",
	"dl":         "HTMLDListElement",
	"dt":         KindHTMLElement,
	"em":         KindHTMLElement,
	"embed":      "HTMLEmbedElement",
	"fieldset":   "HTMLFieldSetElement",
	"figcaption": KindHTMLElement,
	"figure":     KindHTMLElement,
	"font":       "HTMLFontElement",
	"footer":     KindHTMLElement,
	"form":       "HTMLFormElement",
	"frame":      "HTMLFrameElement",
	"frameset":   "HTMLFrameSetElement",
	"h1":         "HTMLHeadingElement",
	"h2":         "HTMLHeadingElement",
	"h3":         "HTMLHeadingElement",
	"h4":         "HTMLHeadingElement",
	"h5":         "HTMLHeadingElement",
	"h6":         "HTMLHeadingElement",
	"head":       "HTMLHeadElement",
	"header":     KindHTMLElement,
	"hgroup":     KindHTMLElement,
	"hr":         "HTMLHRElement",
	"html":       "HTMLHtmlElement",
	"i":          KindHTMLElement,
	"iframe":     "HTMLIFrameElement",
	"img":        "HTMLImageElement",
	"input":      "HTMLInputElement",
	"ins":        "HTMLModElement",
	"kbd":        KindHTMLElement,
	"label":      "HTMLLabelElement",
	"legend":     "HTMLLegendElement",
	"li":         "HTMLLIElement",
	"link":       "HTMLLinkElement",
	"listing":    "HTMLPreElement",
	"main":       KindHTMLElement,
	"map":        "HTMLMapElement",
	"mark":       KindHTMLElement,
	"marquee":    "HTMLMarqueeElement",
	"menu":       "HTMLMenuElement",
	"meta":       "HTMLMetaElement",
	"meter":      "HTMLMeterElement",
	"nav":        KindHTMLElement,
	"nobr":       KindHTMLElement,
	"noembed":    KindHTMLElement,
	"noframes":   KindHTMLElement,
	"noscript":   KindHTMLElement,
	"object":     "HTMLObjectElement",
	"ol":         "HTMLOListElement",
	"optgroup":   "HTMLOptGroupElement",
	"option":     "HTMLOptionElement",
	"output":     "HTMLOutputElement",
	"p":          "HTMLParagraphElement",
	"param":      "HTMLParamElement",
	"picture":    "HTMLPictureElement",
	"plaintext":  KindHTMLElement,
	"pre":        "HTMLPreElement",
	"progress":   "HTMLProgressElement",
	"q":          "HTMLQuoteElement",
	"rp":         KindHTMLElement,
	"rt":         KindHTMLElement,
	"ruby":       KindHTMLElement,
	"s":          KindHTMLElement,
	"samp":       KindHTMLElement,
	"script":     "HTMLScriptElement",
	"section":    KindHTMLElement,
	"select":     "HTMLSelectElement",
	"slot":       "HTMLSlotElement",
	"small":      KindHTMLElement,
	"source":     "HTMLSourceElement",
	"span":       "HTMLSpanElement",
	"strike":     KindHTMLElement,
	"strong":     KindHTMLElement,
	"style":      "HTMLStyleElement",
	"sub":        KindHTMLElement,
	"summary":    KindHTMLElement,
	"sup":        KindHTMLElement,
	"table":      "HTMLTableElement",
	"tbody":      "HTMLTableSectionElement",
	"td":         "HTMLTableCellElement",
	"template":   "HTMLTemplateElement",
	"textarea":   "HTMLTextAreaElement",
	"tfoot":      "HTMLTableSectionElement",
	"th":         "HTMLTableCellElement",
	"thead":      "HTMLTableSectionElement",
	"time":       "HTMLTimeElement",
	"title":      "HTMLTitleElement",
	"tr":         "HTMLTableRowElement",
	"track":      "HTMLTrackElement",
	"tt":         KindHTMLElement,
	"u":          KindHTMLElement,
	"ul":         "HTMLUListElement",
	"var":        KindHTMLElement,
	"video":      "HTMLVideoElement",
	"wbr":        KindHTMLElement,
	"xmp":        "HTMLPreElement",
}

var svgKindTable = map[webidl.DOMString]ElementKind{
	"svg":           "SVGSVGElement",
	"g":             "SVGGElement",
	"path":          "SVGPathElement",
	"rect":          "SVGRectElement",
	"circle":        "SVGCircleElement",
	"ellipse":       "SVGEllipseElement",
	"line":          "SVGLineElement",
	"text":          "SVGTextElement",
	"desc":          "SVGDescElement",
	"title":         "SVGTitleElement",
	"foreignObject": "SVGForeignObjectElement",
	"script":        "SVGScriptElement",
	"use":           "SVGUseElement",
	"defs":          "SVGDefsElement",
}

var mathmlKindTable = map[webidl.DOMString]ElementKind{
	"math":           KindMathMLElement,
	"mi":             KindMathMLElement,
	"mo":             KindMathMLElement,
	"mn":             KindMathMLElement,
	"ms":             KindMathMLElement,
	"mtext":          KindMathMLElement,
	"annotation-xml": KindMathMLElement,
	"mglyph":         KindMathMLElement,
	"malignmark":     KindMathMLElement,
}

// LookupElementKind resolves (namespace, localName) to an element kind.
func LookupElementKind(ns Namespace, localName webidl.DOMString) ElementKind {
	switch ns {
	case Htmlns:
		if k, ok := htmlKindTable[localName]; ok {
			return k
		}
		return KindHTMLUnknownElement
	case Svgns:
		if k, ok := svgKindTable[localName]; ok {
			return k
		}
		return KindSVGElement
	case Mathmlns:
		return KindMathMLElement
	}
	return KindHTMLElement
}

// HTMLTemplate carries template-element state: the content fragment owned by
// the inert template contents document.
type HTMLTemplate struct {
	Content *Node
}

// initElementKind attaches per-kind state at element creation.
func initElementKind(n *Node) {
	if n.Element.Kind != "HTMLTemplateElement" {
		return
	}
	owner := n.nodeDocument()
	var contentDoc *Node
	if owner != nil && owner.Document != nil {
		contentDoc = owner.Document.templateContentsDocument(owner)
	}
	content := NewDocumentFragmentNode(contentDoc)
	content.DocumentFragment.Host = n
	n.Element.Template = &HTMLTemplate{Content: content}
}

// Per-kind hook tables, keyed by local name. These are the insertion,
// removing, adopting, and cloning steps the mutation algorithms run.

type kindHooks struct {
	insertion func(n *Node)
	removing  func(n *Node, oldParent *Node)
	adopting  func(n *Node, oldDoc *Node)
	cloning   func(orig, copy *Node, deep bool)
}

var htmlKindHooks map[webidl.DOMString]*kindHooks

func init() {
	firstBaseHref := func(doc *Node) webidl.USVString {
		for d := doc.nextInTreeOrder(doc); d != nil; d = d.nextInTreeOrder(doc) {
			if d.isHTMLElement("base") {
				if href, ok := d.GetAttribute("href"); ok {
					return webidl.USVString(href)
				}
			}
		}
		return ""
	}
	htmlKindHooks = map[webidl.DOMString]*kindHooks{
		"base": {
			insertion: func(n *Node) {
				// A base href rewrites the document base URL for everything
				// parsed after it; the first base in tree order wins.
				if doc := n.nodeDocument(); doc != nil && doc.Document != nil {
					doc.BaseURI = firstBaseHref(doc)
				}
			},
			removing: func(n *Node, oldParent *Node) {
				if doc := oldParent.nodeDocument(); doc != nil {
					doc.BaseURI = firstBaseHref(doc)
				}
			},
		},
		"template": {
			adopting: func(n *Node, oldDoc *Node) {
				doc := n.nodeDocument()
				if doc != nil && doc.Document != nil && n.Element.Template != nil {
					td := doc.Document.templateContentsDocument(doc)
					n.Element.Template.Content.setOwner(td)
				}
			},
			cloning: func(orig, copy *Node, deep bool) {
				if !deep || orig.Element.Template == nil {
					return
				}
				for _, child := range orig.Element.Template.Content.ChildNodes {
					dst := copy.Element.Template.Content
					dst.appendChildFast(child.cloneInto(dst.nodeDocument(), true))
				}
			},
		},
	}
}

func hooksFor(n *Node) *kindHooks {
	if n.NodeType != ElementNode || n.Element.NamespaceURI != Htmlns {
		return nil
	}
	return htmlKindHooks[n.Element.LocalName]
}

func runInsertionSteps(n *Node) {
	if h := hooksFor(n); h != nil && h.insertion != nil {
		h.insertion(n)
	}
}

func runRemovingSteps(n *Node, oldParent *Node) {
	if h := hooksFor(n); h != nil && h.removing != nil {
		h.removing(n, oldParent)
	}
}

func runAdoptingSteps(n *Node, oldDoc *Node) {
	if h := hooksFor(n); h != nil && h.adopting != nil {
		h.adopting(n, oldDoc)
	}
	for _, c := range n.ChildNodes {
		runAdoptingSteps(c, oldDoc)
	}
}

func runCloningSteps(orig, copy *Node, deep bool) {
	if h := hooksFor(orig); h != nil && h.cloning != nil {
		h.cloning(orig, copy, deep)
	}
}

// Table element behavior.

// Rows is the live collection of tr elements that are children of the table
// or of its thead, tbody and tfoot children, in tree order; thead rows are not
// moved ahead of the others, nor tfoot rows behind them.
// https://html.spec.whatwg.org/multipage/tables.html#dom-table-rows
func (n *Node) Rows() *HTMLCollection {
	return NewHTMLCollection(n, func(c *Node) bool {
		if !c.isHTMLElement("tr") {
			return false
		}
		p := c.ParentNode
		if p == n {
			return true
		}
		return p != nil && p.ParentNode == n &&
			(p.isHTMLElement("thead") || p.isHTMLElement("tbody") || p.isHTMLElement("tfoot"))
	})
}

// InsertRow inserts a tr at index (-1 appends). When the table has no rows
// the tr goes into its last tbody child, and a tbody is appended first when
// the table has none.
// https://html.spec.whatwg.org/multipage/tables.html#dom-table-insertrow
func (n *Node) InsertRow(index int) (*Node, error) {
	rows := n.Rows()
	count := rows.Length()
	if index < -1 || index > count {
		return nil, indexSizeError("row index %d out of range", index)
	}
	doc := n.nodeDocument()
	tr := NewDOMElement(doc, "tr", Htmlns)
	if count == 0 {
		body := n.lastTableBody()
		if body == nil {
			body = NewDOMElement(doc, "tbody", Htmlns)
			n.AppendChild(body)
		}
		body.AppendChild(tr)
		return tr, nil
	}
	if index == -1 || index == count {
		last := rows.Item(count - 1)
		last.ParentNode.AppendChild(tr)
		return tr, nil
	}
	ref := rows.Item(index)
	ref.ParentNode.InsertBefore(tr, ref)
	return tr, nil
}

// https://html.spec.whatwg.org/multipage/tables.html#dom-table-deleterow
func (n *Node) DeleteRow(index int) error {
	rows := n.Rows()
	count := rows.Length()
	if index == -1 {
		if count == 0 {
			return nil
		}
		index = count - 1
	}
	if index < 0 || index >= count {
		return indexSizeError("row index %d out of range", index)
	}
	row := rows.Item(index)
	row.ParentNode.RemoveChild(row)
	return nil
}

func (n *Node) lastTableBody() *Node {
	for i := len(n.ChildNodes) - 1; i >= 0; i-- {
		if n.ChildNodes[i].isHTMLElement("tbody") {
			return n.ChildNodes[i]
		}
	}
	return nil
}
