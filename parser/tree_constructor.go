package parser

import (
	"strings"

	"github.com/heathj/htmldom/parser/spec"
	"github.com/heathj/htmldom/parser/webidl"
)

type createdByOrigin uint

const (
	normalParsing createdByOrigin = iota
	htmlFragmentParsingAlgorithm
)

// HTMLTreeConstructor holds the state for the tree construction phase.
type HTMLTreeConstructor struct {
	config                   htmlParserConfig
	HTMLDocument             *spec.HTMLDocument
	quirksMode               string
	fosterParenting          bool
	scriptingEnabled         bool
	framesetOK               bool
	insertionMode            insertionMode
	originalInsertionMode    insertionMode
	stackOfOpenElements      spec.StackOfOpenElements
	activeFormattingElements spec.ActiveFormattingElements
	stackOfTemplateInsertionModes []insertionMode
	headElementPointer       *spec.Node
	formElementPointer       *spec.Node
	pendingTableCharacters   []*Token
	context                  *spec.Node
	createdBy                createdByOrigin
	mappings                 map[insertionMode]treeConstructionModeHandler
	nextTokenizerState       *tokenizerState
	errs                     *errorSink
	ignoreNextLineFeed       bool
	stopped                  bool
}

// NewHTMLTreeConstructor creates an HTMLTreeConstructor over a fresh document.
func NewHTMLTreeConstructor(config htmlParserConfig) *HTMLTreeConstructor {
	tr := HTMLTreeConstructor{
		config:       config,
		HTMLDocument: spec.NewHTMLDocumentNode(),
		framesetOK:   true,
		errs:         newErrorSink(config),
	}
	tr.createMappings()
	return &tr
}

func (c *HTMLTreeConstructor) createMappings() {
	c.mappings = map[insertionMode]treeConstructionModeHandler{
		initial:            c.initialModeHandler,
		beforeHTML:         c.beforeHTMLModeHandler,
		beforeHead:         c.beforeHeadModeHandler,
		inHead:             c.inHeadModeHandler,
		inHeadNoScript:     c.inHeadNoScriptModeHandler,
		afterHead:          c.afterHeadModeHandler,
		inBody:             c.inBodyModeHandler,
		text:               c.textModeHandler,
		inTable:            c.inTableModeHandler,
		inTableText:        c.inTableTextModeHandler,
		inCaption:          c.inCaptionModeHandler,
		inColumnGroup:      c.inColumnGroupModeHandler,
		inTableBody:        c.inTableBodyModeHandler,
		inRow:              c.inRowModeHandler,
		inCell:             c.inCellModeHandler,
		inSelect:           c.inSelectModeHandler,
		inSelectInTable:    c.inSelectInTableModeHandler,
		inTemplate:         c.inTemplateModeHandler,
		afterBody:          c.afterBodyModeHandler,
		inFrameset:         c.inFramesetModeHandler,
		afterFrameset:      c.afterFramesetModeHandler,
		afterAfterBody:     c.afterAfterBodyModeHandler,
		afterAfterFrameset: c.afterAfterFramesetModeHandler,
	}
}

func (c *HTMLTreeConstructor) getCurrentNode() *spec.Node {
	if len(c.stackOfOpenElements.NodeList) == 0 {
		return nil
	}
	return c.stackOfOpenElements.NodeList[len(c.stackOfOpenElements.NodeList)-1]
}

// https://html.spec.whatwg.org/multipage/parsing.html#adjusted-current-node
func (c *HTMLTreeConstructor) getAdjustedCurrentNode() *spec.Node {
	if c.createdBy == htmlFragmentParsingAlgorithm && len(c.stackOfOpenElements.NodeList) == 1 {
		return c.context
	}
	return c.getCurrentNode()
}

// insertionLocation is (parent, before); nil before means append.
type insertionLocation struct {
	parent *spec.Node
	before *spec.Node
}

func (l insertionLocation) insert(n *spec.Node) {
	if l.before == nil {
		l.parent.AppendChild(n)
		return
	}
	l.parent.InsertBefore(n, l.before)
}

// nodeBefore is the node immediately preceding the insertion point.
func (l insertionLocation) nodeBefore() *spec.Node {
	if l.before == nil {
		return l.parent.LastChild
	}
	return l.before.PreviousSibling
}

// https://html.spec.whatwg.org/multipage/parsing.html#appropriate-place-for-inserting-a-node
func (c *HTMLTreeConstructor) getAppropriatePlaceForInsertion(overrideTarget *spec.Node) insertionLocation {
	target := overrideTarget
	if target == nil {
		target = c.getCurrentNode()
	}

	var loc insertionLocation
	if c.fosterParenting && target.NodeType == spec.ElementNode {
		switch target.Element.LocalName {
		case "table", "tbody", "tfoot", "thead", "tr":
			loc = c.fosterParentingLocation()
		default:
			loc = insertionLocation{parent: target}
		}
	} else {
		loc = insertionLocation{parent: target}
	}

	// Insertions that land in a template element go into its contents.
	if loc.parent.NodeType == spec.ElementNode && loc.parent.Element.Template != nil {
		loc = insertionLocation{parent: loc.parent.Element.Template.Content}
	}
	return loc
}

func (c *HTMLTreeConstructor) fosterParentingLocation() insertionLocation {
	var lastTemplate, lastTable *spec.Node
	lastTemplateI, lastTableI := -1, -1
	for i, v := range c.stackOfOpenElements.NodeList {
		if v.NodeType != spec.ElementNode {
			continue
		}
		switch v.Element.LocalName {
		case "template":
			lastTemplate = v
			lastTemplateI = i
		case "table":
			lastTable = v
			lastTableI = i
		}
	}

	if lastTemplate != nil && (lastTable == nil || lastTemplateI > lastTableI) {
		return insertionLocation{parent: lastTemplate.Element.Template.Content}
	}
	if lastTable == nil {
		return insertionLocation{parent: c.stackOfOpenElements.NodeList[0]}
	}
	if lastTable.ParentNode != nil {
		return insertionLocation{parent: lastTable.ParentNode, before: lastTable}
	}
	return insertionLocation{parent: c.stackOfOpenElements.NodeList[lastTableI-1]}
}

// https://html.spec.whatwg.org/multipage/parsing.html#insert-a-comment
func (c *HTMLTreeConstructor) insertCommentAt(t *Token, loc insertionLocation) {
	comment := spec.NewComment(webidl.DOMString(t.Data), loc.parent.OwnerDocument)
	loc.insert(comment)
}

func (c *HTMLTreeConstructor) insertComment(t *Token) {
	c.insertCommentAt(t, c.getAppropriatePlaceForInsertion(nil))
}

// https://html.spec.whatwg.org/multipage/parsing.html#insert-a-character
func (c *HTMLTreeConstructor) insertCharacter(t *Token) {
	loc := c.getAppropriatePlaceForInsertion(nil)
	if loc.parent.NodeType == spec.DocumentNode {
		return
	}
	if prev := loc.nodeBefore(); prev != nil && prev.NodeType == spec.TextNode {
		prev.AppendData(webidl.DOMString(t.Data))
		return
	}
	tn := spec.NewTextNode(loc.parent.OwnerDocument, webidl.DOMString(t.Data))
	loc.insert(tn)
}

// createElementForToken creates an element from a token with the provided
// namespace and intended parent.
// https://html.spec.whatwg.org/multipage/parsing.html#create-an-element-for-the-token
func (c *HTMLTreeConstructor) createElementForToken(t *Token, ns spec.Namespace, ip *spec.Node) *spec.Node {
	document := ip.OwnerDocument
	if ip.NodeType == spec.DocumentNode {
		document = ip
	}
	element := spec.NewDOMElement(document, webidl.DOMString(t.TagName), ns)
	for _, attr := range t.Attributes {
		a := &spec.Attr{
			LocalName: webidl.DOMString(attr.Name),
			Name:      webidl.DOMString(attr.Name),
			Prefix:    webidl.DOMString(attr.Prefix),
			Value:     webidl.DOMString(attr.Value),
			Specified: true,
		}
		if attr.NamespaceAdjusted {
			a.Namespace = foreignAttrNamespace(attr)
		}
		element.Element.Attributes.SetNamedItem(a)
	}
	if id, ok := element.GetAttribute("id"); ok {
		element.Element.Id = id
	}
	if class, ok := element.GetAttribute("class"); ok {
		element.Element.ClassName = class
	}
	return element
}

func (c *HTMLTreeConstructor) insertHTMLElementForToken(t *Token) *spec.Node {
	return c.insertForeignElementForToken(t, spec.Htmlns)
}

// https://html.spec.whatwg.org/multipage/parsing.html#insert-a-foreign-element
func (c *HTMLTreeConstructor) insertForeignElementForToken(t *Token, namespace spec.Namespace) *spec.Node {
	loc := c.getAppropriatePlaceForInsertion(nil)
	elem := c.createElementForToken(t, namespace, loc.parent)
	loc.insert(elem)
	c.stackOfOpenElements.Push(elem)
	return elem
}

// insertHTMLElementDirect builds a synthetic start tag and inserts it.
func (c *HTMLTreeConstructor) insertHTMLElementDirect(name string) *spec.Node {
	return c.insertHTMLElementForToken(&Token{TokenType: startTagToken, TagName: name})
}

func (c *HTMLTreeConstructor) useRulesFor(t *Token, returnState, expectedState insertionMode) (bool, insertionMode, parseError) {
	reprocess, nextstate, err := c.mappings[expectedState](t)

	// If the mode handler didn't change the state, keep the caller's state.
	if nextstate == expectedState {
		return reprocess, returnState, err
	}
	return reprocess, nextstate, err
}

// https://html.spec.whatwg.org/multipage/parsing.html#generate-implied-end-tags
func (c *HTMLTreeConstructor) generateImpliedEndTags(excluded ...webidl.DOMString) {
	implied := []webidl.DOMString{"dd", "dt", "li", "optgroup", "option", "p", "rb", "rp", "rt", "rtc"}
	for {
		cur := c.getCurrentNode()
		if cur == nil || cur.NodeType != spec.ElementNode || cur.Element.NamespaceURI != spec.Htmlns {
			return
		}
		name := cur.Element.LocalName
		for _, ex := range excluded {
			if name == ex {
				return
			}
		}
		found := false
		for _, im := range implied {
			if name == im {
				found = true
				break
			}
		}
		if !found {
			return
		}
		c.stackOfOpenElements.Pop()
	}
}

func (c *HTMLTreeConstructor) generateAllImpliedEndTagsThoroughly() {
	thorough := []webidl.DOMString{
		"caption", "colgroup", "dd", "dt", "li", "optgroup", "option", "p",
		"rb", "rp", "rt", "rtc", "tbody", "td", "tfoot", "th", "thead", "tr",
	}
	for {
		cur := c.getCurrentNode()
		if cur == nil || cur.NodeType != spec.ElementNode || cur.Element.NamespaceURI != spec.Htmlns {
			return
		}
		found := false
		for _, im := range thorough {
			if cur.Element.LocalName == im {
				found = true
				break
			}
		}
		if !found {
			return
		}
		c.stackOfOpenElements.Pop()
	}
}

// https://html.spec.whatwg.org/multipage/parsing.html#close-a-p-element
func (c *HTMLTreeConstructor) closePElement() {
	c.generateImpliedEndTags("p")
	if cur := c.getCurrentNode(); cur == nil || cur.NodeType != spec.ElementNode || cur.Element.LocalName != "p" {
		c.errs.logError(generalParseError, 0)
	}
	c.stackOfOpenElements.PopUntil("p")
}

// https://html.spec.whatwg.org/multipage/parsing.html#reconstruct-the-active-formatting-elements
func (c *HTMLTreeConstructor) reconstructActiveFormattingElements() {
	afe := &c.activeFormattingElements
	if len(afe.NodeList) == 0 {
		return
	}

	last := len(afe.NodeList) - 1
	lafe := afe.NodeList[last]
	if lafe.NodeType == spec.ScopeMarkerNode || c.stackOfOpenElements.Contains(lafe) != -1 {
		return
	}

	// Rewind to the entry after the last marker or stack member.
	i := last
	for ; i >= 0; i-- {
		entry := afe.NodeList[i]
		if entry.NodeType == spec.ScopeMarkerNode || c.stackOfOpenElements.Contains(entry) != -1 {
			break
		}
	}

	// Advance: clone and re-insert each remaining entry in order.
	for i++; i < len(afe.NodeList); i++ {
		entry := afe.NodeList[i]
		clone := entry.CloneNode(false)
		loc := c.getAppropriatePlaceForInsertion(nil)
		loc.insert(clone)
		c.stackOfOpenElements.Push(clone)
		afe.NodeList[i] = clone
	}
}

// https://html.spec.whatwg.org/multipage/parsing.html#special
func isSpecial(n *spec.Node) bool {
	if n.NodeType != spec.ElementNode {
		return false
	}
	switch n.Element.NamespaceURI {
	case spec.Htmlns:
		switch n.Element.LocalName {
		case "address", "applet", "area", "article", "aside", "base", "basefont",
			"bgsound", "blockquote", "body", "br", "button", "caption", "center",
			"col", "colgroup", "dd", "details", "dir", "div", "dl", "dt", "embed",
			"fieldset", "figcaption", "figure", "footer", "form", "frame",
			"frameset", "h1", "h2", "h3", "h4", "h5", "h6", "head", "header",
			"hgroup", "hr", "html", "iframe", "img", "input", "keygen", "li",
			"link", "listing", "main", "marquee", "menu", "meta", "nav",
			"noembed", "noframes", "noscript", "object", "ol", "p", "param",
			"plaintext", "pre", "script", "section", "select", "source", "style",
			"summary", "table", "tbody", "td", "template", "textarea", "tfoot",
			"th", "thead", "title", "tr", "track", "ul", "wbr", "xmp":
			return true
		}
	case spec.Mathmlns:
		switch n.Element.LocalName {
		case "mi", "mo", "mn", "ms", "mtext", "annotation-xml":
			return true
		}
	case spec.Svgns:
		switch n.Element.LocalName {
		case "foreignObject", "desc", "title":
			return true
		}
	}
	return false
}

func isFormattingTag(name string) bool {
	switch name {
	case "a", "b", "big", "code", "em", "font", "i", "nobr", "s", "small",
		"strike", "strong", "tt", "u":
		return true
	}
	return false
}

// https://html.spec.whatwg.org/multipage/parsing.html#adoption-agency-algorithm
// Returns true when the caller should fall back to the "any other end tag"
// behavior.
func (c *HTMLTreeConstructor) adoptionAgencyAlgorithm(t *Token) (bool, parseError) {
	err := noError
	subject := webidl.DOMString(t.TagName)
	stack := &c.stackOfOpenElements.NodeList
	afe := &c.activeFormattingElements.NodeList

	cur := c.getCurrentNode()
	if cur != nil && cur.NodeType == spec.ElementNode &&
		cur.Element.NamespaceURI == spec.Htmlns && cur.Element.LocalName == subject &&
		afe.Contains(cur) == -1 {
		c.stackOfOpenElements.Pop()
		return false, noError
	}

	for x := 0; x < 8; x++ {
		// Find the formatting element: the last entry for subject after the
		// last marker.
		fi := -1
		for y := len(*afe) - 1; y >= 0; y-- {
			if (*afe)[y].NodeType == spec.ScopeMarkerNode {
				break
			}
			if (*afe)[y].NodeType == spec.ElementNode && (*afe)[y].Element.LocalName == subject {
				fi = y
				break
			}
		}
		if fi == -1 {
			return true, err
		}
		formattingElement := (*afe)[fi]

		si := stack.Contains(formattingElement)
		if si == -1 {
			afe.Remove(fi)
			return false, generalParseError
		}
		if !stack.ContainsNodeInScope(formattingElement) {
			return false, generalParseError
		}
		if formattingElement != c.getCurrentNode() {
			err = generalParseError
		}

		// Furthest block: the topmost special element below the formatting
		// element on the stack.
		var furthestBlock *spec.Node
		fbi := -1
		for z := si + 1; z < len(*stack); z++ {
			if isSpecial((*stack)[z]) {
				furthestBlock = (*stack)[z]
				fbi = z
				break
			}
		}
		if furthestBlock == nil {
			for c.getCurrentNode() != formattingElement {
				c.stackOfOpenElements.Pop()
			}
			c.stackOfOpenElements.Pop()
			afe.Remove(fi)
			return false, err
		}

		commonAncestor := (*stack)[si-1]
		bookmark := fi

		node, lastNode := furthestBlock, furthestBlock
		ni := fbi
		for a := 1; ; a++ {
			ni--
			node = (*stack)[ni]
			if node == formattingElement {
				break
			}
			nodeAfeIdx := afe.Contains(node)
			if a > 3 && nodeAfeIdx != -1 {
				afe.Remove(nodeAfeIdx)
				if nodeAfeIdx < bookmark {
					bookmark--
				}
				nodeAfeIdx = -1
			}
			if nodeAfeIdx == -1 {
				stack.Remove(ni)
				continue
			}

			clone := node.CloneNode(false)
			(*afe)[nodeAfeIdx] = clone
			(*stack)[ni] = clone
			node = clone

			if lastNode == furthestBlock {
				bookmark = nodeAfeIdx + 1
			}
			if lastNode.ParentNode != nil {
				lastNode.ParentNode.RemoveChild(lastNode)
			}
			node.AppendChild(lastNode)
			lastNode = node
		}

		if lastNode.ParentNode != nil {
			lastNode.ParentNode.RemoveChild(lastNode)
		}
		c.getAppropriatePlaceForInsertionWithTarget(commonAncestor).insert(lastNode)

		clone := formattingElement.CloneNode(false)
		for len(furthestBlock.ChildNodes) > 0 {
			clone.AppendChild(furthestBlock.ChildNodes[0])
		}
		furthestBlock.AppendChild(clone)

		f := afe.Contains(formattingElement)
		if f != -1 {
			afe.Remove(f)
			if f < bookmark {
				bookmark--
			}
			if bookmark > len(*afe) {
				bookmark = len(*afe)
			}
			afe.WedgeIn(bookmark, clone)
		}

		f = stack.Contains(formattingElement)
		if f != -1 {
			stack.Remove(f)
		}
		fb := stack.Contains(furthestBlock)
		if fb != -1 {
			if fb+1 >= len(*stack) {
				*stack = append(*stack, clone)
			} else {
				stack.WedgeIn(fb+1, clone)
			}
		}
	}

	return false, err
}

// getAppropriatePlaceForInsertionWithTarget honors foster parenting for an
// explicit override target.
func (c *HTMLTreeConstructor) getAppropriatePlaceForInsertionWithTarget(target *spec.Node) insertionLocation {
	if target.NodeType == spec.ElementNode {
		switch target.Element.LocalName {
		case "table", "tbody", "tfoot", "thead", "tr":
			if c.fosterParenting {
				return c.fosterParentingLocation()
			}
		}
	}
	loc := insertionLocation{parent: target}
	if loc.parent.NodeType == spec.ElementNode && loc.parent.Element.Template != nil {
		loc = insertionLocation{parent: loc.parent.Element.Template.Content}
	}
	return loc
}

// Generic raw-text and RCDATA element algorithms push the tokenizer into the
// matching state and save the insertion mode.
// https://html.spec.whatwg.org/multipage/parsing.html#generic-raw-text-element-parsing-algorithm
func (c *HTMLTreeConstructor) genericRawTextElementParsing(t *Token) insertionMode {
	c.insertHTMLElementForToken(t)
	c.setTokenizerState(rawTextState)
	c.originalInsertionMode = c.insertionMode
	return text
}

func (c *HTMLTreeConstructor) genericRCDATAElementParsing(t *Token) insertionMode {
	c.insertHTMLElementForToken(t)
	c.setTokenizerState(rcDataState)
	c.originalInsertionMode = c.insertionMode
	return text
}

func (c *HTMLTreeConstructor) setTokenizerState(state tokenizerState) {
	s := state
	c.nextTokenizerState = &s
}

func (c *HTMLTreeConstructor) clearStackBackToTableContext() {
	c.stackOfOpenElements.NodeList.PopUntilConditions(func(e *spec.Node) bool {
		if e.NodeType != spec.ElementNode {
			return false
		}
		switch e.Element.LocalName {
		case "table", "template", "html":
			return true
		}
		return false
	})
}

func (c *HTMLTreeConstructor) clearStackBackToTableBodyContext() {
	c.stackOfOpenElements.NodeList.PopUntilConditions(func(e *spec.Node) bool {
		if e.NodeType != spec.ElementNode {
			return false
		}
		switch e.Element.LocalName {
		case "tbody", "tfoot", "thead", "template", "html":
			return true
		}
		return false
	})
}

func (c *HTMLTreeConstructor) clearStackBackToTableRowContext() {
	c.stackOfOpenElements.NodeList.PopUntilConditions(func(e *spec.Node) bool {
		if e.NodeType != spec.ElementNode {
			return false
		}
		switch e.Element.LocalName {
		case "tr", "template", "html":
			return true
		}
		return false
	})
}

// https://html.spec.whatwg.org/multipage/parsing.html#reset-the-insertion-mode-appropriately
func (c *HTMLTreeConstructor) resetInsertionMode() insertionMode {
	return c.resetInsertionModeWithContext(c.context)
}

func (c *HTMLTreeConstructor) resetInsertionModeWithContext(context *spec.Node) insertionMode {
	last := false
	for i := len(c.stackOfOpenElements.NodeList) - 1; i >= 0; i-- {
		node := c.stackOfOpenElements.NodeList[i]
		if i == 0 {
			last = true
			if context != nil {
				node = context
			}
		}
		if node.NodeType != spec.ElementNode {
			continue
		}
		switch node.Element.LocalName {
		case "select":
			if !last {
				for j := i - 1; j > 0; j-- {
					ancestor := c.stackOfOpenElements.NodeList[j]
					if ancestor.NodeType != spec.ElementNode {
						continue
					}
					if ancestor.Element.LocalName == "template" {
						break
					}
					if ancestor.Element.LocalName == "table" {
						return inSelectInTable
					}
				}
			}
			return inSelect
		case "td", "th":
			if !last {
				return inCell
			}
		case "tr":
			return inRow
		case "tbody", "thead", "tfoot":
			return inTableBody
		case "caption":
			return inCaption
		case "colgroup":
			return inColumnGroup
		case "table":
			return inTable
		case "template":
			if len(c.stackOfTemplateInsertionModes) > 0 {
				return c.stackOfTemplateInsertionModes[len(c.stackOfTemplateInsertionModes)-1]
			}
			return inTemplate
		case "head":
			if !last {
				return inHead
			}
		case "body":
			return inBody
		case "frameset":
			return inFrameset
		case "html":
			if c.headElementPointer == nil {
				return beforeHead
			}
			return afterHead
		}
		if last {
			return inBody
		}
	}
	return inBody
}

// https://html.spec.whatwg.org/multipage/parsing.html#stop-parsing
func (c *HTMLTreeConstructor) stopParsing() (bool, insertionMode, parseError) {
	for len(c.stackOfOpenElements.NodeList) > 0 {
		c.stackOfOpenElements.Pop()
	}
	c.stopped = true
	return false, c.insertionMode, noError
}

// Doctype identifiers that force quirks mode on an exact match (the last one
// is a system identifier).
const w30DTDW3HTMLStrict3En string = "-//W3O//DTD W3 HTML Strict 3.0//EN//"
const w3cDTDHTML4TransitionalEN string = "-/W3C/DTD HTML 4.0 Transitional/EN"
const htmlString string = "HTML"
const ibmxhtml string = "http://www.ibm.com/data/dtd/v11/ibmxhtml1-transitional.dtd"

const w3cDTDHTML401Frameset string = "-//W3C//DTD HTML 4.01 Frameset//"
const w3cDTDHTML401Transitional string = "-//W3C//DTD HTML 4.01 Transitional//"
const w3cDTDXHTML1Frameset string = "-//W3C//DTD XHTML 1.0 Frameset//"
const w3cDTDXHTML1Transitional string = "-//W3C//DTD XHTML 1.0 Transitional//"

var knownPublicIdentifiers = []string{
	"+//Silmaril//dtd html Pro v0r11 19970101//",
	"-//AS//DTD HTML 3.0 asWedit + extensions//",
	"-//AdvaSoft Ltd//DTD HTML 3.0 asWedit + extensions//",
	"-//IETF//DTD HTML 2.0 Level 1//",
	"-//IETF//DTD HTML 2.0 Level 2//",
	"-//IETF//DTD HTML 2.0 Strict Level 1//",
	"-//IETF//DTD HTML 2.0 Strict Level 2//",
	"-//IETF//DTD HTML 2.0 Strict//",
	"-//IETF//DTD HTML 2.0//",
	"-//IETF//DTD HTML 2.1E//",
	"-//IETF//DTD HTML 3.0//",
	"-//IETF//DTD HTML 3.2 Final//",
	"-//IETF//DTD HTML 3.2//",
	"-//IETF//DTD HTML 3//",
	"-//IETF//DTD HTML Level 0//",
	"-//IETF//DTD HTML Level 1//",
	"-//IETF//DTD HTML Level 2//",
	"-//IETF//DTD HTML Level 3//",
	"-//IETF//DTD HTML Strict Level 0//",
	"-//IETF//DTD HTML Strict Level 1//",
	"-//IETF//DTD HTML Strict Level 2//",
	"-//IETF//DTD HTML Strict Level 3//",
	"-//IETF//DTD HTML Strict//",
	"-//IETF//DTD HTML//",
	"-//Metrius//DTD Metrius Presentational//",
	"-//Microsoft//DTD Internet Explorer 2.0 HTML Strict//",
	"-//Microsoft//DTD Internet Explorer 2.0 HTML//",
	"-//Microsoft//DTD Internet Explorer 2.0 Tables//",
	"-//Microsoft//DTD Internet Explorer 3.0 HTML Strict//",
	"-//Microsoft//DTD Internet Explorer 3.0 HTML//",
	"-//Microsoft//DTD Internet Explorer 3.0 Tables//",
	"-//Netscape Comm. Corp.//DTD HTML//",
	"-//Netscape Comm. Corp.//DTD Strict HTML//",
	"-//O'Reilly and Associates//DTD HTML 2.0//",
	"-//O'Reilly and Associates//DTD HTML Extended 1.0//",
	"-//O'Reilly and Associates//DTD HTML Extended Relaxed 1.0//",
	"-//SQ//DTD HTML 2.0 HoTMetaL + extensions//",
	"-//SoftQuad Software//DTD HoTMetaL PRO 6.0::19990601::extensions to HTML 4.0//",
	"-//SoftQuad//DTD HoTMetaL PRO 4.0::19971010::extensions to HTML 4.0//",
	"-//Spyglass//DTD HTML 2.0 Extended//",
	"-//Sun Microsystems Corp.//DTD HotJava HTML//",
	"-//Sun Microsystems Corp.//DTD HotJava Strict HTML//",
	"-//W3C//DTD HTML 3 1995-03-24//",
	"-//W3C//DTD HTML 3.2 Draft//",
	"-//W3C//DTD HTML 3.2 Final//",
	"-//W3C//DTD HTML 3.2//",
	"-//W3C//DTD HTML 3.2S Draft//",
	"-//W3C//DTD HTML 4.0 Frameset//",
	"-//W3C//DTD HTML 4.0 Transitional//",
	"-//W3C//DTD HTML Experimental 19960712//",
	"-//W3C//DTD HTML Experimental 970421//",
	"-//W3C//DTD W3 HTML//",
	"-//W3O//DTD W3 HTML 3.0//",
	"-//WebTechs//DTD Mozilla HTML 2.0//",
	"-//WebTechs//DTD Mozilla HTML//",
}

func (c *HTMLTreeConstructor) isIframeSrcDoc() bool {
	return false
}

func (c *HTMLTreeConstructor) isForceQuirks(t *Token) bool {
	if c.isIframeSrcDoc() {
		return false
	}
	if t.ForceQuirks {
		return true
	}
	if t.TagName != "html" {
		return true
	}
	switch t.PublicIdentifier {
	case w30DTDW3HTMLStrict3En, w3cDTDHTML4TransitionalEN, htmlString:
		return true
	}
	if t.SystemIdentifier == ibmxhtml {
		return true
	}
	for _, v := range knownPublicIdentifiers {
		if strings.HasPrefix(t.PublicIdentifier, v) {
			return true
		}
	}
	if t.SystemIdentifier == missing &&
		(strings.HasPrefix(t.PublicIdentifier, w3cDTDHTML401Frameset) ||
			strings.HasPrefix(t.PublicIdentifier, w3cDTDHTML401Transitional)) {
		return true
	}
	return false
}

func (c *HTMLTreeConstructor) isLimitedQuirks(t *Token) bool {
	if strings.HasPrefix(t.PublicIdentifier, w3cDTDXHTML1Frameset) {
		return true
	}
	if strings.HasPrefix(t.PublicIdentifier, w3cDTDXHTML1Transitional) {
		return true
	}
	if t.SystemIdentifier != missing {
		if strings.HasPrefix(t.PublicIdentifier, w3cDTDHTML401Frameset) {
			return true
		}
		if strings.HasPrefix(t.PublicIdentifier, w3cDTDHTML401Transitional) {
			return true
		}
	}
	return false
}

func isWhitespaceData(data string) bool {
	switch data {
	case "\u0009", "\u000A", "\u000C", "\u000D", " ":
		return true
	}
	return false
}

// https://html.spec.whatwg.org/multipage/parsing.html#the-initial-insertion-mode
func (c *HTMLTreeConstructor) initialModeHandler(t *Token) (bool, insertionMode, parseError) {
	err := noError
	switch t.TokenType {
	case characterToken:
		if isWhitespaceData(t.Data) {
			return false, initial, noError
		}
	case commentToken:
		c.insertCommentAt(t, insertionLocation{parent: c.HTMLDocument.Node})
		return false, initial, noError
	case docTypeToken:
		if t.TagName != "html" ||
			t.PublicIdentifier != missing ||
			(t.SystemIdentifier != missing && t.SystemIdentifier != "about:legacy-compat") {
			err = generalParseError
		}

		name, pub, sys := t.TagName, t.PublicIdentifier, t.SystemIdentifier
		doctype := spec.NewDocTypeNode(webidl.DOMString(name), webidl.DOMString(pub), webidl.DOMString(sys))
		doctype.OwnerDocument = c.HTMLDocument.Node
		c.HTMLDocument.AppendChild(doctype)
		c.HTMLDocument.Node.Document.Doctype = doctype

		if c.isForceQuirks(t) {
			c.quirksMode = spec.Quirks
		} else if c.isLimitedQuirks(t) {
			c.quirksMode = spec.LimitedQuirks
		} else {
			c.quirksMode = spec.NoQuirks
		}
		c.HTMLDocument.Node.Document.Mode = c.quirksMode
		return false, beforeHTML, err
	}
	if !c.isIframeSrcDoc() {
		c.quirksMode = spec.Quirks
		c.HTMLDocument.Node.Document.Mode = c.quirksMode
		err = generalParseError
	}
	return true, beforeHTML, err
}

func (c *HTMLTreeConstructor) defaultBeforeHTMLModeHandler(t *Token) (bool, insertionMode, parseError) {
	elem := spec.NewDOMElement(c.HTMLDocument.Node, "html", spec.Htmlns)
	c.HTMLDocument.AppendChild(elem)
	c.stackOfOpenElements.Push(elem)
	return true, beforeHead, noError
}

// https://html.spec.whatwg.org/multipage/parsing.html#the-before-html-insertion-mode
func (c *HTMLTreeConstructor) beforeHTMLModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case docTypeToken:
		return false, beforeHTML, generalParseError
	case commentToken:
		c.insertCommentAt(t, insertionLocation{parent: c.HTMLDocument.Node})
		return false, beforeHTML, noError
	case characterToken:
		if isWhitespaceData(t.Data) {
			return false, beforeHTML, noError
		}
	case startTagToken:
		if t.TagName == "html" {
			elem := c.createElementForToken(t, spec.Htmlns, c.HTMLDocument.Node)
			c.HTMLDocument.AppendChild(elem)
			c.stackOfOpenElements.Push(elem)
			return false, beforeHead, noError
		}
	case endTagToken:
		switch t.TagName {
		case "head", "body", "html", "br":
			return c.defaultBeforeHTMLModeHandler(t)
		default:
			return false, beforeHTML, generalParseError
		}
	}
	return c.defaultBeforeHTMLModeHandler(t)
}

func (c *HTMLTreeConstructor) defaultBeforeHeadModeHandler(t *Token) (bool, insertionMode, parseError) {
	elem := c.insertHTMLElementDirect("head")
	c.headElementPointer = elem
	return true, inHead, noError
}

func (c *HTMLTreeConstructor) beforeHeadModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if isWhitespaceData(t.Data) {
			return false, beforeHead, noError
		}
	case commentToken:
		c.insertComment(t)
		return false, beforeHead, noError
	case docTypeToken:
		return false, beforeHead, generalParseError
	case startTagToken:
		if t.TagName == "html" {
			return c.useRulesFor(t, beforeHead, inBody)
		}
		if t.TagName == "head" {
			elem := c.insertHTMLElementForToken(t)
			c.headElementPointer = elem
			return false, inHead, noError
		}
	case endTagToken:
		switch t.TagName {
		case "head", "body", "html", "br":
			return c.defaultBeforeHeadModeHandler(t)
		}
		return false, beforeHead, generalParseError
	}
	return c.defaultBeforeHeadModeHandler(t)
}

func (c *HTMLTreeConstructor) defaultInHeadModeHandler(t *Token) (bool, insertionMode, parseError) {
	c.stackOfOpenElements.Pop()
	return true, afterHead, noError
}

func (c *HTMLTreeConstructor) inHeadModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if isWhitespaceData(t.Data) {
			c.insertCharacter(t)
			return false, inHead, noError
		}
	case commentToken:
		c.insertComment(t)
		return false, inHead, noError
	case docTypeToken:
		return false, inHead, generalParseError
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inHead, inBody)
		case "base", "basefont", "bgsound", "link":
			c.insertHTMLElementForToken(t)
			c.stackOfOpenElements.Pop()
			t.SelfClosingAcknowledged = true
			return false, inHead, noError
		case "meta":
			c.insertHTMLElementForToken(t)
			c.stackOfOpenElements.Pop()
			t.SelfClosingAcknowledged = true
			return false, inHead, noError
		case "title":
			return false, c.genericRCDATAElementParsing(t), noError
		case "noscript":
			if c.scriptingEnabled {
				return false, c.genericRawTextElementParsing(t), noError
			}
			c.insertHTMLElementForToken(t)
			return false, inHeadNoScript, noError
		case "noframes", "style":
			return false, c.genericRawTextElementParsing(t), noError
		case "script":
			loc := c.getAppropriatePlaceForInsertion(nil)
			elem := c.createElementForToken(t, spec.Htmlns, loc.parent)
			loc.insert(elem)
			c.stackOfOpenElements.Push(elem)
			c.setTokenizerState(scriptDataState)
			c.originalInsertionMode = c.insertionMode
			return false, text, noError
		case "template":
			c.insertHTMLElementForToken(t)
			c.activeFormattingElements.PushMarker()
			c.framesetOK = false
			c.stackOfTemplateInsertionModes = append(c.stackOfTemplateInsertionModes, inTemplate)
			return false, inTemplate, noError
		case "head":
			return false, inHead, generalParseError
		}
	case endTagToken:
		switch t.TagName {
		case "head":
			c.stackOfOpenElements.Pop()
			return false, afterHead, noError
		case "body", "html", "br":
			return c.defaultInHeadModeHandler(t)
		case "template":
			return c.inHeadTemplateEndTag()
		default:
			return false, inHead, generalParseError
		}
	}
	return c.defaultInHeadModeHandler(t)
}

func (c *HTMLTreeConstructor) inHeadTemplateEndTag() (bool, insertionMode, parseError) {
	if !c.stackHasTemplate() {
		return false, c.insertionMode, generalParseError
	}
	c.generateAllImpliedEndTagsThoroughly()
	err := noError
	if cur := c.getCurrentNode(); cur == nil || cur.NodeType != spec.ElementNode || cur.Element.LocalName != "template" {
		err = generalParseError
	}
	c.stackOfOpenElements.PopUntil("template")
	c.activeFormattingElements.ClearToLastMarker()
	if len(c.stackOfTemplateInsertionModes) > 0 {
		c.stackOfTemplateInsertionModes = c.stackOfTemplateInsertionModes[:len(c.stackOfTemplateInsertionModes)-1]
	}
	return false, c.resetInsertionMode(), err
}

func (c *HTMLTreeConstructor) stackHasTemplate() bool {
	for _, n := range c.stackOfOpenElements.NodeList {
		if n.NodeType == spec.ElementNode && n.Element.NamespaceURI == spec.Htmlns &&
			n.Element.LocalName == "template" {
			return true
		}
	}
	return false
}

func (c *HTMLTreeConstructor) defaultInHeadNoScriptModeHandler(t *Token) (bool, insertionMode, parseError) {
	c.stackOfOpenElements.Pop()
	return true, inHead, generalParseError
}

func (c *HTMLTreeConstructor) inHeadNoScriptModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if isWhitespaceData(t.Data) {
			return c.useRulesFor(t, inHeadNoScript, inHead)
		}
	case commentToken:
		return c.useRulesFor(t, inHeadNoScript, inHead)
	case docTypeToken:
		return false, inHeadNoScript, generalParseError
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inHeadNoScript, inBody)
		case "basefont", "bgsound", "link", "meta", "noframes", "style":
			return c.useRulesFor(t, inHeadNoScript, inHead)
		case "head", "noscript":
			return false, inHeadNoScript, generalParseError
		}
	case endTagToken:
		switch t.TagName {
		case "noscript":
			c.stackOfOpenElements.Pop()
			return false, inHead, noError
		case "br":
			return c.defaultInHeadNoScriptModeHandler(t)
		default:
			return false, inHeadNoScript, generalParseError
		}
	}
	return c.defaultInHeadNoScriptModeHandler(t)
}

func (c *HTMLTreeConstructor) defaultAfterHeadModeHandler(t *Token) (bool, insertionMode, parseError) {
	c.insertHTMLElementDirect("body")
	return true, inBody, noError
}

func (c *HTMLTreeConstructor) afterHeadModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if isWhitespaceData(t.Data) {
			c.insertCharacter(t)
			return false, afterHead, noError
		}
	case commentToken:
		c.insertComment(t)
		return false, afterHead, noError
	case docTypeToken:
		return false, afterHead, generalParseError
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, afterHead, inBody)
		case "body":
			c.insertHTMLElementForToken(t)
			c.framesetOK = false
			return false, inBody, noError
		case "frameset":
			c.insertHTMLElementForToken(t)
			return false, inFrameset, noError
		case "base", "basefont", "bgsound", "link", "meta", "noframes", "script", "style", "template", "title":
			c.stackOfOpenElements.Push(c.headElementPointer)
			reprocess, nextmode, err := c.useRulesFor(t, afterHead, inHead)
			c.stackOfOpenElements.NodeList.RemoveNode(c.headElementPointer)
			if err == noError {
				err = generalParseError
			}
			return reprocess, nextmode, err
		case "head":
			return false, afterHead, generalParseError
		}
	case endTagToken:
		switch t.TagName {
		case "template":
			return c.useRulesFor(t, afterHead, inHead)
		case "body", "html", "br":
			return c.defaultAfterHeadModeHandler(t)
		default:
			return false, afterHead, generalParseError
		}
	}
	return c.defaultAfterHeadModeHandler(t)
}

// defaultInBodyEndTagHandler is the "any other end tag" behavior.
func (c *HTMLTreeConstructor) defaultInBodyEndTagHandler(t *Token) (bool, insertionMode, parseError) {
	stack := c.stackOfOpenElements.NodeList
	for i := len(stack) - 1; i >= 0; i-- {
		node := stack[i]
		if node.NodeType == spec.ElementNode && node.Element.NamespaceURI == spec.Htmlns &&
			node.Element.LocalName == webidl.DOMString(t.TagName) {
			c.generateImpliedEndTags(webidl.DOMString(t.TagName))
			err := noError
			if node != c.getCurrentNode() {
				err = generalParseError
			}
			for c.getCurrentNode() != node {
				c.stackOfOpenElements.Pop()
			}
			c.stackOfOpenElements.Pop()
			return false, inBody, err
		}
		if isSpecial(node) {
			return false, inBody, generalParseError
		}
	}
	return false, inBody, noError
}

// https://html.spec.whatwg.org/multipage/parsing.html#parsing-main-inbody
func (c *HTMLTreeConstructor) inBodyModeHandler(t *Token) (bool, insertionMode, parseError) {
	err := noError
	switch t.TokenType {
	case characterToken:
		if t.Data == "\u0000" {
			return false, inBody, generalParseError
		}
		if isWhitespaceData(t.Data) {
			c.reconstructActiveFormattingElements()
			c.insertCharacter(t)
			return false, inBody, noError
		}
		c.reconstructActiveFormattingElements()
		c.insertCharacter(t)
		c.framesetOK = false
		return false, inBody, noError
	case commentToken:
		c.insertComment(t)
		return false, inBody, noError
	case docTypeToken:
		return false, inBody, generalParseError
	case startTagToken:
		switch t.TagName {
		case "html":
			err = generalParseError
			if c.stackHasTemplate() {
				return false, inBody, err
			}
			top := c.stackOfOpenElements.NodeList[0]
			for _, attr := range t.Attributes {
				if !top.HasAttribute(webidl.DOMString(attr.Name)) {
					top.SetAttribute(webidl.DOMString(attr.Name), webidl.DOMString(attr.Value))
				}
			}
			return false, inBody, err
		case "base", "basefont", "bgsound", "link", "meta", "noframes", "script", "style", "template", "title":
			return c.useRulesFor(t, inBody, inHead)
		case "body":
			err = generalParseError
			if len(c.stackOfOpenElements.NodeList) < 2 || c.stackHasTemplate() {
				return false, inBody, err
			}
			second := c.stackOfOpenElements.NodeList[1]
			if second.NodeType != spec.ElementNode || second.Element.LocalName != "body" {
				return false, inBody, err
			}
			c.framesetOK = false
			for _, attr := range t.Attributes {
				if !second.HasAttribute(webidl.DOMString(attr.Name)) {
					second.SetAttribute(webidl.DOMString(attr.Name), webidl.DOMString(attr.Value))
				}
			}
			return false, inBody, err
		case "frameset":
			err = generalParseError
			if len(c.stackOfOpenElements.NodeList) < 2 || !c.framesetOK {
				return false, inBody, err
			}
			second := c.stackOfOpenElements.NodeList[1]
			if second.NodeType != spec.ElementNode || second.Element.LocalName != "body" {
				return false, inBody, err
			}
			if second.ParentNode != nil {
				second.ParentNode.RemoveChild(second)
			}
			for len(c.stackOfOpenElements.NodeList) > 1 {
				c.stackOfOpenElements.Pop()
			}
			c.insertHTMLElementForToken(t)
			return false, inFrameset, err
		case "address", "article", "aside", "blockquote", "center", "details",
			"dialog", "dir", "div", "dl", "fieldset", "figcaption", "figure",
			"footer", "header", "hgroup", "main", "menu", "nav", "ol", "p",
			"section", "summary", "ul":
			if c.stackOfOpenElements.ContainsElementInButtonScope("p") {
				c.closePElement()
			}
			c.insertHTMLElementForToken(t)
			return false, inBody, noError
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if c.stackOfOpenElements.ContainsElementInButtonScope("p") {
				c.closePElement()
			}
			if cur := c.getCurrentNode(); cur != nil && cur.NodeType == spec.ElementNode {
				switch cur.Element.LocalName {
				case "h1", "h2", "h3", "h4", "h5", "h6":
					err = generalParseError
					c.stackOfOpenElements.Pop()
				}
			}
			c.insertHTMLElementForToken(t)
			return false, inBody, err
		case "pre", "listing":
			if c.stackOfOpenElements.ContainsElementInButtonScope("p") {
				c.closePElement()
			}
			c.insertHTMLElementForToken(t)
			c.ignoreNextLineFeed = true
			c.framesetOK = false
			return false, inBody, noError
		case "form":
			if c.formElementPointer != nil && !c.stackHasTemplate() {
				return false, inBody, generalParseError
			}
			if c.stackOfOpenElements.ContainsElementInButtonScope("p") {
				c.closePElement()
			}
			elem := c.insertHTMLElementForToken(t)
			if !c.stackHasTemplate() {
				c.formElementPointer = elem
			}
			return false, inBody, noError
		case "li":
			c.framesetOK = false
			for i := len(c.stackOfOpenElements.NodeList) - 1; i >= 0; i-- {
				node := c.stackOfOpenElements.NodeList[i]
				if node.NodeType != spec.ElementNode {
					continue
				}
				if node.Element.LocalName == "li" {
					c.generateImpliedEndTags("li")
					if c.getCurrentNode().Element.LocalName != "li" {
						err = generalParseError
					}
					c.stackOfOpenElements.PopUntil("li")
					break
				}
				if isSpecial(node) && node.Element.LocalName != "address" &&
					node.Element.LocalName != "div" && node.Element.LocalName != "p" {
					break
				}
			}
			if c.stackOfOpenElements.ContainsElementInButtonScope("p") {
				c.closePElement()
			}
			c.insertHTMLElementForToken(t)
			return false, inBody, err
		case "dd", "dt":
			c.framesetOK = false
			for i := len(c.stackOfOpenElements.NodeList) - 1; i >= 0; i-- {
				node := c.stackOfOpenElements.NodeList[i]
				if node.NodeType != spec.ElementNode {
					continue
				}
				if node.Element.LocalName == "dd" || node.Element.LocalName == "dt" {
					name := node.Element.LocalName
					c.generateImpliedEndTags(name)
					if c.getCurrentNode().Element.LocalName != name {
						err = generalParseError
					}
					c.stackOfOpenElements.PopUntil(name)
					break
				}
				if isSpecial(node) && node.Element.LocalName != "address" &&
					node.Element.LocalName != "div" && node.Element.LocalName != "p" {
					break
				}
			}
			if c.stackOfOpenElements.ContainsElementInButtonScope("p") {
				c.closePElement()
			}
			c.insertHTMLElementForToken(t)
			return false, inBody, err
		case "plaintext":
			if c.stackOfOpenElements.ContainsElementInButtonScope("p") {
				c.closePElement()
			}
			c.insertHTMLElementForToken(t)
			c.setTokenizerState(plaintextState)
			return false, inBody, noError
		case "button":
			if c.stackOfOpenElements.ContainsElementInScope("button") {
				err = generalParseError
				c.generateImpliedEndTags()
				c.stackOfOpenElements.PopUntil("button")
			}
			c.reconstructActiveFormattingElements()
			c.insertHTMLElementForToken(t)
			c.framesetOK = false
			return false, inBody, err
		case "a":
			// An a element inside another a re-runs the adoption agency.
			afe := c.activeFormattingElements.NodeList
			for i := len(afe) - 1; i >= 0; i-- {
				if afe[i].NodeType == spec.ScopeMarkerNode {
					break
				}
				if afe[i].NodeType == spec.ElementNode && afe[i].Element.LocalName == "a" {
					err = generalParseError
					prior := afe[i]
					c.adoptionAgencyAlgorithm(&Token{TokenType: endTagToken, TagName: "a"})
					c.activeFormattingElements.NodeList.RemoveNode(prior)
					c.stackOfOpenElements.NodeList.RemoveNode(prior)
					break
				}
			}
			c.reconstructActiveFormattingElements()
			elem := c.insertHTMLElementForToken(t)
			c.activeFormattingElements.Push(elem)
			return false, inBody, err
		case "b", "big", "code", "em", "font", "i", "s", "small", "strike", "strong", "tt", "u":
			c.reconstructActiveFormattingElements()
			elem := c.insertHTMLElementForToken(t)
			c.activeFormattingElements.Push(elem)
			return false, inBody, noError
		case "nobr":
			c.reconstructActiveFormattingElements()
			if c.stackOfOpenElements.ContainsElementInScope("nobr") {
				err = generalParseError
				c.adoptionAgencyAlgorithm(&Token{TokenType: endTagToken, TagName: "nobr"})
				c.reconstructActiveFormattingElements()
			}
			elem := c.insertHTMLElementForToken(t)
			c.activeFormattingElements.Push(elem)
			return false, inBody, err
		case "applet", "marquee", "object":
			c.reconstructActiveFormattingElements()
			c.insertHTMLElementForToken(t)
			c.activeFormattingElements.PushMarker()
			c.framesetOK = false
			return false, inBody, noError
		case "table":
			if c.quirksMode != spec.Quirks && c.stackOfOpenElements.ContainsElementInButtonScope("p") {
				c.closePElement()
			}
			c.insertHTMLElementForToken(t)
			c.framesetOK = false
			return false, inTable, noError
		case "area", "br", "embed", "img", "keygen", "wbr":
			c.reconstructActiveFormattingElements()
			c.insertHTMLElementForToken(t)
			c.stackOfOpenElements.Pop()
			t.SelfClosingAcknowledged = true
			c.framesetOK = false
			return false, inBody, noError
		case "input":
			c.reconstructActiveFormattingElements()
			c.insertHTMLElementForToken(t)
			c.stackOfOpenElements.Pop()
			t.SelfClosingAcknowledged = true
			if typ, ok := t.Attr("type"); !ok || !strings.EqualFold(typ, "hidden") {
				c.framesetOK = false
			}
			return false, inBody, noError
		case "param", "source", "track":
			c.insertHTMLElementForToken(t)
			c.stackOfOpenElements.Pop()
			t.SelfClosingAcknowledged = true
			return false, inBody, noError
		case "hr":
			if c.stackOfOpenElements.ContainsElementInButtonScope("p") {
				c.closePElement()
			}
			c.insertHTMLElementForToken(t)
			c.stackOfOpenElements.Pop()
			t.SelfClosingAcknowledged = true
			c.framesetOK = false
			return false, inBody, noError
		case "image":
			// Don't ask.
			t.TagName = "img"
			return true, inBody, generalParseError
		case "textarea":
			c.insertHTMLElementForToken(t)
			c.ignoreNextLineFeed = true
			c.setTokenizerState(rcDataState)
			c.originalInsertionMode = inBody
			c.framesetOK = false
			return false, text, noError
		case "xmp":
			if c.stackOfOpenElements.ContainsElementInButtonScope("p") {
				c.closePElement()
			}
			c.reconstructActiveFormattingElements()
			c.framesetOK = false
			return false, c.genericRawTextElementParsing(t), noError
		case "iframe":
			c.framesetOK = false
			return false, c.genericRawTextElementParsing(t), noError
		case "noembed":
			return false, c.genericRawTextElementParsing(t), noError
		case "noscript":
			if c.scriptingEnabled {
				return false, c.genericRawTextElementParsing(t), noError
			}
			c.reconstructActiveFormattingElements()
			c.insertHTMLElementForToken(t)
			return false, inBody, noError
		case "select":
			c.reconstructActiveFormattingElements()
			c.insertHTMLElementForToken(t)
			c.framesetOK = false
			switch c.insertionMode {
			case inTable, inCaption, inTableBody, inRow, inCell:
				return false, inSelectInTable, noError
			}
			return false, inSelect, noError
		case "optgroup", "option":
			if cur := c.getCurrentNode(); cur != nil && cur.NodeType == spec.ElementNode &&
				cur.Element.LocalName == "option" {
				c.stackOfOpenElements.Pop()
			}
			c.reconstructActiveFormattingElements()
			c.insertHTMLElementForToken(t)
			return false, inBody, noError
		case "rb", "rtc":
			if c.stackOfOpenElements.ContainsElementInScope("ruby") {
				c.generateImpliedEndTags()
				if cur := c.getCurrentNode(); cur == nil || cur.Element == nil ||
					cur.Element.LocalName != "ruby" {
					err = generalParseError
				}
			}
			c.insertHTMLElementForToken(t)
			return false, inBody, err
		case "rp", "rt":
			if c.stackOfOpenElements.ContainsElementInScope("ruby") {
				c.generateImpliedEndTags("rtc")
				if cur := c.getCurrentNode(); cur == nil || cur.Element == nil ||
					(cur.Element.LocalName != "ruby" && cur.Element.LocalName != "rtc") {
					err = generalParseError
				}
			}
			c.insertHTMLElementForToken(t)
			return false, inBody, err
		case "math":
			c.reconstructActiveFormattingElements()
			adjustMathMLAttributes(t)
			adjustForeignAttributes(t)
			c.insertForeignElementForToken(t, spec.Mathmlns)
			if t.SelfClosing {
				c.stackOfOpenElements.Pop()
				t.SelfClosingAcknowledged = true
			}
			return false, inBody, noError
		case "svg":
			c.reconstructActiveFormattingElements()
			adjustSVGAttributes(t)
			adjustForeignAttributes(t)
			c.insertForeignElementForToken(t, spec.Svgns)
			if t.SelfClosing {
				c.stackOfOpenElements.Pop()
				t.SelfClosingAcknowledged = true
			}
			return false, inBody, noError
		case "caption", "col", "colgroup", "frame", "head", "tbody", "td",
			"tfoot", "th", "thead", "tr":
			return false, inBody, generalParseError
		default:
			c.reconstructActiveFormattingElements()
			c.insertHTMLElementForToken(t)
			return false, inBody, noError
		}
	case endTagToken:
		switch t.TagName {
		case "template":
			return c.useRulesFor(t, inBody, inHead)
		case "body":
			if !c.stackOfOpenElements.ContainsElementInScope("body") {
				return false, inBody, generalParseError
			}
			return false, afterBody, c.checkLeftoverOpenElements()
		case "html":
			if !c.stackOfOpenElements.ContainsElementInScope("body") {
				return false, inBody, generalParseError
			}
			return true, afterBody, c.checkLeftoverOpenElements()
		case "address", "article", "aside", "blockquote", "button", "center",
			"details", "dialog", "dir", "div", "dl", "fieldset", "figcaption",
			"figure", "footer", "header", "hgroup", "listing", "main", "menu",
			"nav", "ol", "pre", "section", "summary", "ul":
			if !c.stackOfOpenElements.ContainsElementInScope(webidl.DOMString(t.TagName)) {
				return false, inBody, generalParseError
			}
			c.generateImpliedEndTags()
			if cur := c.getCurrentNode(); cur == nil || cur.Element == nil ||
				cur.Element.LocalName != webidl.DOMString(t.TagName) {
				err = generalParseError
			}
			c.stackOfOpenElements.PopUntil(webidl.DOMString(t.TagName))
			return false, inBody, err
		case "form":
			if !c.stackHasTemplate() {
				node := c.formElementPointer
				c.formElementPointer = nil
				if node == nil || !c.stackOfOpenElements.ContainsNodeInScope(node) {
					return false, inBody, generalParseError
				}
				c.generateImpliedEndTags()
				if c.getCurrentNode() != node {
					err = generalParseError
				}
				c.stackOfOpenElements.NodeList.RemoveNode(node)
				return false, inBody, err
			}
			if !c.stackOfOpenElements.ContainsElementInScope("form") {
				return false, inBody, generalParseError
			}
			c.generateImpliedEndTags()
			if cur := c.getCurrentNode(); cur == nil || cur.Element == nil ||
				cur.Element.LocalName != "form" {
				err = generalParseError
			}
			c.stackOfOpenElements.PopUntil("form")
			return false, inBody, err
		case "p":
			if !c.stackOfOpenElements.ContainsElementInButtonScope("p") {
				err = generalParseError
				c.insertHTMLElementDirect("p")
			}
			c.closePElement()
			return false, inBody, err
		case "li":
			if !c.stackOfOpenElements.ContainsElementInListItemScope("li") {
				return false, inBody, generalParseError
			}
			c.generateImpliedEndTags("li")
			if cur := c.getCurrentNode(); cur == nil || cur.Element == nil ||
				cur.Element.LocalName != "li" {
				err = generalParseError
			}
			c.stackOfOpenElements.PopUntil("li")
			return false, inBody, err
		case "dd", "dt":
			if !c.stackOfOpenElements.ContainsElementInScope(webidl.DOMString(t.TagName)) {
				return false, inBody, generalParseError
			}
			c.generateImpliedEndTags(webidl.DOMString(t.TagName))
			if cur := c.getCurrentNode(); cur == nil || cur.Element == nil ||
				cur.Element.LocalName != webidl.DOMString(t.TagName) {
				err = generalParseError
			}
			c.stackOfOpenElements.PopUntil(webidl.DOMString(t.TagName))
			return false, inBody, err
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if !c.stackOfOpenElements.ContainsElementsInScope("h1", "h2", "h3", "h4", "h5", "h6") {
				return false, inBody, generalParseError
			}
			c.generateImpliedEndTags()
			if cur := c.getCurrentNode(); cur == nil || cur.Element == nil ||
				cur.Element.LocalName != webidl.DOMString(t.TagName) {
				err = generalParseError
			}
			c.stackOfOpenElements.PopUntil("h1", "h2", "h3", "h4", "h5", "h6")
			return false, inBody, err
		case "sarcasm":
			// Take a deep breath, then process as any other end tag.
			return c.defaultInBodyEndTagHandler(t)
		case "a", "b", "big", "code", "em", "font", "i", "nobr", "s", "small",
			"strike", "strong", "tt", "u":
			var shouldDefault bool
			shouldDefault, err = c.adoptionAgencyAlgorithm(t)
			if shouldDefault {
				return c.defaultInBodyEndTagHandler(t)
			}
			return false, inBody, err
		case "applet", "marquee", "object":
			if !c.stackOfOpenElements.ContainsElementInScope(webidl.DOMString(t.TagName)) {
				return false, inBody, generalParseError
			}
			c.generateImpliedEndTags()
			if cur := c.getCurrentNode(); cur == nil || cur.Element == nil ||
				cur.Element.LocalName != webidl.DOMString(t.TagName) {
				err = generalParseError
			}
			c.stackOfOpenElements.PopUntil(webidl.DOMString(t.TagName))
			c.activeFormattingElements.ClearToLastMarker()
			return false, inBody, err
		case "br":
			t.Attributes = nil
			t.TokenType = startTagToken
			return true, inBody, generalParseError
		default:
			return c.defaultInBodyEndTagHandler(t)
		}
	case endOfFileToken:
		if len(c.stackOfTemplateInsertionModes) > 0 {
			return c.useRulesFor(t, inBody, inTemplate)
		}
		err = c.checkLeftoverOpenElements()
		_, mode, _ := c.stopParsing()
		return false, mode, err
	}
	return false, inBody, err
}

// checkLeftoverOpenElements reports elements still open when the body or
// stream closes.
func (c *HTMLTreeConstructor) checkLeftoverOpenElements() parseError {
	for _, n := range c.stackOfOpenElements.NodeList {
		if n.NodeType != spec.ElementNode {
			continue
		}
		switch n.Element.LocalName {
		case "dd", "dt", "li", "optgroup", "option", "p", "rb", "rp", "rt",
			"rtc", "tbody", "td", "tfoot", "th", "thead", "tr", "body", "html":
		default:
			return generalParseError
		}
	}
	return noError
}

func (c *HTMLTreeConstructor) textModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		c.insertCharacter(t)
		return false, text, noError
	case endOfFileToken:
		c.stackOfOpenElements.Pop()
		return true, c.originalInsertionMode, generalParseError
	case endTagToken:
		c.stackOfOpenElements.Pop()
		return false, c.originalInsertionMode, noError
	}
	return false, text, noError
}

func (c *HTMLTreeConstructor) defaultInTableModeHandler(t *Token) (bool, insertionMode, parseError) {
	// Foster parenting: anything else re-runs under in-body rules with the
	// alternate insertion location.
	c.fosterParenting = true
	reprocess, mode, _ := c.useRulesFor(t, inTable, inBody)
	c.fosterParenting = false
	return reprocess, mode, generalParseError
}

func (c *HTMLTreeConstructor) inTableModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if cur := c.getCurrentNode(); cur != nil && cur.NodeType == spec.ElementNode {
			switch cur.Element.LocalName {
			case "table", "tbody", "tfoot", "thead", "tr":
				c.pendingTableCharacters = nil
				c.originalInsertionMode = inTable
				return true, inTableText, noError
			}
		}
		return c.defaultInTableModeHandler(t)
	case commentToken:
		c.insertComment(t)
		return false, inTable, noError
	case docTypeToken:
		return false, inTable, generalParseError
	case startTagToken:
		switch t.TagName {
		case "caption":
			c.clearStackBackToTableContext()
			c.activeFormattingElements.PushMarker()
			c.insertHTMLElementForToken(t)
			return false, inCaption, noError
		case "colgroup":
			c.clearStackBackToTableContext()
			c.insertHTMLElementForToken(t)
			return false, inColumnGroup, noError
		case "col":
			c.clearStackBackToTableContext()
			c.insertHTMLElementDirect("colgroup")
			return true, inColumnGroup, noError
		case "tbody", "tfoot", "thead":
			c.clearStackBackToTableContext()
			c.insertHTMLElementForToken(t)
			return false, inTableBody, noError
		case "td", "th", "tr":
			c.clearStackBackToTableContext()
			c.insertHTMLElementDirect("tbody")
			return true, inTableBody, noError
		case "table":
			if !c.stackOfOpenElements.ContainsElementInTableScope("table") {
				return false, inTable, generalParseError
			}
			c.stackOfOpenElements.PopUntil("table")
			return true, c.resetInsertionMode(), generalParseError
		case "style", "script", "template":
			return c.useRulesFor(t, inTable, inHead)
		case "input":
			typ, ok := t.Attr("type")
			if !ok || !strings.EqualFold(typ, "hidden") {
				return c.defaultInTableModeHandler(t)
			}
			c.insertHTMLElementForToken(t)
			c.stackOfOpenElements.Pop()
			t.SelfClosingAcknowledged = true
			return false, inTable, generalParseError
		case "form":
			if c.stackHasTemplate() || c.formElementPointer != nil {
				return false, inTable, generalParseError
			}
			elem := c.insertHTMLElementForToken(t)
			c.formElementPointer = elem
			c.stackOfOpenElements.Pop()
			return false, inTable, generalParseError
		}
	case endTagToken:
		switch t.TagName {
		case "table":
			if !c.stackOfOpenElements.ContainsElementInTableScope("table") {
				return false, inTable, generalParseError
			}
			c.stackOfOpenElements.PopUntil("table")
			return false, c.resetInsertionMode(), noError
		case "body", "caption", "col", "colgroup", "html", "tbody", "td",
			"tfoot", "th", "thead", "tr":
			return false, inTable, generalParseError
		case "template":
			return c.useRulesFor(t, inTable, inHead)
		}
	case endOfFileToken:
		return c.useRulesFor(t, inTable, inBody)
	}
	return c.defaultInTableModeHandler(t)
}

func (c *HTMLTreeConstructor) inTableTextModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if t.Data == "\u0000" {
			return false, inTableText, generalParseError
		}
		c.pendingTableCharacters = append(c.pendingTableCharacters, t)
		return false, inTableText, noError
	}

	// Flush: whitespace-only runs insert normally; anything else foster
	// parents through the in-body rules.
	allWhitespace := true
	for _, ct := range c.pendingTableCharacters {
		if !isWhitespaceData(ct.Data) {
			allWhitespace = false
			break
		}
	}
	err := noError
	if allWhitespace {
		for _, ct := range c.pendingTableCharacters {
			c.insertCharacter(ct)
		}
	} else {
		err = generalParseError
		c.fosterParenting = true
		for _, ct := range c.pendingTableCharacters {
			c.reconstructActiveFormattingElements()
			c.insertCharacter(ct)
			c.framesetOK = false
		}
		c.fosterParenting = false
	}
	c.pendingTableCharacters = nil
	return true, c.originalInsertionMode, err
}

func (c *HTMLTreeConstructor) inCaptionModeHandler(t *Token) (bool, insertionMode, parseError) {
	closeCaption := func() (insertionMode, parseError) {
		if !c.stackOfOpenElements.ContainsElementInTableScope("caption") {
			return inCaption, generalParseError
		}
		c.generateImpliedEndTags()
		err := noError
		if cur := c.getCurrentNode(); cur == nil || cur.Element == nil ||
			cur.Element.LocalName != "caption" {
			err = generalParseError
		}
		c.stackOfOpenElements.PopUntil("caption")
		c.activeFormattingElements.ClearToLastMarker()
		return inTable, err
	}

	switch t.TokenType {
	case startTagToken:
		switch t.TagName {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr":
			mode, err := closeCaption()
			if mode == inCaption {
				return false, inCaption, err
			}
			return true, mode, err
		}
	case endTagToken:
		switch t.TagName {
		case "caption":
			mode, err := closeCaption()
			return false, mode, err
		case "table":
			mode, err := closeCaption()
			if mode == inCaption {
				return false, inCaption, err
			}
			return true, mode, err
		case "body", "col", "colgroup", "html", "tbody", "td", "tfoot", "th", "thead", "tr":
			return false, inCaption, generalParseError
		}
	}
	return c.useRulesFor(t, inCaption, inBody)
}

func (c *HTMLTreeConstructor) defaultInColumnGroupModeHandler(t *Token) (bool, insertionMode, parseError) {
	if cur := c.getCurrentNode(); cur == nil || cur.Element == nil ||
		cur.Element.LocalName != "colgroup" {
		return false, inColumnGroup, generalParseError
	}
	c.stackOfOpenElements.Pop()
	return true, inTable, noError
}

func (c *HTMLTreeConstructor) inColumnGroupModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if isWhitespaceData(t.Data) {
			c.insertCharacter(t)
			return false, inColumnGroup, noError
		}
	case commentToken:
		c.insertComment(t)
		return false, inColumnGroup, noError
	case docTypeToken:
		return false, inColumnGroup, generalParseError
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inColumnGroup, inBody)
		case "col":
			c.insertHTMLElementForToken(t)
			c.stackOfOpenElements.Pop()
			t.SelfClosingAcknowledged = true
			return false, inColumnGroup, noError
		case "template":
			return c.useRulesFor(t, inColumnGroup, inHead)
		}
	case endTagToken:
		switch t.TagName {
		case "colgroup":
			if cur := c.getCurrentNode(); cur == nil || cur.Element == nil ||
				cur.Element.LocalName != "colgroup" {
				return false, inColumnGroup, generalParseError
			}
			c.stackOfOpenElements.Pop()
			return false, inTable, noError
		case "col":
			return false, inColumnGroup, generalParseError
		case "template":
			return c.useRulesFor(t, inColumnGroup, inHead)
		}
	case endOfFileToken:
		return c.useRulesFor(t, inColumnGroup, inBody)
	}
	return c.defaultInColumnGroupModeHandler(t)
}

func (c *HTMLTreeConstructor) inTableBodyModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case startTagToken:
		switch t.TagName {
		case "tr":
			c.clearStackBackToTableBodyContext()
			c.insertHTMLElementForToken(t)
			return false, inRow, noError
		case "th", "td":
			c.clearStackBackToTableBodyContext()
			c.insertHTMLElementDirect("tr")
			return true, inRow, generalParseError
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead":
			if !c.stackOfOpenElements.ContainsElementInTableScope("tbody") &&
				!c.stackOfOpenElements.ContainsElementInTableScope("thead") &&
				!c.stackOfOpenElements.ContainsElementInTableScope("tfoot") {
				return false, inTableBody, generalParseError
			}
			c.clearStackBackToTableBodyContext()
			c.stackOfOpenElements.Pop()
			return true, inTable, noError
		}
	case endTagToken:
		switch t.TagName {
		case "tbody", "tfoot", "thead":
			if !c.stackOfOpenElements.ContainsElementInTableScope(webidl.DOMString(t.TagName)) {
				return false, inTableBody, generalParseError
			}
			c.clearStackBackToTableBodyContext()
			c.stackOfOpenElements.Pop()
			return false, inTable, noError
		case "table":
			if !c.stackOfOpenElements.ContainsElementInTableScope("tbody") &&
				!c.stackOfOpenElements.ContainsElementInTableScope("thead") &&
				!c.stackOfOpenElements.ContainsElementInTableScope("tfoot") {
				return false, inTableBody, generalParseError
			}
			c.clearStackBackToTableBodyContext()
			c.stackOfOpenElements.Pop()
			return true, inTable, noError
		case "body", "caption", "col", "colgroup", "html", "td", "th", "tr":
			return false, inTableBody, generalParseError
		}
	}
	return c.useRulesFor(t, inTableBody, inTable)
}

func (c *HTMLTreeConstructor) inRowModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case startTagToken:
		switch t.TagName {
		case "th", "td":
			c.clearStackBackToTableRowContext()
			c.insertHTMLElementForToken(t)
			c.activeFormattingElements.PushMarker()
			return false, inCell, noError
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead", "tr":
			if !c.stackOfOpenElements.ContainsElementInTableScope("tr") {
				return false, inRow, generalParseError
			}
			c.clearStackBackToTableRowContext()
			c.stackOfOpenElements.Pop()
			return true, inTableBody, noError
		}
	case endTagToken:
		switch t.TagName {
		case "tr":
			if !c.stackOfOpenElements.ContainsElementInTableScope("tr") {
				return false, inRow, generalParseError
			}
			c.clearStackBackToTableRowContext()
			c.stackOfOpenElements.Pop()
			return false, inTableBody, noError
		case "table":
			if !c.stackOfOpenElements.ContainsElementInTableScope("tr") {
				return false, inRow, generalParseError
			}
			c.clearStackBackToTableRowContext()
			c.stackOfOpenElements.Pop()
			return true, inTableBody, noError
		case "tbody", "tfoot", "thead":
			if !c.stackOfOpenElements.ContainsElementInTableScope(webidl.DOMString(t.TagName)) {
				return false, inRow, generalParseError
			}
			if !c.stackOfOpenElements.ContainsElementInTableScope("tr") {
				return false, inRow, noError
			}
			c.clearStackBackToTableRowContext()
			c.stackOfOpenElements.Pop()
			return true, inTableBody, noError
		case "body", "caption", "col", "colgroup", "html", "td", "th":
			return false, inRow, generalParseError
		}
	}
	return c.useRulesFor(t, inRow, inTable)
}

func (c *HTMLTreeConstructor) closeCell() (insertionMode, parseError) {
	c.generateImpliedEndTags()
	err := noError
	if cur := c.getCurrentNode(); cur == nil || cur.Element == nil ||
		(cur.Element.LocalName != "td" && cur.Element.LocalName != "th") {
		err = generalParseError
	}
	c.stackOfOpenElements.PopUntil("td", "th")
	c.activeFormattingElements.ClearToLastMarker()
	return inRow, err
}

func (c *HTMLTreeConstructor) inCellModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case startTagToken:
		switch t.TagName {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr":
			if !c.stackOfOpenElements.ContainsElementInTableScope("td") &&
				!c.stackOfOpenElements.ContainsElementInTableScope("th") {
				return false, inCell, generalParseError
			}
			mode, err := c.closeCell()
			return true, mode, err
		}
	case endTagToken:
		switch t.TagName {
		case "td", "th":
			if !c.stackOfOpenElements.ContainsElementInTableScope(webidl.DOMString(t.TagName)) {
				return false, inCell, generalParseError
			}
			c.generateImpliedEndTags()
			err := noError
			if cur := c.getCurrentNode(); cur == nil || cur.Element == nil ||
				cur.Element.LocalName != webidl.DOMString(t.TagName) {
				err = generalParseError
			}
			c.stackOfOpenElements.PopUntil(webidl.DOMString(t.TagName))
			c.activeFormattingElements.ClearToLastMarker()
			return false, inRow, err
		case "body", "caption", "col", "colgroup", "html":
			return false, inCell, generalParseError
		case "table", "tbody", "tfoot", "thead", "tr":
			if !c.stackOfOpenElements.ContainsElementInTableScope(webidl.DOMString(t.TagName)) {
				return false, inCell, generalParseError
			}
			mode, err := c.closeCell()
			return true, mode, err
		}
	}
	return c.useRulesFor(t, inCell, inBody)
}

func (c *HTMLTreeConstructor) inSelectModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if t.Data == "\u0000" {
			return false, inSelect, generalParseError
		}
		c.insertCharacter(t)
		return false, inSelect, noError
	case commentToken:
		c.insertComment(t)
		return false, inSelect, noError
	case docTypeToken:
		return false, inSelect, generalParseError
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inSelect, inBody)
		case "option":
			if cur := c.getCurrentNode(); cur != nil && cur.Element != nil &&
				cur.Element.LocalName == "option" {
				c.stackOfOpenElements.Pop()
			}
			c.insertHTMLElementForToken(t)
			return false, inSelect, noError
		case "optgroup":
			if cur := c.getCurrentNode(); cur != nil && cur.Element != nil &&
				cur.Element.LocalName == "option" {
				c.stackOfOpenElements.Pop()
			}
			if cur := c.getCurrentNode(); cur != nil && cur.Element != nil &&
				cur.Element.LocalName == "optgroup" {
				c.stackOfOpenElements.Pop()
			}
			c.insertHTMLElementForToken(t)
			return false, inSelect, noError
		case "select":
			if !c.stackOfOpenElements.ContainsElementInSelectScope("select") {
				return false, inSelect, generalParseError
			}
			c.stackOfOpenElements.PopUntil("select")
			return false, c.resetInsertionMode(), generalParseError
		case "input", "keygen", "textarea":
			if !c.stackOfOpenElements.ContainsElementInSelectScope("select") {
				return false, inSelect, generalParseError
			}
			c.stackOfOpenElements.PopUntil("select")
			return true, c.resetInsertionMode(), generalParseError
		case "script", "template":
			return c.useRulesFor(t, inSelect, inHead)
		}
	case endTagToken:
		switch t.TagName {
		case "optgroup":
			if cur := c.getCurrentNode(); cur != nil && cur.Element != nil &&
				cur.Element.LocalName == "option" {
				if len(c.stackOfOpenElements.NodeList) > 1 {
					prev := c.stackOfOpenElements.NodeList[len(c.stackOfOpenElements.NodeList)-2]
					if prev.Element != nil && prev.Element.LocalName == "optgroup" {
						c.stackOfOpenElements.Pop()
					}
				}
			}
			if cur := c.getCurrentNode(); cur != nil && cur.Element != nil &&
				cur.Element.LocalName == "optgroup" {
				c.stackOfOpenElements.Pop()
				return false, inSelect, noError
			}
			return false, inSelect, generalParseError
		case "option":
			if cur := c.getCurrentNode(); cur != nil && cur.Element != nil &&
				cur.Element.LocalName == "option" {
				c.stackOfOpenElements.Pop()
				return false, inSelect, noError
			}
			return false, inSelect, generalParseError
		case "select":
			if !c.stackOfOpenElements.ContainsElementInSelectScope("select") {
				return false, inSelect, generalParseError
			}
			c.stackOfOpenElements.PopUntil("select")
			return false, c.resetInsertionMode(), noError
		case "template":
			return c.useRulesFor(t, inSelect, inHead)
		}
	case endOfFileToken:
		return c.useRulesFor(t, inSelect, inBody)
	}
	return false, inSelect, generalParseError
}

func (c *HTMLTreeConstructor) inSelectInTableModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case startTagToken:
		switch t.TagName {
		case "caption", "table", "tbody", "tfoot", "thead", "tr", "td", "th":
			c.stackOfOpenElements.PopUntil("select")
			return true, c.resetInsertionMode(), generalParseError
		}
	case endTagToken:
		switch t.TagName {
		case "caption", "table", "tbody", "tfoot", "thead", "tr", "td", "th":
			if !c.stackOfOpenElements.ContainsElementInTableScope(webidl.DOMString(t.TagName)) {
				return false, inSelectInTable, generalParseError
			}
			c.stackOfOpenElements.PopUntil("select")
			return true, c.resetInsertionMode(), generalParseError
		}
	}
	return c.useRulesFor(t, inSelectInTable, inSelect)
}

func (c *HTMLTreeConstructor) switchTemplateMode(mode insertionMode) {
	if len(c.stackOfTemplateInsertionModes) > 0 {
		c.stackOfTemplateInsertionModes = c.stackOfTemplateInsertionModes[:len(c.stackOfTemplateInsertionModes)-1]
	}
	c.stackOfTemplateInsertionModes = append(c.stackOfTemplateInsertionModes, mode)
}

func (c *HTMLTreeConstructor) inTemplateModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken, commentToken, docTypeToken:
		return c.useRulesFor(t, inTemplate, inBody)
	case startTagToken:
		switch t.TagName {
		case "base", "basefont", "bgsound", "link", "meta", "noframes",
			"script", "style", "template", "title":
			return c.useRulesFor(t, inTemplate, inHead)
		case "caption", "colgroup", "tbody", "tfoot", "thead":
			c.switchTemplateMode(inTable)
			return true, inTable, noError
		case "col":
			c.switchTemplateMode(inColumnGroup)
			return true, inColumnGroup, noError
		case "tr":
			c.switchTemplateMode(inTableBody)
			return true, inTableBody, noError
		case "td", "th":
			c.switchTemplateMode(inRow)
			return true, inRow, noError
		default:
			c.switchTemplateMode(inBody)
			return true, inBody, noError
		}
	case endTagToken:
		if t.TagName == "template" {
			return c.useRulesFor(t, inTemplate, inHead)
		}
		return false, inTemplate, generalParseError
	case endOfFileToken:
		if !c.stackHasTemplate() {
			return c.stopParsing()
		}
		c.stackOfOpenElements.PopUntil("template")
		c.activeFormattingElements.ClearToLastMarker()
		if len(c.stackOfTemplateInsertionModes) > 0 {
			c.stackOfTemplateInsertionModes = c.stackOfTemplateInsertionModes[:len(c.stackOfTemplateInsertionModes)-1]
		}
		return true, c.resetInsertionMode(), generalParseError
	}
	return false, inTemplate, noError
}

func (c *HTMLTreeConstructor) afterBodyModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if isWhitespaceData(t.Data) {
			return c.useRulesFor(t, afterBody, inBody)
		}
	case commentToken:
		c.insertCommentAt(t, insertionLocation{parent: c.stackOfOpenElements.NodeList[0]})
		return false, afterBody, noError
	case docTypeToken:
		return false, afterBody, generalParseError
	case startTagToken:
		if t.TagName == "html" {
			return c.useRulesFor(t, afterBody, inBody)
		}
	case endTagToken:
		if t.TagName == "html" {
			if c.createdBy == htmlFragmentParsingAlgorithm {
				return false, afterBody, generalParseError
			}
			return false, afterAfterBody, noError
		}
	case endOfFileToken:
		return c.stopParsing()
	}
	return true, inBody, generalParseError
}

func (c *HTMLTreeConstructor) inFramesetModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if isWhitespaceData(t.Data) {
			c.insertCharacter(t)
			return false, inFrameset, noError
		}
	case commentToken:
		c.insertComment(t)
		return false, inFrameset, noError
	case docTypeToken:
		return false, inFrameset, generalParseError
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inFrameset, inBody)
		case "frameset":
			c.insertHTMLElementForToken(t)
			return false, inFrameset, noError
		case "frame":
			c.insertHTMLElementForToken(t)
			c.stackOfOpenElements.Pop()
			t.SelfClosingAcknowledged = true
			return false, inFrameset, noError
		case "noframes":
			return c.useRulesFor(t, inFrameset, inHead)
		}
	case endTagToken:
		if t.TagName == "frameset" {
			cur := c.getCurrentNode()
			if cur != nil && cur.NodeType == spec.ElementNode && cur.Element.LocalName == "html" {
				return false, inFrameset, generalParseError
			}
			c.stackOfOpenElements.Pop()
			cur = c.getCurrentNode()
			if c.createdBy != htmlFragmentParsingAlgorithm && cur != nil &&
				cur.Element != nil && cur.Element.LocalName != "frameset" {
				return false, afterFrameset, noError
			}
			return false, inFrameset, noError
		}
	case endOfFileToken:
		err := noError
		cur := c.getCurrentNode()
		if cur != nil && (cur.Element == nil || cur.Element.LocalName != "html") {
			err = generalParseError
		}
		_, mode, _ := c.stopParsing()
		return false, mode, err
	}
	return false, inFrameset, generalParseError
}

func (c *HTMLTreeConstructor) afterFramesetModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if isWhitespaceData(t.Data) {
			c.insertCharacter(t)
			return false, afterFrameset, noError
		}
	case commentToken:
		c.insertComment(t)
		return false, afterFrameset, noError
	case docTypeToken:
		return false, afterFrameset, generalParseError
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, afterFrameset, inBody)
		case "noframes":
			return c.useRulesFor(t, afterFrameset, inHead)
		}
	case endTagToken:
		if t.TagName == "html" {
			return false, afterAfterFrameset, noError
		}
	case endOfFileToken:
		return c.stopParsing()
	}
	return false, afterFrameset, generalParseError
}

func (c *HTMLTreeConstructor) afterAfterBodyModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case commentToken:
		c.insertCommentAt(t, insertionLocation{parent: c.HTMLDocument.Node})
		return false, afterAfterBody, noError
	case docTypeToken:
		return c.useRulesFor(t, afterAfterBody, inBody)
	case characterToken:
		if isWhitespaceData(t.Data) {
			return c.useRulesFor(t, afterAfterBody, inBody)
		}
	case startTagToken:
		if t.TagName == "html" {
			return c.useRulesFor(t, afterAfterBody, inBody)
		}
	case endOfFileToken:
		return c.stopParsing()
	}
	return true, inBody, generalParseError
}

func (c *HTMLTreeConstructor) afterAfterFramesetModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case commentToken:
		c.insertCommentAt(t, insertionLocation{parent: c.HTMLDocument.Node})
		return false, afterAfterFrameset, noError
	case docTypeToken:
		return c.useRulesFor(t, afterAfterFrameset, inBody)
	case characterToken:
		if isWhitespaceData(t.Data) {
			return c.useRulesFor(t, afterAfterFrameset, inBody)
		}
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, afterAfterFrameset, inBody)
		case "noframes":
			return c.useRulesFor(t, afterAfterFrameset, inHead)
		}
	case endOfFileToken:
		return c.stopParsing()
	}
	return false, afterAfterFrameset, generalParseError
}

type insertionMode uint

const (
	initial insertionMode = iota
	beforeHTML
	beforeHead
	inHead
	inHeadNoScript
	afterHead
	inBody
	text
	inTable
	inTableText
	inCaption
	inColumnGroup
	inTableBody
	inRow
	inCell
	inSelect
	inSelectInTable
	inTemplate
	afterBody
	inFrameset
	afterFrameset
	afterAfterBody
	afterAfterFrameset
)

type treeConstructionModeHandler func(t *Token) (bool, insertionMode, parseError)

// ProcessToken runs one token through the tree construction dispatcher and
// returns the Progress handshake for the tokenizer.
// https://html.spec.whatwg.org/multipage/parsing.html#tree-construction-dispatcher
func (c *HTMLTreeConstructor) ProcessToken(t *Token) *Progress {
	c.nextTokenizerState = nil

	if c.ignoreNextLineFeed {
		c.ignoreNextLineFeed = false
		if t.TokenType == characterToken && t.Data == "\u000A" {
			return MakeProgress(c.getAdjustedCurrentNode(), nil)
		}
	}

	var (
		reprocess bool
		parseErr  parseError
		nextMode  insertionMode
	)
	if c.useForeignContentRules(t) {
		reprocess, nextMode, parseErr = c.foreignContentModeHandler(t)
	} else {
		reprocess, nextMode, parseErr = c.mappings[c.insertionMode](t)
	}
	c.errs.logError(parseErr, 0)
	c.insertionMode = nextMode

	for reprocess && !c.stopped {
		if c.useForeignContentRules(t) {
			reprocess, nextMode, parseErr = c.foreignContentModeHandler(t)
		} else {
			reprocess, nextMode, parseErr = c.mappings[c.insertionMode](t)
		}
		c.errs.logError(parseErr, 0)
		c.insertionMode = nextMode
	}

	if t.TokenType == startTagToken && t.SelfClosing && !t.SelfClosingAcknowledged {
		c.errs.report("non-void-html-element-start-tag-with-trailing-solidus", 0)
	}

	return MakeProgress(c.getAdjustedCurrentNode(), c.nextTokenizerState)
}
