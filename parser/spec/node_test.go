package spec

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func buildDocument(t *testing.T) (*Node, *Node) {
	t.Helper()
	doc := NewDocumentNode("html")
	html := NewDOMElement(doc, "html", Htmlns)
	doc.AppendChild(html)
	body := NewDOMElement(doc, "body", Htmlns)
	html.AppendChild(body)
	return doc, body
}

func TestPreInsertValidation(t *testing.T) {
	doc, body := buildDocument(t)

	t.Run("inserting an ancestor fails", func(t *testing.T) {
		html := doc.documentElementNode()
		_, err := body.AppendChildErr(html)
		require.True(t, errors.Is(err, ErrHierarchyRequest))
	})

	t.Run("wrong reference child fails", func(t *testing.T) {
		div := NewDOMElement(doc, "div", Htmlns)
		stranger := NewDOMElement(doc, "span", Htmlns)
		_, err := body.InsertBeforeErr(div, stranger)
		require.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("text under a document fails", func(t *testing.T) {
		_, err := doc.AppendChildErr(NewTextNode(doc, "x"))
		require.True(t, errors.Is(err, ErrHierarchyRequest))
	})

	t.Run("second document element fails", func(t *testing.T) {
		_, err := doc.AppendChildErr(NewDOMElement(doc, "html", Htmlns))
		require.True(t, errors.Is(err, ErrHierarchyRequest))
	})

	t.Run("second doctype fails", func(t *testing.T) {
		d2 := NewDocumentNode("html")
		d2.AppendChild(NewDocTypeNode("html", "", ""))
		_, err := d2.AppendChildErr(NewDocTypeNode("html", "", ""))
		require.True(t, errors.Is(err, ErrHierarchyRequest))
	})

	t.Run("failed insert leaves the tree alone", func(t *testing.T) {
		before := len(body.ChildNodes)
		_, err := body.AppendChildErr(doc.documentElementNode())
		require.Error(t, err)
		require.Equal(t, before, len(body.ChildNodes))
	})
}

func TestInsertAndRemoveMaintainLinks(t *testing.T) {
	doc, body := buildDocument(t)

	a := NewDOMElement(doc, "a", Htmlns)
	b := NewDOMElement(doc, "b", Htmlns)
	c := NewDOMElement(doc, "c", Htmlns)
	body.AppendChild(a)
	body.AppendChild(c)
	body.InsertBefore(b, c)

	require.Equal(t, NodeList{a, b, c}, body.ChildNodes)
	require.Equal(t, a, body.FirstChild)
	require.Equal(t, c, body.LastChild)
	require.Equal(t, b, a.NextSibling)
	require.Equal(t, b, c.PreviousSibling)
	for _, child := range body.ChildNodes {
		require.Equal(t, body, child.ParentNode)
	}

	body.RemoveChild(b)
	require.Equal(t, NodeList{a, c}, body.ChildNodes)
	require.Equal(t, c, a.NextSibling)
	require.Equal(t, a, c.PreviousSibling)
	require.Nil(t, b.ParentNode)
	require.Nil(t, b.NextSibling)
	require.Nil(t, b.PreviousSibling)
}

func TestFragmentInsertionMovesChildrenAsGroup(t *testing.T) {
	doc, body := buildDocument(t)
	frag := NewDocumentFragmentNode(doc)
	x := NewDOMElement(doc, "x", Htmlns)
	y := NewDOMElement(doc, "y", Htmlns)
	frag.AppendChild(x)
	frag.AppendChild(y)

	body.AppendChild(frag)
	require.Empty(t, frag.ChildNodes)
	require.Equal(t, NodeList{x, y}, body.ChildNodes)
	require.Equal(t, body, x.ParentNode)
}

func TestReplaceChild(t *testing.T) {
	doc, body := buildDocument(t)
	old := NewDOMElement(doc, "old", Htmlns)
	body.AppendChild(old)
	repl := NewDOMElement(doc, "new", Htmlns)

	got := body.ReplaceChild(repl, old)
	require.Equal(t, old, got)
	require.Equal(t, NodeList{repl}, body.ChildNodes)
	require.Nil(t, old.ParentNode)
}

func TestAdoptUpdatesEveryDescendant(t *testing.T) {
	docA, bodyA := buildDocument(t)
	docB := NewDocumentNode("html")

	div := NewDOMElement(docA, "div", Htmlns)
	span := NewDOMElement(docA, "span", Htmlns)
	span.SetAttribute("id", "s")
	div.AppendChild(span)
	span.AppendChild(NewTextNode(docA, "x"))
	bodyA.AppendChild(div)

	adopted, err := docB.Document.AdoptNode(div)
	require.NoError(t, err)
	require.Equal(t, div, adopted)
	require.Nil(t, div.ParentNode)

	for n := div; n != nil; n = n.nextInTreeOrder(div) {
		require.Equal(t, docB, n.OwnerDocument, "node %s", n.NodeName)
	}
	_ = docA
}

func TestAdoptRefusesDocuments(t *testing.T) {
	docA, _ := buildDocument(t)
	docB := NewDocumentNode("html")
	_, err := docB.Document.AdoptNode(docA)
	require.True(t, errors.Is(err, ErrNotSupported))
}

func TestOwnerDocumentInvariant(t *testing.T) {
	doc, body := buildDocument(t)
	div, err := doc.Document.CreateElement("div")
	require.NoError(t, err)
	div.AppendChild(doc.Document.CreateTextNode("x"))
	body.AppendChild(div)

	for n := doc; n != nil; n = n.nextInTreeOrder(doc) {
		require.Equal(t, doc, n.nodeDocument())
	}
}

func TestNormalize(t *testing.T) {
	doc, body := buildDocument(t)
	div := NewDOMElement(doc, "div", Htmlns)
	body.AppendChild(div)
	div.AppendChild(NewTextNode(doc, "a"))
	div.AppendChild(NewTextNode(doc, ""))
	div.AppendChild(NewTextNode(doc, "b"))
	div.AppendChild(NewDOMElement(doc, "span", Htmlns))
	div.AppendChild(NewTextNode(doc, "c"))
	div.AppendChild(NewTextNode(doc, "d"))

	doc.Normalize()
	require.Len(t, div.ChildNodes, 3)
	require.Equal(t, "ab", string(div.ChildNodes[0].Text.Data))
	require.Equal(t, "cd", string(div.ChildNodes[2].Text.Data))

	// Idempotent.
	before := doc.String()
	doc.Normalize()
	require.Equal(t, before, doc.String())
}

func TestNormalizeRewritesRanges(t *testing.T) {
	doc, body := buildDocument(t)
	div := NewDOMElement(doc, "div", Htmlns)
	body.AppendChild(div)
	t1 := NewTextNode(doc, "ab")
	t2 := NewTextNode(doc, "cd")
	div.AppendChild(t1)
	div.AppendChild(t2)

	r := doc.Document.CreateRange()
	require.NoError(t, r.SetStart(t2, 1))
	require.NoError(t, r.SetEnd(t2, 2))

	doc.Normalize()
	require.Equal(t, t1, r.StartContainer())
	require.Equal(t, 3, r.StartOffset())
	require.Equal(t, t1, r.EndContainer())
	require.Equal(t, 4, r.EndOffset())
}

func TestRangeTracksMutations(t *testing.T) {
	doc, body := buildDocument(t)
	a := NewDOMElement(doc, "a", Htmlns)
	b := NewDOMElement(doc, "b", Htmlns)
	body.AppendChild(a)
	body.AppendChild(b)

	r := doc.Document.CreateRange()
	require.NoError(t, r.SetStart(body, 1))
	require.NoError(t, r.SetEnd(body, 2))

	// Inserting before the start shifts both offsets.
	body.InsertBefore(NewDOMElement(doc, "z", Htmlns), a)
	require.Equal(t, 2, r.StartOffset())
	require.Equal(t, 3, r.EndOffset())

	// Removing a node the start points past shifts it back.
	body.RemoveChild(body.ChildNodes[0])
	require.Equal(t, 1, r.StartOffset())
	require.Equal(t, 2, r.EndOffset())
}

func TestCharacterDataEdits(t *testing.T) {
	doc, body := buildDocument(t)
	text := NewTextNode(doc, "hello world")
	body.AppendChild(text)

	sub, err := text.SubstringData(6, 5)
	require.NoError(t, err)
	require.Equal(t, "world", string(sub))

	require.NoError(t, text.InsertData(5, ","))
	require.Equal(t, "hello, world", string(text.Text.Data))

	require.NoError(t, text.DeleteData(5, 1))
	require.Equal(t, "hello world", string(text.Text.Data))

	_, err = text.SubstringData(100, 1)
	require.True(t, errors.Is(err, ErrIndexSize))
}

func TestSplitText(t *testing.T) {
	doc, body := buildDocument(t)
	text := NewTextNode(doc, "hello")
	body.AppendChild(text)

	tail, err := text.SplitText(2)
	require.NoError(t, err)
	require.Equal(t, "he", string(text.Text.Data))
	require.Equal(t, "llo", string(tail.Text.Data))
	require.Equal(t, tail, text.NextSibling)
	require.Equal(t, "hello", string(text.WholeText()))
}

func TestCloneNode(t *testing.T) {
	doc, body := buildDocument(t)
	div := NewDOMElement(doc, "div", Htmlns)
	div.SetAttribute("id", "d")
	div.AppendChild(NewTextNode(doc, "x"))
	body.AppendChild(div)

	shallow := div.CloneNode(false)
	require.Empty(t, shallow.ChildNodes)
	v, ok := shallow.GetAttribute("id")
	require.True(t, ok)
	require.Equal(t, "d", string(v))
	require.Nil(t, shallow.ParentNode)

	deep := div.CloneNode(true)
	require.Len(t, deep.ChildNodes, 1)
	require.True(t, deep.IsEqualNode(div))
	require.False(t, deep.IsSameNode(div))
}

func TestCloneTemplateCopiesContent(t *testing.T) {
	doc, _ := buildDocument(t)
	tmpl := NewDOMElement(doc, "template", Htmlns)
	td := NewDOMElement(doc, "td", Htmlns)
	tmpl.Element.Template.Content.AppendChild(td)

	deep := tmpl.CloneNode(true)
	require.Len(t, deep.Element.Template.Content.ChildNodes, 1)
	require.False(t, deep.Element.Template.Content.ChildNodes[0].IsSameNode(td))
}

func TestCompareDocumentPositionAndContains(t *testing.T) {
	doc, body := buildDocument(t)
	a := NewDOMElement(doc, "a", Htmlns)
	b := NewDOMElement(doc, "b", Htmlns)
	body.AppendChild(a)
	body.AppendChild(b)

	require.True(t, body.Contains(a))
	require.False(t, a.Contains(body))
	require.NotZero(t, a.CompareDocumentPosition(b)&Following)
	require.NotZero(t, b.CompareDocumentPosition(a)&Preceding)
	require.NotZero(t, body.CompareDocumentPosition(a)&ContainedBy)
	require.NotZero(t, a.CompareDocumentPosition(body)&Contains)

	detached := NewDOMElement(doc, "c", Htmlns)
	require.NotZero(t, a.CompareDocumentPosition(detached)&Disconnected)
}

func TestTextContent(t *testing.T) {
	doc, body := buildDocument(t)
	div := NewDOMElement(doc, "div", Htmlns)
	div.AppendChild(NewTextNode(doc, "a"))
	span := NewDOMElement(doc, "span", Htmlns)
	span.AppendChild(NewTextNode(doc, "b"))
	div.AppendChild(span)
	body.AppendChild(div)

	require.Equal(t, "ab", string(div.TextContent()))

	div.SetTextContent("z")
	require.Len(t, div.ChildNodes, 1)
	require.Equal(t, "z", string(div.TextContent()))
	require.Nil(t, span.ParentNode)
}

func TestAttributeUniquenessPerNamespace(t *testing.T) {
	doc, _ := buildDocument(t)
	el := NewDOMElement(doc, "div", Htmlns)

	require.NoError(t, el.SetAttribute("data-x", "1"))
	require.NoError(t, el.SetAttribute("data-x", "2"))
	require.Equal(t, 1, el.Element.Attributes.Length())
	v, _ := el.GetAttribute("data-x")
	require.Equal(t, "2", string(v))

	require.NoError(t, el.SetAttributeNS(Xlinkns, "xlink:href", "u"))
	require.Equal(t, 2, el.Element.Attributes.Length())
	ns, ok := el.GetAttributeNS(Xlinkns, "href")
	require.True(t, ok)
	require.Equal(t, "u", string(ns))
}

func TestIdAndClassReflection(t *testing.T) {
	doc, _ := buildDocument(t)
	el := NewDOMElement(doc, "div", Htmlns)
	el.SetAttribute("id", "me")
	require.Equal(t, "me", string(el.Element.Id))

	require.NoError(t, el.Element.ClassList.Add("x", "y"))
	require.True(t, el.Element.ClassList.ContainsToken("x"))
	cls, _ := el.GetAttribute("class")
	require.Equal(t, "x y", string(cls))

	require.NoError(t, el.Element.ClassList.RemoveTokens("x"))
	cls, _ = el.GetAttribute("class")
	require.Equal(t, "y", string(cls))

	on, err := el.Element.ClassList.Toggle("z")
	require.NoError(t, err)
	require.True(t, on)
	require.True(t, el.Element.ClassList.ContainsToken("z"))

	_, err = el.Element.ClassList.Toggle("bad token")
	require.True(t, errors.Is(err, ErrInvalidCharacter))
}

func TestCreateElementValidation(t *testing.T) {
	doc := NewDocumentNode("html")

	el, err := doc.Document.CreateElement("DIV")
	require.NoError(t, err)
	require.Equal(t, "div", string(el.Element.LocalName))
	require.Equal(t, ElementKind("HTMLDivElement"), el.Element.Kind)

	unknown, err := doc.Document.CreateElement("whatever")
	require.NoError(t, err)
	require.Equal(t, KindHTMLUnknownElement, unknown.Element.Kind)

	_, err = doc.Document.CreateElement("1bad")
	require.True(t, errors.Is(err, ErrInvalidCharacter))

	_, err = doc.Document.CreateProcessingInstruction("pi", "a?>b")
	require.True(t, errors.Is(err, ErrInvalidCharacter))

	_, err = doc.Document.CreateCDATASection("x")
	require.True(t, errors.Is(err, ErrNotSupported))
}

func TestGetElementById(t *testing.T) {
	doc, body := buildDocument(t)
	first := NewDOMElement(doc, "div", Htmlns)
	first.SetAttribute("id", "dup")
	second := NewDOMElement(doc, "span", Htmlns)
	second.SetAttribute("id", "dup")
	body.AppendChild(first)
	body.AppendChild(second)

	require.Equal(t, first, doc.Document.GetElementById("dup"))
	require.Nil(t, doc.Document.GetElementById("missing"))
}
