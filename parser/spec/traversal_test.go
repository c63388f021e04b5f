package spec

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// buildTraversalTree makes body(div(a("1"), b), span).
func buildTraversalTree(t *testing.T) (doc, body, div, a, b, span *Node) {
	t.Helper()
	doc, body = buildDocument(t)
	div = NewDOMElement(doc, "div", Htmlns)
	a = NewDOMElement(doc, "a", Htmlns)
	b = NewDOMElement(doc, "b", Htmlns)
	span = NewDOMElement(doc, "span", Htmlns)
	body.AppendChild(div)
	div.AppendChild(a)
	a.AppendChild(NewTextNode(doc, "1"))
	div.AppendChild(b)
	body.AppendChild(span)
	return
}

func TestNodeIteratorTraversal(t *testing.T) {
	doc, body, div, a, b, span := buildTraversalTree(t)

	it := doc.Document.CreateNodeIterator(body, ShowElement, nil)
	// The root itself is part of the iteration when the filter lets it
	// through.
	require.Equal(t, body, it.NextNode())
	require.Equal(t, div, it.NextNode())
	require.Equal(t, a, it.NextNode())
	require.Equal(t, b, it.NextNode())
	require.Equal(t, span, it.NextNode())
	require.Nil(t, it.NextNode())

	require.Equal(t, span, it.PreviousNode())
	require.Equal(t, b, it.PreviousNode())
}

func TestNodeIteratorFilter(t *testing.T) {
	doc, body, _, a, _, _ := buildTraversalTree(t)
	it := doc.Document.CreateNodeIterator(body, ShowElement, func(n *Node) int {
		if n.Element != nil && n.Element.LocalName == "a" {
			return FilterAccept
		}
		return FilterSkip
	})
	require.Equal(t, a, it.NextNode())
	require.Nil(t, it.NextNode())
}

func TestNodeIteratorPreRemoval(t *testing.T) {
	doc, _, div, a, b, _ := buildTraversalTree(t)

	it := doc.Document.CreateNodeIterator(doc, ShowElement, nil)
	for it.ReferenceNode() != a {
		require.NotNil(t, it.NextNode())
	}

	// Removing the subtree holding the reference moves the reference to the
	// node just before the removed node.
	div.RemoveChild(a)
	require.Equal(t, div, it.ReferenceNode())
	require.False(t, it.PointerBeforeReferenceNode())

	// Traversal picks up where it left off.
	require.Equal(t, b, it.NextNode())
}

func TestNodeIteratorPreRemovalBeforePointer(t *testing.T) {
	doc, _, div, a, b, _ := buildTraversalTree(t)

	it := doc.Document.CreateNodeIterator(doc, ShowElement, nil)
	for it.ReferenceNode() != b {
		require.NotNil(t, it.NextNode())
	}
	// Stepping back twice leaves the pointer before a.
	require.Equal(t, b, it.PreviousNode())
	require.Equal(t, a, it.PreviousNode())
	require.True(t, it.PointerBeforeReferenceNode())

	div.RemoveChild(a)
	// Reference was inside the removed subtree with the pointer before it;
	// the iterator re-anchors to the node just after, so b is still next.
	require.Equal(t, b, it.NextNode())
}

func TestTreeWalker(t *testing.T) {
	doc, body, div, a, b, span := buildTraversalTree(t)

	w := doc.Document.CreateTreeWalker(body, ShowElement, nil)
	require.Equal(t, body, w.CurrentNode())
	require.Equal(t, div, w.FirstChild())
	require.Equal(t, a, w.FirstChild())
	require.Nil(t, w.FirstChild())
	require.Equal(t, b, w.NextSibling())
	require.Equal(t, div, w.ParentNode())
	require.Equal(t, span, w.NextSibling())
	require.Nil(t, w.NextSibling())

	w.SetCurrentNode(body)
	require.Equal(t, div, w.NextNode())
	require.Equal(t, a, w.NextNode())
	require.Equal(t, b, w.NextNode())
	require.Equal(t, span, w.NextNode())
	require.Nil(t, w.NextNode())

	require.Equal(t, b, w.PreviousNode())
	require.Equal(t, a, w.PreviousNode())
}

func TestTreeWalkerRejectPrunesSubtree(t *testing.T) {
	doc, body, div, _, _, span := buildTraversalTree(t)
	w := doc.Document.CreateTreeWalker(body, ShowElement, func(n *Node) int {
		if n == div {
			return FilterReject
		}
		return FilterAccept
	})
	// Reject prunes div and everything under it.
	require.Equal(t, span, w.NextNode())
}

func TestLiveCollections(t *testing.T) {
	doc, body := buildDocument(t)
	divs := doc.Document.GetElementsByTagName("div")
	require.Equal(t, 0, divs.Length())

	d1 := NewDOMElement(doc, "div", Htmlns)
	body.AppendChild(d1)
	require.Equal(t, 1, divs.Length())

	d2 := NewDOMElement(doc, "div", Htmlns)
	d1.AppendChild(d2)
	require.Equal(t, 2, divs.Length())
	require.Equal(t, d1, divs.Item(0))
	require.Equal(t, d2, divs.Item(1))

	body.RemoveChild(d1)
	require.Equal(t, 0, divs.Length())
	require.Nil(t, divs.Item(0))
}

func TestGetElementsByClassName(t *testing.T) {
	doc, body := buildDocument(t)
	el := NewDOMElement(doc, "div", Htmlns)
	el.SetAttribute("class", "x y")
	body.AppendChild(el)

	require.Equal(t, 1, doc.Document.GetElementsByClassName("x").Length())
	require.Equal(t, 1, doc.Document.GetElementsByClassName("x y").Length())
	require.Equal(t, 0, doc.Document.GetElementsByClassName("z").Length())
}

func TestTableRowsBehavior(t *testing.T) {
	doc, body := buildDocument(t)
	table := NewDOMElement(doc, "table", Htmlns)
	body.AppendChild(table)

	// First row creates a tbody.
	r0, err := table.InsertRow(0)
	require.NoError(t, err)
	require.Equal(t, "tbody", string(r0.ParentNode.Element.LocalName))

	r1, err := table.InsertRow(-1)
	require.NoError(t, err)

	rows := table.Rows()
	require.Equal(t, 2, rows.Length())
	require.Equal(t, r0, rows.Item(0))
	require.Equal(t, r1, rows.Item(1))

	// Rows is live.
	mid, err := table.InsertRow(1)
	require.NoError(t, err)
	require.Equal(t, mid, rows.Item(1))
	require.Equal(t, 3, rows.Length())

	_, err = table.InsertRow(99)
	require.True(t, errors.Is(err, ErrIndexSize))

	require.NoError(t, table.DeleteRow(0))
	require.Equal(t, 2, rows.Length())
	require.Equal(t, mid, rows.Item(0))

	err = table.DeleteRow(5)
	require.True(t, errors.Is(err, ErrIndexSize))
}
