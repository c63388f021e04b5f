package spec

import "github.com/heathj/htmldom/parser/webidl"

// https://dom.spec.whatwg.org/#text
type Text struct {
	*CharacterData
}

// https://dom.spec.whatwg.org/#interface-cdatasection
type CDATASection struct {
	*Text
}

// SplitText splits the text node at offset and returns the new node holding
// the tail.
// https://dom.spec.whatwg.org/#concept-text-split
func (n *Node) SplitText(offset int) (*Node, error) {
	cd := n.characterData()
	runes := []rune(string(cd.Data))
	if offset < 0 || offset > len(runes) {
		return nil, indexSizeError("offset %d out of range", offset)
	}
	newNode := NewTextNode(n.nodeDocument(), webidl.DOMString(runes[offset:]))
	parent := n.ParentNode
	if parent != nil {
		parent.insert(newNode, n.NextSibling)
		if doc := n.nodeDocument(); doc != nil && doc.Document != nil {
			idx := n.index()
			for _, r := range doc.Document.liveRanges {
				if r.startContainer == n && r.startOffset > offset {
					r.startContainer = newNode
					r.startOffset -= offset
				}
				if r.endContainer == n && r.endOffset > offset {
					r.endContainer = newNode
					r.endOffset -= offset
				}
				if r.startContainer == parent && r.startOffset == idx+1 {
					r.startOffset++
				}
				if r.endContainer == parent && r.endOffset == idx+1 {
					r.endOffset++
				}
			}
		}
	}
	cd.Data = webidl.DOMString(runes[:offset])
	return newNode, nil
}

// WholeText concatenates the data of the contiguous text siblings.
func (n *Node) WholeText() webidl.DOMString {
	first := n
	for first.PreviousSibling != nil && first.PreviousSibling.NodeType == TextNode {
		first = first.PreviousSibling
	}
	var out webidl.DOMString
	for cur := first; cur != nil && cur.NodeType == TextNode; cur = cur.NextSibling {
		out += cur.Text.Data
	}
	return out
}
