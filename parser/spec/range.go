package spec

import "github.com/pkg/errors"

// Range is a pair of boundary points kept stable across tree mutations. The
// mutation algorithms and the CharacterData editors rewrite the offsets so
// the absolute positions hold.
// https://dom.spec.whatwg.org/#interface-range
type Range struct {
	startContainer *Node
	startOffset    int
	endContainer   *Node
	endOffset      int
	document       *Document
}

func (r *Range) StartContainer() *Node { return r.startContainer }
func (r *Range) StartOffset() int      { return r.startOffset }
func (r *Range) EndContainer() *Node   { return r.endContainer }
func (r *Range) EndOffset() int        { return r.endOffset }

func (r *Range) Collapsed() bool {
	return r.startContainer == r.endContainer && r.startOffset == r.endOffset
}

func boundaryLength(n *Node) int {
	if cd := n.characterData(); cd != nil {
		return cd.length()
	}
	return len(n.ChildNodes)
}

func (r *Range) checkBoundary(node *Node, offset int) error {
	if node.NodeType == DocumentTypeNode {
		return errorsWrapInvalidNodeType()
	}
	if offset < 0 || offset > boundaryLength(node) {
		return indexSizeError("offset %d out of range", offset)
	}
	return nil
}

// https://dom.spec.whatwg.org/#concept-range-bp-set
func (r *Range) SetStart(node *Node, offset int) error {
	if err := r.checkBoundary(node, offset); err != nil {
		return err
	}
	r.startContainer = node
	r.startOffset = offset
	if r.endContainer.GetRootNode() != node.GetRootNode() || r.compareBoundary() > 0 {
		r.endContainer = node
		r.endOffset = offset
	}
	return nil
}

func (r *Range) SetEnd(node *Node, offset int) error {
	if err := r.checkBoundary(node, offset); err != nil {
		return err
	}
	r.endContainer = node
	r.endOffset = offset
	if r.startContainer.GetRootNode() != node.GetRootNode() || r.compareBoundary() > 0 {
		r.startContainer = node
		r.startOffset = offset
	}
	return nil
}

func (r *Range) SetStartBefore(node *Node) error {
	if node.ParentNode == nil {
		return errorsWrapInvalidNodeType()
	}
	return r.SetStart(node.ParentNode, node.index())
}

func (r *Range) SetStartAfter(node *Node) error {
	if node.ParentNode == nil {
		return errorsWrapInvalidNodeType()
	}
	return r.SetStart(node.ParentNode, node.index()+1)
}

func (r *Range) SetEndBefore(node *Node) error {
	if node.ParentNode == nil {
		return errorsWrapInvalidNodeType()
	}
	return r.SetEnd(node.ParentNode, node.index())
}

func (r *Range) SetEndAfter(node *Node) error {
	if node.ParentNode == nil {
		return errorsWrapInvalidNodeType()
	}
	return r.SetEnd(node.ParentNode, node.index()+1)
}

func (r *Range) Collapse(toStart bool) {
	if toStart {
		r.endContainer = r.startContainer
		r.endOffset = r.startOffset
	} else {
		r.startContainer = r.endContainer
		r.startOffset = r.endOffset
	}
}

func (r *Range) SelectNode(node *Node) error {
	if node.ParentNode == nil {
		return errorsWrapInvalidNodeType()
	}
	idx := node.index()
	r.startContainer = node.ParentNode
	r.startOffset = idx
	r.endContainer = node.ParentNode
	r.endOffset = idx + 1
	return nil
}

func (r *Range) SelectNodeContents(node *Node) error {
	if node.NodeType == DocumentTypeNode {
		return errorsWrapInvalidNodeType()
	}
	r.startContainer = node
	r.startOffset = 0
	r.endContainer = node
	r.endOffset = boundaryLength(node)
	return nil
}

// compareBoundary returns >0 when start is after end.
func (r *Range) compareBoundary() int {
	return compareBoundaryPoints(r.startContainer, r.startOffset, r.endContainer, r.endOffset)
}

// https://dom.spec.whatwg.org/#concept-range-bp-position
func compareBoundaryPoints(nodeA *Node, offsetA int, nodeB *Node, offsetB int) int {
	if nodeA == nodeB {
		switch {
		case offsetA < offsetB:
			return -1
		case offsetA > offsetB:
			return 1
		default:
			return 0
		}
	}
	pos := nodeA.CompareDocumentPosition(nodeB)
	if pos&ContainedBy != 0 {
		// nodeB is inside nodeA: position depends on which child branch.
		child := nodeB
		for child.ParentNode != nodeA {
			child = child.ParentNode
		}
		if child.index() < offsetA {
			return 1
		}
		return -1
	}
	if pos&Contains != 0 {
		return -compareBoundaryPoints(nodeB, offsetB, nodeA, offsetA)
	}
	if pos&Following != 0 {
		return -1
	}
	return 1
}

// Detach removes the range from its document's live list.
func (r *Range) Detach() {
	if r.document == nil {
		return
	}
	for i, lr := range r.document.liveRanges {
		if lr == r {
			r.document.liveRanges = append(r.document.liveRanges[:i], r.document.liveRanges[i+1:]...)
			return
		}
	}
}

func errorsWrapInvalidNodeType() error {
	return errors.Wrap(ErrInvalidNodeType, "wrong node kind for a range boundary")
}
