package spec

// https://dom.spec.whatwg.org/#nodeiterator
type NodeIterator struct {
	root                       *Node
	referenceNode              *Node
	pointerBeforeReferenceNode bool
	whatToShow                 uint
	filter                     NodeFilter
	document                   *Document
}

func (it *NodeIterator) Root() *Node          { return it.root }
func (it *NodeIterator) ReferenceNode() *Node { return it.referenceNode }
func (it *NodeIterator) PointerBeforeReferenceNode() bool {
	return it.pointerBeforeReferenceNode
}

// https://dom.spec.whatwg.org/#concept-nodeiterator-traverse
func (it *NodeIterator) traverse(forward bool) *Node {
	node := it.referenceNode
	before := it.pointerBeforeReferenceNode
	for {
		if forward {
			if before {
				before = false
			} else {
				node = node.nextInTreeOrder(it.root)
				if node == nil {
					return nil
				}
			}
		} else {
			if !before {
				before = true
			} else {
				node = node.previousInTreeOrder(it.root)
				if node == nil {
					return nil
				}
			}
		}
		if filterNode(node, it.whatToShow, it.filter) == FilterAccept {
			break
		}
	}
	it.referenceNode = node
	it.pointerBeforeReferenceNode = before
	return node
}

func (it *NodeIterator) NextNode() *Node {
	return it.traverse(true)
}

func (it *NodeIterator) PreviousNode() *Node {
	return it.traverse(false)
}

// Detach is a no-op kept for interface parity.
func (it *NodeIterator) Detach() {}

// preRemovingSteps keeps the reference stable while toBeRemoved leaves the
// tree: a reference inside the removed subtree moves to the node just before
// it in tree order (or just after, when the pointer sits before the
// reference).
// https://dom.spec.whatwg.org/#nodeiterator-pre-removing-steps
func (it *NodeIterator) preRemovingSteps(toBeRemoved *Node) {
	if !it.referenceNode.IsInclusiveDescendantOf(toBeRemoved) || toBeRemoved == it.root {
		return
	}

	if it.pointerBeforeReferenceNode {
		// Prefer the first node after the removed subtree.
		last := toBeRemoved
		for len(last.ChildNodes) > 0 {
			last = last.LastChild
		}
		if next := last.nextInTreeOrder(it.root); next != nil {
			it.referenceNode = next
			return
		}
		it.pointerBeforeReferenceNode = false
	}

	// Node just before toBeRemoved: its previous sibling's deepest last
	// descendant, or its parent.
	if prev := toBeRemoved.PreviousSibling; prev != nil {
		for len(prev.ChildNodes) > 0 {
			prev = prev.LastChild
		}
		it.referenceNode = prev
		return
	}
	it.referenceNode = toBeRemoved.ParentNode
}
