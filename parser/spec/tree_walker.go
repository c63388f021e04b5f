package spec

// https://dom.spec.whatwg.org/#treewalker
type TreeWalker struct {
	root        *Node
	whatToShow  uint
	filter      NodeFilter
	currentNode *Node
}

func (t *TreeWalker) Root() *Node        { return t.root }
func (t *TreeWalker) CurrentNode() *Node { return t.currentNode }
func (t *TreeWalker) SetCurrentNode(n *Node) {
	if n != nil {
		t.currentNode = n
	}
}

// https://dom.spec.whatwg.org/#dom-treewalker-parentnode
func (t *TreeWalker) ParentNode() *Node {
	for node := t.currentNode; node != nil && node != t.root; {
		node = node.ParentNode
		if node != nil && filterNode(node, t.whatToShow, t.filter) == FilterAccept {
			t.currentNode = node
			return node
		}
	}
	return nil
}

// https://dom.spec.whatwg.org/#concept-traverse-children
func (t *TreeWalker) traverseChildren(first bool) *Node {
	node := t.currentNode
	if first {
		node = node.FirstChild
	} else {
		node = node.LastChild
	}
	for node != nil {
		switch filterNode(node, t.whatToShow, t.filter) {
		case FilterAccept:
			t.currentNode = node
			return node
		case FilterSkip:
			var child *Node
			if first {
				child = node.FirstChild
			} else {
				child = node.LastChild
			}
			if child != nil {
				node = child
				continue
			}
		}
		for node != nil {
			var sibling *Node
			if first {
				sibling = node.NextSibling
			} else {
				sibling = node.PreviousSibling
			}
			if sibling != nil {
				node = sibling
				break
			}
			parent := node.ParentNode
			if parent == nil || parent == t.root || parent == t.currentNode {
				return nil
			}
			node = parent
		}
	}
	return nil
}

func (t *TreeWalker) FirstChild() *Node { return t.traverseChildren(true) }
func (t *TreeWalker) LastChild() *Node  { return t.traverseChildren(false) }

// https://dom.spec.whatwg.org/#concept-traverse-siblings
func (t *TreeWalker) traverseSiblings(next bool) *Node {
	node := t.currentNode
	if node == t.root {
		return nil
	}
	for {
		var sibling *Node
		if next {
			sibling = node.NextSibling
		} else {
			sibling = node.PreviousSibling
		}
		for sibling != nil {
			node = sibling
			result := filterNode(node, t.whatToShow, t.filter)
			if result == FilterAccept {
				t.currentNode = node
				return node
			}
			var child *Node
			if next {
				child = node.FirstChild
			} else {
				child = node.LastChild
			}
			if result == FilterReject || child == nil {
				if next {
					sibling = node.NextSibling
				} else {
					sibling = node.PreviousSibling
				}
			} else {
				sibling = child
			}
		}
		node = node.ParentNode
		if node == nil || node == t.root {
			return nil
		}
		if filterNode(node, t.whatToShow, t.filter) == FilterAccept {
			return nil
		}
	}
}

func (t *TreeWalker) NextSibling() *Node     { return t.traverseSiblings(true) }
func (t *TreeWalker) PreviousSibling() *Node { return t.traverseSiblings(false) }

// https://dom.spec.whatwg.org/#dom-treewalker-previousnode
func (t *TreeWalker) PreviousNode() *Node {
	node := t.currentNode
	for node != t.root {
		sibling := node.PreviousSibling
		for sibling != nil {
			node = sibling
			result := filterNode(node, t.whatToShow, t.filter)
			for result != FilterReject && node.LastChild != nil {
				node = node.LastChild
				result = filterNode(node, t.whatToShow, t.filter)
			}
			if result == FilterAccept {
				t.currentNode = node
				return node
			}
			sibling = node.PreviousSibling
		}
		if node == t.root || node.ParentNode == nil {
			return nil
		}
		node = node.ParentNode
		if filterNode(node, t.whatToShow, t.filter) == FilterAccept {
			t.currentNode = node
			return node
		}
	}
	return nil
}

// https://dom.spec.whatwg.org/#dom-treewalker-nextnode
func (t *TreeWalker) NextNode() *Node {
	node := t.currentNode
	result := FilterAccept
	for {
		for result != FilterReject && node.FirstChild != nil {
			node = node.FirstChild
			result = filterNode(node, t.whatToShow, t.filter)
			if result == FilterAccept {
				t.currentNode = node
				return node
			}
		}
		temp := node
		for temp != nil {
			if temp == t.root {
				return nil
			}
			if temp.NextSibling != nil {
				node = temp.NextSibling
				break
			}
			temp = temp.ParentNode
		}
		if temp == nil {
			return nil
		}
		result = filterNode(node, t.whatToShow, t.filter)
		if result == FilterAccept {
			t.currentNode = node
			return node
		}
	}
}
