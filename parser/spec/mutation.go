package spec

// https://dom.spec.whatwg.org/#concept-node-ensure-pre-insertion-validity
func (parent *Node) EnsurePreInsertionValidity(node, child *Node) error {
	switch parent.NodeType {
	case DocumentNode, DocumentFragmentNode, ElementNode:
	default:
		return hierarchyRequestError("cannot insert under a %d node", parent.NodeType)
	}
	if parent.IsInclusiveDescendantOf(node) {
		return hierarchyRequestError("node is a host-including inclusive ancestor of parent")
	}
	if child != nil && child.ParentNode != parent {
		return notFoundError("reference child has a different parent")
	}
	switch node.NodeType {
	case DocumentFragmentNode, DocumentTypeNode, ElementNode, TextNode,
		CDATASectionNode, ProcessingInstructionNode, CommentNode:
	default:
		return hierarchyRequestError("cannot insert a %d node", node.NodeType)
	}
	if node.NodeType == TextNode && parent.NodeType == DocumentNode {
		return hierarchyRequestError("text cannot be a document child")
	}
	if node.NodeType == DocumentTypeNode && parent.NodeType != DocumentNode {
		return hierarchyRequestError("doctype outside a document")
	}
	if parent.NodeType != DocumentNode {
		return nil
	}

	switch node.NodeType {
	case DocumentFragmentNode:
		elements := 0
		for _, c := range node.ChildNodes {
			switch c.NodeType {
			case ElementNode:
				elements++
			case TextNode:
				return hierarchyRequestError("fragment with text child into a document")
			}
		}
		if elements > 1 {
			return hierarchyRequestError("fragment with multiple element children into a document")
		}
		if elements == 1 {
			if err := parent.documentElementCheck(child); err != nil {
				return err
			}
		}
	case ElementNode:
		if err := parent.documentElementCheck(child); err != nil {
			return err
		}
	case DocumentTypeNode:
		for _, c := range parent.ChildNodes {
			if c.NodeType == DocumentTypeNode {
				return hierarchyRequestError("document already has a doctype")
			}
		}
		if child != nil {
			for _, c := range parent.ChildNodes {
				if c == child {
					break
				}
				if c.NodeType == ElementNode {
					return hierarchyRequestError("doctype after the document element")
				}
			}
		} else if parent.documentElementNode() != nil {
			return hierarchyRequestError("doctype after the document element")
		}
	}
	return nil
}

func (parent *Node) documentElementCheck(child *Node) error {
	if parent.documentElementNode() != nil {
		return hierarchyRequestError("document already has a document element")
	}
	if child != nil {
		if child.NodeType == DocumentTypeNode {
			return hierarchyRequestError("element before the doctype")
		}
		for c := child.NextSibling; c != nil; c = c.NextSibling {
			if c.NodeType == DocumentTypeNode {
				return hierarchyRequestError("element before the doctype")
			}
		}
	}
	return nil
}

// https://dom.spec.whatwg.org/#concept-node-pre-insert
func (parent *Node) PreInsert(node, child *Node) (*Node, error) {
	if err := parent.EnsurePreInsertionValidity(node, child); err != nil {
		return nil, err
	}
	ref := child
	if ref == node {
		ref = node.NextSibling
	}
	parent.insert(node, ref)
	return node, nil
}

// insert splices node (or, for a fragment, its children as a group) into
// parent before child.
// https://dom.spec.whatwg.org/#concept-node-insert
func (parent *Node) insert(node, child *Node) {
	nodes := NodeList{node}
	if node.NodeType == DocumentFragmentNode {
		nodes = append(NodeList{}, node.ChildNodes...)
		for _, c := range nodes {
			c.remove()
		}
	}
	if len(nodes) == 0 {
		return
	}

	doc := parent.nodeDocument()
	for _, c := range nodes {
		if doc != nil {
			doc.adopt(c)
		}
	}

	count := len(nodes)
	if child != nil && doc != nil && doc.Document != nil {
		idx := child.index()
		for _, r := range doc.Document.liveRanges {
			if r.startContainer == parent && r.startOffset > idx {
				r.startOffset += count
			}
			if r.endContainer == parent && r.endOffset > idx {
				r.endOffset += count
			}
		}
	}

	for _, c := range nodes {
		if c.ParentNode != nil {
			c.remove()
		}
		if child == nil {
			parent.appendChildFast(c)
		} else {
			parent.ChildNodes.WedgeIn(child.index(), c)
			c.ParentNode = parent
			c.PreviousSibling = child.PreviousSibling
			c.NextSibling = child
			if child.PreviousSibling != nil {
				child.PreviousSibling.NextSibling = c
			} else {
				parent.FirstChild = c
			}
			child.PreviousSibling = c
		}
		c.setConnected(parent.IsConnected || parent.NodeType == DocumentNode)
		runInsertionSteps(c)
	}
	if doc != nil && doc.Document != nil {
		doc.Document.bumpGeneration()
	}
}

// appendChildFast links a parentless node as the last child. Callers own
// validation and adoption.
func (parent *Node) appendChildFast(c *Node) {
	if parent.LastChild != nil {
		c.PreviousSibling = parent.LastChild
		parent.LastChild.NextSibling = c
	} else {
		parent.FirstChild = c
	}
	c.NextSibling = nil
	c.ParentNode = parent
	parent.LastChild = c
	parent.ChildNodes = append(parent.ChildNodes, c)
}

func (n *Node) setConnected(v bool) {
	n.IsConnected = v
	for _, c := range n.ChildNodes {
		c.setConnected(v)
	}
}

// https://dom.spec.whatwg.org/#concept-node-remove
func (n *Node) remove() {
	parent := n.ParentNode
	if parent == nil {
		return
	}
	doc := parent.nodeDocument()
	idx := n.index()

	if doc != nil && doc.Document != nil {
		for _, r := range doc.Document.liveRanges {
			if r.startContainer.IsInclusiveDescendantOf(n) {
				r.startContainer = parent
				r.startOffset = idx
			}
			if r.endContainer.IsInclusiveDescendantOf(n) {
				r.endContainer = parent
				r.endOffset = idx
			}
			if r.startContainer == parent && r.startOffset > idx {
				r.startOffset--
			}
			if r.endContainer == parent && r.endOffset > idx {
				r.endOffset--
			}
		}
		for _, it := range doc.Document.liveIterators {
			it.preRemovingSteps(n)
		}
	}

	if n.PreviousSibling != nil {
		n.PreviousSibling.NextSibling = n.NextSibling
	} else {
		parent.FirstChild = n.NextSibling
	}
	if n.NextSibling != nil {
		n.NextSibling.PreviousSibling = n.PreviousSibling
	} else {
		parent.LastChild = n.PreviousSibling
	}
	parent.ChildNodes.Remove(idx)
	n.ParentNode = nil
	n.PreviousSibling = nil
	n.NextSibling = nil
	n.setConnected(false)
	runRemovingSteps(n, parent)
	if doc != nil && doc.Document != nil {
		doc.Document.bumpGeneration()
	}
}

// https://dom.spec.whatwg.org/#concept-node-pre-remove
func (parent *Node) PreRemove(child *Node) (*Node, error) {
	if child.ParentNode != parent {
		return nil, notFoundError("child is not a child of parent")
	}
	child.remove()
	return child, nil
}

// https://dom.spec.whatwg.org/#concept-node-replace
func (parent *Node) replace(child, node *Node) (*Node, error) {
	switch parent.NodeType {
	case DocumentNode, DocumentFragmentNode, ElementNode:
	default:
		return nil, hierarchyRequestError("cannot replace under a %d node", parent.NodeType)
	}
	if parent.IsInclusiveDescendantOf(node) {
		return nil, hierarchyRequestError("node is a host-including inclusive ancestor of parent")
	}
	if child.ParentNode != parent {
		return nil, notFoundError("reference child has a different parent")
	}
	switch node.NodeType {
	case DocumentFragmentNode, DocumentTypeNode, ElementNode, TextNode,
		CDATASectionNode, ProcessingInstructionNode, CommentNode:
	default:
		return nil, hierarchyRequestError("cannot insert a %d node", node.NodeType)
	}
	if node.NodeType == TextNode && parent.NodeType == DocumentNode {
		return nil, hierarchyRequestError("text cannot be a document child")
	}
	if node.NodeType == DocumentTypeNode && parent.NodeType != DocumentNode {
		return nil, hierarchyRequestError("doctype outside a document")
	}

	ref := child.NextSibling
	if ref == node {
		ref = node.NextSibling
	}
	child.remove()
	parent.insert(node, ref)
	return child, nil
}

// replaceAll replaces every child of parent with node (nil empties).
// https://dom.spec.whatwg.org/#concept-node-replace-all
func (parent *Node) replaceAll(node *Node) {
	for len(parent.ChildNodes) > 0 {
		parent.ChildNodes[0].remove()
	}
	if node != nil {
		parent.insert(node, nil)
	}
}

// AppendChild follows the DOM signature; validation errors leave the tree
// untouched and return the child unchanged. AppendChildErr reports them.
func (n *Node) AppendChild(on *Node) *Node {
	res, err := n.PreInsert(on, nil)
	if err != nil {
		return on
	}
	return res
}

func (n *Node) AppendChildErr(on *Node) (*Node, error) {
	return n.PreInsert(on, nil)
}

func (n *Node) InsertBefore(on, child *Node) *Node {
	res, err := n.PreInsert(on, child)
	if err != nil {
		return on
	}
	return res
}

func (n *Node) InsertBeforeErr(on, child *Node) (*Node, error) {
	return n.PreInsert(on, child)
}

func (n *Node) RemoveChild(child *Node) *Node {
	res, err := n.PreRemove(child)
	if err != nil {
		return nil
	}
	return res
}

func (n *Node) RemoveChildErr(child *Node) (*Node, error) {
	return n.PreRemove(child)
}

func (n *Node) ReplaceChild(node, child *Node) *Node {
	res, err := n.replace(child, node)
	if err != nil {
		return nil
	}
	return res
}

func (n *Node) ReplaceChildErr(node, child *Node) (*Node, error) {
	return n.replace(child, node)
}

// adopt re-homes node and its whole subtree (attributes included) into doc.
// https://dom.spec.whatwg.org/#concept-node-adopt
func (doc *Node) adopt(node *Node) {
	oldDoc := node.OwnerDocument
	if node.ParentNode != nil {
		node.remove()
	}
	if oldDoc == doc {
		return
	}
	node.setOwner(doc)
	runAdoptingSteps(node, oldDoc)
}

func (n *Node) setOwner(doc *Node) {
	n.OwnerDocument = doc
	if n.NodeType == ElementNode {
		for _, attr := range n.Element.Attributes.Attrs {
			if attr.ownerNode != nil {
				attr.ownerNode.OwnerDocument = doc
			}
		}
		if n.Element.Template != nil && n.Element.Template.Content != nil {
			td := doc.Document.templateContentsDocument(doc)
			n.Element.Template.Content.setOwner(td)
		}
	}
	for _, c := range n.ChildNodes {
		c.setOwner(doc)
	}
}

// https://dom.spec.whatwg.org/#dom-node-normalize
func (n *Node) Normalize() {
	doc := n.nodeDocument()
	node := n.nextInTreeOrder(n)
	for node != nil {
		if node.NodeType != TextNode {
			node = node.nextInTreeOrder(n)
			continue
		}
		length := node.Text.CharacterData.length()
		if length == 0 {
			next := node.nextInTreeOrder(n)
			node.remove()
			node = next
			continue
		}

		// Pull the data of the contiguous text siblings that follow into node,
		// rewriting ranges so absolute positions hold.
		for sib := node.NextSibling; sib != nil && sib.NodeType == TextNode; sib = node.NextSibling {
			sibLen := sib.Text.CharacterData.length()
			if doc != nil && doc.Document != nil {
				for _, r := range doc.Document.liveRanges {
					if r.startContainer == sib {
						r.startContainer = node
						r.startOffset += length
					}
					if r.endContainer == sib {
						r.endContainer = node
						r.endOffset += length
					}
					if r.startContainer == node.ParentNode && r.startOffset == sib.index() {
						r.startContainer = node
						r.startOffset = length
					}
					if r.endContainer == node.ParentNode && r.endOffset == sib.index() {
						r.endContainer = node
						r.endOffset = length
					}
				}
			}
			node.Text.CharacterData.Data += sib.Text.CharacterData.Data
			length += sibLen
			sib.remove()
		}
		node = node.nextInTreeOrder(n)
	}
}
