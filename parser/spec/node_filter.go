package spec

// Filter verdicts and whatToShow bits.
// https://dom.spec.whatwg.org/#interface-nodefilter
const (
	FilterAccept = 1
	FilterReject = 2
	FilterSkip   = 3
)

// The bits follow this package's NodeType numbering: 1 << (nodeType - 1).
const (
	ShowAll                   uint = 0xFFFFFFFF
	ShowElement               uint = 1 << (uint(ElementNode) - 1)
	ShowAttribute             uint = 1 << (uint(AttrNode) - 1)
	ShowText                  uint = 1 << (uint(TextNode) - 1)
	ShowCDATASection          uint = 1 << (uint(CDATASectionNode) - 1)
	ShowProcessingInstruction uint = 1 << (uint(ProcessingInstructionNode) - 1)
	ShowComment               uint = 1 << (uint(CommentNode) - 1)
	ShowDocument              uint = 1 << (uint(DocumentNode) - 1)
	ShowDocumentType          uint = 1 << (uint(DocumentTypeNode) - 1)
	ShowDocumentFragment      uint = 1 << (uint(DocumentFragmentNode) - 1)
)

// NodeFilter is the callback form; nil accepts everything the whatToShow mask
// lets through.
type NodeFilter func(n *Node) int

// https://dom.spec.whatwg.org/#concept-node-filter
func filterNode(n *Node, whatToShow uint, filter NodeFilter) int {
	bit := uint(1) << (uint(n.NodeType) - 1)
	if whatToShow&bit == 0 {
		return FilterSkip
	}
	if filter == nil {
		return FilterAccept
	}
	return filter(n)
}
