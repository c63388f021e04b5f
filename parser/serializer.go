package parser

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/heathj/htmldom/parser/spec"
)

// SerializeOptions control HTML serialization.
type SerializeOptions struct {
	RequireWellFormed bool
}

// https://html.spec.whatwg.org/multipage/parsing.html#escapingString
func escapeString(s string, attrVal bool) string {
	s = strings.Replace(s, "&", "&amp;", -1)
	s = strings.Replace(s, "\u00A0", "&nbsp;", -1)
	if attrVal {
		s = strings.Replace(s, "\"", "&quot;", -1)
	} else {
		s = strings.Replace(s, "<", "&lt;", -1)
		s = strings.Replace(s, ">", "&gt;", -1)
	}
	return s
}

// https://html.spec.whatwg.org/multipage/syntax.html#void-elements plus the
// legacy set that never serializes children.
func isVoidElement(name string) bool {
	switch name {
	case "area", "base", "br", "col", "embed", "hr", "img", "input", "link",
		"meta", "param", "source", "track", "wbr",
		"basefont", "bgsound", "frame", "keygen", "menuitem":
		return true
	}
	return false
}

func isRawTextSerialized(name string) bool {
	switch name {
	case "style", "script", "xmp", "iframe", "noembed", "noframes", "plaintext":
		return true
	}
	return false
}

// SerializeHTML runs the HTML fragment serialization algorithm over node's
// children.
// https://html.spec.whatwg.org/multipage/parsing.html#serialising-html-fragments
func SerializeHTML(node *spec.Node, opts SerializeOptions) (string, error) {
	var sb strings.Builder
	if err := serializeChildren(&sb, node, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// SerializeHTMLFragment is SerializeHTML without well-formedness checks.
func SerializeHTMLFragment(fragment *spec.Node) string {
	out, _ := SerializeHTML(fragment, SerializeOptions{})
	return out
}

func serializeChildren(sb *strings.Builder, parent *spec.Node, opts SerializeOptions) error {
	if parent.NodeType == spec.ElementNode {
		if isVoidElement(string(parent.Element.LocalName)) {
			return nil
		}
		if parent.Element.Template != nil && parent.Element.Template.Content != nil {
			return serializeChildren(sb, parent.Element.Template.Content, opts)
		}
	}
	for _, child := range parent.ChildNodes {
		if err := serializeNode(sb, child, opts); err != nil {
			return err
		}
	}
	return nil
}

func serializeNode(sb *strings.Builder, child *spec.Node, opts SerializeOptions) error {
	switch child.NodeType {
	case spec.ElementNode:
		name := string(child.Element.LocalName)
		sb.WriteByte('<')
		sb.WriteString(tagNameFor(child))
		for _, attr := range child.Element.Attributes.Attrs {
			if opts.RequireWellFormed && strings.ContainsAny(string(attr.LocalName), " \"'>/=") {
				return errors.Wrapf(ErrSerialize, "attribute name %q", attr.LocalName)
			}
			sb.WriteByte(' ')
			sb.WriteString(serializedAttrName(attr))
			sb.WriteString("=\"")
			sb.WriteString(escapeString(string(attr.Value), true))
			sb.WriteByte('"')
		}
		sb.WriteByte('>')
		if isVoidElement(name) && child.Element.NamespaceURI == spec.Htmlns {
			return nil
		}
		// Round-trip: a leading newline right after these start tags would be
		// dropped by the parser, so emit a second one.
		switch name {
		case "pre", "textarea", "listing":
			if fc := child.FirstChild; fc != nil && fc.NodeType == spec.TextNode &&
				strings.HasPrefix(string(fc.Text.Data), "\u000A") {
				sb.WriteString("\u000A")
			}
		}
		if err := serializeChildren(sb, child, opts); err != nil {
			return err
		}
		sb.WriteString("</")
		sb.WriteString(tagNameFor(child))
		sb.WriteByte('>')
	case spec.TextNode, spec.CDATASectionNode:
		data := string(child.Text.Data)
		parent := child.ParentNode
		raw := false
		if parent != nil && parent.NodeType == spec.ElementNode && parent.Element.NamespaceURI == spec.Htmlns {
			raw = isRawTextSerialized(string(parent.Element.LocalName)) ||
				parent.Element.LocalName == "noscript"
		}
		if raw {
			sb.WriteString(data)
		} else {
			sb.WriteString(escapeString(data, false))
		}
	case spec.CommentNode:
		data := string(child.Comment.Data)
		if opts.RequireWellFormed && (strings.Contains(data, "--") || strings.HasSuffix(data, "-")) {
			return errors.Wrap(ErrSerialize, "comment data cannot round-trip")
		}
		sb.WriteString("<!--")
		sb.WriteString(data)
		sb.WriteString("-->")
	case spec.ProcessingInstructionNode:
		data := string(child.ProcessingInstruction.Data)
		if opts.RequireWellFormed && strings.Contains(data, "?>") {
			return errors.Wrap(ErrSerialize, "processing instruction data cannot round-trip")
		}
		sb.WriteString("<?")
		sb.WriteString(string(child.ProcessingInstruction.Target))
		sb.WriteByte(' ')
		sb.WriteString(data)
		sb.WriteString("?>")
	case spec.DocumentTypeNode:
		sb.WriteString("<!DOCTYPE ")
		sb.WriteString(string(child.DocumentType.Name))
		pub := child.DocumentType.PublicID
		sys := child.DocumentType.SystemID
		if pub != "" && pub != spec.Missing {
			sb.WriteString(" PUBLIC \"")
			sb.WriteString(string(pub))
			sb.WriteByte('"')
			if sys != "" && sys != spec.Missing {
				sb.WriteString(" \"")
				sb.WriteString(string(sys))
				sb.WriteByte('"')
			}
		} else if sys != "" && sys != spec.Missing {
			sb.WriteString(" SYSTEM \"")
			sb.WriteString(string(sys))
			sb.WriteByte('"')
		}
		sb.WriteByte('>')
	}
	return nil
}

// tagNameFor is the serialized tag name: lowercase local name for HTML,
// qualified name for foreign elements.
func tagNameFor(n *spec.Node) string {
	if n.Element.NamespaceURI == spec.Htmlns {
		return strings.ToLower(string(n.Element.LocalName))
	}
	return string(n.Element.QualifiedName())
}

func serializedAttrName(a *spec.Attr) string {
	switch a.Namespace {
	case spec.Xmlns:
		return "xml:" + string(a.LocalName)
	case spec.Xmlnsns:
		if a.LocalName == "xmlns" && a.Prefix == "" {
			return "xmlns"
		}
		return "xmlns:" + string(a.LocalName)
	case spec.Xlinkns:
		return "xlink:" + string(a.LocalName)
	}
	return string(a.Name)
}

// ErrSerialize reports a tree that cannot round-trip when well-formed output
// was requested.
var ErrSerialize = errors.New("SerializeError")
