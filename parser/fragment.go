package parser

import (
	"github.com/heathj/htmldom/parser/spec"
)

// ParseHTMLFragment parses input against a context element and returns the
// parsed children.
// https://html.spec.whatwg.org/multipage/parsing.html#parsing-html-fragments
func ParseHTMLFragment(context *spec.Node, input string, quirks string, scriptingEnabled bool) spec.NodeList {
	tokenizer := NewHTMLTokenizer(input, htmlParserConfig{})
	treeConstructor := NewHTMLTreeConstructor(htmlParserConfig{})

	treeConstructor.context = context
	treeConstructor.createdBy = htmlFragmentParsingAlgorithm
	treeConstructor.scriptingEnabled = scriptingEnabled
	if quirks == "" {
		quirks = spec.NoQuirks
	}
	treeConstructor.quirksMode = quirks
	treeConstructor.HTMLDocument.Node.Document.Mode = quirks

	// The context element picks the tokenizer start state.
	startState := dataState
	if context != nil && context.NodeType == spec.ElementNode && context.Element.NamespaceURI == spec.Htmlns {
		switch context.Element.LocalName {
		case "title", "textarea":
			startState = rcDataState
		case "style", "xmp", "iframe", "noembed", "noframes":
			startState = rawTextState
		case "script":
			startState = scriptDataState
		case "noscript":
			if scriptingEnabled {
				startState = rawTextState
			}
		case "plaintext":
			startState = plaintextState
		}
	}

	root := spec.NewDOMElement(treeConstructor.HTMLDocument.Node, "html", spec.Htmlns)
	treeConstructor.HTMLDocument.AppendChild(root)
	treeConstructor.stackOfOpenElements.Push(root)

	if context != nil && context.NodeType == spec.ElementNode && context.Element.LocalName == "template" {
		treeConstructor.stackOfTemplateInsertionModes = append(treeConstructor.stackOfTemplateInsertionModes, inTemplate)
	}
	treeConstructor.insertionMode = treeConstructor.resetInsertionModeWithContext(context)

	if context != nil {
		for next := context; next != nil; next = next.ParentNode {
			if next.NodeType == spec.ElementNode && next.Element.LocalName == "form" {
				treeConstructor.formElementPointer = next
				break
			}
		}
	}

	progress := MakeProgress(treeConstructor.getAdjustedCurrentNode(), &startState)
	for tokenizer.Next() && !treeConstructor.stopped {
		t, err := tokenizer.Token(progress)
		if err != nil {
			break
		}
		progress = treeConstructor.ProcessToken(t)
	}

	return root.ChildNodes
}
