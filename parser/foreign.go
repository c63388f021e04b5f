package parser

import (
	"strings"

	"github.com/heathj/htmldom/parser/spec"
)

// https://html.spec.whatwg.org/multipage/parsing.html#mathml-text-integration-point
func isMathMLTextIntegrationPoint(n *spec.Node) bool {
	if n == nil || n.NodeType != spec.ElementNode || n.Element.NamespaceURI != spec.Mathmlns {
		return false
	}
	switch n.Element.LocalName {
	case "mi", "mo", "mn", "ms", "mtext":
		return true
	}
	return false
}

// https://html.spec.whatwg.org/multipage/parsing.html#html-integration-point
func isHTMLIntegrationPoint(n *spec.Node) bool {
	if n == nil || n.NodeType != spec.ElementNode {
		return false
	}
	switch n.Element.NamespaceURI {
	case spec.Mathmlns:
		if n.Element.LocalName != "annotation-xml" {
			return false
		}
		enc, ok := n.GetAttribute("encoding")
		if !ok {
			return false
		}
		e := strings.ToLower(string(enc))
		return e == "text/html" || e == "application/xhtml+xml"
	case spec.Svgns:
		switch n.Element.LocalName {
		case "foreignObject", "desc", "title":
			return true
		}
	}
	return false
}

// useForeignContentRules implements the tree construction dispatcher choice.
func (c *HTMLTreeConstructor) useForeignContentRules(t *Token) bool {
	if len(c.stackOfOpenElements.NodeList) == 0 {
		return false
	}
	acn := c.getAdjustedCurrentNode()
	if acn == nil || acn.NodeType != spec.ElementNode {
		return false
	}
	if acn.Element.NamespaceURI == spec.Htmlns {
		return false
	}
	if isMathMLTextIntegrationPoint(acn) {
		if t.TokenType == startTagToken && t.TagName != "mglyph" && t.TagName != "malignmark" {
			return false
		}
		if t.TokenType == characterToken {
			return false
		}
	}
	if acn.Element.NamespaceURI == spec.Mathmlns && acn.Element.LocalName == "annotation-xml" &&
		t.TokenType == startTagToken && t.TagName == "svg" {
		return false
	}
	if isHTMLIntegrationPoint(acn) && (t.TokenType == startTagToken || t.TokenType == characterToken) {
		return false
	}
	if t.TokenType == endOfFileToken {
		return false
	}
	return true
}

// svgTagNameAdjustments fixes the case of camel-cased SVG element names.
var svgTagNameAdjustments = map[string]string{
	"altglyph":            "altGlyph",
	"altglyphdef":         "altGlyphDef",
	"altglyphitem":        "altGlyphItem",
	"animatecolor":        "animateColor",
	"animatemotion":       "animateMotion",
	"animatetransform":    "animateTransform",
	"clippath":            "clipPath",
	"feblend":             "feBlend",
	"fecolormatrix":       "feColorMatrix",
	"fecomponenttransfer": "feComponentTransfer",
	"fecomposite":         "feComposite",
	"feconvolvematrix":    "feConvolveMatrix",
	"fediffuselighting":   "feDiffuseLighting",
	"fedisplacementmap":   "feDisplacementMap",
	"fedistantlight":      "feDistantLight",
	"fedropshadow":        "feDropShadow",
	"feflood":             "feFlood",
	"fefunca":             "feFuncA",
	"fefuncb":             "feFuncB",
	"fefuncg":             "feFuncG",
	"fefuncr":             "feFuncR",
	"fegaussianblur":      "feGaussianBlur",
	"feimage":             "feImage",
	"femerge":             "feMerge",
	"femergenode":         "feMergeNode",
	"femorphology":        "feMorphology",
	"feoffset":            "feOffset",
	"fepointlight":        "fePointLight",
	"fespecularlighting":  "feSpecularLighting",
	"fespotlight":         "feSpotLight",
	"fetile":              "feTile",
	"feturbulence":        "feTurbulence",
	"foreignobject":       "foreignObject",
	"glyphref":            "glyphRef",
	"lineargradient":      "linearGradient",
	"radialgradient":      "radialGradient",
	"textpath":            "textPath",
}

// svgAttrAdjustments fixes the case of camel-cased SVG attribute names.
var svgAttrAdjustments = map[string]string{
	"attributename":             "attributeName",
	"attributetype":             "attributeType",
	"basefrequency":             "baseFrequency",
	"baseprofile":               "baseProfile",
	"calcmode":                  "calcMode",
	"clippathunits":             "clipPathUnits",
	"diffuseconstant":           "diffuseConstant",
	"edgemode":                  "edgeMode",
	"filterunits":               "filterUnits",
	"glyphref":                  "glyphRef",
	"gradienttransform":         "gradientTransform",
	"gradientunits":             "gradientUnits",
	"kernelmatrix":              "kernelMatrix",
	"kernelunitlength":          "kernelUnitLength",
	"keypoints":                 "keyPoints",
	"keysplines":                "keySplines",
	"keytimes":                  "keyTimes",
	"lengthadjust":              "lengthAdjust",
	"limitingconeangle":         "limitingConeAngle",
	"markerheight":              "markerHeight",
	"markerunits":               "markerUnits",
	"markerwidth":               "markerWidth",
	"maskcontentunits":          "maskContentUnits",
	"maskunits":                 "maskUnits",
	"numoctaves":                "numOctaves",
	"pathlength":                "pathLength",
	"patterncontentunits":       "patternContentUnits",
	"patterntransform":          "patternTransform",
	"patternunits":              "patternUnits",
	"pointsatx":                 "pointsAtX",
	"pointsaty":                 "pointsAtY",
	"pointsatz":                 "pointsAtZ",
	"preservealpha":             "preserveAlpha",
	"preserveaspectratio":       "preserveAspectRatio",
	"primitiveunits":            "primitiveUnits",
	"refx":                      "refX",
	"refy":                      "refY",
	"repeatcount":               "repeatCount",
	"repeatdur":                 "repeatDur",
	"requiredextensions":        "requiredExtensions",
	"requiredfeatures":          "requiredFeatures",
	"specularconstant":          "specularConstant",
	"specularexponent":          "specularExponent",
	"spreadmethod":              "spreadMethod",
	"startoffset":               "startOffset",
	"stddeviation":              "stdDeviation",
	"stitchtiles":               "stitchTiles",
	"surfacescale":              "surfaceScale",
	"systemlanguage":            "systemLanguage",
	"tablevalues":               "tableValues",
	"targetx":                   "targetX",
	"targety":                   "targetY",
	"textlength":                "textLength",
	"viewbox":                   "viewBox",
	"viewtarget":                "viewTarget",
	"xchannelselector":          "xChannelSelector",
	"ychannelselector":          "yChannelSelector",
	"zoomandpan":                "zoomAndPan",
}

// https://html.spec.whatwg.org/multipage/parsing.html#adjust-mathml-attributes
func adjustMathMLAttributes(t *Token) {
	for _, a := range t.Attributes {
		if a.Name == "definitionurl" {
			a.Name = "definitionURL"
		}
	}
}

// https://html.spec.whatwg.org/multipage/parsing.html#adjust-svg-attributes
func adjustSVGAttributes(t *Token) {
	for _, a := range t.Attributes {
		if fixed, ok := svgAttrAdjustments[a.Name]; ok {
			a.Name = fixed
		}
	}
}

// https://html.spec.whatwg.org/multipage/parsing.html#adjust-foreign-attributes
func adjustForeignAttributes(t *Token) {
	for _, a := range t.Attributes {
		switch a.Name {
		case "xlink:actuate", "xlink:arcrole", "xlink:href", "xlink:role",
			"xlink:show", "xlink:title", "xlink:type":
			a.Prefix = "xlink"
			a.Name = strings.TrimPrefix(a.Name, "xlink:")
			a.NamespaceAdjusted = true
		case "xml:lang", "xml:space":
			a.Prefix = "xml"
			a.Name = strings.TrimPrefix(a.Name, "xml:")
			a.NamespaceAdjusted = true
		case "xmlns":
			a.NamespaceAdjusted = true
		case "xmlns:xlink":
			a.Prefix = "xmlns"
			a.Name = "xlink"
			a.NamespaceAdjusted = true
		}
	}
}

// foreignAttrNamespace resolves the namespace of an adjusted foreign
// attribute.
func foreignAttrNamespace(a *TokenAttr) spec.Namespace {
	switch a.Prefix {
	case "xlink":
		return spec.Xlinkns
	case "xml":
		return spec.Xmlns
	case "xmlns":
		return spec.Xmlnsns
	}
	if a.Name == "xmlns" {
		return spec.Xmlnsns
	}
	return spec.NoNamespace
}

// HTML breakout tags force an exit from foreign content.
func isForeignBreakoutTag(t *Token) bool {
	switch t.TagName {
	case "b", "big", "blockquote", "body", "br", "center", "code", "dd", "div",
		"dl", "dt", "em", "embed", "h1", "h2", "h3", "h4", "h5", "h6", "head",
		"hr", "i", "img", "li", "listing", "menu", "meta", "nobr", "ol", "p",
		"pre", "ruby", "s", "small", "span", "strong", "strike", "sub", "sup",
		"table", "tt", "u", "ul", "var":
		return true
	case "font":
		for _, a := range t.Attributes {
			switch a.Name {
			case "color", "face", "size":
				return true
			}
		}
	}
	return false
}

// https://html.spec.whatwg.org/multipage/parsing.html#parsing-main-inforeign
func (c *HTMLTreeConstructor) foreignContentModeHandler(t *Token) (bool, insertionMode, parseError) {
	err := noError
	switch t.TokenType {
	case characterToken:
		switch {
		case t.Data == "\u0000":
			t.Data = "\uFFFD"
			c.insertCharacter(t)
			return false, c.insertionMode, generalParseError
		case isWhitespaceData(t.Data):
			c.insertCharacter(t)
			return false, c.insertionMode, noError
		default:
			c.insertCharacter(t)
			c.framesetOK = false
			return false, c.insertionMode, noError
		}
	case commentToken:
		c.insertComment(t)
		return false, c.insertionMode, noError
	case docTypeToken:
		return false, c.insertionMode, generalParseError
	case startTagToken:
		if isForeignBreakoutTag(t) {
			err = generalParseError
			for {
				cur := c.getCurrentNode()
				if cur == nil || cur.NodeType != spec.ElementNode ||
					cur.Element.NamespaceURI == spec.Htmlns ||
					isMathMLTextIntegrationPoint(cur) || isHTMLIntegrationPoint(cur) {
					break
				}
				c.stackOfOpenElements.Pop()
			}
			return true, c.insertionMode, err
		}

		acn := c.getAdjustedCurrentNode()
		ns := spec.Htmlns
		if acn != nil && acn.NodeType == spec.ElementNode {
			ns = acn.Element.NamespaceURI
		}
		switch ns {
		case spec.Mathmlns:
			adjustMathMLAttributes(t)
		case spec.Svgns:
			if fixed, ok := svgTagNameAdjustments[t.TagName]; ok {
				t.TagName = fixed
			}
			adjustSVGAttributes(t)
		}
		adjustForeignAttributes(t)
		c.insertForeignElementForToken(t, ns)
		if t.SelfClosing {
			if t.TagName == "script" && ns == spec.Svgns {
				t.SelfClosingAcknowledged = true
				c.stackOfOpenElements.Pop()
				return false, c.insertionMode, noError
			}
			c.stackOfOpenElements.Pop()
			t.SelfClosingAcknowledged = true
		}
		return false, c.insertionMode, noError
	case endTagToken:
		cur := c.getCurrentNode()
		if cur != nil && cur.NodeType == spec.ElementNode && cur.Element.LocalName == "script" &&
			cur.Element.NamespaceURI == spec.Svgns && t.TagName == "script" {
			c.stackOfOpenElements.Pop()
			return false, c.insertionMode, noError
		}

		if cur != nil && strings.ToLower(string(cur.Element.LocalName)) != t.TagName {
			err = generalParseError
		}
		stack := c.stackOfOpenElements.NodeList
		for i := len(stack) - 1; i > 0; i-- {
			node := stack[i]
			if strings.ToLower(string(node.Element.LocalName)) == t.TagName {
				for c.getCurrentNode() != node {
					c.stackOfOpenElements.Pop()
				}
				c.stackOfOpenElements.Pop()
				return false, c.insertionMode, err
			}
			if stack[i-1].NodeType == spec.ElementNode &&
				stack[i-1].Element.NamespaceURI == spec.Htmlns {
				break
			}
		}
		// Process under the HTML rules.
		return c.mappings[c.insertionMode](t)
	}
	return false, c.insertionMode, err
}
