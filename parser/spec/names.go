package spec

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/heathj/htmldom/parser/webidl"
)

// Name validation follows the XML Name production, which is what createElement
// and the attribute APIs check against.
// https://www.w3.org/TR/xml/#NT-Name

func isNameStartRune(r rune) bool {
	switch {
	case r == ':' || r == '_',
		r >= 'A' && r <= 'Z',
		r >= 'a' && r <= 'z',
		r >= 0xC0 && r <= 0xD6,
		r >= 0xD8 && r <= 0xF6,
		r >= 0xF8 && r <= 0x2FF,
		r >= 0x370 && r <= 0x37D,
		r >= 0x37F && r <= 0x1FFF,
		r >= 0x200C && r <= 0x200D,
		r >= 0x2070 && r <= 0x218F,
		r >= 0x2C00 && r <= 0x2FEF,
		r >= 0x3001 && r <= 0xD7FF,
		r >= 0xF900 && r <= 0xFDCF,
		r >= 0xFDF0 && r <= 0xFFFD,
		r >= 0x10000 && r <= 0xEFFFF:
		return true
	}
	return false
}

func isNameRune(r rune) bool {
	if isNameStartRune(r) {
		return true
	}
	switch {
	case r == '-' || r == '.' || r == 0xB7,
		r >= '0' && r <= '9',
		r >= 0x300 && r <= 0x36F,
		r >= 0x203F && r <= 0x2040:
		return true
	}
	return false
}

func isValidName(name webidl.DOMString) bool {
	if name == "" {
		return false
	}
	for i, r := range string(name) {
		if i == 0 {
			if !isNameStartRune(r) {
				return false
			}
			continue
		}
		if !isNameRune(r) {
			return false
		}
	}
	return true
}

func isValidAttributeName(name webidl.DOMString) bool {
	return isValidName(name)
}

// https://dom.spec.whatwg.org/#validate-and-extract
func validateAndExtract(ns Namespace, qualifiedName webidl.DOMString) (prefix, localName webidl.DOMString, err error) {
	if !isValidName(qualifiedName) {
		return "", "", errorsWrapInvalidName(qualifiedName)
	}
	localName = qualifiedName
	if i := strings.IndexByte(string(qualifiedName), ':'); i >= 0 {
		prefix = qualifiedName[:i]
		localName = qualifiedName[i+1:]
		if prefix == "" || localName == "" || strings.ContainsRune(string(localName), ':') {
			return "", "", errorsWrapInvalidName(qualifiedName)
		}
	}
	if prefix != "" && ns == NoNamespace {
		return "", "", errors.Wrapf(ErrNamespace, "prefix %s without a namespace", prefix)
	}
	if prefix == "xml" && ns != Xmlns {
		return "", "", errors.Wrap(ErrNamespace, "xml prefix outside the xml namespace")
	}
	if (qualifiedName == "xmlns" || prefix == "xmlns") && ns != Xmlnsns {
		return "", "", errors.Wrap(ErrNamespace, "xmlns outside the xmlns namespace")
	}
	if ns == Xmlnsns && qualifiedName != "xmlns" && prefix != "xmlns" {
		return "", "", errors.Wrap(ErrNamespace, "xmlns namespace requires the xmlns name")
	}
	return prefix, localName, nil
}

func errorsWrapInvalidName(name webidl.DOMString) error {
	return errors.Wrapf(ErrInvalidCharacter, "%q is not a valid name", string(name))
}

func errorsWrapInvalidChar(token webidl.DOMString) error {
	return errors.Wrapf(ErrInvalidCharacter, "%q contains a character or sequence that is not allowed", string(token))
}

func errorsWrapSyntax(msg string) error {
	return errors.Wrap(ErrSyntax, msg)
}
