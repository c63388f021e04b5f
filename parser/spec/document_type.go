package spec

import "github.com/heathj/htmldom/parser/webidl"

// Missing distinguishes an absent doctype identifier from an empty one.
const Missing webidl.DOMString = "MISSING"

// DocumentType is https://dom.spec.whatwg.org/#documenttype
type DocumentType struct {
	Name     webidl.DOMString
	PublicID webidl.DOMString
	SystemID webidl.DOMString
}
