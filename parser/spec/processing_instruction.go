package spec

import "github.com/heathj/htmldom/parser/webidl"

// ProcessingInstruction is https://dom.spec.whatwg.org/#processinginstruction
type ProcessingInstruction struct {
	Target webidl.DOMString
	*CharacterData
}
