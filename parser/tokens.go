package parser

import "strings"

//go:generate stringer -type=tokenType
type tokenType uint

const (
	characterToken tokenType = iota
	startTagToken
	endTagToken
	endOfFileToken
	commentToken
	docTypeToken
)

// missing distinguishes an absent doctype identifier from an empty one.
const missing string = "MISSING"

type tagType uint

const (
	startTag tagType = iota
	endTag
)

// TokenAttr is one entry of a token's ordered attribute list.
type TokenAttr struct {
	Name, Value    string
	Prefix         string
	NamespaceAdjusted bool
}

// Token is a concrete token that is ready to be emitted.
type Token struct {
	TokenType               tokenType
	Attributes              []*TokenAttr
	TagName                 string
	PublicIdentifier        string
	SystemIdentifier        string
	ForceQuirks             bool
	SelfClosing             bool
	SelfClosingAcknowledged bool
	Data                    string
}

// Attr returns the value of the named attribute.
func (t *Token) Attr(name string) (string, bool) {
	for _, a := range t.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// TokenBuilder builds various tokens up during the tokenization phase.
type TokenBuilder struct {
	attributes             []*TokenAttr
	seenAttrNames          map[string]bool
	attributeKey           strings.Builder
	attributeValue         strings.Builder
	name                   strings.Builder
	data                   strings.Builder
	tempBuffer             []rune
	publicID               strings.Builder
	systemID               strings.Builder
	publicIDSet            bool
	systemIDSet            bool
	selfClosing            bool
	forceQuirks            bool
	removeNextAttr         bool
	curTagType             tagType
	characterReferenceCode int
}

func MakeTokenBuilder() *TokenBuilder {
	return &TokenBuilder{
		seenAttrNames: map[string]bool{},
	}
}

// Reset clears everything that belongs to the in-progress token. The temp
// buffer is managed separately because character references span tokens.
func (t *TokenBuilder) Reset() {
	t.attributes = nil
	t.seenAttrNames = map[string]bool{}
	t.attributeKey.Reset()
	t.attributeValue.Reset()
	t.publicID.Reset()
	t.systemID.Reset()
	t.publicIDSet = false
	t.systemIDSet = false
	t.data.Reset()
	t.name.Reset()
	t.selfClosing = false
	t.forceQuirks = false
	t.removeNextAttr = false
}

// EnableSelfClosing changes the self-closing flag to "set".
func (t *TokenBuilder) EnableSelfClosing() {
	t.selfClosing = true
}

// EnableForceQuirks changes the force-quirks flag to "set".
func (t *TokenBuilder) EnableForceQuirks() {
	t.forceQuirks = true
}

// WritePublicIdentifierEmpty switches the public identifier from missing to
// the empty string.
func (t *TokenBuilder) WritePublicIdentifierEmpty() {
	t.publicID.Reset()
	t.publicIDSet = true
}

func (t *TokenBuilder) WriteSystemIdentifierEmpty() {
	t.systemID.Reset()
	t.systemIDSet = true
}

// WritePublicIdentifier appends a rune to the public identifier buffer.
func (t *TokenBuilder) WritePublicIdentifier(r rune) {
	t.publicIDSet = true
	t.publicID.WriteRune(r)
}

// WriteSystemIdentifier appends a rune to the system identifier buffer.
func (t *TokenBuilder) WriteSystemIdentifier(r rune) {
	t.systemIDSet = true
	t.systemID.WriteRune(r)
}

// WriteAttributeName appends a character to the current attribute's name.
func (t *TokenBuilder) WriteAttributeName(r rune) {
	t.attributeKey.WriteRune(r)
}

// WriteData appends a character to the current data section.
func (t *TokenBuilder) WriteData(r rune) {
	t.data.WriteRune(r)
}

// WriteAttributeValue appends a character to the current attribute's value.
func (t *TokenBuilder) WriteAttributeValue(r rune) {
	t.attributeValue.WriteRune(r)
}

// RemoveDuplicateAttributeName checks if the current name was already
// committed on this tag. Later duplicates are dropped.
func (t *TokenBuilder) RemoveDuplicateAttributeName() bool {
	if t.seenAttrNames[t.attributeKey.String()] {
		t.removeNextAttr = true
		return true
	}
	return false
}

// WriteName appends a character to the current name value.
func (t *TokenBuilder) WriteName(r rune) {
	t.name.WriteRune(r)
}

// CommitAttribute ends the creation of a name/value pair by copying the
// buffers into the ordered attribute list, unless the name is a duplicate.
func (t *TokenBuilder) CommitAttribute() bool {
	k := t.attributeKey.String()
	v := t.attributeValue.String()
	t.attributeKey.Reset()
	t.attributeValue.Reset()
	dropped := false
	if k != "" {
		if t.removeNextAttr || t.seenAttrNames[k] {
			dropped = true
		} else {
			t.seenAttrNames[k] = true
			t.attributes = append(t.attributes, &TokenAttr{Name: k, Value: v})
		}
	}
	t.removeNextAttr = false
	return dropped
}

// WriteTempBuffer appends a character to the temporary buffer.
func (t *TokenBuilder) WriteTempBuffer(r rune) {
	t.tempBuffer = append(t.tempBuffer, r)
}

// ResetTempBuffer clears the temporary buffer to be used by some other state.
func (t *TokenBuilder) ResetTempBuffer() {
	t.tempBuffer = t.tempBuffer[:0]
}

// TempBuffer returns the string form of the current buffer contents.
func (t *TokenBuilder) TempBuffer() string {
	return string(t.tempBuffer)
}

// TempBufferRunes returns the buffered code points.
func (t *TokenBuilder) TempBufferRunes() []rune {
	return t.tempBuffer
}

// TempBufferCharTokens converts the buffer to character tokens.
func (t *TokenBuilder) TempBufferCharTokens() []Token {
	tokens := make([]Token, 0, len(t.tempBuffer))
	for _, r := range t.tempBuffer {
		tokens = append(tokens, t.CharacterToken(r))
	}
	return tokens
}

// SetCharRef sets the character reference accumulator.
func (t *TokenBuilder) SetCharRef(i int) {
	t.characterReferenceCode = i
}

func (t *TokenBuilder) GetCharRef() int {
	return t.characterReferenceCode
}

// AddToCharRef adds a number to the current char ref accumulator, saturating
// above the Unicode range so overflow still maps to U+FFFD.
func (t *TokenBuilder) AddToCharRef(i int) {
	if t.characterReferenceCode > 0x10FFFF {
		return
	}
	t.characterReferenceCode += i
}

// MultByCharRef multiplies the current char ref accumulator.
func (t *TokenBuilder) MultByCharRef(i int) {
	if t.characterReferenceCode > 0x10FFFF {
		return
	}
	t.characterReferenceCode *= i
}

// Cmp compares the accumulator against v: -1, 0, or 1.
func (t *TokenBuilder) Cmp(v int) int {
	switch {
	case t.characterReferenceCode < v:
		return -1
	case t.characterReferenceCode > v:
		return 1
	}
	return 0
}

// StartTagToken creates a start tag token from the builder contents.
func (t *TokenBuilder) StartTagToken() Token {
	return Token{
		TokenType:   startTagToken,
		TagName:     t.name.String(),
		Attributes:  t.attributes,
		SelfClosing: t.selfClosing,
	}
}

// EndTagToken creates an end tag token from the builder contents.
func (t *TokenBuilder) EndTagToken() Token {
	return Token{
		TokenType:   endTagToken,
		TagName:     t.name.String(),
		Attributes:  t.attributes,
		SelfClosing: t.selfClosing,
	}
}

// CharacterToken creates a character token holding one code point.
func (t *TokenBuilder) CharacterToken(r rune) Token {
	return Token{
		TokenType: characterToken,
		Data:      string(r),
	}
}

// EndOfFileToken creates an end of stream token.
func (t *TokenBuilder) EndOfFileToken() Token {
	return Token{
		TokenType: endOfFileToken,
	}
}

// CommentToken creates a comment token from the builder contents.
func (t *TokenBuilder) CommentToken() Token {
	return Token{
		TokenType: commentToken,
		Data:      t.data.String(),
	}
}

// DocTypeToken creates a doctype token from the builder contents. Identifiers
// that were never written stay missing.
func (t *TokenBuilder) DocTypeToken() Token {
	pub, sys := missing, missing
	if t.publicIDSet {
		pub = t.publicID.String()
	}
	if t.systemIDSet {
		sys = t.systemID.String()
	}
	return Token{
		TokenType:        docTypeToken,
		TagName:          t.name.String(),
		ForceQuirks:      t.forceQuirks,
		PublicIdentifier: pub,
		SystemIdentifier: sys,
	}
}
