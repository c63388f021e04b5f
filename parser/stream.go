package parser

import (
	"io"
	"io/ioutil"
	"unicode/utf8"
)

// inputStream is the preprocessed code-point stream the tokenizer consumes.
// The whole input is decoded up front so lookahead (doctype keywords, named
// character references) and the one-code-point reconsume are plain cursor
// moves.
// https://html.spec.whatwg.org/multipage/parsing.html#preprocessing-the-input-stream
type inputStream struct {
	runes []rune
	pos   int
	errs  []ParseError
}

func newInputStreamFromString(input string) *inputStream {
	s := &inputStream{}
	s.preprocess(input)
	return s
}

func newInputStream(r io.Reader) (*inputStream, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s := &inputStream{}
	s.preprocess(string(data))
	return s, nil
}

// preprocess normalizes CR LF and lone CR to LF, decodes invalid UTF-8
// (including encoded surrogates) to U+FFFD, and records (but preserves)
// noncharacters and stray controls.
func (s *inputStream) preprocess(input string) {
	s.runes = make([]rune, 0, len(input))
	prevCR := false
	for _, r := range input {
		if r == utf8.RuneError {
			r = '\uFFFD'
		}
		switch r {
		case '\u000D':
			s.runes = append(s.runes, '\u000A')
			prevCR = true
			continue
		case '\u000A':
			if prevCR {
				prevCR = false
				continue
			}
			s.runes = append(s.runes, r)
			continue
		}
		prevCR = false
		if isSurrogate(int(r)) {
			s.errs = append(s.errs, ParseError{Code: "surrogate-in-input-stream", Position: len(s.runes)})
		} else if isNonCharacter(int(r)) {
			s.errs = append(s.errs, ParseError{Code: "noncharacter-in-input-stream", Position: len(s.runes)})
		} else if isControl(int(r)) && !isASCIIWhitespace(int(r)) && r != 0 {
			s.errs = append(s.errs, ParseError{Code: "control-character-in-input-stream", Position: len(s.runes)})
		}
		s.runes = append(s.runes, r)
	}
}

// ReadRune consumes the next code point; the bool is false at end of stream.
func (s *inputStream) ReadRune() (rune, bool) {
	if s.pos >= len(s.runes) {
		return 0, false
	}
	r := s.runes[s.pos]
	s.pos++
	return r, true
}

// Peek returns up to n upcoming code points without consuming.
func (s *inputStream) Peek(n int) []rune {
	end := s.pos + n
	if end > len(s.runes) {
		end = len(s.runes)
	}
	return s.runes[s.pos:end]
}

func (s *inputStream) Discard(n int) {
	s.pos += n
	if s.pos > len(s.runes) {
		s.pos = len(s.runes)
	}
}

// Reconsume seeks back exactly one code point.
func (s *inputStream) Reconsume() {
	if s.pos > 0 {
		s.pos--
	}
}

func (s *inputStream) Position() int {
	return s.pos
}

func (s *inputStream) AtEOF() bool {
	return s.pos >= len(s.runes)
}
