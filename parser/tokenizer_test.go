package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type tokenizerAttributeAccuracyTestcase struct {
	inHTML string            // snippet of HTML to tokenize (should only be one element)
	attrs  map[string]string // expected attributes collected from the first tag token
}

var tokenizerAttributeAccuracyTests = []tokenizerAttributeAccuracyTestcase{
	{"<head></head>", map[string]string{}},
	{"<script src='123' onload='test'></script>", map[string]string{
		"src":    "123",
		"onload": "test",
	}},
	{"<a href='https://google.com' onclick='alert(1)'>Click this</a>", map[string]string{
		"href":    "https://google.com",
		"onclick": "alert(1)",
	}},
	{"<script src='123' src='456'></script>", map[string]string{
		"src": "123",
	}},
	{"<script src=123 onload=test></script>", map[string]string{
		"src":    "123",
		"onload": "test",
	}},
	{"<script src='123' onload='test' ></script>", map[string]string{
		"src":    "123",
		"onload": "test",
	}},
	{"<script =src='123'onload='test' ></script>", map[string]string{
		"=src":   "123",
		"onload": "test",
	}},
	{"<script src></script>", map[string]string{
		"src": "",
	}},
	{"<script src test></script>", map[string]string{
		"src":  "",
		"test": "",
	}},
	{"<script 'asd></script>", map[string]string{
		"'asd": "",
	}},
	{"<script <asd></script>", map[string]string{
		"<asd": "",
	}},
	{"<script ABC=123></script>", map[string]string{
		"abc": "123",
	}},
	{"<script abc='\u0000123'></script>", map[string]string{
		"abc": "\uFFFD123",
	}},
	{"<script abc=></script>", map[string]string{
		"abc": "",
	}},
	{"<script\tabc=123></script>", map[string]string{
		"abc": "123",
	}},
}

// TestTokenizerAttributeAccuracy makes sure we collect the right attribute
// names and values, with duplicates dropped.
func TestTokenizerAttributeAccuracy(t *testing.T) {
	for _, tt := range tokenizerAttributeAccuracyTests {
		runTestTokenizerAttributeAccuracy(tt, t)
	}
}

func runTestTokenizerAttributeAccuracy(tt tokenizerAttributeAccuracyTestcase, t *testing.T) {
	t.Run(tt.inHTML, func(t *testing.T) {
		t.Parallel()
		p := NewHTMLTokenizer(tt.inHTML, htmlParserConfig{})
		startState := dataState
		progress := MakeProgress(nil, &startState)
		token, err := p.Token(progress)
		require.NoError(t, err)
		require.Equal(t, startTagToken, token.TokenType)
		require.Len(t, token.Attributes, len(tt.attrs))
		for k, v := range tt.attrs {
			got, ok := token.Attr(k)
			if !ok {
				t.Errorf("expected to find a key of %s, didn't find one", k)
				continue
			}
			if got != v {
				t.Errorf("expected %q as the value for %s, got %q", v, k, got)
			}
		}
	})
}

type stateMachineTestCase struct {
	inRune            rune           // the rune to pass to the startingState
	startingState     tokenizerState // the state to start from
	shouldReconsume   bool           // the expectation if the next state should reconsume
	nextExpectedState tokenizerState // the next state
}

// TestStateParsers checks the basic state machine flows state by state. All
// cases can't be covered here because some flows require state, but the basic
// transitions are.
func TestStateParsers(t *testing.T) {
	stateParserTests := []stateMachineTestCase{
		{'&', dataState, false, characterReferenceState},
		{'<', dataState, false, tagOpenState},
		{'\u0000', dataState, false, dataState},
		{'a', dataState, false, dataState},
		{'A', dataState, false, dataState},
		{'1', dataState, false, dataState},

		{'&', rcDataState, false, characterReferenceState},
		{'<', rcDataState, false, rcDataLessThanSignState},
		{'\u0000', rcDataState, false, rcDataState},
		{'a', rcDataState, false, rcDataState},
		{'#', rcDataState, false, rcDataState},

		{'<', rawTextState, false, rawTextLessThanSignState},
		{'\u0000', rawTextState, false, rawTextState},
		{'a', rawTextState, false, rawTextState},

		{'<', scriptDataState, false, scriptDataLessThanSignState},
		{'\u0000', scriptDataState, false, scriptDataState},
		{'a', scriptDataState, false, scriptDataState},

		{'\u0000', plaintextState, false, plaintextState},
		{'!', plaintextState, false, plaintextState},
		{'a', plaintextState, false, plaintextState},
		{'<', plaintextState, false, plaintextState},

		{'!', tagOpenState, false, markupDeclarationOpenState},
		{'/', tagOpenState, false, endTagOpenState},
		{'a', tagOpenState, true, tagNameState},
		{'A', tagOpenState, true, tagNameState},
		{'?', tagOpenState, true, bogusCommentState},
		{'1', tagOpenState, true, dataState},

		{'a', endTagOpenState, true, tagNameState},
		{'>', endTagOpenState, false, dataState},
		{'1', endTagOpenState, true, bogusCommentState},

		{'\t', tagNameState, false, beforeAttributeNameState},
		{'\n', tagNameState, false, beforeAttributeNameState},
		{'\u000C', tagNameState, false, beforeAttributeNameState},
		{' ', tagNameState, false, beforeAttributeNameState},
		{'/', tagNameState, false, selfClosingStartTagState},
		{'a', tagNameState, false, tagNameState},

		{'/', rcDataLessThanSignState, false, rcDataEndTagOpenState},
		{'a', rcDataLessThanSignState, true, rcDataState},
		{'/', rawTextLessThanSignState, false, rawTextEndTagOpenState},
		{'a', rawTextLessThanSignState, true, rawTextState},
		{'/', scriptDataLessThanSignState, false, scriptDataEndTagOpenState},
		{'!', scriptDataLessThanSignState, false, scriptDataEscapeStartState},

		{'-', scriptDataEscapeStartState, false, scriptDataEscapeStartDashState},
		{'a', scriptDataEscapeStartState, true, scriptDataState},
		{'-', scriptDataEscapeStartDashState, false, scriptDataEscapedDashDashState},
		{'-', scriptDataEscapedState, false, scriptDataEscapedDashState},
		{'<', scriptDataEscapedState, false, scriptDataEscapedLessThanSignState},
		{'-', scriptDataEscapedDashState, false, scriptDataEscapedDashDashState},
		{'-', scriptDataEscapedDashDashState, false, scriptDataEscapedDashDashState},
		{'>', scriptDataEscapedDashDashState, false, scriptDataState},

		{'\t', beforeAttributeNameState, false, beforeAttributeNameState},
		{'/', beforeAttributeNameState, true, afterAttributeNameState},
		{'>', beforeAttributeNameState, true, afterAttributeNameState},
		{'=', beforeAttributeNameState, false, attributeNameState},
		{'a', beforeAttributeNameState, true, attributeNameState},

		{'=', attributeNameState, false, beforeAttributeValueState},
		{'a', attributeNameState, false, attributeNameState},
		{'\u0000', attributeNameState, false, attributeNameState},

		{'/', afterAttributeNameState, false, selfClosingStartTagState},
		{'=', afterAttributeNameState, false, beforeAttributeValueState},
		{'a', afterAttributeNameState, true, attributeNameState},

		{'"', beforeAttributeValueState, false, attributeValueDoubleQuotedState},
		{'\'', beforeAttributeValueState, false, attributeValueSingleQuotedState},
		{'a', beforeAttributeValueState, true, attributeValueUnquotedState},

		{'"', attributeValueDoubleQuotedState, false, afterAttributeValueQuotedState},
		{'&', attributeValueDoubleQuotedState, false, characterReferenceState},
		{'\'', attributeValueSingleQuotedState, false, afterAttributeValueQuotedState},
		{'&', attributeValueUnquotedState, false, characterReferenceState},

		{'\t', afterAttributeValueQuotedState, false, beforeAttributeNameState},
		{'/', afterAttributeValueQuotedState, false, selfClosingStartTagState},
		{'a', afterAttributeValueQuotedState, true, beforeAttributeNameState},

		{'a', selfClosingStartTagState, true, beforeAttributeNameState},

		{'-', commentStartState, false, commentStartDashState},
		{'a', commentStartState, true, commentState},
		{'-', commentState, false, commentEndDashState},
		{'<', commentState, false, commentLessThanSignState},
		{'!', commentLessThanSignState, false, commentLessThanSignBangState},
		{'-', commentLessThanSignBangState, false, commentLessThanSignBangDashState},
		{'-', commentLessThanSignBangDashState, false, commentLessThanSignBangDashDashState},
		{'-', commentEndDashState, false, commentEndState},
		{'!', commentEndState, false, commentEndBangState},
		{'-', commentEndState, false, commentEndState},

		{'\t', doctypeState, false, beforeDoctypeNameState},
		{'a', doctypeState, true, beforeDoctypeNameState},
		{'a', beforeDoctypeNameState, false, doctypeNameState},
		{'\t', doctypeNameState, false, afterDoctypeNameState},
		{'a', doctypeNameState, false, doctypeNameState},

		{']', cdataSectionState, false, cdataSectionBracketState},
		{'a', cdataSectionState, false, cdataSectionState},
		{']', cdataSectionBracketState, false, cdataSectionEndState},
		{']', cdataSectionEndState, false, cdataSectionEndState},
		{'>', cdataSectionEndState, false, dataState},

		{'#', characterReferenceState, false, numericCharacterReferenceState},
		{'a', characterReferenceState, true, namedCharacterReferenceState},
		{'x', numericCharacterReferenceState, false, hexadecimalCharacterReferenceStartState},
		{'X', numericCharacterReferenceState, false, hexadecimalCharacterReferenceStartState},
		{'1', numericCharacterReferenceState, true, decimalCharacterReferenceStartState},
		{'f', hexadecimalCharacterReferenceStartState, true, hexadecimalCharacterReferenceState},
		{'1', decimalCharacterReferenceStartState, true, decimalCharacterReferenceState},
		{';', hexadecimalCharacterReferenceState, false, numericCharacterReferenceEndState},
		{';', decimalCharacterReferenceState, false, numericCharacterReferenceEndState},
	}

	for _, tt := range stateParserTests {
		p := NewHTMLTokenizer("", htmlParserConfig{})
		reconsume, next := p.stateToParser(tt.startingState)(tt.inRune, false)
		if reconsume != tt.shouldReconsume {
			t.Errorf("state %d, rune %q: expected reconsume=%v", tt.startingState, tt.inRune, tt.shouldReconsume)
		}
		if next != tt.nextExpectedState {
			t.Errorf("state %d, rune %q: expected next state %d, got %d", tt.startingState, tt.inRune, tt.nextExpectedState, next)
		}
	}
}

func collectText(t *testing.T, in string) string {
	t.Helper()
	p := NewHTMLTokenizer(in, htmlParserConfig{collectErrors: 1})
	startState := dataState
	progress := MakeProgress(nil, &startState)
	var sb strings.Builder
	for p.Next() {
		token, err := p.Token(progress)
		require.NoError(t, err)
		if token.TokenType == characterToken {
			sb.WriteString(token.Data)
		}
	}
	return sb.String()
}

func TestCharacterReferences(t *testing.T) {
	t.Run("named and numeric references resolve", func(t *testing.T) {
		require.Equal(t, "&A", collectText(t, "&amp;&#65;"))
	})

	t.Run("unknown named reference left verbatim", func(t *testing.T) {
		p := NewHTMLTokenizer("&amp;&#65;&notafragment", htmlParserConfig{collectErrors: 1})
		startState := dataState
		progress := MakeProgress(nil, &startState)
		var sb strings.Builder
		for p.Next() {
			token, err := p.Token(progress)
			require.NoError(t, err)
			if token.TokenType == characterToken {
				sb.WriteString(token.Data)
			}
		}
		require.Equal(t, "&A&notafragment", sb.String())

		found := false
		for _, e := range p.ParseErrors() {
			if e.Code == "unknown-named-character-reference" {
				found = true
			}
		}
		require.True(t, found, "expected an unknown-named-character-reference error")
	})

	t.Run("longest match wins", func(t *testing.T) {
		require.Equal(t, "∉", collectText(t, "&notin;"))
		require.Equal(t, "¬", collectText(t, "&not;"))
	})

	t.Run("windows-1252 remapping for control references", func(t *testing.T) {
		require.Equal(t, "€", collectText(t, "&#x80;"))
	})

	t.Run("out of range clamps to replacement", func(t *testing.T) {
		require.Equal(t, "�", collectText(t, "&#x110000;"))
	})
}

// The attribute boundary rule: a reference without its trailing semicolon
// followed by '=' or an alphanumeric stays unresolved inside attributes.
func TestCharacterReferenceAttributeBoundary(t *testing.T) {
	cases := []struct {
		in, attr, want string
	}{
		{"<a href='&amp=x'>", "href", "&amp=x"},
		{"<a href='&ampx'>", "href", "&ampx"},
		{"<a href='&amp;x'>", "href", "&x"},
		{"<a href='&amp'>", "href", "&"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			p := NewHTMLTokenizer(tc.in, htmlParserConfig{})
			startState := dataState
			progress := MakeProgress(nil, &startState)
			token, err := p.Token(progress)
			require.NoError(t, err)
			got, ok := token.Attr(tc.attr)
			require.True(t, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestEndTagAttributesDropped(t *testing.T) {
	p := NewHTMLTokenizer("</div class='x'>", htmlParserConfig{collectErrors: 1})
	startState := dataState
	progress := MakeProgress(nil, &startState)
	token, err := p.Token(progress)
	require.NoError(t, err)
	require.Equal(t, endTagToken, token.TokenType)
	require.Empty(t, token.Attributes)
}

func TestDoctypeMissingVersusEmptyIdentifiers(t *testing.T) {
	p := NewHTMLTokenizer("<!DOCTYPE html>", htmlParserConfig{})
	startState := dataState
	progress := MakeProgress(nil, &startState)
	token, err := p.Token(progress)
	require.NoError(t, err)
	require.Equal(t, docTypeToken, token.TokenType)
	require.Equal(t, "html", token.TagName)
	require.Equal(t, missing, token.PublicIdentifier)
	require.Equal(t, missing, token.SystemIdentifier)

	p = NewHTMLTokenizer(`<!DOCTYPE html PUBLIC "">`, htmlParserConfig{})
	progress = MakeProgress(nil, &startState)
	token, err = p.Token(progress)
	require.NoError(t, err)
	require.Equal(t, "", token.PublicIdentifier)
	require.Equal(t, missing, token.SystemIdentifier)
}

func TestCRLFNormalization(t *testing.T) {
	require.Equal(t, "a\nb\nc\n", collectText(t, "a\r\nb\rc\n"))
}

func TestScriptDataDoubleEscape(t *testing.T) {
	in := "<script><!--<script></script>--></script>x"
	p := NewHTMLTokenizer(in, htmlParserConfig{})
	startState := dataState
	progress := MakeProgress(nil, &startState)

	// First token is the script start tag; push the tokenizer into script
	// data like the tree constructor would.
	token, err := p.Token(progress)
	require.NoError(t, err)
	require.Equal(t, startTagToken, token.TokenType)
	scriptState := scriptDataState
	progress = MakeProgress(nil, &scriptState)

	var sb strings.Builder
	var sawEndTag bool
	for p.Next() {
		token, err = p.Token(progress)
		require.NoError(t, err)
		progress = MakeProgress(nil, nil)
		switch token.TokenType {
		case characterToken:
			if !sawEndTag {
				sb.WriteString(token.Data)
			}
		case endTagToken:
			sawEndTag = true
		}
	}
	// Everything through the balancing </script> is script text; the inner
	// </script> does not terminate the element because of double escaping.
	require.Equal(t, "<!--<script></script>-->", sb.String())
}
