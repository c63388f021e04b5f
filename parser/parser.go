package parser

import (
	"io"
	"io/ioutil"

	"github.com/heathj/htmldom/parser/spec"
	"github.com/heathj/htmldom/parser/webidl"
)

// Parser couples the tokenizer and the tree constructor into the cooperative
// single-threaded pull loop: the tokenizer yields one token, the tree
// constructor consumes it and hands back a Progress.
type Parser struct {
	Tokenizer       *HTMLTokenizer
	TreeConstructor *HTMLTreeConstructor
	paused          bool
	progress        *Progress
}

// Option configures a parser run.
type Option func(*parserOptions)

type parserOptions struct {
	config    htmlParserConfig
	scripting bool
	url       string
}

// WithScripting flips the scripting-enabled flag, which changes how noscript
// parses.
func WithScripting(enabled bool) Option {
	return func(o *parserOptions) {
		o.scripting = enabled
	}
}

// WithCollectErrors keeps every soft parse error for later inspection.
func WithCollectErrors() Option {
	return func(o *parserOptions) {
		o.config[collectErrors] = 1
	}
}

// WithDebugLogging turns on per-error debug logs.
func WithDebugLogging() Option {
	return func(o *parserOptions) {
		o.config[debug] = 1
	}
}

// WithURL sets the document URL before parsing starts.
func WithURL(url string) Option {
	return func(o *parserOptions) {
		o.url = url
	}
}

func NewParser(input string, opts ...Option) *Parser {
	o := &parserOptions{config: htmlParserConfig{}}
	for _, opt := range opts {
		opt(o)
	}
	tokenizer := NewHTMLTokenizer(input, o.config)
	treeConstructor := NewHTMLTreeConstructor(o.config)
	treeConstructor.scriptingEnabled = o.scripting
	if o.url != "" {
		treeConstructor.HTMLDocument.Node.Document.URL = webidl.USVString(o.url)
	}
	return &Parser{
		Tokenizer:       tokenizer,
		TreeConstructor: treeConstructor,
	}
}

// Progress is the handshake the tree constructor returns after each token:
// the adjusted current node (CDATA gating) and an optional tokenizer state
// switch.
type Progress struct {
	AdjustedCurrentNode *spec.Node
	TokenizerState      *tokenizerState
}

func MakeProgress(adjCurNode *spec.Node, tokenizerState *tokenizerState) *Progress {
	return &Progress{
		AdjustedCurrentNode: adjCurNode,
		TokenizerState:      tokenizerState,
	}
}

// Pause makes Run return control to the caller between tokens.
func (p *Parser) Pause() {
	p.paused = true
}

func (p *Parser) Resume() {
	p.paused = false
}

func (p *Parser) Paused() bool {
	return p.paused
}

// Start runs the parse to end of stream, or until the parser is paused, and
// returns the document.
func (p *Parser) Start() (*spec.Node, error) {
	for {
		done, err := p.Run()
		if err != nil {
			return nil, err
		}
		if done {
			return p.TreeConstructor.HTMLDocument.Node, nil
		}
		if p.paused {
			// The caller resumes; nothing more to do in this call.
			return p.TreeConstructor.HTMLDocument.Node, nil
		}
	}
}

// Run consumes tokens until end of stream or a pause. It reports whether the
// parse finished.
func (p *Parser) Run() (bool, error) {
	if p.progress == nil {
		start := dataState
		p.progress = MakeProgress(nil, &start)
	}
	for p.Tokenizer.Next() && !p.TreeConstructor.stopped {
		if p.paused {
			return false, nil
		}
		t, err := p.Tokenizer.Token(p.progress)
		if err != nil {
			return false, err
		}
		p.progress = p.TreeConstructor.ProcessToken(t)
	}
	return true, nil
}

// ParseErrors returns the soft errors collected during the run, when
// collection was requested.
func (p *Parser) ParseErrors() []ParseError {
	return append(append([]ParseError{}, p.Tokenizer.errs.errs...), p.TreeConstructor.errs.errs...)
}

// ParseHTMLDocument creates a new document and runs the full algorithm to end
// of stream.
func ParseHTMLDocument(input io.Reader, opts ...Option) (*spec.Node, error) {
	data, err := ioutil.ReadAll(input)
	if err != nil {
		return nil, err
	}
	return NewParser(string(data), opts...).Start()
}

// ParseHTMLDocumentString is the string-input convenience form.
func ParseHTMLDocumentString(input string, opts ...Option) (*spec.Node, error) {
	return NewParser(input, opts...).Start()
}
