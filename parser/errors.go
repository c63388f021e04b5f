package parser

import "github.com/sirupsen/logrus"

// parseError is the soft error signal mode handlers return; it never aborts
// a parse.
type parseError uint

const (
	noError parseError = iota
	generalParseError
)

// ParseError is one collected soft error with its code-point position.
type ParseError struct {
	Code     string
	Position int
}

type configKey uint

const (
	debug configKey = iota
	collectErrors
)

type htmlParserConfig map[configKey]uint

// errorSink collects and logs parse errors for one run.
type errorSink struct {
	log     *logrus.Logger
	collect bool
	errs    []ParseError
}

func newErrorSink(config htmlParserConfig) *errorSink {
	log := logrus.New()
	if config[debug] == 0 {
		log.SetLevel(logrus.ErrorLevel)
	} else {
		log.SetLevel(logrus.DebugLevel)
	}
	return &errorSink{
		log:     log,
		collect: config[collectErrors] != 0,
	}
}

func (s *errorSink) report(code string, position int) {
	s.log.WithFields(logrus.Fields{
		"code":     code,
		"position": position,
	}).Debug("parse error")
	if s.collect {
		s.errs = append(s.errs, ParseError{Code: code, Position: position})
	}
}

func (s *errorSink) reportAll(errs []ParseError) {
	for _, e := range errs {
		s.report(e.Code, e.Position)
	}
}

func (s *errorSink) logError(err parseError, position int) {
	if err == noError {
		return
	}
	s.report("parse-error", position)
}
