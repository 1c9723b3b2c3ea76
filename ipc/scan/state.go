package scan

import (
	"strings"

	"github.com/cipcgen/profiler/ipc/ipcerr"
)

// bracketPairs enumerates the only bracket kinds the scanner tracks.
// Angle brackets are deliberately excluded; template nesting is
// handled downstream by a dedicated splitter (ipc/decl).
var bracketPairs = [][2]byte{{'{', '}'}, {'[', ']'}, {'(', ')'}}

func closeFor(open byte) byte {
	for _, pair := range bracketPairs {
		if pair[0] == open {
			return pair[1]
		}
	}
	return 0
}

func openFor(close byte) byte {
	for _, pair := range bracketPairs {
		if pair[1] == close {
			return pair[0]
		}
	}
	return 0
}

func isOpenBracket(c byte) bool  { return closeFor(c) != 0 }
func isCloseBracket(c byte) bool { return openFor(c) != 0 }

// State is the scanner state exposed to observers. A State is created
// fresh for each file scanned; it is never shared across Walk calls.
type State struct {
	SourceName string

	lineNo int
	colNo  int

	commentStart string // "", "//", or "/*"
	escape       bool
	quoting      map[byte]bool

	braceDepth map[byte]int
	braceStack []byte

	line string // current line, comment text stripped

	scopeText []string // stack parallel to braceStack, plus one root entry

	observers []*Observer
}

func newState(sourceName string, observers []*Observer) *State {
	return &State{
		SourceName: sourceName,
		lineNo:     1,
		quoting:    map[byte]bool{'"': false, '\'': false},
		braceDepth: map[byte]int{'{': 0, '[': 0, '(': 0},
		scopeText:  []string{""},
		observers:  append([]*Observer(nil), observers...),
	}
}

// LineNo is the 1-based line the scanner is currently positioned at.
func (s *State) LineNo() int { return s.lineNo }

// ColNo is the 1-based column within the current line.
func (s *State) ColNo() int { return s.colNo }

// Line is the text of the current line so far, with comment text
// stripped.
func (s *State) Line() string { return s.line }

// IsQuoted reports whether the scanner is currently inside a quoted
// string or character literal.
func (s *State) IsQuoted() bool { return s.quoting['"'] || s.quoting['\''] }

// IsCommented reports whether the scanner is currently inside a
// comment (line or block).
func (s *State) IsCommented() bool { return s.commentStart != "" }

// BraceStack returns a snapshot copy of the open-bracket stack,
// outermost first. Declaration observers capture this at activation
// time to later detect their construct's closure by value-equality.
func (s *State) BraceStack() []byte {
	return append([]byte(nil), s.braceStack...)
}

// scopeIndex is the index of the current (innermost) scope's text in
// scopeText.
func (s *State) scopeIndex() int { return len(s.scopeText) - 1 }

// resolveScopeIndex turns a Python-style index (negative counts from
// the end: -1 is the current scope, -2 the enclosing one, ...) into a
// slice index, clamped to the valid range.
func (s *State) resolveScopeIndex(idx int) int {
	if idx < 0 {
		idx = len(s.scopeText) + idx
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(s.scopeText) {
		idx = len(s.scopeText) - 1
	}
	return idx
}

// Statement returns the suffix of scopeText[scopeIndex] following its
// last ';', the text of the statement currently being assembled in
// that scope. scopeIndex follows Python-style negative indexing: -1
// (the default via CurrentStatement) is the innermost scope.
func (s *State) Statement(scopeIndex int) string {
	text := s.scopeText[s.resolveScopeIndex(scopeIndex)]
	if i := strings.LastIndexByte(text, ';'); i >= 0 {
		return text[i+1:]
	}
	return text
}

// CurrentStatement is Statement(-1): the statement being built in the
// current (innermost) scope.
func (s *State) CurrentStatement() string { return s.Statement(-1) }

// ScopePrefix is Statement(-2): the enclosing scope's pending
// statement, inspected when a BRACKET_START fires to see the
// declaration that introduced the new scope (class head, namespace
// head, parameter list).
func (s *State) ScopePrefix() string { return s.Statement(-2) }

// Pos is the scanner's current position, for attaching to errors.
func (s *State) Pos() ipcerr.Position {
	return ipcerr.Position{Source: s.SourceName, Line: s.lineNo, Col: s.colNo}
}
