package scan

import "github.com/cipcgen/profiler/ipc/ipcerr"

// Walk consumes text byte-by-byte, maintaining comment/quote/bracket/
// statement state, and dispatches Events to observers as structural
// boundaries are crossed. It is not a general C++ lexer: it
// recognizes exactly the boundaries the IPC declaration observers
// need.
//
// Initial observers seed the run (typically a single root observer
// watching LineEnd for @IPC annotations); observers may register
// further observers, or remove themselves, from within Notify.
//
// The first error returned by any observer, or a MismatchedBracket
// raised by the scanner itself, aborts the walk immediately, wrapped
// as a *ipcerr.ParseFailure carrying the position at which it
// occurred.
func Walk(text []byte, sourceName string, observers []*Observer) error {
	s := newState(sourceName, observers)

	var prevRaw byte
	hasPrev := false
	commentJustOpened := false

	for idx := 0; idx < len(text); idx++ {
		char := text[idx]
		initialScope := s.scopeIndex()
		initialLine := s.lineNo
		var deferredEvent Event

		closingNow := s.commentStart == "/*" && hasPrev && prevRaw == '*' && char == '/' && !commentJustOpened

		if s.commentStart == "" && hasPrev && prevRaw == '/' && (char == '/' || char == '*') {
			s.commentStart = "/" + string(char)
			s.line = trimLastByte(s.line)
			top := s.scopeIndex()
			s.scopeText[top] = trimLastByte(s.scopeText[top])
			commentJustOpened = true
		} else {
			commentJustOpened = false
		}

		excludedByComment := s.commentStart != ""

		switch {
		case char == '\n':
			if err := s.notify(LineEnd); err != nil {
				return wrapObserverErr(s, err)
			}
			s.line = ""
			s.lineNo++
			s.colNo = 0
			if s.commentStart == "//" {
				s.commentStart = ""
			}
		case excludedByComment:
			// Inside a comment body or delimiter: no quote, bracket,
			// or statement tracking happens until it closes.
		case s.IsQuoted():
			switch {
			case s.escape:
				s.escape = false
			case char == '\\':
				s.escape = true
			case (char == '"' || char == '\'') && s.quoting[char]:
				s.quoting[char] = false
				if err := s.notify(QuoteEnd); err != nil {
					return wrapObserverErr(s, err)
				}
				s.scopeText = s.scopeText[:len(s.scopeText)-1]
			}
		default:
			switch {
			case char == '"' || char == '\'':
				s.quoting[char] = true
				s.scopeText = append(s.scopeText, "")
				deferredEvent = QuoteStart
			case isOpenBracket(char):
				s.braceDepth[char]++
				s.braceStack = append(s.braceStack, char)
				s.scopeText = append(s.scopeText, "")
				deferredEvent = BracketStart
			case isCloseBracket(char):
				open := openFor(char)
				if len(s.braceStack) == 0 {
					return ipcerr.At(s.Pos(), "unexpected closing bracket",
						&ipcerr.MismatchedBracket{Found: char})
				}
				if s.braceStack[len(s.braceStack)-1] != open {
					return ipcerr.At(s.Pos(), "unexpected closing bracket",
						&ipcerr.MismatchedBracket{
							Expected: closeFor(s.braceStack[len(s.braceStack)-1]),
							Found:    char,
						})
				}
				if err := s.notify(BracketEnd); err != nil {
					return wrapObserverErr(s, err)
				}
				s.braceDepth[open]--
				s.braceStack = s.braceStack[:len(s.braceStack)-1]
				s.scopeText = s.scopeText[:len(s.scopeText)-1]
			case char == ';':
				if err := s.notify(StatementEnd); err != nil {
					return wrapObserverErr(s, err)
				}
			}
		}

		if closingNow {
			s.commentStart = ""
		}

		if !excludedByComment {
			top := min(initialScope, s.scopeIndex())
			s.scopeText[top] += string(char)
		}
		if s.lineNo == initialLine {
			s.colNo++
			// Unlike scope_text, line is not gated on excludedByComment:
			// a LINE_END's line must still carry "// @IPC(...)" comment
			// text for the annotation lexer to find, even though that
			// text is excluded from scope_text's declaration tracking.
			s.line += string(char)
		}
		if deferredEvent != 0 {
			if err := s.notify(deferredEvent); err != nil {
				return wrapObserverErr(s, err)
			}
		}

		prevRaw = char
		hasPrev = true
	}

	if err := s.notify(EndOfFile); err != nil {
		return wrapObserverErr(s, err)
	}
	return nil
}

func trimLastByte(s string) string {
	if len(s) == 0 {
		return s
	}
	return s[:len(s)-1]
}

// wrapObserverErr rewraps an error raised by an observer into a
// location-bearing ParseFailure, unless it already is one (a nested
// observer further down the call stack already attached a more
// precise position).
func wrapObserverErr(s *State, err error) error {
	if _, ok := err.(*ipcerr.ParseFailure); ok {
		return err
	}
	return ipcerr.At(s.Pos(), "parsing error", err)
}
