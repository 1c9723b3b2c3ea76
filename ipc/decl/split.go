// Package decl implements the declarator-level parsers sitting above
// the scanner and the type resolver: the angle-aware comma splitter,
// the Field Declaration Parser, the Parameter Parser, and the Method
// Signature Parser.
package decl

import (
	"strings"

	"github.com/cipcgen/profiler/ipc/ipcerr"
)

// SplitParams splits text on top-level commas, those outside any
// `<...>` nesting. Each fragment is trimmed. Empty input yields an
// empty (nil) slice, distinct from a single trailing empty parameter
// that a trailing comma would produce.
func SplitParams(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return nil, &ipcerr.InvalidMethodDeclaration{Text: text}
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, &ipcerr.InvalidMethodDeclaration{Text: text}
	}
	parts = append(parts, strings.TrimSpace(text[start:]))
	return parts, nil
}

// splitTemplateArgs locates the first top-level '<' in head and its
// matching '>', returning the base name before it, the raw content
// between them, and whatever trailing suffix text follows the
// matching '>'. ok is false if head contains no '<' at all.
func splitTemplateArgs(head string) (base, tparams, suffix string, ok bool) {
	start := strings.IndexByte(head, '<')
	if start < 0 {
		return "", "", "", false
	}
	depth := 0
	for i := start; i < len(head); i++ {
		switch head[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return head[:start], head[start+1 : i], head[i+1:], true
			}
		}
	}
	return "", "", "", false
}

func isIdentChar(b byte) bool {
	return b == '_' || b == ':' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// stripTrailingArrays repeatedly removes trailing "[...]" groups,
// returning the remaining text and how many array suffixes were
// found.
func stripTrailingArrays(s string) (string, int) {
	count := 0
	for {
		s = strings.TrimRight(s, " \t")
		if len(s) == 0 || s[len(s)-1] != ']' {
			return s, count
		}
		open := strings.LastIndexByte(s, '[')
		if open < 0 {
			return s, count
		}
		s = s[:open]
		count++
	}
}

// splitDefault finds a top-level '=' (outside any '<...>' nesting) in
// text and reports whether a default-value tail follows it.
func splitDefault(text string) (decl string, optional bool) {
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '<':
			depth++
		case '>':
			depth--
		case '=':
			if depth == 0 {
				return strings.TrimSpace(text[:i]), true
			}
		}
	}
	return text, false
}

// splitName extracts the trailing identifier (the declared name) from
// s, returning the text preceding it. ok is false if s does not end in
// an identifier.
func splitName(s string) (head, name string, ok bool) {
	s = strings.TrimRight(s, " \t")
	end := len(s)
	i := end
	for i > 0 && isWordChar(s[i-1]) {
		i--
	}
	if i == end {
		return "", "", false
	}
	name = s[i:end]
	if name == "" || !isIdentStart(name[0]) {
		return "", "", false
	}
	return strings.TrimSpace(s[:i]), name, true
}

func isWordChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
