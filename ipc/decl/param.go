package decl

import (
	"strings"

	"github.com/cipcgen/profiler/ipc/ipcerr"
	"github.com/cipcgen/profiler/ipc/profile"
	"github.com/cipcgen/profiler/ipc/resolve"
)

// ParsedParam is one successfully parsed parameter.
type ParsedParam struct {
	Name     string
	Type     string // canonical, resolved, fully composed with template args
	Optional bool
}

// refToken is one '*' or '&' cv/ref modifier found in a declarator's
// combined prefix+suffix modifier sequence, with whether a "const"
// immediately to its left (reading right-to-left) binds to it.
type refToken struct {
	symbol  byte
	isConst bool
}

// classifyModifiers applies C++'s right-to-left cv-qualifier binding
// rule to a flat sequence of "const"/"*"/"&" tokens (in source order),
// returning the ref tokens found (in source order) and whether any
// "const" was left unbound to a ref (and so binds to the base type).
func classifyModifiers(tokens []string) (refs []refToken, baseConst bool) {
	i := len(tokens) - 1
	for i >= 0 {
		tok := tokens[i]
		if tok == "const" {
			baseConst = true
			i--
			continue
		}
		isConst := false
		if i-1 >= 0 && tokens[i-1] == "const" {
			isConst = true
			i -= 2
		} else {
			i--
		}
		refs = append([]refToken{{symbol: tok[0], isConst: isConst}}, refs...)
	}
	return refs, baseConst
}

// tokenizeModifiers splits a string that should consist solely of
// "const"/"*"/"&" tokens (optionally whitespace-separated) into that
// token sequence. ok is false if anything else is found.
func tokenizeModifiers(s string) (tokens []string, ok bool) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= len(s) {
			break
		}
		switch {
		case strings.HasPrefix(s[i:], "const") && (i+5 == len(s) || !isIdentChar(s[i+5])):
			tokens = append(tokens, "const")
			i += 5
		case s[i] == '*':
			tokens = append(tokens, "*")
			i++
		case s[i] == '&':
			tokens = append(tokens, "&")
			i++
		default:
			return nil, false
		}
	}
	return tokens, true
}

// ParseParam parses one parameter declarator (already split from a
// parameter list by SplitParams) against p, resolving its base type in
// namespace currentNS.
func ParseParam(text string, p *profile.Profile, currentNS string) (ParsedParam, error) {
	declText, optional := splitDefault(text)
	declText = strings.TrimSpace(declText)
	if declText == "" || strings.ContainsAny(declText, "()") {
		return ParsedParam{}, &ipcerr.InvalidParamDeclaration{Text: text}
	}

	withoutArrays, arrayCount := stripTrailingArrays(declText)
	head, name, ok := splitName(withoutArrays)
	if !ok {
		return ParsedParam{}, &ipcerr.InvalidParamDeclaration{Text: text}
	}

	canonical, err := resolveDeclaredType(head, p, currentNS, text)
	if err != nil {
		return ParsedParam{}, err
	}

	if arrayCount > 0 {
		return ParsedParam{}, &ipcerr.ReferenceParamError{Text: text}
	}

	switch len(canonical.refs) {
	case 0:
		if canonical.baseConst {
			return ParsedParam{}, &ipcerr.ReferenceParamError{Text: text}
		}
	case 1:
		ref := canonical.refs[0]
		if ref.symbol != '&' || !ref.isConst || canonical.baseConst {
			return ParsedParam{}, &ipcerr.ReferenceParamError{Text: text}
		}
	default:
		return ParsedParam{}, &ipcerr.ReferenceParamError{Text: text}
	}

	typeName := canonical.resolvedType
	if len(canonical.refs) == 1 {
		typeName += " const&"
	}

	return ParsedParam{Name: name, Type: typeName, Optional: optional}, nil
}

// declaredType is the result of resolving a declarator's head (the
// type portion preceding the name) against the resolver, including its
// cv/ref modifier classification.
type declaredType struct {
	resolvedType string
	refs         []refToken
	baseConst    bool
}

// modTok is one piece of a tokenized declarator head: a "const"
// keyword, a '*'/'&' symbol, or a bare identifier/qualified-name word.
type modTok struct {
	kind byte // 'c', '*', '&', or 'w'
	text string
}

// tokenizeDeclHead splits s into modTok pieces. ok is false if a
// character sequence matches none of those shapes.
func tokenizeDeclHead(s string) (toks []modTok, ok bool) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= len(s) {
			break
		}
		switch {
		case s[i] == '*':
			toks = append(toks, modTok{kind: '*'})
			i++
		case s[i] == '&':
			toks = append(toks, modTok{kind: '&'})
			i++
		case isIdentChar(s[i]) && !(s[i] >= '0' && s[i] <= '9'):
			j := i
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}
			word := s[i:j]
			if word == "const" {
				toks = append(toks, modTok{kind: 'c'})
			} else {
				toks = append(toks, modTok{kind: 'w', text: word})
			}
			i = j
		default:
			return nil, false
		}
	}
	return toks, true
}

// resolveDeclaredType handles the shared "[const] TYPE [<TPARAMS>]
// [suffix]" portion of a parameter declarator, recursively resolving
// any template arguments as pseudo-parameters.
func resolveDeclaredType(head string, p *profile.Profile, currentNS, origText string) (declaredType, error) {
	base, tparams, suffix, hasTemplate := splitTemplateArgs(head)
	baseRegion := head
	if hasTemplate {
		baseRegion = base
	}

	toks, ok := tokenizeDeclHead(baseRegion)
	if !ok {
		return declaredType{}, &ipcerr.InvalidParamDeclaration{Text: origText}
	}

	var words []string
	var modifiers []string
	for _, t := range toks {
		switch t.kind {
		case 'w':
			words = append(words, t.text)
		case 'c':
			modifiers = append(modifiers, "const")
		case '*':
			modifiers = append(modifiers, "*")
		case '&':
			modifiers = append(modifiers, "&")
		}
	}
	if len(words) != 1 {
		return declaredType{}, &ipcerr.InvalidParamDeclaration{Text: origText}
	}
	baseName := words[0]

	if hasTemplate {
		suffixTokens, ok := tokenizeModifiers(suffix)
		if !ok {
			return declaredType{}, &ipcerr.InvalidParamDeclaration{Text: origText}
		}
		modifiers = append(modifiers, suffixTokens...)
	}

	result, err := resolve.Resolve(baseName, p, currentNS)
	if err != nil {
		return declaredType{}, &ipcerr.InvalidParamTypeError{Type: baseName, Hint: err.Error()}
	}

	resolvedType := result.Canonical
	if hasTemplate {
		args, err := SplitParams(tparams)
		if err != nil {
			return declaredType{}, err
		}
		var canonicalArgs []string
		for _, arg := range args {
			argParam, err := ParseParam(arg+" x", p, currentNS)
			if err != nil {
				return declaredType{}, err
			}
			canonicalArgs = append(canonicalArgs, argParam.Type)
		}
		resolvedType = resolvedType + "<" + strings.Join(canonicalArgs, ",") + ">"
	}

	refs, baseConst := classifyModifiers(modifiers)

	return declaredType{resolvedType: resolvedType, refs: refs, baseConst: baseConst}, nil
}
