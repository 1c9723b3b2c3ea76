package decl

import (
	"regexp"
	"strings"

	"github.com/cipcgen/profiler/ipc/ipcerr"
	"github.com/cipcgen/profiler/ipc/profile"
)

var (
	attrBlockPattern   = regexp.MustCompile(`\[\[[^\]]*\]\]`)
	pureVirtualPattern = regexp.MustCompile(`=\s*0\s*$`)
)

// ParseMethodDeclaration parses one method declaration, expanding
// default-argument overloads, and returns one *profile.Method per
// overload (1 + number of optional trailing parameters).
func ParseMethodDeclaration(text string, p *profile.Profile, currentNS string) ([]*profile.Method, error) {
	head := attrBlockPattern.ReplaceAllString(text, " ")
	head = strings.TrimSpace(head)

	hasVirtual := false
	if rest, ok := stripWord(head, "virtual"); ok {
		hasVirtual = true
		head = rest
	}

	parenStart := strings.IndexByte(head, '(')
	if parenStart < 0 {
		return nil, &ipcerr.InvalidMethodDeclaration{Text: text}
	}
	beforeParen := head[:parenStart]
	closeIdx := matchBrace(head, parenStart, '(', ')')
	if closeIdx <= parenStart || closeIdx >= len(head) || head[closeIdx] != ')' {
		return nil, &ipcerr.InvalidMethodDeclaration{Text: text}
	}
	paramsText := head[parenStart+1 : closeIdx]
	tail := strings.TrimSpace(head[closeIdx+1:])

	retHead, name, ok := splitName(strings.TrimSpace(beforeParen))
	if !ok {
		return nil, &ipcerr.InvalidMethodDeclaration{Text: text}
	}

	if pureVirtualPattern.MatchString(tail) {
		tail = strings.TrimSpace(pureVirtualPattern.ReplaceAllString(tail, ""))
	}

	var tailReturn string
	hasTailReturn := false
	isConst, isOverride, isFinal := false, false, false

	if idx := strings.Index(tail, "->"); idx >= 0 {
		hasTailReturn = true
		before := strings.TrimSpace(tail[:idx])
		afterWords := strings.Fields(tail[idx+2:])
		// override/final may trail the return type in C++'s trailing
		// return syntax ("auto f() const -> int override").
		for len(afterWords) > 0 {
			last := afterWords[len(afterWords)-1]
			if last == "override" {
				isOverride = true
			} else if last == "final" {
				isFinal = true
			} else {
				break
			}
			afterWords = afterWords[:len(afterWords)-1]
		}
		tailReturn = strings.Join(afterWords, " ")
		tail = before
	}

	for _, word := range strings.Fields(tail) {
		switch word {
		case "const":
			isConst = true
		case "override":
			isOverride = true
		case "final":
			isFinal = true
		default:
			return nil, &ipcerr.InvalidMethodDeclaration{Text: text}
		}
	}

	if isFinal {
		return nil, &ipcerr.NonExtendableMethodError{Name: name}
	}
	if !hasVirtual && !isOverride {
		return nil, &ipcerr.NonExtendableMethodError{Name: name}
	}

	effectiveReturn := strings.TrimSpace(retHead)
	if effectiveReturn == "auto" {
		if !hasTailReturn {
			return nil, &ipcerr.InvalidMethodDeclaration{Text: text}
		}
		effectiveReturn = tailReturn
	}
	returnType, err := resolveReturnType(effectiveReturn, p, currentNS)
	if err != nil {
		return nil, err
	}

	collapsed := collapseTopLevelGroups(paramsText)
	rawParams, err := SplitParams(collapsed)
	if err != nil {
		return nil, err
	}

	var params []ParsedParam
	for _, raw := range rawParams {
		param, err := ParseParam(raw, p, currentNS)
		if err != nil {
			return nil, &ipcerr.InvalidMethodDeclaration{Text: text, Cause: err}
		}
		params = append(params, param)
	}

	return expandOverloads(name, returnType, isConst, params), nil
}

// expandOverloads expands default-argument parameters into overloads:
// each optional parameter encountered emits an overload of everything
// accumulated before it; the full parameter list is always emitted
// last.
func expandOverloads(name, returnType string, isConst bool, params []ParsedParam) []*profile.Method {
	var methods []*profile.Method
	var accumulated []ParsedParam

	emit := func(set []ParsedParam) {
		methods = append(methods, buildMethod(name, returnType, isConst, set))
	}

	for _, param := range params {
		if param.Optional {
			emit(append([]ParsedParam(nil), accumulated...))
		}
		accumulated = append(accumulated, param)
	}
	emit(accumulated)
	return methods
}

func buildMethod(name, returnType string, isConst bool, params []ParsedParam) *profile.Method {
	types := make([]string, len(params))
	profileParams := make([]profile.Parameter, len(params))
	for i, param := range params {
		types[i] = param.Type
		profileParams[i] = profile.Parameter{Name: param.Name, Type: param.Type}
	}

	key := name + "(" + strings.Join(types, ",") + ")"
	if isConst {
		key += "const"
	}

	return &profile.Method{Name: key, ReturnType: returnType, Parameters: profileParams}
}

// resolveReturnType resolves a method's effective return type.
// "void" is accepted as a literal; any other type must resolve to a
// plain (non cv/ref-qualified) value form.
func resolveReturnType(raw string, p *profile.Profile, currentNS string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "void" {
		return "void", nil
	}
	dt, err := resolveDeclaredType(raw, p, currentNS, raw)
	if err != nil {
		return "", &ipcerr.InvalidReturnTypeError{Type: raw}
	}
	if len(dt.refs) != 0 || dt.baseConst {
		return "", &ipcerr.InvalidReturnTypeError{Type: raw}
	}
	return dt.resolvedType, nil
}

// stripWord removes a leading keyword token from s if present as a
// whole word, reporting whether it was found.
func stripWord(s, word string) (string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, word) {
		return s, false
	}
	tail := s[len(word):]
	if tail != "" && isIdentChar(tail[0]) {
		return s, false
	}
	return strings.TrimSpace(tail), true
}

// matchBrace returns the index of the brace matching the open brace
// at s[start], or len(s)-1 if unbalanced.
func matchBrace(s string, start int, open, close byte) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(s) - 1
}

// collapseTopLevelGroups replaces every top-level "{...}" with "{}"
// and every top-level "(...)" with "()", so a default-value
// expression's internal commas cannot be mistaken for parameter
// separators.
func collapseTopLevelGroups(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		switch s[i] {
		case '{':
			j := matchBrace(s, i, '{', '}')
			b.WriteString("{}")
			i = j + 1
		case '(':
			j := matchBrace(s, i, '(', ')')
			b.WriteString("()")
			i = j + 1
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}
