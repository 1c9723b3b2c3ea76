package decl

import (
	"regexp"
	"strings"

	"github.com/cipcgen/profiler/ipc/ipcerr"
	"github.com/cipcgen/profiler/ipc/profile"
)

// ParsedField is one field produced from a (possibly aggregate) field
// statement.
type ParsedField struct {
	Name string
	Type string
}

var (
	accessLabelPattern = regexp.MustCompile(`^(public|private|protected)\s*:\s*`)
	plainIdentPattern  = regexp.MustCompile(`^[A-Za-z_]\w*$`)
)

// ParseFieldStatement parses the text of a single field statement
// (without its trailing ';') against p, resolving the shared type in
// namespace currentNS. A statement may declare more than one field
// with a common type ("int a, b, c;"); each is returned in order.
func ParseFieldStatement(stmt string, p *profile.Profile, currentNS string) ([]ParsedField, error) {
	stmt = accessLabelPattern.ReplaceAllString(strings.TrimSpace(stmt), "")
	stmt = strings.TrimSpace(stmt)
	if stmt == "" {
		return nil, &ipcerr.InvalidFieldDeclaration{Text: stmt}
	}

	pieces, err := SplitParams(stmt)
	if err != nil {
		return nil, &ipcerr.InvalidFieldDeclaration{Text: stmt, Cause: err}
	}
	if len(pieces) == 0 {
		return nil, &ipcerr.InvalidFieldDeclaration{Text: stmt}
	}

	first := pieces[0]
	declText, _ := splitDefaultInitializer(first)
	withoutArrays, arrayCount := stripTrailingArrays(strings.TrimSpace(declText))
	head, name, ok := splitName(withoutArrays)
	if !ok {
		return nil, &ipcerr.InvalidFieldDeclaration{Text: first}
	}

	canonical, err := resolveDeclaredType(head, p, currentNS, first)
	if err != nil {
		return nil, &ipcerr.InvalidFieldDeclaration{Text: first, Cause: err}
	}
	if arrayCount > 0 {
		return nil, &ipcerr.InvalidFieldDeclaration{
			Text:  first,
			Cause: &ipcerr.ReferenceParamError{Text: first},
		}
	}

	typeName := canonical.resolvedType
	switch len(canonical.refs) {
	case 0:
		if canonical.baseConst {
			return nil, &ipcerr.InvalidFieldDeclaration{
				Text:  first,
				Cause: &ipcerr.ReferenceParamError{Text: first},
			}
		}
	case 1:
		ref := canonical.refs[0]
		if ref.symbol != '&' || !ref.isConst || canonical.baseConst {
			return nil, &ipcerr.InvalidFieldDeclaration{
				Text:  first,
				Cause: &ipcerr.ReferenceParamError{Text: first},
			}
		}
		typeName += " const&"
	default:
		return nil, &ipcerr.InvalidFieldDeclaration{
			Text:  first,
			Cause: &ipcerr.ReferenceParamError{Text: first},
		}
	}

	fields := []ParsedField{{Name: name, Type: typeName}}

	for _, piece := range pieces[1:] {
		extra, _ := splitDefaultInitializer(piece)
		extra = strings.TrimSpace(extra)
		if !plainIdentPattern.MatchString(extra) {
			return nil, &ipcerr.InvalidFieldDeclaration{
				Text:  piece,
				Cause: &ipcerr.ReferenceParamError{Text: piece},
			}
		}
		fields = append(fields, ParsedField{Name: extra, Type: typeName})
	}

	return fields, nil
}

// splitDefaultInitializer strips a field initializer of any of the
// three accepted forms: "= expr", "{expr}", "(expr)".
func splitDefaultInitializer(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '='); i >= 0 {
		return strings.TrimSpace(s[:i]), true
	}
	trimmed := strings.TrimRight(s, " \t")
	if trimmed == "" {
		return s, false
	}
	last := trimmed[len(trimmed)-1]
	if last != '}' && last != ')' {
		return s, false
	}
	open := byte('{')
	if last == ')' {
		open = '('
	}
	idx := strings.LastIndexByte(trimmed, open)
	if idx <= 0 {
		return s, false
	}
	return strings.TrimSpace(trimmed[:idx]), true
}
