// Package annotation lexes the `@IPC(...)` directives embedded in
// header comments. It knows nothing about where a comment line came
// from: callers feed it completed lines (typically from a scan.State's
// LINE_END payload) and get back either nothing (no directive
// present), a parsed Annotation, or an InvalidAnnotation error.
package annotation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cipcgen/profiler/ipc/ipcerr"
)

// Kind identifies which of the fixed annotation keys a directive names.
type Kind string

const (
	Serializable     Kind = "Serializable"
	Interface        Kind = "Interface"
	Field            Kind = "Field"
	Method           Kind = "Method"
	Callback         Kind = "Callback"
	CallbackRegister Kind = "CallbackRegister"
	CallbackRemove   Kind = "CallbackRemove"
)

var knownKinds = map[Kind]bool{
	Serializable:     true,
	Interface:        true,
	Field:            true,
	Method:           true,
	Callback:         true,
	CallbackRegister: true,
	CallbackRemove:   true,
}

// Annotation is one parsed @IPC(Key, kw=val, ...) directive.
type Annotation struct {
	Key  Kind
	Args map[string]interface{}
}

// Bool returns the boolean value of kwarg name, or def if the kwarg
// was not supplied. A kwarg given without "=VAL" (a bare flag) is true.
func (a *Annotation) Bool(name string, def bool) bool {
	if v, ok := a.Args[name]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

var (
	findPattern = regexp.MustCompile(`@IPC\(([^()]*)\)`)
	keyPattern  = regexp.MustCompile(`^[A-Za-z]+$`)
	kwPattern   = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*)(?:=([A-Za-z0-9]*))?$`)
	intPattern  = regexp.MustCompile(`^[0-9]+$`)
)

// Find scans line for an @IPC(...) directive. It returns (nil, nil)
// when line carries no such directive at all, the overwhelming
// majority of header lines. A line containing the literal "@IPC(" that
// does not match the full grammar returns InvalidAnnotation.
func Find(line string) (*Annotation, error) {
	if !strings.Contains(line, "@IPC(") {
		return nil, nil
	}
	match := findPattern.FindStringSubmatch(line)
	if match == nil {
		return nil, &ipcerr.InvalidAnnotation{Line: line}
	}
	return parseArgs(line, match[1])
}

func parseArgs(line, inner string) (*Annotation, error) {
	parts := strings.Split(inner, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if parts[0] == "" || !keyPattern.MatchString(parts[0]) {
		return nil, &ipcerr.InvalidAnnotation{Line: line}
	}
	key := Kind(parts[0])
	if !knownKinds[key] {
		return nil, &ipcerr.InvalidAnnotation{Line: line}
	}

	args := make(map[string]interface{})
	for _, kw := range parts[1:] {
		name, val, err := parseKwarg(kw)
		if err != nil {
			return nil, &ipcerr.InvalidAnnotation{Line: line}
		}
		args[name] = val
	}
	return &Annotation{Key: key, Args: args}, nil
}

func parseKwarg(kw string) (string, interface{}, error) {
	sub := kwPattern.FindStringSubmatch(kw)
	if sub == nil {
		return "", nil, fmt.Errorf("malformed kwarg %q", kw)
	}
	name := sub[1]
	if !strings.Contains(kw, "=") {
		return name, true, nil
	}
	val, err := parseValue(sub[2])
	if err != nil {
		return "", nil, err
	}
	return name, val, nil
}

// parseValue parses a kwarg's VAL: integers become int64,
// "True"/"False" (case sensitive) become bool, and anything else
// (a bare identifier) is rejected.
func parseValue(raw string) (interface{}, error) {
	switch raw {
	case "True":
		return true, nil
	case "False":
		return false, nil
	}
	if intPattern.MatchString(raw) {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, fmt.Errorf("bare identifiers are not permitted as annotation values: %q", raw)
}
