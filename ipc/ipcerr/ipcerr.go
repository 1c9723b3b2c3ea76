// Package ipcerr defines the ParseFailure error tree surfaced by every
// stage of the IPC profile extractor: the character scanner, the
// annotation lexer, the declaration parsers, the type resolver, and
// the include graph. Every error carries the source position at which
// it was raised so a caller can report "line N, col M: <cause>"
// without re-deriving position from scratch.
package ipcerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Position is a 1-based line/column pair identifying where a failure
// occurred within a single source file.
type Position struct {
	Source string
	Line   int
	Col    int
}

func (p Position) String() string {
	if p.Source == "" {
		return fmt.Sprintf("line %d, col %d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.Source, p.Line, p.Col)
}

// ParseFailure is the root of the error tree wrapping every failure a
// scan can produce. The Driver aborts on the first ParseFailure it
// observes; no partial Profile is ever returned.
type ParseFailure struct {
	Pos     Position
	Message string
	Cause   error
}

func (e *ParseFailure) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func (e *ParseFailure) Unwrap() error { return e.Cause }

// At wraps cause as a ParseFailure located at pos, preserving cause's
// chain so errors.As/errors.Cause keep working against the original
// sub-kind (MismatchedBracket, InvalidTypeError, ...).
func At(pos Position, message string, cause error) *ParseFailure {
	return &ParseFailure{Pos: pos, Message: message, Cause: errors.WithStack(cause)}
}

// Atf is At with a formatted message.
func Atf(pos Position, cause error, format string, args ...interface{}) *ParseFailure {
	return At(pos, fmt.Sprintf(format, args...), cause)
}

// MismatchedBracket is raised by the scanner when a closing bracket is
// stray or does not match the top of the brace stack.
type MismatchedBracket struct {
	Expected byte // 0 if the stack was empty
	Found    byte
}

func (e *MismatchedBracket) Error() string {
	if e.Expected == 0 {
		return fmt.Sprintf("unexpected closing bracket %q found", e.Found)
	}
	return fmt.Sprintf("unexpected closing bracket %q found, expected %q", e.Found, e.Expected)
}

// InvalidAnnotation is raised when a line contains @IPC( but the
// argument list does not match the expected key plus comma-separated
// keyword-argument grammar.
type InvalidAnnotation struct {
	Line string
}

func (e *InvalidAnnotation) Error() string {
	return fmt.Sprintf("malformed @IPC annotation: %q", e.Line)
}

// InvalidFieldDeclaration covers unparseable field text, combined
// declarations carrying pointer/reference/array markers, and
// unresolved field types. Cause, when set, is the underlying type or
// declarator error this one was chained from.
type InvalidFieldDeclaration struct {
	Text  string
	Cause error
}

func (e *InvalidFieldDeclaration) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid field declaration: %q: %s", e.Text, e.Cause)
	}
	return fmt.Sprintf("invalid field declaration: %q", e.Text)
}

func (e *InvalidFieldDeclaration) Unwrap() error { return e.Cause }

// InvalidMethodDeclaration is the parent of every method-signature
// failure kind. Cause, when set, is the underlying parameter or return
// type error this one was chained from.
type InvalidMethodDeclaration struct {
	Text  string
	Cause error
}

func (e *InvalidMethodDeclaration) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid method declaration: %q: %s", e.Text, e.Cause)
	}
	return fmt.Sprintf("invalid method declaration: %q", e.Text)
}

func (e *InvalidMethodDeclaration) Unwrap() error { return e.Cause }

// NonExtendableMethodError is raised when an @IPC(Method) declaration
// is non-virtual, non-override, or marked final.
type NonExtendableMethodError struct {
	Name string
}

func (e *NonExtendableMethodError) Error() string {
	return fmt.Sprintf("method %q must be declared virtual or override, and must not be final", e.Name)
}

// InvalidParamDeclaration covers parameter text that does not match
// the accepted declarator grammar at all (e.g. function-pointer
// parameters).
type InvalidParamDeclaration struct {
	Text string
}

func (e *InvalidParamDeclaration) Error() string {
	return fmt.Sprintf("invalid parameter declaration: %q", e.Text)
}

// InvalidParamTypeError covers parameter base types that are
// categorically rejected: platform-dependent integers and
// unimplemented collection templates.
type InvalidParamTypeError struct {
	Type string
	Hint string
}

func (e *InvalidParamTypeError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid parameter type %q: %s", e.Type, e.Hint)
	}
	return fmt.Sprintf("invalid parameter type %q", e.Type)
}

// InvalidReturnTypeError is raised when a method's effective return
// type does not resolve and is not "void".
type InvalidReturnTypeError struct {
	Type string
}

func (e *InvalidReturnTypeError) Error() string {
	return fmt.Sprintf("invalid return type %q", e.Type)
}

// ReferenceParamError covers pointer, non-const-reference, and array
// parameter forms, all of which are rejected outright.
type ReferenceParamError struct {
	Text string
}

func (e *ReferenceParamError) Error() string {
	return fmt.Sprintf("unsupported reference/pointer/array parameter: %q", e.Text)
}

// InvalidTypeError is raised by the Type Resolver, and is also used
// as the underlying cause of Param/Return/Field type errors.
type InvalidTypeError struct {
	Name   string
	Reason string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("type %q %s", e.Name, e.Reason)
}

// DuplicateNameError is raised when a serializable, field, interface,
// or method signature key already exists where uniqueness is
// required.
type DuplicateNameError struct {
	Kind string // "serializable", "interface", "field", "method"
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate %s name: %q", e.Kind, e.Name)
}

// IncludeResolutionError signals that an #include token could not be
// resolved against the search directories. It is non-fatal: the
// Include Graph swallows it and simply does not schedule the file.
type IncludeResolutionError struct {
	Token string
}

func (e *IncludeResolutionError) Error() string {
	return fmt.Sprintf("could not resolve include %q", e.Token)
}

// CircularIncludeError is raised when the include-order fixed point
// fails to make progress while headers remain unordered.
type CircularIncludeError struct {
	Remaining []string
}

func (e *CircularIncludeError) Error() string {
	return fmt.Sprintf("circular or unresolvable include order among: %v", e.Remaining)
}
