// Package resolve implements the Type Resolver: C++-style
// unqualified-name lookup of a type against a Profile's built-in
// registry and its user-defined serializables and interfaces,
// searching outward from a current namespace.
package resolve

import (
	"fmt"
	"strings"

	"github.com/cipcgen/profiler/ipc/ipcerr"
	"github.com/cipcgen/profiler/ipc/profile"
)

// Result is what Resolve returns on a hit: the resolved object
// (built-in, user serializable, or interface) alongside its canonical
// fully-qualified name. Callers must use Canonical as the stored
// type name so that aliases and abbreviations normalize consistently.
type Result struct {
	Canonical string
	Object    profile.Resolvable
}

// Resolve looks up name against p, starting the search at currentNS
// and widening outward one namespace segment at a time until the
// global scope:
//
//  1. A name beginning with "::" is absolute: the prefix is dropped
//     and only the bare (already-qualified) remainder is looked up.
//  2. Otherwise, every suffix of currentNS's segments is tried, from
//     longest to shortest (including the empty suffix), prepended onto
//     name, checking built-ins, serializables, and interfaces at each
//     step. The first hit wins.
func Resolve(name string, p *profile.Profile, currentNS string) (*Result, error) {
	absolute := strings.HasPrefix(name, "::")
	if absolute {
		name = name[2:]
	}

	var segments []string
	if !absolute && currentNS != "" {
		segments = strings.Split(currentNS, "::")
	}

	for i := len(segments); i >= 0; i-- {
		candidate := name
		if i > 0 {
			candidate = strings.Join(segments[:i], "::") + "::" + name
		}
		if r := lookup(candidate, p); r != nil {
			return r, nil
		}
	}

	return nil, unresolvedError(name, currentNS)
}

func lookup(name string, p *profile.Profile) *Result {
	if s := p.Serializable(name); s != nil {
		return &Result{Canonical: s.CanonicalName(), Object: s}
	}
	if i := p.Interface(name); i != nil {
		return &Result{Canonical: i.CanonicalName(), Object: i}
	}
	return nil
}

func unresolvedError(name, currentNS string) error {
	if profile.UnsupportedInts[name] {
		return &ipcerr.InvalidTypeError{
			Name:   name,
			Reason: "is platform-dependent; use a fixed-width type instead",
		}
	}
	if profile.UnimplementedCollections[name] {
		return &ipcerr.InvalidTypeError{
			Name:   name,
			Reason: "is not currently supported",
		}
	}
	ns := currentNS
	if ns == "" {
		ns = "::"
	}
	return &ipcerr.InvalidTypeError{
		Name:   name,
		Reason: fmt.Sprintf("does not resolve in namespace %s", ns),
	}
}
