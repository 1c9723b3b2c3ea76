// Package observe implements the declaration observers: stateful
// listeners installed on the character scanner that turn scope
// boundaries and annotation lines into Profile mutations. Every
// observer shares the discipline of recording the brace-stack
// snapshot at its activation site and acting only while the scanner's
// current stack still matches that snapshot, so inner scopes stay
// transparent to it unless it explicitly drills in.
package observe

import (
	"regexp"
	"strings"

	"github.com/cipcgen/profiler/ipc/scan"
)

var (
	namespaceHeadPattern = regexp.MustCompile(`^namespace\s+([\w:]+)\s*\{$`)
	classHeadPattern     = regexp.MustCompile(`^(?:struct|class)\s+(\w+)\s*\{$`)
)

// nsFrame is one entry of the namespace stack: the name contributed at
// that nesting level and the brace-stack snapshot that introduced it.
type nsFrame struct {
	name     string
	snapshot string
}

// NamespaceObserver tracks the fully-qualified namespace/enclosing-type
// prefix throughout a parse run. It is persistent across every header
// the Driver processes.
type NamespaceObserver struct {
	frames []nsFrame
}

// NewNamespaceObserver creates an observer at the global namespace.
func NewNamespaceObserver() *NamespaceObserver {
	return &NamespaceObserver{}
}

// Observer returns the scan.Observer to register with a scan.Walk run.
func (n *NamespaceObserver) Observer() *scan.Observer {
	return &scan.Observer{Mask: scan.BracketStart | scan.BracketEnd, Notify: n.notify}
}

// Namespace is the "::"-joined current namespace/enclosing-type
// prefix, usable directly as a Type Resolver currentNS argument.
func (n *NamespaceObserver) Namespace() string {
	names := make([]string, len(n.frames))
	for i, f := range n.frames {
		names[i] = f.name
	}
	return strings.Join(names, "::")
}

func (n *NamespaceObserver) notify(event scan.Event, state *scan.State) error {
	switch event {
	case scan.BracketStart:
		n.onBracketStart(state)
	case scan.BracketEnd:
		n.onBracketEnd(state)
	}
	return nil
}

func (n *NamespaceObserver) onBracketStart(state *scan.State) {
	stack := state.BraceStack()
	if len(stack) == 0 || stack[len(stack)-1] != '{' {
		return
	}
	prefix := strings.TrimSpace(state.ScopePrefix())

	var name string
	if m := namespaceHeadPattern.FindStringSubmatch(prefix); m != nil {
		name = m[1]
	} else if m := classHeadPattern.FindStringSubmatch(prefix); m != nil {
		name = m[1]
	} else {
		return
	}
	n.frames = append(n.frames, nsFrame{name: name, snapshot: string(stack)})
}

func (n *NamespaceObserver) onBracketEnd(state *scan.State) {
	if len(n.frames) == 0 {
		return
	}
	top := n.frames[len(n.frames)-1]
	if string(state.BraceStack()) == top.snapshot {
		n.frames = n.frames[:len(n.frames)-1]
	}
}
