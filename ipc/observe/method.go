package observe

import (
	"fmt"
	"strings"

	"github.com/cipcgen/profiler/ipc/annotation"
	"github.com/cipcgen/profiler/ipc/decl"
	"github.com/cipcgen/profiler/ipc/ipcerr"
	"github.com/cipcgen/profiler/ipc/profile"
	"github.com/cipcgen/profiler/ipc/scan"
)

// MethodCodeObserver assembles a single @IPC(Method) declaration,
// which may span multiple lines, a parameter list, default-argument
// expressions, and an optional inline body, into its full declaration
// text, then feeds it to the Method Signature Parser. It lives for the
// duration of the enclosing interface's class body, cycling between an
// idle state (watching for the next @IPC(Method)) and an active
// assembly state.
type MethodCodeObserver struct {
	prof  *profile.Profile
	iface *profile.Interface
	ns    string
	scope string // the interface's own brace-stack snapshot, string-keyed

	self *scan.Observer

	active        bool
	ignoredPrefix string
	declaration   string
}

// NewMethodCodeObserver builds an observer scoped to scope, the brace
// stack captured when the containing interface's body opened.
func NewMethodCodeObserver(p *profile.Profile, iface *profile.Interface, ns string, scope []byte) *MethodCodeObserver {
	o := &MethodCodeObserver{prof: p, iface: iface, ns: ns, scope: string(scope)}
	o.self = &scan.Observer{Mask: scan.LineEnd, Notify: o.notify}
	return o
}

// Observer returns the scan.Observer to register.
func (o *MethodCodeObserver) Observer() *scan.Observer { return o.self }

func (o *MethodCodeObserver) notify(event scan.Event, state *scan.State) error {
	switch event {
	case scan.LineEnd:
		return o.onLineEnd(state)
	case scan.BracketStart:
		return o.onBracketStart(state)
	case scan.BracketEnd:
		return o.onBracketEnd(state)
	case scan.StatementEnd:
		return o.onStatementEnd(state)
	}
	return nil
}

func (o *MethodCodeObserver) onLineEnd(state *scan.State) error {
	ann, err := annotation.Find(state.Line())
	if err != nil {
		return err
	}
	if ann == nil || ann.Key != annotation.Method {
		return nil
	}
	if o.active {
		return fmt.Errorf("a fresh @IPC(Method) directive was seen while a prior method declaration was still being assembled")
	}
	o.active = true
	o.ignoredPrefix = state.CurrentStatement()
	o.declaration = ""
	o.self.Mask = scan.LineEnd | scan.BracketStart | scan.BracketEnd | scan.StatementEnd
	return nil
}

func (o *MethodCodeObserver) onBracketStart(state *scan.State) error {
	if !o.active {
		return nil
	}
	stack := state.BraceStack()
	switch {
	case stackExtends(stack, o.scope, '('):
		prefix := state.ScopePrefix()
		o.declaration += strings.TrimPrefix(prefix, o.ignoredPrefix)
		o.ignoredPrefix = prefix
	case stackExtends(stack, o.scope, '{'):
		return o.finalize(state.ScopePrefix())
	}
	return nil
}

func (o *MethodCodeObserver) onBracketEnd(state *scan.State) error {
	if !o.active {
		return nil
	}
	if stackExtends(state.BraceStack(), o.scope, '(') {
		o.declaration += state.CurrentStatement()
	}
	return nil
}

func (o *MethodCodeObserver) onStatementEnd(state *scan.State) error {
	if !o.active {
		return nil
	}
	if !stackEquals(state.BraceStack(), o.scope) {
		return nil
	}
	return o.finalize(state.CurrentStatement())
}

// finalize composes the full declaration text from the pieces rescued
// from scopes that have since closed (o.declaration) plus whatever
// remains of the current interface-scope statement beyond the point
// already folded in (fullText minus o.ignoredPrefix), feeds it to the
// Method Signature Parser, and returns to the idle state.
func (o *MethodCodeObserver) finalize(fullText string) error {
	text := o.declaration + strings.TrimPrefix(fullText, o.ignoredPrefix)
	text = strings.TrimSuffix(strings.TrimSpace(text), "{")
	text = strings.TrimSpace(text)

	o.active = false
	o.ignoredPrefix = ""
	o.declaration = ""
	o.self.Mask = scan.LineEnd

	if text == "" {
		return nil
	}
	methods, err := decl.ParseMethodDeclaration(text, o.prof, o.ns)
	if err != nil {
		return err
	}
	for _, m := range methods {
		if o.iface.HasMethod(m.Name) {
			return &ipcerr.DuplicateNameError{Kind: "method", Name: m.Name}
		}
		o.iface.AddMethod(m)
	}
	return nil
}

// stackExtends reports whether stack is exactly base plus one more
// open bracket, extra.
func stackExtends(stack []byte, base string, extra byte) bool {
	if len(stack) != len(base)+1 {
		return false
	}
	return string(stack[:len(stack)-1]) == base && stack[len(stack)-1] == extra
}

func stackEquals(stack []byte, base string) bool {
	return string(stack) == base
}
