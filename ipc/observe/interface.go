package observe

import (
	"fmt"
	"strings"

	"github.com/cipcgen/profiler/ipc/ipcerr"
	"github.com/cipcgen/profiler/ipc/profile"
	"github.com/cipcgen/profiler/ipc/scan"
)

// InterfaceCodeObserver is installed by the root driver observer when a
// LINE_END carries @IPC(Interface).
type InterfaceCodeObserver struct {
	prof *profile.Profile
	ns   string

	self           *scan.Observer
	methodObserver *scan.Observer
	snapshot       string
}

// NewInterfaceCodeObserver returns an observer waiting for the class
// head that follows an @IPC(Interface) directive. ns is the namespace
// in effect when the directive was seen (see SerializableCodeObserver
// for why this is captured up front rather than read live).
func NewInterfaceCodeObserver(p *profile.Profile, ns string) *InterfaceCodeObserver {
	o := &InterfaceCodeObserver{prof: p, ns: ns}
	o.self = &scan.Observer{Mask: scan.BracketStart, Notify: o.notify}
	return o
}

// Observer returns the scan.Observer to register.
func (o *InterfaceCodeObserver) Observer() *scan.Observer { return o.self }

func (o *InterfaceCodeObserver) notify(event scan.Event, state *scan.State) error {
	switch event {
	case scan.BracketStart:
		return o.onHead(state)
	case scan.BracketEnd:
		return o.onClose(state)
	}
	return nil
}

func (o *InterfaceCodeObserver) onHead(state *scan.State) error {
	stack := state.BraceStack()
	if len(stack) == 0 || stack[len(stack)-1] != '{' {
		return nil
	}
	prefix := strings.TrimSpace(state.ScopePrefix())
	m := serializableHeadPattern.FindStringSubmatch(prefix)
	if m == nil {
		return nil
	}
	kind, localName := m[1], m[2]
	if kind == "struct" {
		return fmt.Errorf("interface %q must be declared as class, not struct", localName)
	}

	qualified := localName
	if o.ns != "" {
		qualified = o.ns + "::" + localName
	}
	if o.prof.NameTaken(qualified) {
		return &ipcerr.DuplicateNameError{Kind: "interface", Name: qualified}
	}

	iface := profile.NewInterface(qualified)
	o.prof.AddInterface(iface)

	o.snapshot = string(stack)
	o.self.Mask = scan.BracketEnd

	o.methodObserver = NewMethodCodeObserver(o.prof, iface, qualified, stack).Observer()
	state.AddObserver(o.methodObserver)
	return nil
}

func (o *InterfaceCodeObserver) onClose(state *scan.State) error {
	if string(state.BraceStack()) != o.snapshot {
		return nil
	}
	if o.methodObserver != nil {
		state.RemoveObserver(o.methodObserver)
	}
	state.RemoveObserver(o.self)
	return nil
}
