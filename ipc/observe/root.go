package observe

import (
	"github.com/cipcgen/profiler/ipc/annotation"
	"github.com/cipcgen/profiler/ipc/profile"
	"github.com/cipcgen/profiler/ipc/scan"
)

// RootObserver is the observer the Driver seeds every header's scan
// with: it watches LINE_END for @IPC(Serializable) and @IPC(Interface)
// directives and installs the matching declaration observer, scoped
// to the NamespaceObserver's namespace at the moment the directive was
// seen.
type RootObserver struct {
	prof *profile.Profile
	ns   *NamespaceObserver
}

// NewRootObserver builds a root observer over prof, using ns to
// qualify whatever serializable/interface it installs next.
func NewRootObserver(p *profile.Profile, ns *NamespaceObserver) *RootObserver {
	return &RootObserver{prof: p, ns: ns}
}

// Observer returns the scan.Observer to register with a scan.Walk run.
func (r *RootObserver) Observer() *scan.Observer {
	return &scan.Observer{Mask: scan.LineEnd, Notify: r.notify}
}

func (r *RootObserver) notify(_ scan.Event, state *scan.State) error {
	ann, err := annotation.Find(state.Line())
	if err != nil {
		return err
	}
	if ann == nil {
		return nil
	}
	// Captured now, before the declared construct's own opening brace
	// can push a further NamespaceObserver frame for itself. A type
	// must be qualified by its *enclosing* namespace, never by its own
	// name.
	ns := r.ns.Namespace()
	switch ann.Key {
	case annotation.Serializable:
		autoFields := ann.Bool("auto", true)
		state.AddObserver(NewSerializableCodeObserver(r.prof, ns, autoFields).Observer())
	case annotation.Interface:
		state.AddObserver(NewInterfaceCodeObserver(r.prof, ns).Observer())
	}
	return nil
}
