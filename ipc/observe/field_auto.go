package observe

import (
	"strings"

	"github.com/cipcgen/profiler/ipc/profile"
	"github.com/cipcgen/profiler/ipc/scan"
)

// AutoFieldObserver treats every statement inside a serializable's
// brace scope as a field declaration, the default mode for an
// @IPC(Serializable) directive.
type AutoFieldObserver struct {
	prof     *profile.Profile
	target   *profile.Serializable
	ns       string
	snapshot string
}

// NewAutoFieldObserver builds an observer scoped to snapshot, the
// brace stack captured when the containing serializable's body opened.
func NewAutoFieldObserver(p *profile.Profile, target *profile.Serializable, ns string, snapshot []byte) *AutoFieldObserver {
	return &AutoFieldObserver{prof: p, target: target, ns: ns, snapshot: string(snapshot)}
}

// Observer returns the scan.Observer to register.
func (o *AutoFieldObserver) Observer() *scan.Observer {
	return &scan.Observer{Mask: scan.StatementEnd, Notify: o.notify}
}

func (o *AutoFieldObserver) notify(_ scan.Event, state *scan.State) error {
	if string(state.BraceStack()) != o.snapshot {
		return nil
	}
	stmt := strings.TrimSpace(state.CurrentStatement())
	if stmt == "" {
		return nil
	}
	return addFields(o.prof, o.target, o.ns, stmt)
}
