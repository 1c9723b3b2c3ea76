package observe

import (
	"strings"

	"github.com/cipcgen/profiler/ipc/annotation"
	"github.com/cipcgen/profiler/ipc/profile"
	"github.com/cipcgen/profiler/ipc/scan"
)

// ExplicitFieldObserver only treats a statement as a field declaration
// when it was preceded, within the same scope, by an @IPC(Field)
// directive on a prior line: the "auto=False" mode.
type ExplicitFieldObserver struct {
	prof     *profile.Profile
	target   *profile.Serializable
	ns       string
	snapshot string

	awaiting bool
	prefix   string
}

// NewExplicitFieldObserver builds an observer scoped to snapshot, the
// brace stack captured when the containing serializable's body opened.
func NewExplicitFieldObserver(p *profile.Profile, target *profile.Serializable, ns string, snapshot []byte) *ExplicitFieldObserver {
	return &ExplicitFieldObserver{prof: p, target: target, ns: ns, snapshot: string(snapshot)}
}

// Observer returns the scan.Observer to register.
func (o *ExplicitFieldObserver) Observer() *scan.Observer {
	return &scan.Observer{Mask: scan.LineEnd | scan.StatementEnd, Notify: o.notify}
}

func (o *ExplicitFieldObserver) notify(event scan.Event, state *scan.State) error {
	if string(state.BraceStack()) != o.snapshot {
		return nil
	}
	switch event {
	case scan.LineEnd:
		return o.onLineEnd(state)
	case scan.StatementEnd:
		return o.onStatementEnd(state)
	}
	return nil
}

func (o *ExplicitFieldObserver) onLineEnd(state *scan.State) error {
	ann, err := annotation.Find(state.Line())
	if err != nil {
		return err
	}
	if ann != nil && ann.Key == annotation.Field {
		o.awaiting = true
		o.prefix = state.CurrentStatement()
	}
	return nil
}

func (o *ExplicitFieldObserver) onStatementEnd(state *scan.State) error {
	if !o.awaiting {
		return nil
	}
	full := state.CurrentStatement()
	stmt := strings.TrimSpace(strings.TrimPrefix(full, o.prefix))
	o.awaiting = false
	o.prefix = ""
	if stmt == "" {
		return nil
	}
	return addFields(o.prof, o.target, o.ns, stmt)
}
