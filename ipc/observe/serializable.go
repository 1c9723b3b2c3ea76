package observe

import (
	"regexp"
	"strings"

	"github.com/cipcgen/profiler/ipc/decl"
	"github.com/cipcgen/profiler/ipc/ipcerr"
	"github.com/cipcgen/profiler/ipc/profile"
	"github.com/cipcgen/profiler/ipc/scan"
)

var serializableHeadPattern = regexp.MustCompile(`^(struct|class|enum)(?:\s+class)?\s+(?:\w+\s+)*(\w+)\s*\{$`)

// SerializableCodeObserver is installed by the root driver observer
// when a LINE_END carries @IPC(Serializable[, auto=bool]).
type SerializableCodeObserver struct {
	prof       *profile.Profile
	ns         string
	autoFields bool

	self          *scan.Observer
	fieldObserver *scan.Observer
	snapshot      string
}

// NewSerializableCodeObserver returns an observer waiting for the
// struct/class/enum head that follows an @IPC(Serializable) directive.
// ns is the namespace in effect when the directive was seen (captured
// by the caller before this head's own brace can push a further
// frame, so a class never ends up qualified by its own name).
func NewSerializableCodeObserver(p *profile.Profile, ns string, autoFields bool) *SerializableCodeObserver {
	o := &SerializableCodeObserver{prof: p, ns: ns, autoFields: autoFields}
	o.self = &scan.Observer{Mask: scan.BracketStart, Notify: o.notify}
	return o
}

// Observer returns the scan.Observer to register.
func (o *SerializableCodeObserver) Observer() *scan.Observer { return o.self }

func (o *SerializableCodeObserver) notify(event scan.Event, state *scan.State) error {
	switch event {
	case scan.BracketStart:
		return o.onHead(state)
	case scan.BracketEnd:
		return o.onClose(state)
	}
	return nil
}

func (o *SerializableCodeObserver) onHead(state *scan.State) error {
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

	qualified := localName
	if o.ns != "" {
		qualified = o.ns + "::" + localName
	}
	if o.prof.NameTaken(qualified) {
		return &ipcerr.DuplicateNameError{Kind: "serializable", Name: qualified}
	}

	profileKind := profile.KindStruct
	if kind == "enum" {
		profileKind = profile.KindEnum
	}
	s := profile.NewSerializable(qualified, profileKind)
	o.prof.AddSerializable(s)

	o.snapshot = string(stack)
	o.self.Mask = scan.BracketEnd

	if profileKind == profile.KindStruct {
		if o.autoFields {
			o.fieldObserver = NewAutoFieldObserver(o.prof, s, qualified, stack).Observer()
		} else {
			o.fieldObserver = NewExplicitFieldObserver(o.prof, s, qualified, stack).Observer()
		}
		state.AddObserver(o.fieldObserver)
	}
	return nil
}

func (o *SerializableCodeObserver) onClose(state *scan.State) error {
	if string(state.BraceStack()) != o.snapshot {
		return nil
	}
	if o.fieldObserver != nil {
		state.RemoveObserver(o.fieldObserver)
	}
	state.RemoveObserver(o.self)
	return nil
}

// addFields parses stmt as a field statement and inserts every member
// it produces into target, rejecting duplicate field names.
func addFields(p *profile.Profile, target *profile.Serializable, ns, stmt string) error {
	fields, err := decl.ParseFieldStatement(stmt, p, ns)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if target.HasField(f.Name) {
			return &ipcerr.DuplicateNameError{Kind: "field", Name: f.Name}
		}
		target.AddField(&profile.Field{Name: f.Name, TypeName: f.Type})
	}
	return nil
}
