// Package profile holds the IPC interface Profile data model: the
// serializable types and interfaces discovered by a parse run, plus
// the built-in type registry every Profile starts from.
//
// Name to value collections preserve insertion order, needed for
// deterministic codegen downstream, by pairing an ordered slice with a
// name->index map, the same idiom the teacher uses for
// Type.Fields/fieldMap and File.Types/typeMap.
package profile

import "fmt"

// Kind distinguishes the three forms a Serializable can take.
type Kind string

const (
	KindEnum    Kind = "enum"
	KindStruct  Kind = "struct"
	KindBuiltin Kind = "builtin"
)

// Serializable is a type usable as a message payload.
type Serializable struct {
	Name string
	Kind Kind

	fields   []*Field
	fieldIdx map[string]int
}

// NewSerializable creates a Serializable of the given kind. Struct
// serializables get an initialized (empty) field index; enum and
// builtin serializables carry no fields.
func NewSerializable(name string, kind Kind) *Serializable {
	s := &Serializable{Name: name, Kind: kind}
	if kind == KindStruct {
		s.fieldIdx = make(map[string]int)
	}
	return s
}

// Fields returns the struct's fields in declaration order. Nil for
// non-struct serializables.
func (s *Serializable) Fields() []*Field { return s.fields }

// Field looks up a field by name.
func (s *Serializable) Field(name string) *Field {
	if idx, ok := s.fieldIdx[name]; ok {
		return s.fields[idx]
	}
	return nil
}

// HasField reports whether a field with that name has already been
// added, used by observers to enforce name-uniqueness before
// insertion.
func (s *Serializable) HasField(name string) bool {
	_, ok := s.fieldIdx[name]
	return ok
}

// AddField appends a field to a struct serializable. Callers must
// check HasField first; AddField itself does not guard against
// duplicates so that the caller controls the specific error raised.
func (s *Serializable) AddField(f *Field) {
	if s.fieldIdx == nil {
		s.fieldIdx = make(map[string]int)
	}
	s.fieldIdx[f.Name] = len(s.fields)
	s.fields = append(s.fields, f)
}

// Field is a single named member of a struct Serializable.
type Field struct {
	Name     string
	TypeName string
}

// Interface is an addressable RPC surface. Must be declared as a C++
// class, never a struct; enforced by the Serializable/Interface
// declaration observers, not by this type.
type Interface struct {
	Name string

	methods   []*Method
	methodIdx map[string]int

	callbacks   []*Callback
	callbackIdx map[string]int
}

// NewInterface creates an empty Interface ready to receive methods.
func NewInterface(name string) *Interface {
	return &Interface{
		Name:        name,
		methodIdx:   make(map[string]int),
		callbackIdx: make(map[string]int),
	}
}

// Methods returns the interface's methods in declaration/overload
// order.
func (i *Interface) Methods() []*Method { return i.methods }

// Method looks up a method by its signature key.
func (i *Interface) Method(signature string) *Method {
	if idx, ok := i.methodIdx[signature]; ok {
		return i.methods[idx]
	}
	return nil
}

// HasMethod reports whether a method with that signature key has
// already been registered.
func (i *Interface) HasMethod(signature string) bool {
	_, ok := i.methodIdx[signature]
	return ok
}

// AddMethod registers a method under its signature key. Callers must
// check HasMethod first: signature keys are unique within an
// interface.
func (i *Interface) AddMethod(m *Method) {
	i.methodIdx[m.Name] = len(i.methods)
	i.methods = append(i.methods, m)
}

// Callbacks returns the interface's registered callbacks. Reserved for
// future use: no observer in this module populates it.
func (i *Interface) Callbacks() []*Callback { return i.callbacks }

// AddCallback registers a callback under its name.
func (i *Interface) AddCallback(c *Callback) {
	if i.callbackIdx == nil {
		i.callbackIdx = make(map[string]int)
	}
	i.callbackIdx[c.Name] = len(i.callbacks)
	i.callbacks = append(i.callbacks, c)
}

// Method is a single interface member, keyed by its canonical
// signature ("BaseName(Type1,Type2,...)" plus an optional trailing
// "const").
type Method struct {
	Name       string // signature key
	ReturnType string
	Parameters []Parameter
}

// Parameter is one method/callback parameter.
type Parameter struct {
	Name string
	Type string
}

// Callback is reserved for future use; no observer currently
// populates it.
type Callback struct {
	Name           string
	RegisterMethod string
	RemoveMethod   string
	ReturnType     string
	Parameters     []Parameter
}

// Profile is the top-level output of a parse run. A Profile is
// mutated only by declaration observers while a scan is in progress
// and is returned read-only once the Driver completes.
type Profile struct {
	serializables   []*Serializable
	serializableIdx map[string]int
	interfaces      []*Interface
	interfaceIdx    map[string]int
}

// New creates a Profile pre-populated with the built-in type registry.
// Every accepted alias of a built-in (e.g. "size_t" and "std::size_t",
// or "int32_t" and "std::int32_t") is indexed to the same canonical
// Serializable so both spellings resolve without the caller needing
// alias-aware lookup.
func New() *Profile {
	p := &Profile{
		serializableIdx: make(map[string]int),
		interfaceIdx:    make(map[string]int),
	}
	for _, def := range builtinDefs() {
		slot := len(p.serializables)
		p.serializables = append(p.serializables, def.canonical)
		for _, alias := range def.aliases {
			p.serializableIdx[alias] = slot
		}
	}
	return p
}

// Serializables returns every registered serializable type, built-ins
// included, in registration order.
func (p *Profile) Serializables() []*Serializable { return p.serializables }

// Serializable looks up a serializable (built-in or user-defined) by
// its fully-qualified name.
func (p *Profile) Serializable(name string) *Serializable {
	if idx, ok := p.serializableIdx[name]; ok {
		return p.serializables[idx]
	}
	return nil
}

// Interfaces returns every registered interface in registration order.
func (p *Profile) Interfaces() []*Interface { return p.interfaces }

// Interface looks up an interface by its fully-qualified name.
func (p *Profile) Interface(name string) *Interface {
	if idx, ok := p.interfaceIdx[name]; ok {
		return p.interfaces[idx]
	}
	return nil
}

// NameTaken reports whether name already identifies a serializable or
// an interface: a Profile never contains two same-named serializables,
// nor an interface sharing a name with any serializable.
func (p *Profile) NameTaken(name string) bool {
	if _, ok := p.serializableIdx[name]; ok {
		return true
	}
	_, ok := p.interfaceIdx[name]
	return ok
}

// AddSerializable registers a new user-defined serializable. Callers
// must check NameTaken first.
func (p *Profile) AddSerializable(s *Serializable) {
	p.serializableIdx[s.Name] = len(p.serializables)
	p.serializables = append(p.serializables, s)
}

// AddInterface registers a new interface. Callers must check
// NameTaken first.
func (p *Profile) AddInterface(i *Interface) {
	p.interfaceIdx[i.Name] = len(p.interfaces)
	p.interfaces = append(p.interfaces, i)
}

// Resolvable is implemented by both Serializable and Interface so the
// Type Resolver (ipc/resolve) can return either behind one interface,
// alongside the built-in registry.
type Resolvable interface {
	CanonicalName() string
}

// CanonicalName implements Resolvable.
func (s *Serializable) CanonicalName() string { return s.Name }

// CanonicalName implements Resolvable.
func (i *Interface) CanonicalName() string { return i.Name }

func (k Kind) String() string { return string(k) }

// String gives a debug-friendly rendering, used by tests that print
// mismatches rather than by any production code path.
func (s *Serializable) String() string {
	return fmt.Sprintf("Serializable{%s, %s, fields=%d}", s.Name, s.Kind, len(s.fields))
}
