package observe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cipcgen/profiler/ipc/observe"
	"github.com/cipcgen/profiler/ipc/profile"
	"github.com/cipcgen/profiler/ipc/scan"
)

// walk runs the full declaration-observer pipeline (root + namespace
// observers) over a single in-memory header, the same wiring the
// Driver (ipc/parser) installs per file.
func walk(t *testing.T, text string) (*profile.Profile, error) {
	t.Helper()
	prof := profile.New()
	ns := observe.NewNamespaceObserver()
	root := observe.NewRootObserver(prof, ns)
	err := scan.Walk([]byte(text), "test.h", []*scan.Observer{ns.Observer(), root.Observer()})
	return prof, err
}

func TestWalk_SerializableAutoFields(t *testing.T) {
	prof, err := walk(t, `
// @IPC(Serializable)
struct Point {
    int x;
    int y;
};
`)
	require.NoError(t, err)
	s := prof.Serializable("Point")
	require.NotNil(t, s)
	assert.Equal(t, profile.KindStruct, s.Kind)
	require.Len(t, s.Fields(), 2)
	assert.Equal(t, "x", s.Fields()[0].Name)
	assert.Equal(t, "int", s.Fields()[0].TypeName)
	assert.Equal(t, "y", s.Fields()[1].Name)
}

func TestWalk_SerializableExplicitFieldsOnlyTaggedStatementsCount(t *testing.T) {
	prof, err := walk(t, `
// @IPC(Serializable, auto=False)
struct Point {
    // @IPC(Field)
    int x;
    int untracked;
};
`)
	require.NoError(t, err)
	s := prof.Serializable("Point")
	require.NotNil(t, s)
	require.Len(t, s.Fields(), 1)
	assert.Equal(t, "x", s.Fields()[0].Name)
}

func TestWalk_EnumSerializableHasNoFields(t *testing.T) {
	prof, err := walk(t, `
// @IPC(Serializable)
enum Color {
    Red,
    Green,
    Blue
};
`)
	require.NoError(t, err)
	s := prof.Serializable("Color")
	require.NotNil(t, s)
	assert.Equal(t, profile.KindEnum, s.Kind)
	assert.Nil(t, s.Fields())
}

func TestWalk_NamespaceQualifiesNestedSerializable(t *testing.T) {
	prof, err := walk(t, `
namespace a::b {
// @IPC(Serializable)
struct Point {
    int x;
};
}
`)
	require.NoError(t, err)
	require.NotNil(t, prof.Serializable("a::b::Point"))
}

func TestWalk_NestedTypeQualifiesByEnclosingClass(t *testing.T) {
	prof, err := walk(t, `
namespace a {
class Outer {
public:
// @IPC(Serializable)
struct Inner {
    int x;
};
};
}
`)
	require.NoError(t, err)
	require.NotNil(t, prof.Serializable("a::Outer::Inner"))
}

func TestWalk_DuplicateSerializableNameErrors(t *testing.T) {
	_, err := walk(t, `
// @IPC(Serializable)
struct Point {
    int x;
};
// @IPC(Serializable)
struct Point {
    int y;
};
`)
	require.Error(t, err)
}

func TestWalk_InterfaceMustBeClassNotStruct(t *testing.T) {
	_, err := walk(t, `
// @IPC(Interface)
struct Calculator {
};
`)
	require.Error(t, err)
}

func TestWalk_InterfaceSimpleMethod(t *testing.T) {
	prof, err := walk(t, `
// @IPC(Interface)
class Calculator {
public:
// @IPC(Method)
virtual int Add(int a, int b) const = 0;
};
`)
	require.NoError(t, err)
	iface := prof.Interface("Calculator")
	require.NotNil(t, iface)
	require.Len(t, iface.Methods(), 1)
	m := iface.Methods()[0]
	assert.Equal(t, "Add(int,int)const", m.Name)
	assert.Equal(t, "int", m.ReturnType)
}

func TestWalk_InterfaceMethodWithInlineBody(t *testing.T) {
	prof, err := walk(t, `
// @IPC(Interface)
class Calculator {
public:
// @IPC(Method)
virtual void Reset() override {
    // inline body is ignored
    doSomethingElse();
}
};
`)
	require.NoError(t, err)
	iface := prof.Interface("Calculator")
	require.NotNil(t, iface)
	require.Len(t, iface.Methods(), 1)
	assert.Equal(t, "Reset()", iface.Methods()[0].Name)
}

func TestWalk_InterfaceMethodDefaultArgumentExpandsOverloads(t *testing.T) {
	prof, err := walk(t, `
// @IPC(Interface)
class Calculator {
public:
// @IPC(Method)
virtual int Add(int a, int b = 0) override;
};
`)
	require.NoError(t, err)
	iface := prof.Interface("Calculator")
	require.NotNil(t, iface)
	require.Len(t, iface.Methods(), 2)
	assert.True(t, iface.HasMethod("Add(int)"))
	assert.True(t, iface.HasMethod("Add(int,int)"))
}

func TestWalk_InterfaceNonVirtualMethodRejected(t *testing.T) {
	_, err := walk(t, `
// @IPC(Interface)
class Calculator {
public:
// @IPC(Method)
int Add(int a, int b);
};
`)
	require.Error(t, err)
}
