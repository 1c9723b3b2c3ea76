package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cipcgen/profiler/ipc/ipcerr"
	"github.com/cipcgen/profiler/ipc/profile"
	"github.com/cipcgen/profiler/ipc/resolve"
)

func TestResolve_Builtin(t *testing.T) {
	p := profile.New()
	r, err := resolve.Resolve("std::string", p, "foo::bar")
	require.NoError(t, err)
	assert.Equal(t, "std::string", r.Canonical)
}

func TestResolve_BuiltinAliasCanonicalizes(t *testing.T) {
	p := profile.New()
	r, err := resolve.Resolve("size_t", p, "")
	require.NoError(t, err)
	assert.Equal(t, "std::size_t", r.Canonical)
}

func TestResolve_WidensOutwardThroughNamespaces(t *testing.T) {
	p := profile.New()
	foo := profile.NewSerializable("a::Foo", profile.KindStruct)
	p.AddSerializable(foo)

	r, err := resolve.Resolve("Foo", p, "a::b::c")
	require.NoError(t, err)
	assert.Equal(t, "a::Foo", r.Canonical)
}

func TestResolve_InnermostNamespaceWinsOverOuter(t *testing.T) {
	p := profile.New()
	outer := profile.NewSerializable("Foo", profile.KindStruct)
	inner := profile.NewSerializable("a::Foo", profile.KindStruct)
	p.AddSerializable(outer)
	p.AddSerializable(inner)

	r, err := resolve.Resolve("Foo", p, "a")
	require.NoError(t, err)
	assert.Equal(t, "a::Foo", r.Canonical)
}

func TestResolve_AbsoluteSkipsNamespaceSearch(t *testing.T) {
	p := profile.New()
	foo := profile.NewSerializable("Foo", profile.KindStruct)
	nested := profile.NewSerializable("a::Foo", profile.KindStruct)
	p.AddSerializable(foo)
	p.AddSerializable(nested)

	r, err := resolve.Resolve("::Foo", p, "a")
	require.NoError(t, err)
	assert.Equal(t, "Foo", r.Canonical)
}

func TestResolve_InterfaceResolves(t *testing.T) {
	p := profile.New()
	iface := profile.NewInterface("ns::Svc")
	p.AddInterface(iface)

	r, err := resolve.Resolve("Svc", p, "ns")
	require.NoError(t, err)
	assert.Equal(t, "ns::Svc", r.Canonical)
	assert.Same(t, iface, r.Object)
}

func TestResolve_UnsupportedIntHintsFixedWidth(t *testing.T) {
	p := profile.New()
	_, err := resolve.Resolve("long", p, "")
	require.Error(t, err)
	var invalid *ipcerr.InvalidTypeError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "fixed-width")
}

func TestResolve_UnimplementedCollectionMessage(t *testing.T) {
	p := profile.New()
	_, err := resolve.Resolve("std::flat_map", p, "")
	require.Error(t, err)
	var invalid *ipcerr.InvalidTypeError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "not currently supported")
}

func TestResolve_UnknownNameFails(t *testing.T) {
	p := profile.New()
	_, err := resolve.Resolve("Bogus", p, "a::b")
	require.Error(t, err)
	var invalid *ipcerr.InvalidTypeError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "does not resolve")
}
