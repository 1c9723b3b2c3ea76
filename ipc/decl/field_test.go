package decl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cipcgen/profiler/ipc/decl"
	"github.com/cipcgen/profiler/ipc/ipcerr"
	"github.com/cipcgen/profiler/ipc/profile"
)

func TestParseFieldStatement_PlainValue(t *testing.T) {
	p := profile.New()
	fields, err := decl.ParseFieldStatement("int count", p, "")
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "count", fields[0].Name)
	assert.Equal(t, "int", fields[0].Type)
}

func TestParseFieldStatement_StripsAccessLabel(t *testing.T) {
	p := profile.New()
	fields, err := decl.ParseFieldStatement("public: double weight", p, "")
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "weight", fields[0].Name)
	assert.Equal(t, "double", fields[0].Type)
}

func TestParseFieldStatement_ConstRef(t *testing.T) {
	p := profile.New()
	fields, err := decl.ParseFieldStatement("const std::string &name", p, "")
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "std::string const&", fields[0].Type)
}

func TestParseFieldStatement_AggregateSharesType(t *testing.T) {
	p := profile.New()
	fields, err := decl.ParseFieldStatement("int a, b, c", p, "")
	require.NoError(t, err)
	require.Len(t, fields, 3)
	for i, name := range []string{"a", "b", "c"} {
		assert.Equal(t, name, fields[i].Name)
		assert.Equal(t, "int", fields[i].Type)
	}
}

func TestParseFieldStatement_EqualsInitializerIsStripped(t *testing.T) {
	p := profile.New()
	fields, err := decl.ParseFieldStatement("int count = 0", p, "")
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "count", fields[0].Name)
}

func TestParseFieldStatement_BraceInitializerIsStripped(t *testing.T) {
	p := profile.New()
	fields, err := decl.ParseFieldStatement("int count{0}", p, "")
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "count", fields[0].Name)
}

func TestParseFieldStatement_ParenInitializerIsStripped(t *testing.T) {
	p := profile.New()
	fields, err := decl.ParseFieldStatement("int count(0)", p, "")
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "count", fields[0].Name)
}

func TestParseFieldStatement_PointerIsRejected(t *testing.T) {
	p := profile.New()
	_, err := decl.ParseFieldStatement("int *ptr", p, "")
	require.Error(t, err)
	var fieldErr *ipcerr.InvalidFieldDeclaration
	require.ErrorAs(t, err, &fieldErr)
	assert.NotNil(t, fieldErr.Cause)
}

func TestParseFieldStatement_ArrayIsRejected(t *testing.T) {
	p := profile.New()
	_, err := decl.ParseFieldStatement("int values[4]", p, "")
	assert.Error(t, err)
}

func TestParseFieldStatement_AggregateExtraMustBePlainIdent(t *testing.T) {
	p := profile.New()
	_, err := decl.ParseFieldStatement("int a, *b", p, "")
	assert.Error(t, err)
}

func TestParseFieldStatement_UnresolvedTypeChainsCause(t *testing.T) {
	p := profile.New()
	_, err := decl.ParseFieldStatement("Widget w", p, "")
	require.Error(t, err)
	var typeErr *ipcerr.InvalidParamTypeError
	require.ErrorAs(t, err, &typeErr)
}
