package parser_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cipcgen/profiler/ipc/parser"
)

func TestParse_SingleHeaderRegistersSerializable(t *testing.T) {
	dir := t.TempDir()
	header := filepath.Join(dir, "point.h")
	files := map[string]string{
		header: `
// @IPC(Serializable)
struct Point {
    int x;
    int y;
};
`,
	}

	prof, err := parser.Parse(context.Background(), []string{header}, parser.Options{
		IncludeDirs: []string{dir},
		ReadText: func(_ context.Context, path string) (string, error) {
			return files[path], nil
		},
		Exists: func(_ context.Context, path string) (bool, error) {
			_, ok := files[path]
			return ok, nil
		},
	})
	require.NoError(t, err)
	s := prof.Serializable("Point")
	require.NotNil(t, s)
	require.Len(t, s.Fields(), 2)
}

func TestParse_DependentHeaderSeesIncludedType(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.h")
	dependent := filepath.Join(dir, "dependent.h")
	files := map[string]string{
		base: `
// @IPC(Serializable)
struct Point {
    int x;
};
`,
		dependent: `
#include "base.h"

// @IPC(Serializable)
struct Line {
    Point from;
    Point to;
};
`,
	}

	prof, err := parser.Parse(context.Background(), []string{dependent}, parser.Options{
		IncludeDirs: []string{dir},
		ReadText: func(_ context.Context, path string) (string, error) {
			return files[path], nil
		},
		Exists: func(_ context.Context, path string) (bool, error) {
			_, ok := files[path]
			return ok, nil
		},
	})
	require.NoError(t, err)
	line := prof.Serializable("Line")
	require.NotNil(t, line)
	require.Len(t, line.Fields(), 2)
	assert.Equal(t, "Point", line.Fields()[0].TypeName)
}

func TestParse_InvalidDeclarationAborts(t *testing.T) {
	dir := t.TempDir()
	header := filepath.Join(dir, "bad.h")
	files := map[string]string{
		header: `
// @IPC(Interface)
class Calculator {
public:
// @IPC(Method)
int Add(int a, int b);
};
`,
	}

	_, err := parser.Parse(context.Background(), []string{header}, parser.Options{
		IncludeDirs: []string{dir},
		ReadText: func(_ context.Context, path string) (string, error) {
			return files[path], nil
		},
		Exists: func(_ context.Context, path string) (bool, error) {
			_, ok := files[path]
			return ok, nil
		},
	})
	require.Error(t, err)
}

// fieldExpectation and serializableExpectation mirror the shape of a
// resulting struct serializable closely enough to compare against a
// YAML literal, the same fixture-as-document style as the teacher's
// analyzer tests: easier to read here than nested struct literals once
// a profile has more than a couple of fields.
type fieldExpectation struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type serializableExpectation struct {
	Kind   string              `yaml:"kind"`
	Fields []fieldExpectation `yaml:"fields"`
}

func TestParse_SerializableMatchesYAMLFixture(t *testing.T) {
	dir := t.TempDir()
	header := filepath.Join(dir, "account.h")
	files := map[string]string{
		header: `
// @IPC(Serializable)
struct Account {
    std::string owner;
    int32_t balance;
    std::vector<int32_t> history;
};
`,
	}

	prof, err := parser.Parse(context.Background(), []string{header}, parser.Options{
		IncludeDirs: []string{dir},
		ReadText: func(_ context.Context, path string) (string, error) {
			return files[path], nil
		},
		Exists: func(_ context.Context, path string) (bool, error) {
			_, ok := files[path]
			return ok, nil
		},
	})
	require.NoError(t, err)

	const fixture = `
kind: struct
fields:
  - name: owner
    type: std::string
  - name: balance
    type: std::int32_t
  - name: history
    type: std::vector<std::int32_t>
`
	var want serializableExpectation
	require.NoError(t, yaml.Unmarshal([]byte(fixture), &want))

	account := prof.Serializable("Account")
	require.NotNil(t, account)
	got := serializableExpectation{Kind: account.Kind.String()}
	for _, f := range account.Fields() {
		got.Fields = append(got.Fields, fieldExpectation{Name: f.Name, Type: f.TypeName})
	}
	assert.Equal(t, want, got)
}
