package include_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cipcgen/profiler/ipc/include"
)

// fakeFS backs Order with an in-memory set of files, so tests don't
// depend on a real filesystem or network-capable afs backend.
type fakeFS struct {
	files map[string]string
}

func (f *fakeFS) read(_ context.Context, path string) (string, error) {
	return f.files[path], nil
}

func (f *fakeFS) exists(_ context.Context, path string) (bool, error) {
	_, ok := f.files[path]
	return ok, nil
}

func TestOrder_PlacesDependencyBeforeDependent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.h")
	b := filepath.Join(dir, "b.h")
	fs := &fakeFS{files: map[string]string{
		a: `#include "b.h"
struct A {};
`,
		b: `struct B {};
`,
	}}

	order, err := include.Order(context.Background(), []string{a}, []string{dir}, fs.read, fs.exists)
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Equal(t, b, order[0])
	assert.Equal(t, a, order[1])
}

func TestOrder_UnresolvedIncludeSilentlyDropped(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.h")
	fs := &fakeFS{files: map[string]string{
		a: `#include <vector>
#include "missing.h"
struct A {};
`,
	}}

	order, err := include.Order(context.Background(), []string{a}, []string{dir}, fs.read, fs.exists)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, order)
}

func TestOrder_DiamondDependencyScannedOnce(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "root.h")
	left := filepath.Join(dir, "left.h")
	right := filepath.Join(dir, "right.h")
	common := filepath.Join(dir, "common.h")
	fs := &fakeFS{files: map[string]string{
		root: `#include "left.h"
#include "right.h"
`,
		left:   `#include "common.h"`,
		right:  `#include "common.h"`,
		common: `struct Common {};`,
	}}

	order, err := include.Order(context.Background(), []string{root}, []string{dir}, fs.read, fs.exists)
	require.NoError(t, err)
	require.Len(t, order, 4)
	assert.Equal(t, common, order[0])
	assert.Equal(t, root, order[len(order)-1])
}

func TestOrder_CircularIncludeErrors(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.h")
	b := filepath.Join(dir, "b.h")
	fs := &fakeFS{files: map[string]string{
		a: `#include "b.h"`,
		b: `#include "a.h"`,
	}}

	_, err := include.Order(context.Background(), []string{a}, []string{dir}, fs.read, fs.exists)
	require.Error(t, err)
}
