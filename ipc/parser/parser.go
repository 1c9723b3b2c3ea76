// Package parser implements the Driver: the entry point that turns a
// set of annotated C++ headers into a Profile by resolving the
// include graph, then running the character scanner with the
// declaration observers over each header in dependency order.
package parser

import (
	"context"

	"github.com/pkg/errors"

	"github.com/cipcgen/profiler/ipc/include"
	"github.com/cipcgen/profiler/ipc/observe"
	"github.com/cipcgen/profiler/ipc/profile"
	"github.com/cipcgen/profiler/ipc/scan"
)

// Options holds the Driver's tunables. There is no CLI surface: file
// I/O and process wiring are left to the caller, so Options is a
// plain struct a caller constructs directly, the way the teacher's
// graph.Config is built and passed into NewInspector.
type Options struct {
	// IncludeDirs lists directories searched, in order, to resolve
	// #include tokens.
	IncludeDirs []string

	// ReadText reads a header's full text. Defaults to the
	// afs-backed include.Read.
	ReadText include.ReadTextFunc

	// Exists reports whether a path exists, used while resolving
	// #include tokens. Defaults to the afs-backed include.Exists.
	Exists include.ExistsFunc
}

// Parse builds the include graph rooted at headers, then runs the
// scanner over every header in dependency order, accumulating
// declarations into a single Profile. The first ParsingError aborts
// the run; no partial Profile is returned.
func Parse(ctx context.Context, headers []string, opts Options) (*profile.Profile, error) {
	readText := opts.ReadText
	if readText == nil {
		readText = include.Read
	}

	order, err := include.Order(ctx, headers, opts.IncludeDirs, readText, opts.Exists)
	if err != nil {
		return nil, errors.WithMessage(err, "resolving include order")
	}

	prof := profile.New()
	ns := observe.NewNamespaceObserver()

	for _, header := range order {
		text, err := readText(ctx, header)
		if err != nil {
			return nil, errors.WithMessagef(err, "reading %s", header)
		}

		root := observe.NewRootObserver(prof, ns)
		observers := []*scan.Observer{ns.Observer(), root.Observer()}
		if err := scan.Walk([]byte(text), header, observers); err != nil {
			return nil, err
		}
	}

	return prof, nil
}
