// Package include resolves the include graph: given a set of header
// paths and a list of search directories, it discovers every
// transitively-included header reachable from the input set and
// returns them in dependency order, so the Driver (ipc/parser) can
// parse downstream headers after the types they depend on are already
// registered.
package include

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/viant/afs"

	"github.com/cipcgen/profiler/ipc/ipcerr"
	"github.com/cipcgen/profiler/ipc/profile"
)

var includePattern = regexp.MustCompile(`^\s*#\s*include\s*("[^"]+"|<[^>]+>)`)

// ReadTextFunc reads the full text of the file at path. Parse's
// default (nil Options.ReadText) is the afs-backed Read below.
type ReadTextFunc func(ctx context.Context, path string) (string, error)

// ExistsFunc reports whether a file exists at path. Parse's default
// is the afs-backed Exists below.
type ExistsFunc func(ctx context.Context, path string) (bool, error)

// Read reads path's content through github.com/viant/afs, the same
// file-service abstraction the teacher's repository.Detector uses to
// resolve a go.mod's content (inspector/repository/detector.go).
func Read(ctx context.Context, path string) (string, error) {
	data, err := afs.New().DownloadWithURL(ctx, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Exists reports whether path exists, via the same afs service.
func Exists(ctx context.Context, path string) (bool, error) {
	return afs.New().Exists(ctx, path)
}

// Order resolves the include graph rooted at headers against dirs and
// returns every header reachable from the input set, the original
// headers plus everything they transitively #include that resolves
// within dirs, in dependency order: a header never precedes something
// it includes.
func Order(ctx context.Context, headers, dirs []string, readText ReadTextFunc, exists ExistsFunc) ([]string, error) {
	if readText == nil {
		readText = Read
	}
	if exists == nil {
		exists = Exists
	}

	deps := map[string][]string{}
	queued := map[string]bool{}
	discoveryCache := map[string][]string{}
	var queue []string

	enqueue := func(path string) (string, error) {
		c, err := canonicalize(path)
		if err != nil {
			return "", err
		}
		if !queued[c] {
			queued[c] = true
			queue = append(queue, c)
		}
		return c, nil
	}

	for _, h := range headers {
		if _, err := enqueue(h); err != nil {
			return nil, err
		}
	}

	for i := 0; i < len(queue); i++ {
		path := queue[i]
		text, err := readText(ctx, path)
		if err != nil {
			return nil, err
		}
		hash, err := profile.Hash([]byte(text))
		if err != nil {
			return nil, err
		}
		key := fmt.Sprintf("%s#%016x", path, hash)

		resolved, ok := discoveryCache[key]
		if !ok {
			resolved, err = discoverIncludes(ctx, text, dirs, exists)
			if err != nil {
				return nil, err
			}
			discoveryCache[key] = resolved
		}

		canonicalDeps := make([]string, 0, len(resolved))
		for _, dep := range resolved {
			c, err := enqueue(dep)
			if err != nil {
				return nil, err
			}
			canonicalDeps = append(canonicalDeps, c)
		}
		deps[path] = canonicalDeps
	}

	return topoSort(queue, deps)
}

// discoverIncludes scans text for #include lines and resolves each
// one against dirs, first hit wins. An include that resolves against
// none of dirs is silently dropped: it names a header outside the
// input set.
func discoverIncludes(ctx context.Context, text string, dirs []string, exists ExistsFunc) ([]string, error) {
	var found []string
	for _, line := range strings.Split(text, "\n") {
		m := includePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.Trim(m[1], `"<>`)
		// An include matching none of dirs is ipcerr.IncludeResolutionError's
		// case: non-fatal, the header is simply not scheduled.
		for _, dir := range dirs {
			candidate := filepath.Join(dir, name)
			ok, err := exists(ctx, candidate)
			if err != nil {
				return nil, err
			}
			if ok {
				found = append(found, candidate)
				break
			}
		}
	}
	return found, nil
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// topoSort places every header in order such that a header appears
// only after everything it depends on. Progress that stalls while
// headers remain unordered means a cycle exists.
func topoSort(all []string, deps map[string][]string) ([]string, error) {
	placed := map[string]bool{}
	var ordered []string

	remaining := append([]string(nil), all...)
	for len(remaining) > 0 {
		progressed := false
		var next []string
		for _, h := range remaining {
			ready := true
			for _, d := range deps[h] {
				if d == h {
					continue
				}
				if !placed[d] {
					ready = false
					break
				}
			}
			if ready {
				ordered = append(ordered, h)
				placed[h] = true
				progressed = true
			} else {
				next = append(next, h)
			}
		}
		if !progressed {
			return nil, &ipcerr.CircularIncludeError{Remaining: append([]string(nil), next...)}
		}
		remaining = next
	}
	return ordered, nil
}
