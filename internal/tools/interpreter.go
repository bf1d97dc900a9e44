package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"
)

var defaultInterpreter = sync.OnceValue(func() []string {
	for _, name := range []string{"python3", "python"} {
		if path, err := exec.LookPath(name); err == nil {
			return []string{path}
		}
	}
	return []string{"python3"}
})

// DefaultInterpreter returns the interpreter the server resolved at startup.
func DefaultInterpreter() []string {
	return append([]string(nil), defaultInterpreter()...)
}

// IsDefaultInterpreter reports whether executable is the server's default
// interpreter. A different interpreter routes the request through the
// JSON-RPC runner instead of a direct module run.
func IsDefaultInterpreter(executable string) bool {
	return isSamePath(executable, defaultInterpreter()[0])
}

func isSamePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	return errA == nil && errB == nil && ra == rb
}

const siteQuery = "import json,site;print(json.dumps(site.getsitepackages()+[site.getusersitepackages()]))"

var siteCache = cmap.New[[]string]()

func sitePaths(ctx context.Context, interpreter []string) []string {
	if len(interpreter) == 0 {
		interpreter = defaultInterpreter()
	}
	key := interpreter[0]
	if paths, ok := siteCache.Get(key); ok {
		return paths
	}

	var paths []string
	out, err := exec.CommandContext(ctx, key, "-c", siteQuery).Output()
	if err == nil {
		var raw []string
		if json.Unmarshal(bytes.TrimSpace(out), &raw) == nil {
			for _, p := range raw {
				if p != "" {
					paths = append(paths, filepath.Clean(p))
				}
			}
		}
	}
	siteCache.Set(key, paths)
	return paths
}

// IsStdlibFile reports whether path lives under the interpreter's site
// directories. Such files are never formatted. Query failures degrade to
// false so formatting stays available without an interpreter.
func IsStdlibFile(ctx context.Context, interpreter []string, path string) bool {
	path = filepath.Clean(path)
	for _, site := range sitePaths(ctx, interpreter) {
		if path == site || strings.HasPrefix(path, site+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
