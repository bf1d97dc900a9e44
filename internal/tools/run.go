// Package tools invokes the yapf formatter through one of three backends: a
// configured executable, the interpreter's yapf module, or a JSON-RPC runner
// under a different interpreter.
package tools

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/yapf-ls/yapfls/internal/settings"
)

// Module is the formatter's Python module name.
const Module = "yapf"

// RunResult holds the captured output of a formatter invocation.
type RunResult struct {
	Stdout string
	Stderr string
}

// RunPath runs the formatter as an executable. A non-zero exit status is not
// an error; the captured output is returned as-is.
func RunPath(ctx context.Context, argv []string, cwd, source string, useStdin bool) (*RunResult, error) {
	if len(argv) == 0 {
		return nil, errors.New("tools: empty argv")
	}
	return run(ctx, argv, cwd, source, useStdin, nil)
}

// RunModule runs the formatter as `interpreter -m yapf`, with the bundled
// tool libraries placed on PYTHONPATH according to the import strategy.
// argv[0] is the module name, mirroring the argument vector yapf sees.
func RunModule(ctx context.Context, interpreter, argv []string, cwd, source string, useStdin bool, strategy settings.ImportStrategy) (*RunResult, error) {
	if len(interpreter) == 0 {
		interpreter = DefaultInterpreter()
	}
	full := append([]string{}, interpreter...)
	full = append(full, "-m")
	full = append(full, argv...)
	return run(ctx, full, cwd, source, useStdin, PythonPathEnv(strategy))
}

func run(ctx context.Context, argv []string, cwd, source string, useStdin bool, env []string) (*RunResult, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = cwd
	cmd.Env = env
	if useStdin {
		cmd.Stdin = strings.NewReader(source)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, err
	}
	return &RunResult{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// ToolLibs returns the bundled formatter libraries directory shipped next to
// the server binary, or "" when it does not exist.
func ToolLibs() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	dir := filepath.Join(filepath.Dir(exe), "..", "bundled", "libs")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}
	return filepath.Clean(dir)
}

// PythonPathEnv returns the process environment with PYTHONPATH adjusted for
// the import strategy: bundled libraries win under UseBundled and lose under
// FromEnvironment. Returns nil (inherit unchanged) when nothing is bundled.
func PythonPathEnv(strategy settings.ImportStrategy) []string {
	libs := ToolLibs()
	if libs == "" {
		return nil
	}

	existing := os.Getenv("PYTHONPATH")
	var merged string
	switch {
	case existing == "":
		merged = libs
	case strategy == settings.FromEnvironment:
		merged = existing + string(os.PathListSeparator) + libs
	default:
		merged = libs + string(os.PathListSeparator) + existing
	}

	env := []string{}
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "PYTHONPATH=") {
			env = append(env, kv)
		}
	}
	return append(env, "PYTHONPATH="+merged)
}
