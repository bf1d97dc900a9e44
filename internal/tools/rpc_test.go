package tools

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yapf-ls/yapfls/internal/settings"
)

func pythonInterpreter(t *testing.T) []string {
	t.Helper()
	path, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not installed")
	}
	return []string{path}
}

func TestPoolRunRoundTrip(t *testing.T) {
	interpreter := pythonInterpreter(t)
	pool := NewPool()
	t.Cleanup(func() { pool.Close() })

	workspace := t.TempDir()
	// json.tool reads stdin, pretty-prints, and closes its streams on the
	// way out; the runner's captured output must survive that.
	req := &RunRequest{
		Module:   "json.tool",
		Argv:     []string{"json.tool"},
		UseStdin: true,
		Cwd:      workspace,
		Source:   `{"b": 2, "a": 1}`,
	}

	res, err := pool.Run(context.Background(), workspace, interpreter, settings.FromEnvironment, req)
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, `"a": 1`)
	assert.Contains(t, res.Stdout, `"b": 2`)
	assert.Empty(t, res.Stderr)

	// A second call reuses the same daemon and must see clean stdio again.
	req.Source = `{"c": 3}`
	res, err = pool.Run(context.Background(), workspace, interpreter, settings.FromEnvironment, req)
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, `"c": 3`)
	assert.NotContains(t, res.Stdout, `"a"`)
}

func TestPoolRunModuleExceptionDegrades(t *testing.T) {
	interpreter := pythonInterpreter(t)
	pool := NewPool()
	t.Cleanup(func() { pool.Close() })

	workspace := t.TempDir()
	req := &RunRequest{
		Module:   "yapfls_no_such_module",
		Argv:     []string{"yapfls_no_such_module"},
		UseStdin: true,
		Cwd:      workspace,
		Source:   "x = 1\n",
	}

	res, err := pool.Run(context.Background(), workspace, interpreter, settings.FromEnvironment, req)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Empty(t, res.Stdout)
	assert.Contains(t, err.Error(), "yapfls_no_such_module")
}
