package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPathCapturesStdout(t *testing.T) {
	res, err := RunPath(context.Background(), []string{"cat"}, t.TempDir(), "x = 1\n", true)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", res.Stdout)
	assert.Empty(t, res.Stderr)
}

func TestRunPathNonZeroExitIsNotAnError(t *testing.T) {
	res, err := RunPath(context.Background(), []string{"sh", "-c", "echo oops >&2; exit 3"}, t.TempDir(), "", true)
	require.NoError(t, err)
	assert.Empty(t, res.Stdout)
	assert.Contains(t, res.Stderr, "oops")
}

func TestRunPathMissingExecutable(t *testing.T) {
	_, err := RunPath(context.Background(), []string{"definitely-not-a-formatter"}, t.TempDir(), "", true)
	assert.Error(t, err)
}

func TestRunPathEmptyArgv(t *testing.T) {
	_, err := RunPath(context.Background(), nil, t.TempDir(), "", false)
	assert.Error(t, err)
}

func TestExcludePatterns(t *testing.T) {
	args := []string{"--style", "pep8", "-e", "vendor/*", "--exclude", "build", "-e"}
	assert.Equal(t, []string{"vendor/*", "build"}, ExcludePatterns(args))
	assert.Nil(t, ExcludePatterns(nil))
}

func TestIsExcluded(t *testing.T) {
	patterns := []string{"vendor/*", "build/", "*.gen.py"}

	assert.True(t, IsExcluded("vendor/dep.py", patterns))
	assert.True(t, IsExcluded("build/out.py", patterns))
	assert.True(t, IsExcluded("pkg/models.gen.py", patterns))
	assert.False(t, IsExcluded("pkg/models.py", patterns))
	assert.False(t, IsExcluded("vendored.py", patterns))
}

func TestIsDefaultInterpreter(t *testing.T) {
	assert.True(t, IsDefaultInterpreter(DefaultInterpreter()[0]))
	assert.False(t, IsDefaultInterpreter("/opt/venv/bin/python"))
}
