package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore([]string{"/usr/bin/python3"})
}

func TestByDocumentPicksNearestWorkspace(t *testing.T) {
	st := newTestStore()
	st.Update([]*Settings{
		{Workspace: "file:///repo", Args: []string{"--style", "pep8"}},
		{Workspace: "file:///repo/sub", Args: []string{"--style", "google"}},
	})

	s := st.ByDocument(filepath.FromSlash("/repo/sub/pkg/mod.py"))
	assert.Equal(t, []string{"--style", "google"}, s.Args)
	assert.Equal(t, filepath.FromSlash("/repo/sub"), s.WorkspaceFS)

	s = st.ByDocument(filepath.FromSlash("/repo/other.py"))
	assert.Equal(t, []string{"--style", "pep8"}, s.Args)
}

func TestByDocumentOutsideWorkspaces(t *testing.T) {
	st := newTestStore()
	st.UpdateGlobal(&Settings{ShowNotifications: NotifyAlways})
	st.Update([]*Settings{{Workspace: "file:///repo"}})

	s := st.ByDocument(filepath.FromSlash("/elsewhere/script.py"))
	assert.Equal(t, filepath.FromSlash("/elsewhere"), s.WorkspaceFS)
	assert.Equal(t, []string{"/usr/bin/python3"}, s.Interpreter)
	assert.Equal(t, UseBundled, s.ImportStrategy)
	assert.Equal(t, NotifyAlways, s.ShowNotifications)
}

func TestByDocumentEmptyPathFallsBackToFirstWorkspace(t *testing.T) {
	st := newTestStore()
	st.Update([]*Settings{
		{Workspace: "file:///first", ShowDebugLog: true},
		{Workspace: "file:///second"},
	})

	s := st.ByDocument("")
	assert.True(t, s.ShowDebugLog)
	assert.Equal(t, filepath.FromSlash("/first"), s.WorkspaceFS)
}

func TestCloneIsolatesCallers(t *testing.T) {
	st := newTestStore()
	st.Update([]*Settings{{Workspace: "file:///repo", Args: []string{"-e", "vendor/*"}}})

	first := st.ByDocument(filepath.FromSlash("/repo/a.py"))
	first.Args[0] = "changed"
	first.Args = append(first.Args, "extra")

	second := st.ByDocument(filepath.FromSlash("/repo/a.py"))
	require.Equal(t, []string{"-e", "vendor/*"}, second.Args)
}

func TestUpdateEmptyRegistersCwd(t *testing.T) {
	st := newTestStore()
	st.Update(nil)

	s := st.ByDocument("")
	assert.NotEmpty(t, s.WorkspaceFS)
	assert.Equal(t, s.Cwd, s.WorkspaceFS)
}
