// Package settings resolves the formatter configuration for a document by
// matching its path against known workspace roots.
package settings

import (
	"os"
	"path/filepath"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.lsp.dev/uri"
)

type ImportStrategy string

const (
	UseBundled      ImportStrategy = "useBundled"
	FromEnvironment ImportStrategy = "fromEnvironment"
)

type Notifications string

const (
	NotifyOff       Notifications = "off"
	NotifyOnError   Notifications = "onError"
	NotifyOnWarning Notifications = "onWarning"
	NotifyAlways    Notifications = "always"
)

// Settings is the formatter configuration for one workspace. Field names
// follow the client's configuration keys.
type Settings struct {
	Cwd         string `json:"cwd,omitempty"`
	WorkspaceFS string `json:"workspaceFS,omitempty"`
	Workspace   string `json:"workspace,omitempty"`

	Path              []string       `json:"path"`
	Interpreter       []string       `json:"interpreter"`
	Args              []string       `json:"args"`
	ImportStrategy    ImportStrategy `json:"importStrategy"`
	ShowNotifications Notifications  `json:"showNotifications"`
	ShowDebugLog      bool           `json:"showDebugLog"`
	CellMagics        []string       `json:"cellMagics"`
}

// Clone returns a copy that callers may mutate without affecting the store.
func (s *Settings) Clone() *Settings {
	dup := *s
	dup.Path = append([]string(nil), s.Path...)
	dup.Interpreter = append([]string(nil), s.Interpreter...)
	dup.Args = append([]string(nil), s.Args...)
	dup.CellMagics = append([]string(nil), s.CellMagics...)
	return &dup
}

// InitOptions is the shape of the client's initializationOptions.
type InitOptions struct {
	GlobalSettings *Settings   `json:"globalSettings"`
	Settings       []*Settings `json:"settings"`
}

// Store holds global defaults plus per-workspace overrides.
type Store struct {
	defaultInterpreter []string

	workspaces cmap.ConcurrentMap[string, *Settings]

	mu     sync.Mutex
	order  []string // workspace keys in registration order
	global Settings
}

func NewStore(defaultInterpreter []string) *Store {
	return &Store{
		defaultInterpreter: defaultInterpreter,
		workspaces:         cmap.New[*Settings](),
	}
}

// UpdateGlobal replaces the global defaults.
func (st *Store) UpdateGlobal(global *Settings) {
	if global == nil {
		return
	}
	st.mu.Lock()
	st.global = *global.Clone()
	st.mu.Unlock()
}

// Update replaces the registered workspaces. An empty list registers the
// server's working directory with default settings.
func (st *Store) Update(all []*Settings) {
	st.mu.Lock()
	st.order = nil
	st.mu.Unlock()
	st.workspaces.Clear()

	if len(all) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return
		}
		st.register(cwd, st.defaults(cwd))
		return
	}

	for _, s := range all {
		key := s.WorkspaceFS
		if key == "" && s.Workspace != "" {
			key = uri.New(s.Workspace).Filename()
		}
		if key == "" {
			continue
		}
		entry := s.Clone()
		entry.Cwd = key
		entry.WorkspaceFS = key
		st.register(key, entry)
	}
}

func (st *Store) register(key string, s *Settings) {
	st.workspaces.Set(key, s)
	st.mu.Lock()
	st.order = append(st.order, key)
	st.mu.Unlock()
}

// defaults builds settings from the global defaults, rooted at dir.
func (st *Store) defaults(dir string) *Settings {
	st.mu.Lock()
	s := st.global.Clone()
	st.mu.Unlock()

	s.Cwd = dir
	s.WorkspaceFS = dir
	s.Workspace = string(uri.File(dir))
	if len(s.Interpreter) == 0 {
		s.Interpreter = append([]string(nil), st.defaultInterpreter...)
	}
	if s.ImportStrategy == "" {
		s.ImportStrategy = UseBundled
	}
	if s.ShowNotifications == "" {
		s.ShowNotifications = NotifyOff
	}
	return s
}

// ByDocument returns a copy of the settings for the workspace enclosing the
// document path. Documents outside every workspace get defaults rooted at
// their parent directory.
func (st *Store) ByDocument(path string) *Settings {
	if path == "" {
		return st.first()
	}
	for p := filepath.Clean(path); ; {
		if s, ok := st.workspaces.Get(p); ok {
			return s.Clone()
		}
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		p = parent
	}
	return st.defaults(filepath.Dir(filepath.Clean(path)))
}

func (st *Store) first() *Settings {
	st.mu.Lock()
	var key string
	if len(st.order) > 0 {
		key = st.order[0]
	}
	st.mu.Unlock()

	if key != "" {
		if s, ok := st.workspaces.Get(key); ok {
			return s.Clone()
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return st.defaults(cwd)
}
