package tools

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	_ "embed"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/pkg/fakenet"
	"go.uber.org/multierr"

	"github.com/yapf-ls/yapfls/internal/settings"
)

// runner.py executes yapf under an interpreter other than the server's
// default, speaking JSON-RPC over its stdio.
//
//go:embed runner.py
var runnerScript []byte

// RunRequest is the payload of a "run" call to a runner process.
type RunRequest struct {
	Module   string   `json:"module"`
	Argv     []string `json:"argv"`
	UseStdin bool     `json:"useStdin"`
	Cwd      string   `json:"cwd"`
	Source   string   `json:"source,omitempty"`
}

type runResponse struct {
	Stdout    string `json:"stdout"`
	Stderr    string `json:"stderr"`
	Exception string `json:"exception,omitempty"`
}

type runner struct {
	conn jsonrpc2.Conn
	cmd  *exec.Cmd
}

func (r *runner) alive() bool {
	select {
	case <-r.conn.Done():
		return false
	default:
		return true
	}
}

// Pool keeps one runner process per (workspace, interpreter, strategy),
// spawned lazily and reused across requests.
type Pool struct {
	mu         sync.Mutex
	runners    map[string]*runner
	scriptPath string
}

func NewPool() *Pool {
	return &Pool{runners: make(map[string]*runner)}
}

// Run forwards a formatter invocation to the runner for the given workspace
// and interpreter. The returned RunResult is valid even when err is non-nil
// if the remote side reported an exception alongside captured output.
func (p *Pool) Run(ctx context.Context, workspace string, interpreter []string, strategy settings.ImportStrategy, req *RunRequest) (*RunResult, error) {
	key := workspace + "\x00" + strings.Join(interpreter, " ") + "\x00" + string(strategy)

	r, err := p.acquire(key, interpreter, strategy)
	if err != nil {
		return nil, err
	}

	var resp runResponse
	if _, err := r.conn.Call(ctx, "run", req, &resp); err != nil {
		p.drop(key)
		return nil, err
	}

	result := &RunResult{Stdout: resp.Stdout, Stderr: resp.Stderr}
	if resp.Exception != "" {
		return result, errors.New(resp.Exception)
	}
	return result, nil
}

func (p *Pool) acquire(key string, interpreter []string, strategy settings.ImportStrategy) (*runner, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if r, ok := p.runners[key]; ok && r.alive() {
		return r, nil
	}
	delete(p.runners, key)

	script, err := p.scriptLocked()
	if err != nil {
		return nil, err
	}

	argv := append(append([]string{}, interpreter...), script)
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = PythonPathEnv(strategy)
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	slog.Info("started formatter runner", "interpreter", argv[0])

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(fakenet.NewConn("runner", stdout, stdin)))
	// The runner never calls back; the handler only drains the read loop.
	conn.Go(context.Background(), jsonrpc2.MethodNotFoundHandler)

	r := &runner{conn: conn, cmd: cmd}
	p.runners[key] = r
	return r, nil
}

func (p *Pool) drop(key string) {
	p.mu.Lock()
	r, ok := p.runners[key]
	delete(p.runners, key)
	p.mu.Unlock()

	if ok {
		r.conn.Close()
		if r.cmd.Process != nil {
			r.cmd.Process.Kill()
			r.cmd.Wait()
		}
	}
}

// scriptLocked materializes the embedded runner script under the user cache
// directory. Callers hold p.mu.
func (p *Pool) scriptLocked() (string, error) {
	if p.scriptPath != "" {
		return p.scriptPath, nil
	}
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(cache, "yapfls")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "runner.py")
	if err := os.WriteFile(path, runnerScript, 0o644); err != nil {
		return "", err
	}
	p.scriptPath = path
	return path, nil
}

// Close shuts down every runner process.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs error
	for key, r := range p.runners {
		errs = multierr.Append(errs, r.conn.Close())
		if r.cmd.Process != nil {
			r.cmd.Process.Kill()
			r.cmd.Wait()
		}
		delete(p.runners, key)
	}
	return errs
}
