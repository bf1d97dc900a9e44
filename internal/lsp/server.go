package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/yapf-ls/yapfls/internal/settings"
	"github.com/yapf-ls/yapfls/internal/tools"
	"github.com/yapf-ls/yapfls/internal/version"
)

type server struct {
	conn jsonrpc2.Conn

	snapshot *Snapshot
	settings *settings.Store
	runners  *tools.Pool

	shutdownRequested bool
}

func BuildServerHandler(conn jsonrpc2.Conn) jsonrpc2.Handler {
	server := &server{
		conn: conn,

		snapshot: NewSnapshot(),
		settings: settings.NewStore(tools.DefaultInterpreter()),
		runners:  tools.NewPool(),
	}

	return jsonrpc2.ReplyHandler(server.ServerHandler)
}

func (s *server) ServerHandler(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	switch req.Method() {
	case "exit":
		return s.Exit(ctx, reply, req)
	case "initialize":
		return s.Initialize(ctx, reply, req)
	case "initialized":
		return s.Initialized(ctx, reply, req)
	case "shutdown":
		return s.Shutdown(ctx, reply, req)
	case "textDocument/didChange":
		return s.DidChange(ctx, reply, req)
	case "textDocument/didClose":
		return s.DidClose(ctx, reply, req)
	case "textDocument/didOpen":
		return s.DidOpen(ctx, reply, req)
	case "textDocument/didSave":
		return s.DidSave(ctx, reply, req)
	case "textDocument/formatting":
		return s.Formatting(ctx, reply, req)
	case "textDocument/rangeFormatting":
		return s.RangeFormatting(ctx, reply, req)
	case "textDocument/onTypeFormatting":
		return s.OnTypeFormatting(ctx, reply, req)
	case "workspace/didChangeConfiguration":
		return s.DidChangeConfiguration(ctx, reply, req)
	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

// replyParseError answers a request whose params failed to decode.
func replyParseError(ctx context.Context, reply jsonrpc2.Replier, err error) error {
	return reply(ctx, nil, fmt.Errorf("%w: decoding params: %s", jsonrpc2.ErrParse, err))
}

func (s *server) Initialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.InitializeParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return replyParseError(ctx, reply, err)
	}

	var opts settings.InitOptions
	if params.InitializationOptions != nil {
		raw, err := json.Marshal(params.InitializationOptions)
		if err == nil {
			err = json.Unmarshal(raw, &opts)
		}
		if err != nil {
			slog.Warn("malformed initializationOptions", "err", err)
		}
	}
	s.settings.UpdateGlobal(opts.GlobalSettings)
	s.settings.Update(opts.Settings)

	if cwd, err := os.Getwd(); err == nil {
		slog.Info("initialize", "cwd", cwd, "workspaces", len(opts.Settings))
	}

	return reply(ctx, protocol.InitializeResult{
		ServerInfo: &protocol.ServerInfo{
			Name:    "yapfls",
			Version: version.Version,
		},
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				Change:    protocol.TextDocumentSyncKindFull,
				OpenClose: true,
				Save: &protocol.SaveOptions{
					IncludeText: true,
				},
			},
			DocumentFormattingProvider:      true,
			DocumentRangeFormattingProvider: true,
			DocumentOnTypeFormattingProvider: &protocol.DocumentOnTypeFormattingOptions{
				FirstTriggerCharacter: "\n",
			},
		},
	}, nil)
}

func (s *server) Initialized(ctx context.Context, reply jsonrpc2.Replier, _ jsonrpc2.Request) error {
	slog.Info("initialized")
	return reply(ctx, nil, nil)
}

func (s *server) Shutdown(ctx context.Context, reply jsonrpc2.Replier, _ jsonrpc2.Request) error {
	slog.Info("shutdown")
	s.shutdownRequested = true
	if err := s.runners.Close(); err != nil {
		slog.Error("closing formatter runners", "err", err)
	}
	return reply(ctx, nil, nil)
}

func (s *server) Exit(ctx context.Context, reply jsonrpc2.Replier, _ jsonrpc2.Request) error {
	slog.Info("exit")
	s.conn.Close()
	if s.shutdownRequested {
		os.Exit(0)
	}
	os.Exit(1)
	return nil
}
