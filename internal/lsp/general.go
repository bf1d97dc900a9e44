package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/yapf-ls/yapfls/internal/settings"
)

func (s *server) DidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return replyParseError(ctx, reply, err)
	}

	uri := params.TextDocument.URI
	doc := &Document{
		URI:  uri,
		Text: params.TextDocument.Text,
	}
	s.snapshot.Set(doc.Path(), doc)

	slog.Info("open " + doc.Path())
	return reply(ctx, nil, nil)
}

func (s *server) DidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return replyParseError(ctx, reply, err)
	}

	path := uriPath(params.TextDocument.URI)
	s.snapshot.Remove(path)

	slog.Info("close " + path)
	return reply(ctx, nil, nil)
}

func (s *server) DidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return replyParseError(ctx, reply, err)
	}
	if len(params.ContentChanges) == 0 {
		return reply(ctx, nil, nil)
	}

	uri := params.TextDocument.URI
	path := uriPath(uri)
	if _, ok := s.snapshot.Get(path); !ok {
		return reply(ctx, nil, errors.New("document not found"))
	}

	// Full sync: the last change carries the whole document.
	doc := &Document{
		URI:  uri,
		Text: params.ContentChanges[len(params.ContentChanges)-1].Text,
	}
	s.snapshot.Set(path, doc)

	slog.Info("change " + path)
	return reply(ctx, nil, nil)
}

func (s *server) DidSave(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return replyParseError(ctx, reply, err)
	}

	slog.Info("save " + uriPath(params.TextDocument.URI))
	return reply(ctx, nil, nil)
}

func (s *server) DidChangeConfiguration(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeConfigurationParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return replyParseError(ctx, reply, err)
	}

	var opts settings.InitOptions
	raw, err := json.Marshal(params.Settings)
	if err == nil {
		err = json.Unmarshal(raw, &opts)
	}
	if err != nil {
		s.logWarning(ctx, "malformed configuration push: "+err.Error(), nil)
		return reply(ctx, nil, nil)
	}

	s.settings.UpdateGlobal(opts.GlobalSettings)
	if len(opts.Settings) > 0 {
		s.settings.Update(opts.Settings)
	}

	slog.Info("configuration updated", "workspaces", len(opts.Settings))
	return reply(ctx, nil, nil)
}
