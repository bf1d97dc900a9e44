package lsp

import (
	"context"
	"errors"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/pkg/fakenet"
)

func RunServer(ctx context.Context) error {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(fakenet.NewConn("stdio", os.Stdin, os.Stdout)))
	handler := BuildServerHandler(conn)
	stream := jsonrpc2.HandlerServer(handler)
	err := stream.ServeStream(ctx, conn)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
