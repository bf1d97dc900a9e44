package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/yapf-ls/yapfls/internal/lsp"
)

func CmdServe() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the formatting server over stdio using the Language Server Protocol",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Info("Initializing Server...")
			return lsp.RunServer(cmd.Context())
		},
	}

	return cmd
}
