package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yapf-ls/yapfls/internal/version"
)

func CmdVersion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the yapfls version information",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version.GetVersion(cmd.Context()))
			return nil
		},
	}

	return cmd
}
