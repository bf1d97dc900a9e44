package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func YapflsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "yapfls",
		Short:              `yapfls is a language server for the yapf formatter`,
		DisableSuggestions: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.AddCommand(CmdServe())
	cmd.AddCommand(CmdVersion())

	return cmd
}

func Execute() {
	if err := YapflsCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
