package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/hserr/report/workspace"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			server := workspace.NewLSPServer(version, cfg)
			return server.RunStdio()
		},
	}
}
