package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/hserr/report/workspace"
	"github.com/dhamidi/hserr/ui"
)

func newUICmd() *cobra.Command {
	var addr string
	var dir string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the web UI server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.UI.Addr
			}

			ws := workspace.New(dir, workspace.OptionsFromConfig(cfg)...)
			watcher := workspace.NewFileWatcher(ws, cfg.Workspace.PollInterval.Duration)
			watcher.Start()
			defer watcher.Stop()

			server, err := ui.NewServer(ws, cfg)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			displayAddr := addr
			if strings.HasPrefix(addr, ":") {
				displayAddr = "localhost" + addr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving reports from %s at http://%s\n", dir, displayAddr)
			return http.ListenAndServe(addr, server)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "address to listen on (default from ui.addr)")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to scan for crash reports")

	return cmd
}
