package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/hserr/config"
	"github.com/dhamidi/hserr/report/parser"
)

const version = "0.1.0"

var log = commonlog.GetLogger("hserr.cli")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hserr:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:           "hserr",
		Short:         "Inspect HotSpot hs_err crash reports",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbosity, nil)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "configuration file (default: nearest "+config.FileName+")")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newOutlineCmd())
	rootCmd.AddCommand(newHighlightCmd())
	rootCmd.AddCommand(newFoldCmd())
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newUICmd())

	return rootCmd
}

// loadConfig reads the file named by --config, or the nearest
// configuration file when the flag is empty.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Path != "" {
		log.Infof("using %s", cfg.Path)
	}
	return cfg, nil
}

// readReport parses the report in filename, or standard input for "-".
func readReport(cmd *cobra.Command, cfg *config.Config, filename string) (*parser.Node, error) {
	var data []byte
	var err error
	if filename == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		filename = "<stdin>"
	} else {
		data, err = os.ReadFile(filename)
	}
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	if int64(len(data)) > cfg.Workspace.MaxFileBytes {
		log.Warningf("%s has %d bytes, above the %d byte limit; parsing may be slow", filename, len(data), cfg.Workspace.MaxFileBytes)
	}

	opts := append([]parser.Option{parser.WithFile(filename)}, cfg.ParserOptions()...)
	doc, err := parser.ParseContext(cmd.Context(), data, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return doc, nil
}
