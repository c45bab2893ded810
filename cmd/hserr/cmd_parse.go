package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/hserr/format"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a crash report and dump its document tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			doc, err := readReport(cmd, cfg, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var encoder format.Encoder
			if outputFormat == "tree" && includePositions {
				encoder = format.NewTreeEncoder(out).WithPositions()
			} else {
				encoder, err = format.NewEncoder(outputFormat, out, cfg.Highlight)
				if err != nil {
					return err
				}
			}

			if err := encoder.Encode(doc); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format ("+strings.Join(format.Names(), ", ")+")")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include token positions in tree output")

	return cmd
}

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the classified tokens of a crash report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			doc, err := readReport(cmd, cfg, args[0])
			if err != nil {
				return err
			}
			if err := format.NewTokenEncoder(cmd.OutOrStdout()).Encode(doc); err != nil {
				return fmt.Errorf("encode tokens: %w", err)
			}
			return nil
		},
	}
}

func newHighlightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "highlight <file>",
		Short: "Print a crash report with syntax highlighting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			doc, err := readReport(cmd, cfg, args[0])
			if err != nil {
				return err
			}
			if err := format.NewHighlightEncoder(cmd.OutOrStdout(), cfg.Highlight).Encode(doc); err != nil {
				return fmt.Errorf("highlight: %w", err)
			}
			return nil
		},
	}
}
