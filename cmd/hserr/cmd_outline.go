package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/hserr/report/outline"
)

func newOutlineCmd() *cobra.Command {
	var sortOrder string
	var markdown bool

	cmd := &cobra.Command{
		Use:   "outline <file>",
		Short: "Print the section outline of a crash report",
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
			if markdown {
				_, err := io.WriteString(out, outline.Markdown(doc))
				return err
			}

			symbols := outline.Symbols(doc)
			switch sortOrder {
			case "source":
			case "alpha":
				outline.SortAlpha(symbols)
			default:
				return fmt.Errorf("unknown sort order: %s (expected source or alpha)", sortOrder)
			}
			writeSymbols(out, symbols, 0)
			return nil
		},
	}

	cmd.Flags().StringVar(&sortOrder, "sort", "source", "symbol order (source, alpha)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print the outline as markdown")

	return cmd
}

func writeSymbols(w io.Writer, symbols []*outline.Symbol, depth int) {
	for _, sym := range symbols {
		fmt.Fprintf(w, "%s%s\t%s\t%d-%d\n",
			strings.Repeat("  ", depth), sym.Label, sym.Icon,
			sym.Span.Start.Line, sym.Span.End.Line)
		writeSymbols(w, sym.Children, depth+1)
	}
}

func newFoldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fold <file>",
		Short: "List the foldable regions of a crash report",
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
			for _, fold := range outline.Folds(doc, cfg.Fold.Collapse) {
				state := "open"
				if fold.Collapsed {
					state = "collapsed"
				}
				fmt.Fprintf(out, "%d:%d-%d:%d\t%s\t%s\n",
					fold.Start.Line, fold.Start.Column, fold.End.Line, fold.End.Column,
					state, fold.Placeholder)
			}
			return nil
		},
	}
}
