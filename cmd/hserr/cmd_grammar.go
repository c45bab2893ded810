package main

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/hserr/report/parser"
)

func newGrammarCmd() *cobra.Command {
	var verify bool
	var file string
	var startProduction string
	var check string

	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print or verify the structural grammar of crash reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if file != "" {
				return checkGrammarFile(out, file, startProduction)
			}

			if check != "" {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				doc, err := readReport(cmd, cfg, check)
				if err != nil {
					return err
				}
				if err := parser.Conform(doc); err != nil {
					return fmt.Errorf("check %s: %w", check, err)
				}
				fmt.Fprintf(out, "%s: tree conforms to %s\n", check, parser.StartProduction)
				return nil
			}

			if !verify {
				_, err := io.WriteString(out, parser.GrammarSource)
				return err
			}

			grammar, err := parser.Grammar()
			if err != nil {
				printErrors(out, err)
				return fmt.Errorf("verify grammar: %w", err)
			}

			tokens := parser.TokenProductions(grammar)
			names := make([]string, 0, len(tokens))
			for name := range tokens {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Fprintf(out, "grammar ok: %d productions, start %s\n", len(grammar), parser.StartProduction)
			for _, name := range names {
				fmt.Fprintf(out, "  %-12s %s\n", name, tokens[name])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "verify the built-in grammar and list its token productions")
	cmd.Flags().StringVar(&file, "file", "", "parse and verify an EBNF grammar file instead")
	cmd.Flags().StringVar(&check, "check", "", "parse a report and check its tree against the grammar")
	cmd.Flags().StringVar(&startProduction, "start", "", "start production for --file (if empty, only checks syntax)")

	return cmd
}

func checkGrammarFile(out io.Writer, filename, startProduction string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	grammar, err := ebnf.Parse(filename, f)
	if err != nil {
		printErrors(out, err)
		return fmt.Errorf("parse grammar: %w", err)
	}

	if startProduction != "" {
		if err := ebnf.Verify(grammar, startProduction); err != nil {
			printErrors(out, err)
			return fmt.Errorf("verify grammar: %w", err)
		}
	}

	fmt.Fprintf(out, "%s: %d productions\n", filename, len(grammar))
	return nil
}

// printErrors prints each error of an ebnf error list on its own line.
func printErrors(out io.Writer, err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(out, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(out, err)
	}
}
