package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleReport = "../../report/parser/testdata/hs_err_pid12345.log"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".hserr.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"parse json", []string{"parse", sampleReport}, []string{`"kind": "Document"`, `"kind": "Section"`}},
		{"parse yaml", []string{"parse", "-f", "yaml", sampleReport}, []string{"kind: Document"}},
		{"parse tree", []string{"parse", "-f", "tree", "--positions", sampleReport}, []string{"Section"}},
		{"tokens", []string{"tokens", sampleReport}, []string{"SECTION_HDR", "SIGNAL\t\"SIGSEGV\""}},
		{"outline", []string{"outline", sampleReport}, []string{"SUMMARY\tsection", "  Registers\tregisters"}},
		{"outline markdown", []string{"outline", "--markdown", sampleReport}, []string{"## SUMMARY"}},
		{"fold", []string{"fold", sampleReport}, []string{"# INTRO", "SUMMARY"}},
		{"grammar", []string{"grammar"}, []string{"Document"}},
		{"grammar verify", []string{"grammar", "--verify"}, []string{"grammar ok", "section_hdr"}},
		{"grammar check", []string{"grammar", "--check", sampleReport}, []string{"tree conforms to Document"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v\n%s", err, out)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestParseStdin(t *testing.T) {
	out, err := run(t, "# x\n---------------  S U M M A R Y ------------\n", "parse", "-f", "tokens", "-")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "SECTION_HDR") {
		t.Errorf("output missing SECTION_HDR:\n%s", out)
	}
}

func TestOutlineSortAlpha(t *testing.T) {
	out, err := run(t, "", "outline", "--sort", "alpha", sampleReport)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	var top []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if !strings.HasPrefix(line, " ") {
			top = append(top, strings.SplitN(line, "\t", 2)[0])
		}
	}
	for i := 1; i < len(top); i++ {
		if strings.ToLower(top[i-1]) > strings.ToLower(top[i]) {
			t.Errorf("outline not sorted: %q before %q", top[i-1], top[i])
		}
	}
}

func TestFoldCollapseFromConfig(t *testing.T) {
	path := writeConfig(t, "[fold]\ncollapse = [\"THREAD\"]\n")
	out, err := run(t, "", "--config", path, "fold", sampleReport)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "collapsed\tTHREAD") {
		t.Errorf("output missing collapsed THREAD fold:\n%s", out)
	}
}

func TestErrors(t *testing.T) {
	badConfig := writeConfig(t, "[parser]\nmax_depth = -1\n")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"parse", "does-not-exist.log"}, "read report"},
		{"unknown format", []string{"parse", "-f", "xml", sampleReport}, "unknown format"},
		{"unknown sort", []string{"outline", "--sort", "size", sampleReport}, "unknown sort order"},
		{"invalid config", []string{"--config", badConfig, "tokens", sampleReport}, "invalid config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			if err == nil {
				t.Fatal("Execute() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}
