package docs

import (
	"strings"
	"testing"

	"github.com/dhamidi/hserr/report/parser"
)

func tok(cat parser.Category, literal string) parser.Token {
	return parser.Token{Category: cat, Literal: literal}
}

func TestForToken(t *testing.T) {
	k := tok(parser.Word, "K")
	mb := tok(parser.Word, "MB")
	comma := tok(parser.Punct, ",")

	tests := []struct {
		name    string
		tok     parser.Token
		next    *parser.Token
		want    string
		wantOK  bool
		partial bool
	}{
		{"keyword", tok(parser.Keyword, "safepoint"), nil, "A moment when all threads", true, true},
		{"keyword without docs", tok(parser.Keyword, "Halt"), nil, "", false, false},
		{"signal", tok(parser.Signal, "SIGSEGV"), nil, "segmentation violation", true, true},
		{"signal without docs", tok(parser.Signal, "SIGUSR1"), nil, "", false, false},
		{"register", tok(parser.Register, "rsp"), nil, "Register, **stack pointer**.", true, false},
		{"unknown register", tok(parser.Register, "R20"), nil, "Register, **unknown**.", true, false},
		{"size word", tok(parser.Word, "260096K"), nil, "254.00 MiB", true, false},
		{"size word kb", tok(parser.Word, "2048kb"), nil, "2.00 MiB", true, false},
		{"size word m", tok(parser.Word, "1024M"), nil, "1.00 GiB", true, false},
		{"short size word", tok(parser.Word, "64K"), nil, "", false, false},
		{"plain word", tok(parser.Word, "young"), nil, "", false, false},
		{"number with unit", tok(parser.Number, "1024"), &k, "1.00 MiB", true, false},
		{"number with mb", tok(parser.Number, "2048"), &mb, "2.00 GiB", true, false},
		{"plain number", tok(parser.Number, "123456"), &comma, "120.56 KiB", true, false},
		{"small number", tok(parser.Number, "999"), &k, "", false, false},
		{"hex address", tok(parser.Number, "0x00007f3a5c0e1000"), nil, "Address, decimal 139888629256192.", true, false},
		{"padded address", tok(parser.Number, "00007f3a5c0e1000"), nil, "Address, decimal 139888629256192.", true, false},
		{"leading zero number", tok(parser.Number, "0010"), &k, "", false, false},
		{"size word overflow", tok(parser.Word, "18014398509481985K"), nil, "", false, false},
		{"size word max", tok(parser.Word, "18014398509481983K"), nil, "17179869184.00 GiB", true, false},
		{"number with unit overflow", tok(parser.Number, "18014398509481985"), &k, "", false, false},
		{"number with mb overflow", tok(parser.Number, "17592186044416"), &mb, "", false, false},
		{"punct", tok(parser.Punct, ":"), nil, "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ForToken(tt.tok, tt.next)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.partial {
				if !strings.Contains(got, tt.want) {
					t.Errorf("doc = %q, want it to contain %q", got, tt.want)
				}
				return
			}
			if got != tt.want {
				t.Errorf("doc = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0B"},
		{1023, "1023B"},
		{1024, "1.00 KiB"},
		{1536, "1.50 KiB"},
		{MiB, "1.00 MiB"},
		{3 * GiB / 2, "1.50 GiB"},
	}
	for _, tt := range tests {
		if got := HumanSize(tt.bytes); got != tt.want {
			t.Errorf("HumanSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		text string
		want uint64
		hex  bool
		ok   bool
	}{
		{"0x10", 16, true, true},
		{"0X1f", 31, true, true},
		{"00007f3a5c0e1000", 0x7f3a5c0e1000, true, true},
		{"0000ffff", 0xffff, true, true},
		{"0010", 10, false, true},
		{"007", 7, false, true},
		{"12345", 12345, false, true},
		{"0xZZ", 0, false, false},
		{"abc", 0, false, false},
		{"", 0, false, false},
	}
	for _, tt := range tests {
		got, hex, ok := parseNumber(tt.text)
		if got != tt.want || hex != tt.hex || ok != tt.ok {
			t.Errorf("parseNumber(%q) = %d, %v, %v, want %d, %v, %v", tt.text, got, hex, ok, tt.want, tt.hex, tt.ok)
		}
	}
}

func TestRegisterRole(t *testing.T) {
	tests := map[string]string{
		"RIP":  "instruction pointer",
		"x29":  "frame pointer, callee-saved",
		"R13":  "callee-saved",
		"x12":  "scratch",
		"XMM3": "128bit floating-point",
		"Q9":   "unknown",
	}
	for name, want := range tests {
		if got := RegisterRole(name); got != want {
			t.Errorf("RegisterRole(%q) = %q, want %q", name, got, want)
		}
	}
}
