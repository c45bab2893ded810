// Package docs provides hover documentation for report tokens.
package docs

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dhamidi/hserr/report/parser"
)

const (
	KiB = 1024
	MiB = KiB * KiB
	GiB = KiB * MiB
)

// ForToken returns markdown documentation for tok. next is the first
// non-blank token after tok, if any; it qualifies bare numbers such as
// "1024 K".
func ForToken(tok parser.Token, next *parser.Token) (string, bool) {
	switch tok.Category {
	case parser.Keyword:
		doc, ok := keywordDocs[tok.Literal]
		return doc, ok
	case parser.Signal:
		doc, ok := signalDocs[tok.Literal]
		return doc, ok
	case parser.Register:
		return fmt.Sprintf("Register, **%s**.", RegisterRole(tok.Literal)), true
	case parser.Word:
		if size, ok := parseSize(tok.Literal); ok {
			return HumanSize(size), true
		}
	case parser.Number:
		return numberDoc(tok.Literal, next)
	}
	return "", false
}

// numberDoc documents hex addresses with their decimal value, and decimal
// numbers large enough to be sizes.
func numberDoc(text string, next *parser.Token) (string, bool) {
	n, hex, ok := parseNumber(text)
	if !ok {
		return "", false
	}
	if hex {
		return fmt.Sprintf("Address, decimal %d.", n), true
	}
	if n <= 999 {
		return "", false
	}
	if next != nil {
		switch strings.ToLower(next.Literal) {
		case "k", "kb":
			return scaledSize(n, KiB)
		case "m", "mb":
			return scaledSize(n, MiB)
		}
	}
	return HumanSize(n), true
}

func scaledSize(n, unit uint64) (string, bool) {
	if n > math.MaxUint64/unit {
		return "", false
	}
	return HumanSize(n * unit), true
}

// parseSize reads sizes written as a number with a k, kb, m or mb suffix,
// as in 260096K.
func parseSize(word string) (uint64, bool) {
	if len(word) <= 3 || word[0] < '0' || word[0] > '9' {
		return 0, false
	}
	lower := strings.ToLower(word)
	var digits string
	var unit uint64
	switch {
	case strings.HasSuffix(lower, "kb"):
		digits, unit = lower[:len(lower)-2], KiB
	case strings.HasSuffix(lower, "k"):
		digits, unit = lower[:len(lower)-1], KiB
	case strings.HasSuffix(lower, "mb"):
		digits, unit = lower[:len(lower)-2], MiB
	case strings.HasSuffix(lower, "m"):
		digits, unit = lower[:len(lower)-1], MiB
	default:
		return 0, false
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || n > math.MaxUint64/unit {
		return 0, false
	}
	return n * unit, true
}

// HumanSize formats a byte count with a binary unit and two decimals.
func HumanSize(bytes uint64) string {
	switch {
	case bytes >= GiB:
		return fmt.Sprintf("%.2f GiB", float64(bytes)/GiB)
	case bytes >= MiB:
		return fmt.Sprintf("%.2f MiB", float64(bytes)/MiB)
	case bytes >= KiB:
		return fmt.Sprintf("%.2f KiB", float64(bytes)/KiB)
	}
	return fmt.Sprintf("%dB", bytes)
}

// parseNumber reads a number the way reports print them: 0x-prefixed hex,
// zero-padded hex of pointer width such as 00007f3a5c0e1000, or decimal.
// Only 8 or 16 digit runs with a leading zero count as padded hex, so
// "0010" stays decimal.
func parseNumber(text string) (n uint64, hex bool, ok bool) {
	digits, base := text, 10
	switch {
	case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "0X"):
		digits, base = text[2:], 16
	case (len(text) == 8 || len(text) == 16) && text[0] == '0':
		base = 16
	}
	n, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, false, false
	}
	return n, base == 16, true
}
