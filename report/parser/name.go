package parser

import (
	"strings"
	"unicode"
)

// decoration are the characters stripped from both ends of a header or
// title when deriving its display name.
const decoration = "-=#*~:."

// DeriveName turns the text of a SECTION_HDR or SUBTITLE token into a
// display name: line breaks become spaces, then whitespace and decoration
// characters are trimmed from both ends. The name is absent when nothing
// remains.
func DeriveName(text string) (string, bool) {
	text = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
	name := strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(decoration, r)
	})
	if name == "" {
		return "", false
	}
	return name, true
}

// collapseSpacedLetters folds letter-spaced banner words: "S U M M A R Y"
// becomes "SUMMARY" and "T H R E A D  S M R" becomes "THREAD SMR".
func collapseSpacedLetters(name string) string {
	words := strings.Split(name, "  ")
	for i, w := range words {
		letters := strings.Fields(w)
		spaced := len(letters) > 1
		for _, l := range letters {
			if len([]rune(l)) != 1 {
				spaced = false
				break
			}
		}
		if spaced {
			words[i] = strings.Join(letters, "")
		} else {
			words[i] = strings.Join(letters, " ")
		}
	}
	var kept []string
	for _, w := range words {
		if w != "" {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
