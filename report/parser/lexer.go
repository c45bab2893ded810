package parser

import (
	"bytes"
	"sort"
	"unicode"
	"unicode/utf8"
)

const (
	maxSubtitleLen   = 64
	maxSubtitleWords = 8
)

// Lexer splits a report into classified tokens. It never fails: every byte
// of the input ends up in exactly one token.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

// Tokenize returns the complete token stream for src.
func Tokenize(src []byte, opts ...Option) []Token {
	p := newParser(opts)
	return p.tokenize(src)
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) atLineStart() bool {
	return l.pos == 0 || l.input[l.pos-1] == '\n'
}

// restOfLine returns the input from the current position up to, but not
// including, the next line break.
func (l *Lexer) restOfLine() []byte {
	rest := l.input[l.pos:]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		return rest[:i]
	}
	return rest
}

// NextToken returns the next token and false once the input is exhausted.
func (l *Lexer) NextToken() (Token, bool) {
	start := l.Position()

	if l.pos >= len(l.input) {
		return Token{Span: Span{Start: start, End: start}}, false
	}

	ch := l.peek()

	if isSpace(ch) {
		return l.scanWhitespace(start), true
	}

	if l.atLineStart() {
		line := l.restOfLine()
		if n := matchBanner(line); n > 0 {
			return l.emit(SectionHeader, start, n), true
		}
		if n := matchSectionTitle(line); n > 0 {
			return l.emit(SectionHeader, start, n), true
		}
		if n := matchSubtitle(line); n > 0 {
			return l.emit(Subtitle, start, n), true
		}
	}

	if n := matchURL(l.input[l.pos:]); n > 0 {
		return l.emit(URL, start, n), true
	}

	if ch == '"' {
		return l.scanDoubleQuoted(start), true
	}
	if ch == '\'' {
		if n := l.matchSingleQuoted(); n > 0 {
			return l.emit(String, start, n), true
		}
	}

	if isDigit(ch) {
		return l.scanNumber(start), true
	}
	if r, _ := l.runeAt(l.pos); isNameStart(r) {
		return l.scanName(start), true
	}

	return l.scanPunct(start), true
}

func (l *Lexer) emit(cat Category, start Position, n int) Token {
	l.advanceN(n)
	return l.token(cat, start)
}

func (l *Lexer) token(cat Category, start Position) Token {
	end := l.Position()
	return Token{
		Category: cat,
		Span:     Span{Start: start, End: end},
		Literal:  string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for l.pos < len(l.input) && isSpace(l.peek()) {
		l.advance()
	}
	return l.token(WhiteSpace, start)
}

func (l *Lexer) scanDoubleQuoted(start Position) Token {
	l.advance()
	for l.peek() != 0 && l.peek() != '"' && l.peek() != '\n' {
		l.advance()
	}
	if l.peek() == '"' {
		l.advance()
	}
	return l.token(String, start)
}

// matchSingleQuoted reports the length of a '...' literal closed on the
// same line. A quote right after a letter or digit is an apostrophe.
func (l *Lexer) matchSingleQuoted() int {
	if l.pos > 0 && isAlnum(l.input[l.pos-1]) {
		return 0
	}
	line := l.restOfLine()
	if i := bytes.IndexByte(line[1:], '\''); i >= 0 {
		return i + 2
	}
	return 0
}

func (l *Lexer) scanNumber(start Position) Token {
	input := l.input
	end := l.pos

	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') && isHexDigit(l.peekN(2)) {
		end += 2
		for end < len(input) && isHexDigit(input[end]) {
			end++
		}
		if end < len(input) && isNameByte(input[end]) {
			return l.scanWordFrom(start, end)
		}
		return l.emit(Number, start, end-l.pos)
	}

	// Bare addresses such as 00007f3a5c0e1000.
	hexEnd, hasLetter := end, false
	for hexEnd < len(input) && isHexDigit(input[hexEnd]) {
		if !isDigit(input[hexEnd]) {
			hasLetter = true
		}
		hexEnd++
	}
	if hasLetter && hexEnd-end >= 8 && (hexEnd == len(input) || !isNameByte(input[hexEnd])) {
		return l.emit(Number, start, hexEnd-l.pos)
	}

	for end < len(input) && isDigit(input[end]) {
		end++
	}
	if end+1 < len(input) && input[end] == '.' && isDigit(input[end+1]) {
		end++
		for end < len(input) && isDigit(input[end]) {
			end++
		}
	}
	if end < len(input) && isNameByte(input[end]) {
		return l.scanWordFrom(start, end)
	}
	return l.emit(Number, start, end-l.pos)
}

// scanWordFrom extends a digit-led run through trailing name characters,
// as in 260096K or 64bit.
func (l *Lexer) scanWordFrom(start Position, end int) Token {
	for end < len(l.input) && isNameByte(l.input[end]) {
		end++
	}
	return l.emit(Word, start, end-l.pos)
}

func (l *Lexer) scanName(start Position) Token {
	input := l.input
	end := l.pos
	qualified := false

	for {
		for end < len(input) {
			r, size := l.runeAt(end)
			if !isNameRune(r) {
				break
			}
			end += size
		}
		if end+1 < len(input) && (input[end] == '.' || input[end] == '/') {
			if r, _ := l.runeAt(end + 1); isNameStart(r) {
				end++
				qualified = true
				continue
			}
		}
		if end+2 < len(input) && input[end] == ':' && input[end+1] == ':' {
			if r, _ := l.runeAt(end + 2); isNameStart(r) {
				end += 2
				qualified = true
				continue
			}
		}
		break
	}

	word := string(input[l.pos:end])
	cat := Word
	switch {
	case qualified:
		cat = Identifier
	case IsSignal(word):
		cat = Signal
	case end < len(input) && input[end] == '=' && IsRegisterName(word):
		cat = Register
	case IsKeyword(word):
		cat = Keyword
	case hasIdentifierShape(word):
		cat = Identifier
	}
	return l.emit(cat, start, end-l.pos)
}

func (l *Lexer) scanPunct(start Position) Token {
	_, size := l.runeAt(l.pos)
	return l.emit(Punct, start, size)
}

func (l *Lexer) runeAt(i int) (rune, int) {
	if i >= len(l.input) {
		return utf8.RuneError, 0
	}
	if b := l.input[i]; b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(l.input[i:])
}

// matchBanner reports the length of a decorated banner line such as
// "---------------  T H R E A D  ---------------".
func matchBanner(line []byte) int {
	line = bytes.TrimRight(line, " \t\r")
	if len(line) < 3 {
		return 0
	}
	if decorationRun(line) < 3 || decorationRunRight(line) < 3 {
		return 0
	}
	return len(line)
}

func decorationRun(line []byte) int {
	c := line[0]
	if c != '-' && c != '=' {
		return 0
	}
	n := 0
	for n < len(line) && line[n] == c {
		n++
	}
	return n
}

func decorationRunRight(line []byte) int {
	c := line[len(line)-1]
	if c != '-' && c != '=' {
		return 0
	}
	n := 0
	for n < len(line) && line[len(line)-1-n] == c {
		n++
	}
	return n
}

var sectionTitlesByLength = func() []string {
	titles := append([]string(nil), sectionTitles...)
	sort.SliceStable(titles, func(i, j int) bool { return len(titles[i]) > len(titles[j]) })
	return titles
}()

// matchSectionTitle reports the length of a known section title that
// starts the line, together with an optional "(...)" and the colon.
func matchSectionTitle(line []byte) int {
	for _, title := range sectionTitlesByLength {
		if !bytes.HasPrefix(line, []byte(title)) {
			continue
		}
		i := skipQualifier(line, len(title), "(")
		if i < len(line) && (line[i] == ':' || (title == "END" && line[i] == '.')) {
			return i + 1
		}
	}
	return 0
}

// matchSubtitle reports the length of a short "Label (qualifier):" prefix,
// colon included.
func matchSubtitle(line []byte) int {
	if len(line) == 0 {
		return 0
	}
	if r, _ := utf8.DecodeRune(line); !isLetter(r) && r != '/' {
		return 0
	}

	i, words := 0, 0
	for {
		wordStart := i
		for i < len(line) && isLabelByte(line[i]) {
			i++
		}
		if i == wordStart {
			break
		}
		words++
		if i+1 < len(line) && line[i] == ' ' && isLabelByte(line[i+1]) {
			i++
			continue
		}
		break
	}
	labelEnd := i
	if labelEnd == 0 || labelEnd > maxSubtitleLen || words > maxSubtitleWords {
		return 0
	}

	j := skipQualifier(line, labelEnd, "(['")
	if j >= len(line) || line[j] != ':' {
		return 0
	}
	if j+1 < len(line) && !isSpace(line[j+1]) {
		return 0
	}

	label := string(line[:labelEnd])
	if subtitleDenyList[label] || IsKeyword(label) {
		return 0
	}
	return j + 1
}

// skipQualifier skips blanks and at most one bracketed qualifier whose
// opening character is listed in openers, then any blanks after it.
func skipQualifier(line []byte, i int, openers string) int {
	j := skipBlanks(line, i)
	if j >= len(line) {
		return j
	}
	closer := byte(0)
	switch line[j] {
	case '(':
		closer = ')'
	case '[':
		closer = ']'
	case '\'':
		closer = '\''
	}
	if closer == 0 || bytes.IndexByte([]byte(openers), line[j]) < 0 {
		return j
	}
	k := bytes.IndexByte(line[j+1:], closer)
	if k < 0 {
		return j
	}
	return skipBlanks(line, j+1+k+1)
}

func skipBlanks(line []byte, i int) int {
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}

var urlSchemes = [][]byte{[]byte("https://"), []byte("http://"), []byte("file:/")}

func matchURL(rest []byte) int {
	for _, scheme := range urlSchemes {
		if !bytes.HasPrefix(rest, scheme) {
			continue
		}
		end := len(scheme)
		for end < len(rest) {
			c := rest[end]
			if isSpace(c) || c == '"' || c == '<' || c == '>' {
				break
			}
			end++
		}
		for end > len(scheme) && bytes.IndexByte([]byte(".,;:)]>'"), rest[end-1]) >= 0 {
			end--
		}
		return end
	}
	return 0
}

func hasIdentifierShape(word string) bool {
	prevLower := false
	for i, r := range word {
		switch {
		case r == '_' || r == '$':
			return true
		case unicode.IsDigit(r):
			if i > 0 {
				return true
			}
		case unicode.IsUpper(r):
			if prevLower {
				return true
			}
		}
		prevLower = unicode.IsLower(r)
	}
	return false
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isAlnum(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isNameByte(ch byte) bool {
	return isAlnum(ch) || ch == '_' || ch == '$'
}

func isLabelByte(ch byte) bool {
	return isNameByte(ch) || ch == '/' || ch == '.' || ch == '-'
}

func isLetter(r rune) bool {
	if r < utf8.RuneSelf {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}
	return unicode.IsLetter(r)
}

func isNameStart(r rune) bool {
	return isLetter(r) || r == '_' || r == '$'
}

func isNameRune(r rune) bool {
	if r < utf8.RuneSelf {
		return isNameByte(byte(r))
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
