package expr

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokPath    // variable path, possibly with [i] and .name steps
	tokKeyword // and or AND OR not NOT in True False
	tokOperator
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
	tokPipe
)

type token struct {
	kind tokenKind
	text string // raw source text
	val  string // unescaped contents of a string literal
	pos  int
	path []Segment
}

var keywords = map[string]bool{
	"and": true, "or": true, "AND": true, "OR": true,
	"not": true, "NOT": true,
	"in":   true,
	"True": true, "False": true,
}

// lexer splits source text into tokens. Whitespace separates tokens and is
// otherwise ignored, except that a variable path never contains any.
type lexer struct {
	src  string
	pos  int
	toks []token
}

func tokenize(src string) ([]token, error) {
	l := &lexer{src: src}
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			l.toks = append(l.toks, token{kind: tokEOF, pos: l.pos})
			return l.toks, nil
		}
		if err := l.next(); err != nil {
			return nil, err
		}
	}
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) emit(kind tokenKind, start int) {
	l.toks = append(l.toks, token{kind: kind, text: l.src[start:l.pos], pos: start})
}

func (l *lexer) next() error {
	start := l.pos
	ch := l.src[l.pos]

	// Two-character operators first.
	if l.pos+1 < len(l.src) {
		switch l.src[l.pos : l.pos+2] {
		case "==", "!=", "<=", ">=":
			l.pos += 2
			l.emit(tokOperator, start)
			return nil
		}
	}

	switch {
	case ch == '<' || ch == '>' || ch == '+' || ch == '-' || ch == '*' || ch == '/' || ch == '%':
		l.pos++
		l.emit(tokOperator, start)
	case ch == '(':
		l.pos++
		l.emit(tokLParen, start)
	case ch == ')':
		l.pos++
		l.emit(tokRParen, start)
	case ch == '[':
		l.pos++
		l.emit(tokLBracket, start)
	case ch == ']':
		l.pos++
		l.emit(tokRBracket, start)
	case ch == ',':
		l.pos++
		l.emit(tokComma, start)
	case ch == '|':
		l.pos++
		l.emit(tokPipe, start)
	case ch == '\'' || ch == '"':
		return l.scanString(ch)
	case isDigit(ch):
		l.scanNumber()
	case isNameStart(ch):
		l.scanPath()
	default:
		r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
		return l.errorf(start, "unexpected character %q", r)
	}
	return nil
}

// scanString reads a quoted string. A backslash escapes the next
// character; \n, \t and \r are translated.
func (l *lexer) scanString(quote byte) error {
	start := l.pos
	l.pos++
	var sb strings.Builder
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		switch ch {
		case quote:
			l.pos++
			l.toks = append(l.toks, token{
				kind: tokString,
				text: l.src[start:l.pos],
				val:  sb.String(),
				pos:  start,
			})
			return nil
		case '\\':
			if l.pos+1 >= len(l.src) {
				return l.errorf(start, "unterminated string literal")
			}
			switch esc := l.src[l.pos+1]; esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(esc)
			}
			l.pos += 2
		default:
			sb.WriteByte(ch)
			l.pos++
		}
	}
	return l.errorf(start, "unterminated string literal")
}

// scanNumber reads digits with an optional fractional part. Signs are
// handled by the parser.
func (l *lexer) scanNumber() {
	start := l.pos
	l.skipDigits()
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
		l.pos++
		l.skipDigits()
	}
	l.emit(tokNumber, start)
}

func (l *lexer) skipDigits() {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
}

// scanPath reads a keyword or a variable path:
//
//	name ( '[' integer ']' )* ( '.' name ( '[' integer ']' )* )*
//
// A '[' that does not open an integer index ends the path.
func (l *lexer) scanPath() {
	start := l.pos
	name := l.scanName()
	if keywords[name] {
		l.emit(tokKeyword, start)
		return
	}

	path := []Segment{{Name: name}}
	for l.pos < len(l.src) {
		if idx, width, ok := l.peekIndex(); ok {
			path = append(path, Segment{Index: idx, IsIndex: true})
			l.pos += width
			continue
		}
		if l.src[l.pos] == '.' && l.pos+1 < len(l.src) && isNameStart(l.src[l.pos+1]) {
			l.pos++
			path = append(path, Segment{Name: l.scanName()})
			continue
		}
		break
	}
	l.toks = append(l.toks, token{kind: tokPath, text: l.src[start:l.pos], pos: start, path: path})
}

func (l *lexer) scanName() string {
	start := l.pos
	for l.pos < len(l.src) && isNamePart(l.src[l.pos]) {
		l.pos++
	}
	return l.src[start:l.pos]
}

// peekIndex matches '[' [+-]? digits ']' at the current position.
func (l *lexer) peekIndex() (idx, width int, ok bool) {
	rest := l.src[l.pos:]
	if len(rest) < 3 || rest[0] != '[' {
		return 0, 0, false
	}
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return 0, 0, false
	}
	body := rest[1:end]
	digits := strings.TrimLeft(body, "+-")
	if len(body)-len(digits) > 1 || digits == "" {
		return 0, 0, false
	}
	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i]) {
			return 0, 0, false
		}
	}
	n, err := strconv.Atoi(body)
	if err != nil {
		return 0, 0, false
	}
	return n, end + 1, true
}

func (l *lexer) errorf(pos int, format string, args ...any) error {
	return newParseError(l.src, pos, format, args...)
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isNameStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isNamePart(ch byte) bool { return isNameStart(ch) || isDigit(ch) }
