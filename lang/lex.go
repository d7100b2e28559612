package lang

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Tokenize converts source text into a token sequence. It stops at the first
// unrecognized character, unterminated string, or out-of-range number and
// returns an error wrapping [ErrLex] located at the offending span.
func Tokenize(src string) ([]Token, error) {
	l := lexer{src: src, line: 1, col: 1}

	for !l.eof() {
		err := l.next()
		if err != nil {
			return nil, err
		}
	}

	return l.tokens, nil
}

// lexer holds the scanning state.
type lexer struct {
	src    string
	tokens []Token
	pos    int
	line   int
	col    int
}

func (l *lexer) eof() bool { return l.pos >= len(l.src) }

func (l *lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// advance consumes n bytes, tracking line and column. Columns count
// runes, so UTF-8 continuation bytes do not move the column.
func (l *lexer) advance(n int) {
	for range n {
		switch c := l.src[l.pos]; {
		case c == '\n':
			l.line++
			l.col = 1
		case utf8.RuneStart(c):
			l.col++
		}

		l.pos++
	}
}

// next scans one token and, except after Newline and Indent, the spaces
// that follow it.
func (l *lexer) next() error {
	c := l.src[l.pos]

	switch {
	case isIdentStart(c):
		l.ident()
	case isDigit(c):
		err := l.number()
		if err != nil {
			return err
		}
	case c == '"':
		err := l.quoted()
		if err != nil {
			return err
		}
	default:
		p, ok := l.punct()
		if !ok {
			r, size := utf8.DecodeRuneInString(l.src[l.pos:])
			start := l.position()
			l.advance(size)

			return ErrLex.WithSpan(Span{Start: start, End: l.position()}).
				Wrap(ErrUnexpectedChar.With(
					slog.String("found", strconv.QuoteRune(r)),
				))
		}

		if p == PunctNewline || p == PunctIndent {
			return nil
		}
	}

	l.spaces()

	return nil
}

func (l *lexer) emit(t Token, start Position) {
	t.Span = Span{Start: start, End: l.position()}
	l.tokens = append(l.tokens, t)
}

func (l *lexer) spaces() {
	for !l.eof() && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
		l.advance(1)
	}
}

func (l *lexer) ident() {
	start := l.position()
	end := l.pos + 1

	for end < len(l.src) && isIdentPart(l.src[end]) {
		end++
	}

	word := l.src[l.pos:end]
	l.advance(end - l.pos)

	switch word {
	case "nil":
		l.emit(Token{Kind: KindLiteral, Text: word, Value: Nil()}, start)
	case "True":
		l.emit(Token{Kind: KindLiteral, Text: word, Value: Bool(true)}, start)
	case "False":
		l.emit(Token{Kind: KindLiteral, Text: word, Value: Bool(false)}, start)
	default:
		if kw, ok := keywords[word]; ok {
			l.emit(Token{Kind: KindKeyword, Text: word, Keyword: kw}, start)

			return
		}

		l.emit(Token{Kind: KindIdent, Text: word}, start)
	}
}

func (l *lexer) number() error {
	start := l.position()
	end := l.pos

	for end < len(l.src) && isDigit(l.src[end]) {
		end++
	}

	digits := l.src[l.pos:end]
	l.advance(end - l.pos)

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return ErrLex.WithSpan(Span{Start: start, End: l.position()}).
			Wrap(ErrNumberRange.With(slog.String("found", digits)))
	}

	l.emit(Token{Kind: KindLiteral, Text: digits, Value: Number(n)}, start)

	return nil
}

func (l *lexer) quoted() error {
	start := l.position()

	end := strings.IndexByte(l.src[l.pos+1:], '"')
	if end < 0 {
		l.advance(len(l.src) - l.pos)

		return ErrLex.WithSpan(Span{Start: start, End: l.position()}).
			Wrap(ErrUnterminatedString.With(slog.String("expected", `closing '"'`)))
	}

	body := l.src[l.pos+1 : l.pos+1+end]
	l.advance(end + 2)

	l.emit(Token{Kind: KindLiteral, Text: `"` + body + `"`, Value: String(body)}, start)

	return nil
}

func (l *lexer) punct() (Punct, bool) {
	rest := l.src[l.pos:]

	for _, e := range puncts {
		if strings.HasPrefix(rest, e.text) {
			start := l.position()
			l.advance(len(e.text))
			l.emit(Token{Kind: KindPunct, Text: e.text, Punct: e.punct}, start)

			return e.punct, true
		}
	}

	return PunctNone, false
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
