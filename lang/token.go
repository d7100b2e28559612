package lang

import (
	"strconv"
	"strings"
)

// Kind classifies a [Token].
type Kind uint8

const (
	KindEOF     Kind = iota // eof
	KindIdent               // ident
	KindKeyword             // keyword
	KindLiteral             // literal
	KindPunct               // punctuation
)

var kindName = [...]string{
	KindEOF:     "EOF",
	KindIdent:   "Ident",
	KindKeyword: "Keyword",
	KindLiteral: "Literal",
	KindPunct:   "Punctuation",
}

func (k Kind) String() string {
	if int(k) < len(kindName) {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Keyword identifies a reserved word.
type Keyword uint8

const (
	KeywordNone Keyword = iota
	KeywordIf
	KeywordElif
	KeywordElse
	KeywordGlobal
)

var keywords = map[string]Keyword{
	"if":     KeywordIf,
	"elif":   KeywordElif,
	"else":   KeywordElse,
	"global": KeywordGlobal,
}

func (k Keyword) String() string {
	switch k {
	case KeywordIf:
		return "if"
	case KeywordElif:
		return "elif"
	case KeywordElse:
		return "else"
	case KeywordGlobal:
		return "global"
	default:
		return ""
	}
}

// Punct identifies an operator or structural token.
type Punct uint8

const (
	PunctNone Punct = iota
	PunctBangEqual
	PunctBang
	PunctColon
	PunctComma
	PunctEqualEqual
	PunctEqual
	PunctIndent
	PunctMinus
	PunctNewline
	PunctPlus
	PunctSlash
	PunctStar
)

// puncts is ordered for maximal munch: two-character forms precede their
// one-character prefixes.
var puncts = [...]struct {
	text  string
	punct Punct
}{
	{"!=", PunctBangEqual},
	{"!", PunctBang},
	{":", PunctColon},
	{",", PunctComma},
	{"==", PunctEqualEqual},
	{"=", PunctEqual},
	{"  ", PunctIndent},
	{"-", PunctMinus},
	{"\n", PunctNewline},
	{"+", PunctPlus},
	{"/", PunctSlash},
	{"*", PunctStar},
}

func (p Punct) String() string {
	for _, e := range puncts {
		if e.punct == p {
			return e.text
		}
	}

	return ""
}

// Position is a location in source text. Line and Column are 1-based;
// Offset is a 0-based byte offset.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Span is a half-open byte range [Start, End) of source text.
type Span struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end"   yaml:"end"`
}

func (s Span) String() string { return s.Start.String() + ".." + s.End.String() }

// Len returns the number of bytes covered by s.
func (s Span) Len() int { return s.End.Offset - s.Start.Offset }

// Token is a single lexeme with its source span.
type Token struct {
	Value   Value
	Text    string
	Span    Span
	Kind    Kind
	Keyword Keyword
	Punct   Punct
}

// IsPunct reports whether t is the punctuation p.
func (t Token) IsPunct(p Punct) bool { return t.Kind == KindPunct && t.Punct == p }

// IsKeyword reports whether t is the keyword k.
func (t Token) IsKeyword(k Keyword) bool {
	return t.Kind == KindKeyword && t.Keyword == k
}

// endsOperand reports whether t can be the last token of an operand, which
// decides if a following '+' or '-' is binary or prefix.
func (t Token) endsOperand() bool {
	return t.Kind == KindIdent || t.Kind == KindLiteral
}

// String returns the source text that lexes back to t.
func (t Token) String() string {
	switch t.Kind {
	case KindIdent:
		return t.Text
	case KindKeyword:
		return t.Keyword.String()
	case KindLiteral:
		return t.Value.Source()
	case KindPunct:
		return t.Punct.String()
	default:
		return ""
	}
}

// describe renders t for diagnostics.
func (t Token) describe() string {
	switch {
	case t.Kind == KindEOF:
		return "end of input"
	case t.IsPunct(PunctNewline):
		return "newline"
	case t.IsPunct(PunctIndent):
		return "indentation"
	default:
		return strconv.Quote(t.String())
	}
}

// Render joins tokens into source text that tokenizes to an equivalent
// stream. Adjacent non-structural tokens are separated by one space.
func Render(tokens []Token) string {
	var b strings.Builder

	for i, t := range tokens {
		if i > 0 && separated(tokens[i-1], t) {
			b.WriteByte(' ')
		}

		b.WriteString(t.String())
	}

	return b.String()
}

func separated(prev, next Token) bool {
	structural := func(t Token) bool {
		return t.IsPunct(PunctNewline) || t.IsPunct(PunctIndent)
	}

	return !structural(prev) && !structural(next)
}
