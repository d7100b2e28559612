package lang

import (
	"context"
	"log/slog"
	"strconv"
)

// ParseString tokenizes and parses s.
func ParseString(ctx context.Context, s string, opts ...Option) (*AST, error) {
	tokens, err := Tokenize(s)
	if err != nil {
		return nil, err
	}

	ast, err := Parse(ctx, tokens, opts...)
	if err != nil {
		return nil, err
	}

	ast.Source = s

	return ast, nil
}

// Parse builds an AST from a token sequence. It stops at the first
// grammar violation and returns an error wrapping [ErrParse]; no partial
// AST is returned.
func Parse(ctx context.Context, tokens []Token, opts ...Option) (*AST, error) {
	ast := new(AST)

	applyDefaults(ast)
	applyOptions(ast, opts...)

	p := &parser{
		tokens:   tokens,
		maxDepth: ast.opts.maxDepth,
	}

	if n := len(tokens); n > 0 {
		p.end = tokens[n-1].Span.End
	}

	body, err := p.parseProgram()
	if err != nil {
		ast.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	ast.Body = body

	ast.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(tokens)),
		slog.Int("statement_count", len(body)),
	)

	return ast, nil
}

// parser holds the parser state. The token slice is never modified; pos is
// the only mutable cursor, so a snapshot is a saved pos.
type parser struct {
	tokens   []Token
	end      Position
	pos      int
	depth    int
	maxDepth int
}

// tier is an operator precedence level, lowest first.
type tier uint8

const (
	tierAdditive tier = iota
	tierMultiplicative
	tierBase
)

var tierOps = [...]map[Punct]BinaryOp{
	tierAdditive:       {PunctPlus: OpAdd, PunctMinus: OpSub},
	tierMultiplicative: {PunctStar: OpMul, PunctSlash: OpDiv},
}

func (p *parser) tokenAt(i int) Token {
	if i < len(p.tokens) {
		return p.tokens[i]
	}

	return Token{Kind: KindEOF, Span: Span{Start: p.end, End: p.end}}
}

func (p *parser) peek() Token { return p.tokenAt(p.pos) }

func (p *parser) peekAt(k int) Token { return p.tokenAt(p.pos + k) }

func (p *parser) advance() Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}

	return t
}

func (p *parser) atEOF() bool { return p.pos >= len(p.tokens) }

func (p *parser) unexpected(t Token, expected string) error {
	var attrs []slog.Attr
	if expected != "" {
		attrs = append(attrs, slog.String("expected", expected))
	}

	attrs = append(attrs, slog.String("found", t.describe()))

	return ErrParse.WithSpan(t.Span).Wrap(ErrUnexpectedToken.With(attrs...))
}

// skipBlank consumes lines that hold nothing but indentation, and trailing
// indentation at the end of input.
func (p *parser) skipBlank() {
	for {
		i := p.pos
		for i < len(p.tokens) && p.tokens[i].IsPunct(PunctIndent) {
			i++
		}

		switch {
		case i >= len(p.tokens):
			p.pos = i
		case p.tokens[i].IsPunct(PunctNewline):
			p.pos = i + 1

			continue
		}

		return
	}
}

// enterLine moves past the Newline ending the current line, any blank
// lines, and exactly level Indent tokens. It reports false when there is no
// Newline, the input ends, or the next line is indented less than level;
// the cursor is then unspecified and the caller restores its snapshot.
// A line indented more than level leaves the surplus Indent tokens for
// parseStatement to reject.
func (p *parser) enterLine(level int) bool {
	if !p.peek().IsPunct(PunctNewline) {
		return false
	}

	for p.peek().IsPunct(PunctNewline) {
		p.advance()

		start := p.pos
		n := 0

		for p.peek().IsPunct(PunctIndent) {
			p.advance()
			n++
		}

		if p.peek().IsPunct(PunctNewline) {
			continue
		}

		if p.atEOF() || n < level {
			return false
		}

		p.pos = start + level

		return true
	}

	return false
}

// parseProgram parses the top-level block.
func (p *parser) parseProgram() (Block, error) {
	p.skipBlank()

	if p.atEOF() {
		return nil, nil
	}

	body, err := p.parseLines(0)
	if err != nil {
		return nil, err
	}

	for p.peek().IsPunct(PunctNewline) || p.peek().IsPunct(PunctIndent) {
		p.advance()
	}

	if !p.atEOF() {
		return nil, p.unexpected(p.peek(), "newline")
	}

	return body, nil
}

// parseLines parses the statement at the cursor and every statement on the
// following lines indented exactly level times.
func (p *parser) parseLines(level int) (Block, error) {
	var body Block

	for {
		s, err := p.parseStatement(level)
		if err != nil {
			return nil, err
		}

		body = append(body, s)

		save := p.pos
		if !p.enterLine(level) {
			p.pos = save

			return body, nil
		}
	}
}

// parseBlock parses the body following a ':' at the given level. The first
// statement may sit on the same line as the ':'.
func (p *parser) parseBlock(level int) (Block, error) {
	if p.depth >= p.maxDepth {
		return nil, ErrParse.WithSpan(p.peek().Span).Wrap(
			ErrMaxDepth.With(slog.Int("max_depth", p.maxDepth)),
		)
	}

	p.depth++
	defer func() { p.depth-- }()

	if t := p.peek(); !t.IsPunct(PunctNewline) && t.Kind != KindEOF {
		return p.parseLines(level)
	}

	save := p.pos
	if !p.enterLine(level) {
		at := p.peek()
		p.pos = save

		return nil, ErrParse.WithSpan(at.Span).Wrap(ErrExpectedBlock.With(
			slog.String("expected", strconv.Itoa(level)+" levels of indentation"),
			slog.String("found", at.describe()),
		))
	}

	return p.parseLines(level)
}

func (p *parser) parseStatement(level int) (Stmt, error) {
	t := p.peek()

	switch {
	case t.Kind == KindIdent && p.peekAt(1).IsPunct(PunctEqual):
		p.advance()
		p.advance()

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		return &AssignStmt{
			Name:  t.Text,
			Value: value,
			Span:  Span{Start: t.Span.Start, End: value.Pos().End},
		}, nil

	case t.IsKeyword(KeywordIf):
		p.advance()

		return p.parseIf(t, level)

	case t.IsKeyword(KeywordGlobal):
		return p.parseGlobal()

	case t.IsPunct(PunctIndent):
		return nil, ErrParse.WithSpan(t.Span).Wrap(ErrUnexpectedIndent)

	case t.Kind == KindKeyword, t.Kind == KindEOF, t.IsPunct(PunctNewline):
		return nil, p.unexpected(t, "statement")
	}

	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ExprStmt{X: x}, nil
}

// parseIf parses the remainder of a conditional after its 'if' or 'elif'
// keyword kw. A following 'elif' or 'else' is only consumed when it opens a
// line at the same level.
func (p *parser) parseIf(kw Token, level int) (*IfStmt, error) {
	test, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	colon := p.peek()
	if !colon.IsPunct(PunctColon) {
		return nil, p.unexpected(colon, "':'")
	}

	p.advance()

	body, err := p.parseBlock(level + 1)
	if err != nil {
		return nil, err
	}

	s := &IfStmt{
		Test: test,
		Body: body,
		Span: Span{Start: kw.Span.Start, End: colon.Span.End},
	}

	save := p.pos
	if !p.enterLine(level) {
		p.pos = save

		return s, nil
	}

	switch next := p.peek(); {
	case next.IsKeyword(KeywordElif):
		p.advance()

		elif, err := p.parseIf(next, level)
		if err != nil {
			return nil, err
		}

		s.Else = Block{elif}

	case next.IsKeyword(KeywordElse):
		p.advance()

		if c := p.peek(); !c.IsPunct(PunctColon) {
			return nil, p.unexpected(c, "':'")
		}

		p.advance()

		s.Else, err = p.parseBlock(level + 1)
		if err != nil {
			return nil, err
		}

	default:
		p.pos = save
	}

	return s, nil
}

func (p *parser) parseGlobal() (*GlobalStmt, error) {
	kw := p.advance()
	s := &GlobalStmt{Span: kw.Span}

	for {
		t := p.peek()
		if t.Kind != KindIdent {
			return nil, p.unexpected(t, "identifier")
		}

		p.advance()

		s.Names = append(s.Names, t.Text)
		s.Span.End = t.Span.End

		if !p.peek().IsPunct(PunctComma) {
			break
		}

		p.advance()
	}

	if t := p.peek(); !t.IsPunct(PunctNewline) && t.Kind != KindEOF {
		return nil, p.unexpected(t, "',' or newline")
	}

	return s, nil
}

// parseExpr parses the expression that extends from the cursor to the next
// Newline, Colon, or end of input.
func (p *parser) parseExpr() (Expr, error) {
	end := p.pos

	for end < len(p.tokens) {
		t := p.tokens[end]
		if t.IsPunct(PunctNewline) || t.IsPunct(PunctColon) {
			break
		}

		end++
	}

	x, err := p.parseTier(p.pos, end, tierAdditive)
	if err != nil {
		return nil, err
	}

	p.pos = end

	return x, nil
}

// parseTier parses tokens[lo:hi] at precedence t. It splits at the first
// binary operator of the tier, parsing the left part one tier higher and the
// right part at the same tier, so chains associate to the right.
func (p *parser) parseTier(lo, hi int, t tier) (Expr, error) {
	if t == tierBase {
		return p.parseBase(lo, hi)
	}

	for i := lo + 1; i < hi; i++ {
		tok := p.tokens[i]
		if tok.Kind != KindPunct || !p.tokens[i-1].endsOperand() {
			continue
		}

		op, ok := tierOps[t][tok.Punct]
		if !ok {
			continue
		}

		left, err := p.parseTier(lo, i, t+1)
		if err != nil {
			return nil, err
		}

		right, err := p.parseTier(i+1, hi, t)
		if err != nil {
			return nil, err
		}

		return &BinaryExpr{Op: op, Left: left, Right: right}, nil
	}

	return p.parseTier(lo, hi, t+1)
}

// parseBase parses an identifier, a literal, or a prefix operator applied
// to a base expression.
func (p *parser) parseBase(lo, hi int) (Expr, error) {
	if lo >= hi {
		return nil, p.unexpected(p.tokenAt(hi), "expression")
	}

	t := p.tokens[lo]

	switch {
	case t.IsPunct(PunctBang), t.IsPunct(PunctMinus):
		x, err := p.parseBase(lo+1, hi)
		if err != nil {
			return nil, err
		}

		op := OpNot
		if t.Punct == PunctMinus {
			op = OpNeg
		}

		return &UnaryExpr{Op: op, X: x, Span: t.Span}, nil

	case t.Kind == KindIdent, t.Kind == KindLiteral:
		if hi-lo > 1 {
			return nil, p.unexpected(p.tokens[lo+1], "operator")
		}

		if t.Kind == KindIdent {
			return &Ident{Name: t.Text, Span: t.Span}, nil
		}

		return &Literal{Value: t.Value, Span: t.Span}, nil
	}

	return nil, p.unexpected(t, "expression")
}
