package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Class categorizes rendered text for highlighting.
type Class uint8

const (
	ClassKeyword Class = iota
	ClassIdent
	ClassLiteral
	ClassString
	ClassPunct
	ClassSpan
)

// Highlight decorates text of the given class. A nil Highlight leaves text
// unchanged.
type Highlight func(c Class, text string) string

func (h Highlight) apply(c Class, text string) string {
	if h == nil {
		return text
	}

	return h(c, text)
}

// indentUnit is the source text of one Indent token.
const indentUnit = "  "

// Format writes the AST in canonical source form. The output parses back to
// an equivalent AST.
func (ast *AST) Format(_ context.Context, w io.Writer, hl Highlight) error {
	f := formatter{hl: hl}
	f.block(ast.Body, 0)

	_, err := io.WriteString(w, f.String())

	return err
}

// FormatJSON writes the AST as JSON to the writer.
func (ast *AST) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(ast, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(ast)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the AST as YAML to the writer.
func (ast *AST) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return writeYAML(ctx, w, ast.ToMap(), indent)
}

// TokensYAML writes tokens as a YAML sequence to the writer.
func TokensYAML(ctx context.Context, w io.Writer, tokens []Token, indent int) error {
	seq := make([]any, len(tokens))
	for i, t := range tokens {
		seq[i] = t.ToMap()
	}

	return writeYAML(ctx, w, seq, indent)
}

// FormatYAML writes the variables bound in s as a YAML mapping, in
// insertion order.
func (s *Scope) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return writeYAML(ctx, w, s.ToMapSlice(), indent)
}

// FormatJSON writes the variables bound in s as a JSON object.
func (s *Scope) FormatJSON(_ context.Context, w io.Writer) error {
	data, err := s.MarshalJSON()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// Format writes one `name = value` line per variable bound in s, in
// insertion order.
func (s *Scope) Format(w io.Writer, hl Highlight) error {
	for name, v := range s.All() {
		_, err := fmt.Fprintf(w, "%s %s %s\n",
			hl.apply(ClassIdent, name),
			hl.apply(ClassPunct, "="),
			highlightValue(hl, v),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// FormatTokens writes one line per token: start and end position, kind and
// source text. Newline and Indent tokens are shown quoted.
//
//	1:1     1:2     Ident    a
//	1:3     1:4     Punctuation =
func FormatTokens(w io.Writer, tokens []Token, hl Highlight) error {
	for _, t := range tokens {
		text := t.String()

		switch {
		case t.IsPunct(PunctNewline), t.IsPunct(PunctIndent):
			text = hl.apply(ClassPunct, strconv.Quote(text))
		default:
			text = highlightToken(hl, t)
		}

		_, err := fmt.Fprintf(w, "%s %s %-11s %s\n",
			hl.apply(ClassSpan, fmt.Sprintf("%-7s", t.Span.Start)),
			hl.apply(ClassSpan, fmt.Sprintf("%-7s", t.Span.End)),
			t.Kind,
			text,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func highlightToken(hl Highlight, t Token) string {
	switch t.Kind {
	case KindKeyword:
		return hl.apply(ClassKeyword, t.String())
	case KindIdent:
		return hl.apply(ClassIdent, t.String())
	case KindLiteral:
		return highlightValue(hl, t.Value)
	default:
		return hl.apply(ClassPunct, t.String())
	}
}

func highlightValue(hl Highlight, v Value) string {
	if v.Type() == TypeString {
		return hl.apply(ClassString, v.Source())
	}

	return hl.apply(ClassLiteral, v.Source())
}

// formatter renders statements and expressions as canonical source.
type formatter struct {
	strings.Builder

	hl Highlight
}

func (f *formatter) block(b Block, level int) {
	for _, s := range b {
		f.WriteString(strings.Repeat(indentUnit, level))
		f.stmt(s, level)
	}
}

func (f *formatter) stmt(s Stmt, level int) {
	switch s := s.(type) {
	case *AssignStmt:
		f.WriteString(f.hl.apply(ClassIdent, s.Name))
		f.WriteString(" " + f.hl.apply(ClassPunct, "=") + " ")
		f.expr(s.Value)
		f.WriteByte('\n')

	case *ExprStmt:
		f.expr(s.X)
		f.WriteByte('\n')

	case *GlobalStmt:
		f.WriteString(f.hl.apply(ClassKeyword, "global") + " ")

		for i, name := range s.Names {
			if i > 0 {
				f.WriteString(f.hl.apply(ClassPunct, ",") + " ")
			}

			f.WriteString(f.hl.apply(ClassIdent, name))
		}

		f.WriteByte('\n')

	case *IfStmt:
		f.conditional(s, level, "if")
	}
}

// conditional renders s opened by keyword kw, rendering an else block that
// holds a single conditional as an elif.
func (f *formatter) conditional(s *IfStmt, level int, kw string) {
	f.WriteString(f.hl.apply(ClassKeyword, kw) + " ")
	f.expr(s.Test)
	f.WriteString(f.hl.apply(ClassPunct, ":") + "\n")
	f.block(s.Body, level+1)

	if len(s.Else) == 0 {
		return
	}

	f.WriteString(strings.Repeat(indentUnit, level))

	if elif, ok := s.Elif(); ok {
		f.conditional(elif, level, "elif")

		return
	}

	f.WriteString(f.hl.apply(ClassKeyword, "else") + f.hl.apply(ClassPunct, ":") + "\n")
	f.block(s.Else, level+1)
}

func (f *formatter) expr(x Expr) {
	switch x := x.(type) {
	case *BinaryExpr:
		f.expr(x.Left)
		f.WriteString(" " + f.hl.apply(ClassPunct, x.Op.String()) + " ")
		f.expr(x.Right)

	case *UnaryExpr:
		f.WriteString(f.hl.apply(ClassPunct, x.Op.String()))
		f.expr(x.X)

	case *Ident:
		f.WriteString(f.hl.apply(ClassIdent, x.Name))

	case *Literal:
		f.WriteString(highlightValue(f.hl, x.Value))
	}
}
