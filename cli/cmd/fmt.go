package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/ardnew/snek/lang"
)

// Fmt parses a script and prints it in the chosen form.
type Fmt struct {
	Source Source `cmd:"" default:"withargs" help:"Format as canonical snek source (default)."`
	AST    AST    `cmd:""                    help:"Format as an abstract syntax tree."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
}

// Source formats a script as canonical snek source.
type Source struct {
	Script string `arg:"" default:"-" help:"Script path, name in the search path, or '-' for stdin." name:"script"`
}

// Run executes the fmt source command.
func (f *Source) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ast, src, err := parseScript(ctx, f.Script)
	if err != nil {
		return err
	}

	out, _ := outputFrom(ctx)

	err = ast.Format(ctx, out, makeTheme(out).highlight())
	if err != nil {
		return ErrWriteOutput.With(slog.String("script", src.name)).Wrap(err)
	}

	return nil
}

// JSON formats a script's AST as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output." short:"i"`

	Script string `arg:"" default:"-" help:"Script path, name in the search path, or '-' for stdin." name:"script"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ast, src, err := parseScript(ctx, j.Script)
	if err != nil {
		return err
	}

	out, _ := outputFrom(ctx)

	err = ast.FormatJSON(ctx, out, j.Indent)
	if err != nil {
		return ErrJSONMarshal.With(slog.String("script", src.name)).Wrap(err)
	}

	return nil
}

// YAML formats a script's AST as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output." short:"i"`

	Script string `arg:"" default:"-" help:"Script path, name in the search path, or '-' for stdin." name:"script"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ast, src, err := parseScript(ctx, y.Script)
	if err != nil {
		return err
	}

	out, _ := outputFrom(ctx)

	err = ast.FormatYAML(ctx, out, y.Indent)
	if err != nil {
		return ErrYAMLMarshal.With(slog.String("script", src.name)).Wrap(err)
	}

	return nil
}

// AST prints a script's syntax tree.
type AST struct {
	Spans bool `help:"Annotate nodes with their source spans." negatable:""`

	Script string `arg:"" default:"-" help:"Script path, name in the search path, or '-' for stdin." name:"script"`
}

// Run executes the fmt ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ast, src, err := parseScript(ctx, a.Script)
	if err != nil {
		return err
	}

	out, _ := outputFrom(ctx)

	p := treePrinter{theme: makeTheme(out), spans: a.Spans}

	_, err = fmt.Fprintln(out, p.program(ast).String())
	if err != nil {
		return ErrWriteOutput.With(slog.String("script", src.name)).Wrap(err)
	}

	return nil
}

// treePrinter converts an AST into a lipgloss tree.
type treePrinter struct {
	theme
	spans bool
}

func (p treePrinter) program(ast *lang.AST) *tree.Tree {
	t := tree.Root(p.node.Render("program")).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(p.enum)

	return p.body(t, ast.Body)
}

func (p treePrinter) body(t *tree.Tree, b lang.Block) *tree.Tree {
	for _, s := range b {
		t.Child(p.stmt(s))
	}

	return t
}

func (p treePrinter) label(kind string, span lang.Span, detail ...string) string {
	parts := append([]string{p.node.Render(kind)}, detail...)
	if p.spans {
		parts = append(parts, p.span.Render(span.String()))
	}

	return strings.Join(parts, " ")
}

func (p treePrinter) branch(kind string, span lang.Span, detail ...string) *tree.Tree {
	return tree.Root(p.label(kind, span, detail...)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(p.enum)
}

func (p treePrinter) stmt(s lang.Stmt) any {
	switch s := s.(type) {
	case *lang.AssignStmt:
		return p.branch("assign", s.Pos(), p.ident.Render(s.Name)).Child(p.expr(s.Value))

	case *lang.ExprStmt:
		return p.branch("expr", s.Pos()).Child(p.expr(s.X))

	case *lang.GlobalStmt:
		names := make([]string, len(s.Names))
		for i, n := range s.Names {
			names[i] = p.ident.Render(n)
		}

		return p.label("global", s.Pos(), strings.Join(names, ", "))

	case *lang.IfStmt:
		t := p.branch("if", s.Pos()).Child(
			p.branch("test", s.Test.Pos()).Child(p.expr(s.Test)),
			p.body(p.branch("then", s.Pos()), s.Body),
		)

		if len(s.Else) > 0 {
			t.Child(p.body(p.branch("else", s.Else[0].Pos()), s.Else))
		}

		return t

	default:
		return fmt.Sprintf("%T", s)
	}
}

func (p treePrinter) expr(x lang.Expr) any {
	switch x := x.(type) {
	case *lang.BinaryExpr:
		return p.branch("binary", x.Pos(), p.punct.Render(x.Op.String())).
			Child(p.expr(x.Left), p.expr(x.Right))

	case *lang.UnaryExpr:
		return p.branch("unary", x.Pos(), p.punct.Render(x.Op.String())).
			Child(p.expr(x.X))

	case *lang.Ident:
		return p.label("ident", x.Pos(), p.ident.Render(x.Name))

	case *lang.Literal:
		style := p.literal
		if x.Value.Type() == lang.TypeString {
			style = p.str
		}

		return p.label("literal", x.Pos(), style.Render(x.Value.Source()))

	default:
		return fmt.Sprintf("%T", x)
	}
}
