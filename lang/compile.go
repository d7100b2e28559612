package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// CompileJS writes an equivalent JavaScript program to w. Every assigned
// name is declared once with let before the first statement. A global
// declaration emits nothing.
//
// The lowering uses JavaScript operators directly, so results differ from
// [Execute] wherever the coercion rules of the two languages differ.
func (ast *AST) CompileJS(ctx context.Context, w io.Writer) error {
	var c jsCompiler

	if names := ast.Assigned(); len(names) > 0 {
		c.WriteString("let " + strings.Join(names, ", ") + ";\n")
	}

	c.block(ast.Body, 0)

	ast.logger.TraceContext(ctx, "compile js",
		slog.Int("statement_count", len(ast.Body)),
		slog.Int("output_bytes", c.Len()),
	)

	_, err := io.WriteString(w, c.String())

	return err
}

type jsCompiler struct {
	strings.Builder
}

func (c *jsCompiler) indent(level int) {
	c.WriteString(strings.Repeat("  ", level))
}

func (c *jsCompiler) block(b Block, level int) {
	for _, s := range b {
		c.stmt(s, level)
	}
}

func (c *jsCompiler) stmt(s Stmt, level int) {
	switch s := s.(type) {
	case *AssignStmt:
		c.indent(level)
		c.WriteString(s.Name + " = ")
		c.expr(s.Value, false)
		c.WriteString(";\n")

	case *ExprStmt:
		c.indent(level)
		c.expr(s.X, false)
		c.WriteString(";\n")

	case *IfStmt:
		c.indent(level)
		c.conditional(s, level)
		c.WriteByte('\n')
	}
}

func (c *jsCompiler) conditional(s *IfStmt, level int) {
	c.WriteString("if (")
	c.expr(s.Test, false)
	c.WriteString(") {\n")
	c.block(s.Body, level+1)
	c.indent(level)
	c.WriteByte('}')

	if len(s.Else) == 0 {
		return
	}

	c.WriteString(" else ")

	if elif, ok := s.Elif(); ok {
		c.conditional(elif, level)

		return
	}

	c.WriteString("{\n")
	c.block(s.Else, level+1)
	c.indent(level)
	c.WriteByte('}')
}

// expr writes x. A binary expression appearing as an operand is
// parenthesized.
func (c *jsCompiler) expr(x Expr, operand bool) {
	switch x := x.(type) {
	case *BinaryExpr:
		if operand {
			c.WriteByte('(')
		}

		c.expr(x.Left, true)
		c.WriteString(" " + x.Op.String() + " ")
		c.expr(x.Right, true)

		if operand {
			c.WriteByte(')')
		}

	case *UnaryExpr:
		c.WriteString(x.Op.String())

		// "--x" would lex as a decrement.
		if _, ok := x.X.(*UnaryExpr); ok {
			c.WriteByte('(')
			c.expr(x.X, true)
			c.WriteByte(')')

			return
		}

		c.expr(x.X, true)

	case *Ident:
		c.WriteString(x.Name)

	case *Literal:
		c.WriteString(jsLiteral(x.Value))
	}
}

func jsLiteral(v Value) string {
	switch v.Type() {
	case TypeBool:
		return strconv.FormatBool(v.AsBool())
	case TypeNumber:
		return strconv.FormatInt(v.AsNumber(), 10)
	case TypeString:
		return strconv.Quote(v.AsString())
	default:
		return "null"
	}
}
