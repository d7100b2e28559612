package lang

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/snek/log"
)

// Execute runs the statements of block in scope, in order, and returns the
// value of the last statement executed. The first runtime error stops
// execution; assignments made before it remain in scope.
//
// The context is checked between statements.
func Execute(ctx context.Context, scope *Scope, block Block) (Value, error) {
	ev := evalContext{ctx: ctx, scope: scope}

	return ev.block(block)
}

// Run executes the program body in scope. See [Execute].
func (ast *AST) Run(ctx context.Context, scope *Scope) (Value, error) {
	ev := evalContext{ctx: ctx, scope: scope, logger: ast.logger}

	ast.logger.TraceContext(ctx, "execute",
		slog.Int("statement_count", len(ast.Body)),
	)

	v, err := ev.block(ast.Body)
	if err != nil {
		ast.logger.TraceContext(ctx, "execute failed", slog.Any("error", err))

		return Nil(), err
	}

	ast.logger.TraceContext(ctx, "execute complete",
		slog.Int("variable_count", scope.Len()),
		slog.String("result", v.String()),
	)

	return v, nil
}

// Eval evaluates a single expression in scope.
func Eval(ctx context.Context, scope *Scope, x Expr) (Value, error) {
	ev := evalContext{ctx: ctx, scope: scope}

	return ev.expr(x)
}

// evalContext holds the state for recursive evaluation.
type evalContext struct {
	ctx    context.Context //nolint:containedctx
	scope  *Scope
	logger log.Logger
}

func (ev *evalContext) block(b Block) (Value, error) {
	result := Nil()

	for _, s := range b {
		if ev.ctx.Err() != nil {
			return Nil(), ErrRuntime.WithSpan(s.Pos()).Wrap(context.Cause(ev.ctx))
		}

		v, err := ev.stmt(s)
		if err != nil {
			return Nil(), err
		}

		result = v
	}

	return result, nil
}

func (ev *evalContext) stmt(s Stmt) (Value, error) {
	switch s := s.(type) {
	case *AssignStmt:
		v, err := ev.expr(s.Value)
		if err != nil {
			return Nil(), err
		}

		ev.scope.Set(s.Name, v)

		ev.logger.TraceContext(ev.ctx, "assign",
			slog.String("name", s.Name),
			slog.String("value", v.String()),
		)

		return v, nil

	case *ExprStmt:
		return ev.expr(s.X)

	case *GlobalStmt:
		ev.scope.Global(s.Names...)

		return Nil(), nil

	case *IfStmt:
		test, err := ev.expr(s.Test)
		if err != nil {
			return Nil(), err
		}

		if test.Truthy() {
			return ev.block(s.Body)
		}

		return ev.block(s.Else)
	}

	return Nil(), nil
}

func (ev *evalContext) expr(x Expr) (Value, error) {
	switch x := x.(type) {
	case *Literal:
		return x.Value, nil

	case *Ident:
		return ev.scope.Get(x.Name), nil

	case *UnaryExpr:
		v, err := ev.expr(x.X)
		if err != nil {
			return Nil(), err
		}

		return unop(x.Op, v), nil

	case *BinaryExpr:
		l, err := ev.expr(x.Left)
		if err != nil {
			return Nil(), err
		}

		r, err := ev.expr(x.Right)
		if err != nil {
			return Nil(), err
		}

		v, err := binop(x.Op, l, r)
		if err != nil {
			return Nil(), ErrRuntime.WithSpan(x.Pos()).Wrap(err)
		}

		return v, nil
	}

	return Nil(), nil
}

func unop(op UnaryOp, v Value) Value {
	switch op {
	case OpNot:
		return Bool(!v.Truthy())
	case OpNeg:
		if n, ok := v.integer(); ok {
			return Number(-n)
		}
	}

	return Nil()
}

// integer returns v as an operand of integer arithmetic. Booleans count as
// 0 or 1.
func (v Value) integer() (int64, bool) {
	switch v.typ {
	case TypeNumber:
		return v.num, true
	case TypeBool:
		if v.b {
			return 1, true
		}

		return 0, true
	default:
		return 0, false
	}
}

// binop applies op to l and r. Numbers and booleans combine arithmetically.
// A string combines with anything under +, and with a number or boolean
// under *. Every other pairing involving a string or nil yields nil.
func binop(op BinaryOp, l, r Value) (Value, error) {
	if a, ok := l.integer(); ok {
		if b, ok := r.integer(); ok {
			return arith(op, a, b)
		}
	}

	switch op {
	case OpAdd:
		if l.typ == TypeString || r.typ == TypeString {
			return String(l.Text() + r.Text()), nil
		}

	case OpMul:
		if l.typ == TypeString {
			return repeat(l.str, r)
		}

		if r.typ == TypeString {
			return repeat(r.str, l)
		}
	}

	return Nil(), nil
}

// arith is wrapping int64 arithmetic. Division truncates toward zero.
func arith(op BinaryOp, a, b int64) (Value, error) {
	switch op {
	case OpAdd:
		return Number(a + b), nil
	case OpSub:
		return Number(a - b), nil
	case OpMul:
		return Number(a * b), nil
	case OpDiv:
		if b == 0 {
			return Nil(), ErrDivideByZero
		}

		return Number(a / b), nil
	}

	return Nil(), nil
}

// MaxStringLen bounds the length of a string built by repetition.
const MaxStringLen = 1 << 30

// repeat multiplies string s by n: a positive number repeats s, true keeps
// it, zero, negatives and false empty it. Other operands yield nil.
func repeat(s string, n Value) (Value, error) {
	switch n.typ {
	case TypeBool:
		if n.b {
			return String(s), nil
		}

		return String(""), nil
	case TypeNumber:
		if n.num <= 0 || s == "" {
			return String(""), nil
		}

		if n.num > int64(MaxStringLen/len(s)) {
			return Nil(), ErrStringLength.With(
				slog.Int("length", len(s)),
				slog.Int64("count", n.num),
			)
		}

		return String(strings.Repeat(s, int(n.num))), nil
	default:
		return Nil(), nil
	}
}
