package lang

import (
	"iter"

	"github.com/ardnew/snek/log"
)

// AST is a parsed program.
type AST struct {
	Body   Block
	Source string     // text the program was parsed from, if known
	opts   optionsKey // configuration options
	logger log.Logger // structured logger (outside optionsKey, doesn't affect cache)
}

// Block is an ordered sequence of statements: the program body or the body
// of a conditional branch.
type Block []Stmt

// All returns an iterator over every statement in b, descending into
// conditional branches in source order.
func (b Block) All() iter.Seq[Stmt] {
	return func(yield func(Stmt) bool) {
		b.walk(yield)
	}
}

func (b Block) walk(yield func(Stmt) bool) bool {
	for _, s := range b {
		if !yield(s) {
			return false
		}

		if is, ok := s.(*IfStmt); ok {
			if !is.Body.walk(yield) || !is.Else.walk(yield) {
				return false
			}
		}
	}

	return true
}

// Stmt is a statement node.
type Stmt interface {
	Pos() Span
	stmt()
}

// AssignStmt is `Name = Value`.
type AssignStmt struct {
	Value Expr
	Name  string
	Span  Span
}

// ExprStmt is an expression evaluated for its value.
type ExprStmt struct {
	X Expr
}

// GlobalStmt is `global a, b, ...`.
type GlobalStmt struct {
	Names []string
	Span  Span
}

// IfStmt is a conditional. Else is nil when absent; an elif chain is an
// Else block holding a single *IfStmt.
type IfStmt struct {
	Test Expr
	Body Block
	Else Block
	Span Span
}

func (s *AssignStmt) Pos() Span { return s.Span }
func (s *ExprStmt) Pos() Span   { return s.X.Pos() }
func (s *GlobalStmt) Pos() Span { return s.Span }
func (s *IfStmt) Pos() Span     { return s.Span }

func (*AssignStmt) stmt() {}
func (*ExprStmt) stmt()   {}
func (*GlobalStmt) stmt() {}
func (*IfStmt) stmt()     {}

// Elif returns the nested conditional when the else branch of s is an elif
// chain.
func (s *IfStmt) Elif() (*IfStmt, bool) {
	if len(s.Else) != 1 {
		return nil, false
	}

	next, ok := s.Else[0].(*IfStmt)

	return next, ok
}

// Expr is an expression node.
type Expr interface {
	Pos() Span
	expr()
}

// BinaryOp is an arithmetic operator.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// UnaryOp is a prefix operator.
type UnaryOp uint8

const (
	OpNot UnaryOp = iota
	OpNeg
)

func (op UnaryOp) String() string {
	switch op {
	case OpNot:
		return "!"
	case OpNeg:
		return "-"
	default:
		return "?"
	}
}

type (
	BinaryExpr struct {
		Left  Expr
		Right Expr
		Op    BinaryOp
	}

	UnaryExpr struct {
		X    Expr
		Span Span // operator
		Op   UnaryOp
	}

	Ident struct {
		Name string
		Span Span
	}

	Literal struct {
		Value Value
		Span  Span
	}
)

func (e *BinaryExpr) Pos() Span {
	return Span{Start: e.Left.Pos().Start, End: e.Right.Pos().End}
}

func (e *UnaryExpr) Pos() Span {
	return Span{Start: e.Span.Start, End: e.X.Pos().End}
}

func (e *Ident) Pos() Span   { return e.Span }
func (e *Literal) Pos() Span { return e.Span }

func (*BinaryExpr) expr() {}
func (*UnaryExpr) expr()  {}
func (*Ident) expr()      {}
func (*Literal) expr()    {}

// Assigned returns the names assigned anywhere in the program, in order of
// first appearance.
func (ast *AST) Assigned() []string {
	var (
		names []string
		seen  = make(map[string]bool)
	)

	for s := range ast.Body.All() {
		if as, ok := s.(*AssignStmt); ok && !seen[as.Name] {
			seen[as.Name] = true
			names = append(names, as.Name)
		}
	}

	return names
}

// optionsKey holds the options that change parse results. It is part of the
// parse cache key.
type optionsKey struct {
	maxDepth int
}

// DefaultMaxDepth bounds conditional nesting.
const DefaultMaxDepth = 64

// Option configures parsing and execution behavior.
type Option func(*AST)

// WithMaxDepth sets the maximum nesting depth of conditional blocks.
func WithMaxDepth(depth int) Option {
	return func(ast *AST) {
		ast.opts.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(ast *AST) {
		ast.logger = logger
	}
}

// applyDefaults sets default option values on an AST.
func applyDefaults(ast *AST) {
	ast.opts.maxDepth = DefaultMaxDepth
}

// applyOptions applies functional options to an AST.
func applyOptions(ast *AST, opts ...Option) {
	for _, opt := range opts {
		opt(ast)
	}
}
