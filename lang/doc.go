// Package lang implements snek, a small indentation-structured scripting
// language: a hand-written lexer, a recursive-descent parser producing an
// AST, and a tree-walking evaluator over a chain of scopes.
//
// # Pipeline
//
//	source text -> Tokenize -> []Token -> Parse -> *AST -> Run -> *Scope
//
// Every stage stops at its first error and returns an [*Error] wrapping
// [ErrLex], [ErrParse] or [ErrRuntime], located at the offending [Span].
// [Diagnostic] renders such an error against its source.
//
// # Grammar
//
// Informal EBNF:
//
//	Program    → Line*
//	Block      → Stmt (NL Indent^level Stmt)*
//	Stmt       → Ident '=' Expr
//	           | 'global' Ident (',' Ident)*
//	           | 'if' Expr ':' Block ('elif' Expr ':' Block)* ('else' ':' Block)?
//	           | Expr
//	Expr       → Term (('+' | '-') Expr)?
//	Term       → Base (('*' | '/') Term)?
//	Base       → '!' Base | '-' Base | Ident | Literal
//	Literal    → Number | String | 'True' | 'False' | 'nil'
//
// Operators of the same precedence associate to the right, so 10 - 3 - 2
// is 9. A block is indented one level (two spaces) deeper than the line
// that opens it; its first statement may follow the ':' on the same line.
//
// # Example
//
//	greeting = "hi"
//	count = 3
//	if count - 3:
//	  banner = greeting
//	elif greeting:
//	  banner = greeting * count
//	else:
//	  banner = nil
//
// # Values
//
// A [Value] is nil, a bool, an int64 number or a string. Arithmetic treats
// booleans as 0 and 1 and wraps on overflow. The + operator concatenates
// when either operand is a string, and * repeats a string by a number or
// boolean. Other combinations involving a string or nil produce nil rather
// than an error. The runtime errors are division by zero and a repeated
// string longer than [MaxStringLen].
//
// # Scoping
//
// Reading an unbound name yields nil. Assignment updates the variable bound
// in the current scope, or creates one in the nearest enclosing function
// boundary or root scope. A global declaration binds names in the current
// scope to the variables seen by its parent, so writes through either name
// are visible through both. Conditional branches do not open scopes.
package lang
