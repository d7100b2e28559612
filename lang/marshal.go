package lang

import (
	"encoding/json"

	"github.com/goccy/go-yaml"
)

// MarshalJSON implements json.Marshaler for AST.
func (ast *AST) MarshalJSON() ([]byte, error) {
	return json.Marshal(ast.ToMap())
}

// ToMap converts the AST to a native Go map structure.
func (ast *AST) ToMap() map[string]any {
	return map[string]any{"body": blockToNative(ast.Body)}
}

func blockToNative(b Block) []any {
	out := make([]any, 0, len(b))
	for _, s := range b {
		out = append(out, stmtToNative(s))
	}

	return out
}

func stmtToNative(s Stmt) map[string]any {
	switch s := s.(type) {
	case *AssignStmt:
		return map[string]any{
			"assign": map[string]any{
				"name":  s.Name,
				"value": exprToNative(s.Value),
			},
		}

	case *ExprStmt:
		return map[string]any{"expr": exprToNative(s.X)}

	case *GlobalStmt:
		names := make([]any, len(s.Names))
		for i, name := range s.Names {
			names[i] = name
		}

		return map[string]any{"global": names}

	case *IfStmt:
		m := map[string]any{
			"test": exprToNative(s.Test),
			"body": blockToNative(s.Body),
		}

		if s.Else != nil {
			m["else"] = blockToNative(s.Else)
		}

		return map[string]any{"if": m}
	}

	return nil
}

func exprToNative(x Expr) map[string]any {
	switch x := x.(type) {
	case *BinaryExpr:
		return map[string]any{
			"binary": map[string]any{
				"op":    x.Op.String(),
				"left":  exprToNative(x.Left),
				"right": exprToNative(x.Right),
			},
		}

	case *UnaryExpr:
		return map[string]any{
			"unary": map[string]any{
				"op": x.Op.String(),
				"x":  exprToNative(x.X),
			},
		}

	case *Ident:
		return map[string]any{"ident": x.Name}

	case *Literal:
		return map[string]any{"literal": x.Value.Native()}
	}

	return nil
}

// ToMap converts t to a native Go map structure.
func (t Token) ToMap() map[string]any {
	m := map[string]any{
		"kind":  t.Kind.String(),
		"text":  t.String(),
		"start": t.Span.Start.String(),
		"end":   t.Span.End.String(),
	}

	if t.Kind == KindLiteral {
		m["value"] = t.Value.Native()
	}

	return m
}

// ToMapSlice converts the variables bound in s to an ordered mapping.
func (s *Scope) ToMapSlice() yaml.MapSlice {
	out := make(yaml.MapSlice, 0, s.Len())
	for name, v := range s.All() {
		out = append(out, yaml.MapItem{Key: name, Value: v.Native()})
	}

	return out
}

// MarshalJSON implements json.Marshaler for Scope, preserving insertion
// order.
func (s *Scope) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}

	for i, item := range s.ToMapSlice() {
		if i > 0 {
			buf = append(buf, ',')
		}

		key, err := json.Marshal(item.Key)
		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(item.Value)
		if err != nil {
			return nil, err
		}

		buf = append(append(append(buf, key...), ':'), val...)
	}

	return append(buf, '}'), nil
}
