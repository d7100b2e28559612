package lang

import (
	"strconv"
)

// Type is the dynamic type of a [Value].
type Type uint8

const (
	TypeNil Type = iota
	TypeBool
	TypeNumber
	TypeString
)

func (t Type) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	default:
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
}

// Value is a dynamically typed runtime value. The zero Value is nil.
type Value struct {
	str string
	num int64
	typ Type
	b   bool
}

// Nil returns the nil value.
func Nil() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{typ: TypeBool, b: b} }

// Number returns an integer value.
func Number(n int64) Value { return Value{typ: TypeNumber, num: n} }

// String returns a string value.
func String(s string) Value { return Value{typ: TypeString, str: s} }

func (v Value) Type() Type { return v.typ }

func (v Value) IsNil() bool { return v.typ == TypeNil }

// AsBool returns the boolean payload; false unless v is a bool.
func (v Value) AsBool() bool { return v.typ == TypeBool && v.b }

// AsNumber returns the integer payload; zero unless v is a number.
func (v Value) AsNumber() int64 {
	if v.typ != TypeNumber {
		return 0
	}

	return v.num
}

// AsString returns the string payload; empty unless v is a string.
func (v Value) AsString() string {
	if v.typ != TypeString {
		return ""
	}

	return v.str
}

// Truthy converts v to a boolean: nil is false, numbers are true when
// nonzero and strings when nonempty.
func (v Value) Truthy() bool {
	switch v.typ {
	case TypeBool:
		return v.b
	case TypeNumber:
		return v.num != 0
	case TypeString:
		return v.str != ""
	default:
		return false
	}
}

// Text renders v the way string concatenation does: strings are unquoted.
func (v Value) Text() string {
	if v.typ == TypeString {
		return v.str
	}

	return v.Source()
}

// Source renders v as a literal in source syntax.
func (v Value) Source() string {
	switch v.typ {
	case TypeBool:
		if v.b {
			return "True"
		}

		return "False"
	case TypeNumber:
		return strconv.FormatInt(v.num, 10)
	case TypeString:
		return `"` + v.str + `"`
	default:
		return "nil"
	}
}

func (v Value) String() string { return v.Source() }

// Native returns v as nil, bool, int64 or string.
func (v Value) Native() any {
	switch v.typ {
	case TypeBool:
		return v.b
	case TypeNumber:
		return v.num
	case TypeString:
		return v.str
	default:
		return nil
	}
}

// Equal reports whether v and o have the same type and payload.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}

	switch v.typ {
	case TypeBool:
		return v.b == o.b
	case TypeNumber:
		return v.num == o.num
	case TypeString:
		return v.str == o.str
	default:
		return true
	}
}

// Variable is a mutable cell holding one value. Several names in
// different scopes may refer to the same Variable after a global
// declaration.
type Variable struct {
	value Value
}

// NewVariable returns a cell initialized to v.
func NewVariable(v Value) *Variable { return &Variable{value: v} }

func (c *Variable) Get() Value { return c.value }

func (c *Variable) Set(v Value) { c.value = v }
