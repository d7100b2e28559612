package lang

import (
	"log/slog"

	"github.com/expr-lang/expr"
)

// Expect evaluates the boolean expr-lang expression src against the
// variables visible from scope (see [Scope.Snapshot]). It returns an error
// wrapping [ErrExpectCompile] when src does not compile to a boolean, and
// [ErrExpectFailed] when it evaluates to false.
//
//	x == 3 && greeting startsWith "hi"
func Expect(scope *Scope, src string) error {
	env := scope.Snapshot()

	program, err := expr.Compile(src,
		expr.Env(env),
		expr.AsBool(),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return ErrExpectCompile.Wrap(err).With(slog.String("expect", src))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return ErrExpectFailed.Wrap(err).With(slog.String("expect", src))
	}

	if ok, _ := out.(bool); !ok {
		return ErrExpectFailed.With(slog.String("expect", src))
	}

	return nil
}
