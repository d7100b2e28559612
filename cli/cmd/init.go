package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/snek/lang"
	"github.com/ardnew/snek/log"
	"github.com/ardnew/snek/profile"
)

// Init writes a configuration script holding the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	ast := i.buildAST(ctx)

	err = ast.Format(ctx, file, nil)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Int("settings", len(ast.Body)),
	)

	return nil
}

// buildAST constructs one assignment per flag with a representable value.
// Flag names become identifiers by replacing '-' with '_'.
func (i *Init) buildAST(ctx context.Context) *lang.AST {
	ktx := kongContextFrom(ctx)

	prefixIgnore := []string{"help", "version", profile.Tag}

	ast := new(lang.AST)

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val, ok := flagValue(ktx, flag)
		if !ok {
			continue
		}

		ast.Body = append(ast.Body, &lang.AssignStmt{
			Name:  strings.ReplaceAll(flag.Name, "-", "_"),
			Value: &lang.Literal{Value: val},
		})
	}

	return ast
}

// flagValue returns the snek value for a flag, or false when the flag is
// unset or its value cannot be written as a snek literal. Slices are joined
// with the flag's separator, which kong splits again when resolving.
func flagValue(ktx *kong.Context, flag *kong.Flag) (lang.Value, bool) {
	val := ktx.FlagValue(flag)
	if val == nil {
		return lang.Nil(), false
	}

	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.Bool:
		return lang.Bool(rv.Bool()), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lang.Number(rv.Int()), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return lang.Number(int64(rv.Uint())), true //nolint:gosec

	case reflect.String:
		return stringValue(rv.String())

	case reflect.Slice:
		if rv.Len() == 0 {
			return lang.Nil(), false
		}

		sep := string(flag.Tag.Sep)
		if flag.Tag.Sep == 0 || flag.Tag.Sep == -1 {
			sep = ","
		}

		items := make([]string, rv.Len())
		for j := range items {
			items[j] = fmt.Sprint(rv.Index(j).Interface())
		}

		return stringValue(strings.Join(items, sep))

	default:
		return lang.Nil(), false
	}
}

// stringValue reports false for strings a snek literal cannot hold. Snek
// strings have no escapes, so quotes and line breaks cannot appear in one.
func stringValue(s string) (lang.Value, bool) {
	if s == "" || strings.ContainsAny(s, "\"\r\n") {
		return lang.Nil(), false
	}

	return lang.String(s), true
}
