package cmd

import "github.com/ardnew/snek/lang"

// Command errors share the interpreter's error type so that a script error
// wrapped by a command keeps its source span and attributes.
var (
	ErrScriptNotFound = lang.NewError("script not found")
	ErrOpenScript     = lang.NewError("open script")
	ErrScript         = lang.NewError("script failed")
	ErrExpectation    = lang.NewError("expectation not met")
	ErrJSONMarshal    = lang.NewError("marshal JSON")
	ErrYAMLMarshal    = lang.NewError("marshal YAML")
	ErrWriteOutput    = lang.NewError("write output")
	ErrWriteConfig    = lang.NewError("write configuration file")
	ErrFileExists     = lang.NewError("file exists (use --force to overwrite)")
)
