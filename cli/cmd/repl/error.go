package repl

import (
	"errors"

	"github.com/ardnew/snek/lang"
)

// Sentinel errors.
var (
	ErrOutOfBounds  = errors.New("index out of range")
	ErrEditDeclined = errors.New("decline edit")
	ErrPreload      = lang.NewError("could not load session source")
)
