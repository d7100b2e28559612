package cmd

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/snek/lang"
)

// theme styles highlighted script output. Its styles are bound to the
// renderer of one writer, so nothing is colored unless that writer is a
// terminal.
type theme struct {
	keyword, ident, literal, str, punct, span lipgloss.Style
	node, enum                                lipgloss.Style
}

func makeTheme(w io.Writer) theme {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return theme{
		keyword: fg("5").Bold(true),
		ident:   fg("4"),
		literal: fg("3"),
		str:     fg("2"),
		punct:   fg("7"),
		span:    fg("8"),
		node:    fg("6"),
		enum:    fg("8"),
	}
}

// highlight returns a [lang.Highlight] rendering each class with its style.
func (t theme) highlight() lang.Highlight {
	return func(c lang.Class, text string) string {
		switch c {
		case lang.ClassKeyword:
			return t.keyword.Render(text)
		case lang.ClassIdent:
			return t.ident.Render(text)
		case lang.ClassLiteral:
			return t.literal.Render(text)
		case lang.ClassString:
			return t.str.Render(text)
		case lang.ClassPunct:
			return t.punct.Render(text)
		case lang.ClassSpan:
			return t.span.Render(text)
		default:
			return text
		}
	}
}
