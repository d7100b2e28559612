package repl

import (
	"context"
	"slices"
	"testing"

	"github.com/ardnew/snek/lang"
	"github.com/ardnew/snek/log"
)

func TestWordBounds_Operators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_minus", "a-fo", 4, "fo", 2, 4},
		{"after_assign", "x = fo", 6, "fo", 4, 6},
		{"after_comma", "global a, fo", 12, "fo", 10, 12},
		{"after_bang", "!fo", 3, "fo", 1, 3},
		{"before_colon", "if fo:", 5, "fo", 3, 5},
		{"after_equality", "a == fo", 7, "fo", 5, 7},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a*b", 2, "b", 2, 3},
		{"underscore", "max_depth", 9, "max_depth", 0, 9},
		{"cursor_past_end", "ab", 10, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInString(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		want   bool
	}{
		{`x = "ab`, 7, true},
		{`x = "ab" + c`, 11, false},
		{`x`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := inString(tt.input, tt.offset); got != tt.want {
				t.Errorf("inString(%q, %d) = %v, want %v", tt.input, tt.offset, got, tt.want)
			}
		})
	}
}

func TestComputeMatches(t *testing.T) {
	ctx := context.Background()

	m := newModel(ctx, newSession(nil), NewHistory(""), log.Logger{})
	if _, _, err := m.sess.exec(ctx, "counter = 1\ncolor = \"red\"\n"); err != nil {
		t.Fatalf("exec: %v", err)
	}

	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  []string // must all be present
		none  bool
	}{
		{"variables", modeEval, "x = co", []string{"counter", "color"}, false},
		{"keyword", modeEval, "gl", []string{"global"}, false},
		{"literal_keyword", modeEval, "Tr", []string{"True"}, false},
		{"empty_word", modeEval, "x = ", nil, true},
		{"inside_string", modeEval, `x = "co`, nil, true},
		{"command", modeCtrl, "va", []string{"vars"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.mode = tt.mode
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, _, _ := m.computeMatches()
			if tt.none {
				if len(matches) != 0 {
					t.Errorf("computeMatches(%q) = %d matches, want none", tt.input, len(matches))
				}

				return
			}

			var got []string
			for _, mt := range matches {
				got = append(got, mt.Str)
			}

			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("computeMatches(%q) = %v, missing %q", tt.input, got, w)
				}
			}
		})
	}
}

func TestEvalCandidates_NoDuplicateKeywords(t *testing.T) {
	m := newModel(context.Background(), newSession(nil), NewHistory(""), log.Logger{})
	m.sess.scope.Set("nil_count", lang.Number(0))

	got := m.evalCandidates()
	if got[0] != "nil_count" {
		t.Errorf("evalCandidates()[0] = %q, want variables first", got[0])
	}

	for _, kw := range keywords {
		if n := count(got, kw); n != 1 {
			t.Errorf("keyword %q appears %d times", kw, n)
		}
	}
}

func count(s []string, v string) int {
	n := 0

	for _, e := range s {
		if e == v {
			n++
		}
	}

	return n
}
