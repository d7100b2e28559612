package lang

import (
	"errors"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string // Kind:String pairs
	}{
		{
			name:  "assignment",
			input: "a = 1\n",
			want:  []string{"Ident:a", "Punctuation:=", "Literal:1", "Punctuation:\n"},
		},
		{
			name:  "indented block",
			input: "if x:\n  y = 2",
			want: []string{
				"Keyword:if", "Ident:x", "Punctuation::", "Punctuation:\n",
				"Punctuation:  ", "Ident:y", "Punctuation:=", "Literal:2",
			},
		},
		{
			name:  "maximal munch",
			input: "a != b == c = !d",
			want: []string{
				"Ident:a", "Punctuation:!=", "Ident:b", "Punctuation:==",
				"Ident:c", "Punctuation:=", "Punctuation:!", "Ident:d",
			},
		},
		{
			name:  "literals",
			input: `nil True False "hi there" 007`,
			want: []string{
				"Literal:nil", "Literal:True", "Literal:False",
				`Literal:"hi there"`, "Literal:7",
			},
		},
		{
			name:  "keywords and identifiers",
			input: "global elif else iffy _x9",
			want: []string{
				"Keyword:global", "Keyword:elif", "Keyword:else",
				"Ident:iffy", "Ident:_x9",
			},
		},
		{
			name:  "tabs after tokens",
			input: "a\t=\t1",
			want:  []string{"Ident:a", "Punctuation:=", "Literal:1"},
		},
		{
			name:  "number then identifier",
			input: "1a",
			want:  []string{"Literal:1", "Ident:a"},
		},
		{
			name:  "double indentation",
			input: "\n    x",
			want:  []string{"Punctuation:\n", "Punctuation:  ", "Punctuation:  ", "Ident:x"},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q): %v", tt.input, err)
			}

			if len(tokens) != len(tt.want) {
				t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(tt.want), tokens)
			}

			for i, tok := range tokens {
				if got := tok.Kind.String() + ":" + tok.String(); got != tt.want[i] {
					t.Errorf("token %d = %q, want %q", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestTokenize_Values(t *testing.T) {
	tokens, err := Tokenize(`x = "ab" + 12 + True`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	want := map[int]Value{
		2: String("ab"),
		4: Number(12),
		6: Bool(true),
	}

	for i, v := range want {
		if !tokens[i].Value.Equal(v) {
			t.Errorf("token %d value = %v, want %v", i, tokens[i].Value, v)
		}
	}
}

func TestTokenize_Positions(t *testing.T) {
	tokens, err := Tokenize("a = 1\nbb")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	bb := tokens[len(tokens)-1]

	if bb.Span.Start != (Position{Offset: 6, Line: 2, Column: 1}) {
		t.Errorf("start = %+v", bb.Span.Start)
	}

	if bb.Span.End != (Position{Offset: 8, Line: 2, Column: 3}) {
		t.Errorf("end = %+v", bb.Span.End)
	}

	if got := bb.Span.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		detail error
		column int
	}{
		{"unknown char", "a = 1 ; b", ErrUnexpectedChar, 7},
		{"lone space at line start", " a", ErrUnexpectedChar, 1},
		{"odd indentation", "   a", ErrUnexpectedChar, 3},
		{"tab at line start", "\ta", ErrUnexpectedChar, 1},
		{"carriage return", "a\r\n", ErrUnexpectedChar, 2},
		{"non-ascii", "a = é", ErrUnexpectedChar, 5},
		{"after multibyte string", `s = "éé" $`, ErrUnexpectedChar, 10},
		{"unterminated string", `a = "abc`, ErrUnterminatedString, 5},
		{"number out of range", "x = 99999999999999999999", ErrNumberRange, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatalf("Tokenize(%q) succeeded, want error", tt.input)
			}

			if !errors.Is(err, ErrLex) {
				t.Errorf("error %v is not ErrLex", err)
			}

			if !errors.Is(err, tt.detail) {
				t.Errorf("error %v is not %v", err, tt.detail)
			}

			var le *Error
			if !errors.As(err, &le) {
				t.Fatalf("error %T is not *Error", err)
			}

			span, ok := le.Span()
			if !ok {
				t.Fatal("error has no span")
			}

			if span.Start.Column != tt.column {
				t.Errorf("column = %d, want %d", span.Start.Column, tt.column)
			}
		})
	}
}

func TestRender_RoundTrip(t *testing.T) {
	inputs := []string{
		"a = 1\nb = a + 2 * 3",
		"if x:\n  y = \"s t\"\nelse:\n  y = nil",
		"a != b == c = !d",
		"global a, b\n\n  \nc = -1",
		"x = 007",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			tokens, err := Tokenize(input)
			if err != nil {
				t.Fatalf("Tokenize: %v", err)
			}

			again, err := Tokenize(Render(tokens))
			if err != nil {
				t.Fatalf("Tokenize(Render): %v", err)
			}

			if !equivalentTokens(tokens, again) {
				t.Errorf("re-lexed stream differs:\n got %v\nwant %v", again, tokens)
			}
		})
	}
}

// equivalentTokens compares token streams ignoring spans and lexeme
// spelling.
func equivalentTokens(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		x, y := a[i], b[i]
		if x.Kind != y.Kind || x.Keyword != y.Keyword || x.Punct != y.Punct ||
			!x.Value.Equal(y.Value) || x.String() != y.String() {
			return false
		}
	}

	return true
}
