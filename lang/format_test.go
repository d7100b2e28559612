package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func formatSource(t *testing.T, ast *AST, hl Highlight) string {
	t.Helper()

	var buf bytes.Buffer

	err := ast.Format(context.Background(), &buf, hl)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	return buf.String()
}

func TestFormat_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"assignment", "a=1", "a = 1\n"},
		{"operators", "x = a+b*c-d/e", "x = a + b * c - d / e\n"},
		{"unary", `x = -1 * "ab"` + "\n!a", "x = -1 * \"ab\"\n!a\n"},
		{"global", "global a,b", "global a, b\n"},
		{
			"conditional",
			"if a:  x=1\nelif b: x = 2\nelse:\n  x=3",
			"if a:\n  x = 1\nelif b:\n  x = 2\nelse:\n  x = 3\n",
		},
		{
			"nested else-if becomes elif",
			"if a:\n  x = 1\nelse:\n  if b:\n    x = 2",
			"if a:\n  x = 1\nelif b:\n  x = 2\n",
		},
		{
			"nested blocks",
			"if a:\n  if b:\n    c = nil\n\n  d = True\ne",
			"if a:\n  if b:\n    c = nil\n  d = True\ne\n",
		},
		{"empty", "\n\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := formatSource(t, mustParse(t, tt.input), nil)
			if got != tt.want {
				t.Errorf("Format() =\n%q\nwant\n%q", got, tt.want)
			}

			if again := formatSource(t, mustParse(t, got), nil); again != got {
				t.Errorf("Format is not stable:\n%q\n%q", got, again)
			}
		})
	}
}

func TestFormat_Highlight(t *testing.T) {
	var seen []string

	hl := func(c Class, text string) string {
		if c == ClassKeyword || c == ClassString {
			seen = append(seen, text)
		}

		return "<" + text + ">"
	}

	got := formatSource(t, mustParse(t, `if a: b = "s"`), hl)

	want := "<if> <a><:>\n  <b> <=> <\"s\">\n"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	if len(seen) != 2 || seen[0] != "if" || seen[1] != `"s"` {
		t.Errorf("highlighted keyword/string = %v", seen)
	}
}

func TestFormatTokens(t *testing.T) {
	tokens, err := Tokenize("a = 1\n")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	var buf bytes.Buffer

	err = FormatTokens(&buf, tokens, nil)
	if err != nil {
		t.Fatalf("FormatTokens: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := [][]string{
		{"1:1", "1:2", "Ident", "a"},
		{"1:3", "1:4", "Punctuation", "="},
		{"1:5", "1:6", "Literal", "1"},
		{"1:6", "2:1", "Punctuation", `"\n"`},
	}

	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}

	for i, line := range lines {
		fields := strings.Fields(line)
		if strings.Join(fields, " ") != strings.Join(want[i], " ") {
			t.Errorf("line %d = %q, want fields %v", i, line, want[i])
		}
	}
}

func TestScope_Format(t *testing.T) {
	scope := mustRun(t, "b = \"x\"\na = 1\nc = nil")

	var buf bytes.Buffer

	err := scope.Format(&buf, nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	if want := "b = \"x\"\na = 1\nc = nil\n"; buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestFormatJSON(t *testing.T) {
	ast := mustParse(t, "a = 1\nif a: b = -a")

	var buf bytes.Buffer

	err := ast.FormatJSON(context.Background(), &buf, 2)
	if err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}

	var doc struct {
		Body []map[string]any `json:"body"`
	}

	err = json.Unmarshal(buf.Bytes(), &doc)
	if err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if len(doc.Body) != 2 {
		t.Fatalf("body has %d statements, want 2", len(doc.Body))
	}

	if _, ok := doc.Body[0]["assign"]; !ok {
		t.Errorf("first statement = %v, want assign", doc.Body[0])
	}

	if _, ok := doc.Body[1]["if"]; !ok {
		t.Errorf("second statement = %v, want if", doc.Body[1])
	}
}

func TestFormatYAML(t *testing.T) {
	ast := mustParse(t, "a = 1")

	var buf bytes.Buffer

	err := ast.FormatYAML(context.Background(), &buf, 2)
	if err != nil {
		t.Fatalf("FormatYAML: %v", err)
	}

	for _, want := range []string{"body:", "assign:", "name: a", "literal: 1"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("YAML output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestScope_Serialization(t *testing.T) {
	scope := mustRun(t, "zeta = 1\nalpha = \"x\"\nnone = nil")

	var js bytes.Buffer

	err := scope.FormatJSON(context.Background(), &js)
	if err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}

	if want := `{"zeta":1,"alpha":"x","none":null}` + "\n"; js.String() != want {
		t.Errorf("FormatJSON() = %q, want %q", js.String(), want)
	}

	var ym bytes.Buffer

	err = scope.FormatYAML(context.Background(), &ym, 2)
	if err != nil {
		t.Fatalf("FormatYAML: %v", err)
	}

	out := ym.String()
	if z, a := strings.Index(out, "zeta:"), strings.Index(out, "alpha:"); z < 0 || a < 0 || z > a {
		t.Errorf("FormatYAML() lost insertion order:\n%s", out)
	}
}

func TestTokensYAML(t *testing.T) {
	tokens, err := Tokenize(`s = "v"`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	var buf bytes.Buffer

	err = TokensYAML(context.Background(), &buf, tokens, 2)
	if err != nil {
		t.Fatalf("TokensYAML: %v", err)
	}

	for _, want := range []string{"kind: Ident", "kind: Literal", "value: v"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("YAML output missing %q:\n%s", want, buf.String())
		}
	}
}
