package lang

import (
	"bytes"
	"context"
	"testing"
)

func TestCompileJS(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{
			name:  "declarations",
			input: "a = 1\nb = a + 2 * 3\nglobal a\na",
			want:  "let a, b;\na = 1;\nb = a + (2 * 3);\na;\n",
		},
		{
			name:  "literals",
			input: "x = nil\ny = True\nz = \"s t\"\nw = False",
			want:  "let x, y, z, w;\nx = null;\ny = true;\nz = \"s t\";\nw = false;\n",
		},
		{
			name:  "unary",
			input: "x = - -1\ny = !x - 2",
			want:  "let x, y;\nx = -(-1);\ny = !x - 2;\n",
		},
		{
			name:  "conditional chain",
			input: "if a:\n  c = \"x\"\nelif b:\n  c = nil\nelse:\n  c = True",
			want: "let c;\n" +
				"if (a) {\n" +
				"  c = \"x\";\n" +
				"} else if (b) {\n" +
				"  c = null;\n" +
				"} else {\n" +
				"  c = true;\n" +
				"}\n",
		},
		{
			name:  "nested conditional",
			input: "if a:\n  if b: c = 1\nd = 2",
			want: "let c, d;\n" +
				"if (a) {\n" +
				"  if (b) {\n" +
				"    c = 1;\n" +
				"  }\n" +
				"}\n" +
				"d = 2;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			err := mustParse(t, tt.input).CompileJS(context.Background(), &buf)
			if err != nil {
				t.Fatalf("CompileJS: %v", err)
			}

			if buf.String() != tt.want {
				t.Errorf("CompileJS() =\n%s\nwant\n%s", buf.String(), tt.want)
			}
		})
	}
}
