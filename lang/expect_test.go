package lang

import (
	"errors"
	"testing"
)

func TestExpect(t *testing.T) {
	scope := mustRun(t, "x = 3\ns = \"hi\" + \" there\"\nok = True\nnothing = nil")

	tests := []struct {
		expect string
		want   error
	}{
		{"x == 3", nil},
		{"x + 1 == 4 && ok", nil},
		{`s startsWith "hi"`, nil},
		{"nothing == nil", nil},
		{"missing == nil", nil},
		{"x > 5", ErrExpectFailed},
		{"!ok", ErrExpectFailed},
		{"x +", ErrExpectCompile},
		{"x", ErrExpectCompile},
	}

	for _, tt := range tests {
		t.Run(tt.expect, func(t *testing.T) {
			t.Parallel()

			err := Expect(scope, tt.expect)

			switch {
			case tt.want == nil && err != nil:
				t.Errorf("Expect(%q): %v", tt.expect, err)
			case tt.want != nil && !errors.Is(err, tt.want):
				t.Errorf("Expect(%q) = %v, want %v", tt.expect, err, tt.want)
			}
		})
	}
}
