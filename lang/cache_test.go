package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestParseReader_Cache(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	src := "a = 1\nif a: b = 2"

	first, err := ParseReader(context.Background(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	second, err := ParseReader(context.Background(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	if first == second {
		t.Error("cache returned the same *AST twice")
	}

	if first.Body[0] != second.Body[0] {
		t.Error("second parse did not share cached statements")
	}

	if second.Source != src {
		t.Errorf("Source = %q, want %q", second.Source, src)
	}

	ClearCache()

	third, err := ParseReader(context.Background(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	if third.Body[0] == first.Body[0] {
		t.Error("ClearCache did not drop cached statements")
	}
}

func TestParseReader_Options(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	src := "if a: if b: x = 1"

	_, err := ParseReader(context.Background(), strings.NewReader(src), WithMaxDepth(1))
	if !errors.Is(err, ErrMaxDepth) {
		t.Fatalf("error = %v, want ErrMaxDepth", err)
	}

	// Same source with different options must not reuse the failure.
	_, err = ParseReader(context.Background(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
}

func TestParseReader_Errors(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	for range 2 {
		_, err := ParseReader(context.Background(), strings.NewReader("a = "))
		if !errors.Is(err, ErrParse) {
			t.Fatalf("error = %v, want ErrParse", err)
		}
	}

	_, err := ParseReader(context.Background(), iotest.ErrReader(errors.New("boom")))
	if !errors.Is(err, ErrReadInput) {
		t.Fatalf("error = %v, want ErrReadInput", err)
	}
}
