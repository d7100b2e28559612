package lang

import (
	"slices"
	"testing"
)

func TestScope_Set(t *testing.T) {
	t.Run("root creates", func(t *testing.T) {
		root := NewScope()
		root.Set("a", Number(1))

		if got := root.Get("a"); !got.Equal(Number(1)) {
			t.Errorf("a = %v, want 1", got)
		}
	})

	t.Run("plain child defers to parent", func(t *testing.T) {
		root := NewScope()
		child := root.Child(false)
		child.Set("a", Number(1))

		if child.Len() != 0 {
			t.Errorf("child bound %v locally", child.Names())
		}

		if got := root.Get("a"); !got.Equal(Number(1)) {
			t.Errorf("root a = %v, want 1", got)
		}
	})

	t.Run("plain child updates outer variable", func(t *testing.T) {
		root := NewScope()
		root.Set("a", Number(1))

		cell, _ := root.Lookup("a")

		root.Child(false).Set("a", Number(2))

		if got := cell.Get(); !got.Equal(Number(2)) {
			t.Errorf("a = %v, want 2", got)
		}
	})

	t.Run("function boundary shadows", func(t *testing.T) {
		root := NewScope()
		root.Set("a", Number(1))

		fn := root.Child(true)
		fn.Set("a", Number(2))

		if got := root.Get("a"); !got.Equal(Number(1)) {
			t.Errorf("root a = %v, want 1", got)
		}

		if got := fn.Get("a"); !got.Equal(Number(2)) {
			t.Errorf("function a = %v, want 2", got)
		}
	})

	t.Run("creation stops at nearest function boundary", func(t *testing.T) {
		root := NewScope()
		fn := root.Child(true)
		inner := fn.Child(false)
		inner.Set("w", Bool(true))

		if _, ok := root.Lookup("w"); ok {
			t.Error("w escaped the function boundary")
		}

		if got := fn.Names(); !slices.Equal(got, []string{"w"}) {
			t.Errorf("function names = %v, want [w]", got)
		}
	})

	t.Run("function reads through boundary", func(t *testing.T) {
		root := NewScope()
		root.Set("a", String("outer"))

		if got := root.Child(true).Get("a"); !got.Equal(String("outer")) {
			t.Errorf("a = %v, want \"outer\"", got)
		}
	})
}

func TestScope_Global(t *testing.T) {
	t.Run("aliases parent variable", func(t *testing.T) {
		root := NewScope()
		root.Set("x", Number(1))

		fn := root.Child(true)
		fn.Global("x")
		fn.Set("x", Number(5))

		if got := root.Get("x"); !got.Equal(Number(5)) {
			t.Errorf("root x = %v, want 5", got)
		}

		root.Set("x", Number(9))

		if got := fn.Get("x"); !got.Equal(Number(9)) {
			t.Errorf("function x = %v, want 9", got)
		}

		outer, _ := root.Lookup("x")
		inner, _ := fn.Lookup("x")

		if outer != inner {
			t.Error("global did not bind the same variable")
		}
	})

	t.Run("creates missing variable as nil", func(t *testing.T) {
		root := NewScope()
		fn := root.Child(true)
		fn.Global("z")

		cell, ok := root.Lookup("z")
		if !ok {
			t.Fatal("z not created in parent")
		}

		if !cell.Get().IsNil() {
			t.Errorf("z = %v, want nil", cell.Get())
		}

		fn.Set("z", Number(1))

		if got := root.Get("z"); !got.Equal(Number(1)) {
			t.Errorf("root z = %v, want 1", got)
		}
	})

	t.Run("binds variable from grandparent", func(t *testing.T) {
		root := NewScope()
		root.Set("g", Number(1))

		outer := root.Child(true)
		inner := outer.Child(true)
		inner.Global("g")
		inner.Set("g", Number(2))

		if got := root.Get("g"); !got.Equal(Number(2)) {
			t.Errorf("root g = %v, want 2", got)
		}

		if outer.Len() != 0 {
			t.Errorf("outer bound %v", outer.Names())
		}
	})

	t.Run("no-op at root", func(t *testing.T) {
		root := NewScope()
		root.Global("q")

		if root.Len() != 0 {
			t.Errorf("root bound %v", root.Names())
		}
	})
}

func TestScope_Order(t *testing.T) {
	s := NewScope()
	s.Set("zeta", Number(1))
	s.Set("alpha", Number(2))
	s.Set("zeta", Number(3))

	if got, want := s.Names(), []string{"zeta", "alpha"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	var values []Value
	for _, v := range s.All() {
		values = append(values, v)
	}

	if len(values) != 2 || !values[0].Equal(Number(3)) || !values[1].Equal(Number(2)) {
		t.Errorf("All() values = %v", values)
	}
}

func TestScope_Snapshot(t *testing.T) {
	root := NewScope()
	root.Set("a", Number(1))
	root.Set("b", String("root"))

	fn := root.Child(true)
	fn.Set("b", Bool(true))
	fn.Set("c", Nil())

	got := fn.Snapshot()
	want := map[string]any{"a": int64(1), "b": true, "c": nil}

	if len(got) != len(want) {
		t.Fatalf("Snapshot() = %v, want %v", got, want)
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("Snapshot()[%q] = %v, want %v", k, got[k], v)
		}
	}
}
