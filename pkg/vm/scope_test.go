package vm

import (
	"strings"
	"testing"

	"github.com/zurustar/funk/pkg/funkerr"
)

// TestNewScope tests the Scope constructor.
func TestNewScope(t *testing.T) {
	t.Run("starts at the global frame", func(t *testing.T) {
		scope := NewScope(0)
		if scope.Depth() != 0 {
			t.Errorf("expected depth 0, got %d", scope.Depth())
		}
		if scope.maxDepth != MaxScopeDepth {
			t.Errorf("expected default max depth %d, got %d", MaxScopeDepth, scope.maxDepth)
		}
	})

	t.Run("reserves built-in names", func(t *testing.T) {
		scope := NewScope(10, "print", "read")
		if !scope.IsBuiltin("print") || !scope.IsBuiltin("read") {
			t.Error("expected print and read to be reserved")
		}
		if scope.IsBuiltin("x") {
			t.Error("expected x not to be reserved")
		}
	})
}

// TestScopeAddGet tests Add and Get.
func TestScopeAddGet(t *testing.T) {
	t.Run("adds and gets a name", func(t *testing.T) {
		scope := NewScope(0)
		if err := scope.Add("x", 7); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		h, ok := scope.Get("x")
		if !ok || h != 7 {
			t.Errorf("Get(x) = %d, %v; want 7, true", h, ok)
		}
	})

	t.Run("returns false for unknown name", func(t *testing.T) {
		scope := NewScope(0)
		if _, ok := scope.Get("missing"); ok {
			t.Error("expected missing name not to be found")
		}
		if scope.Contains("missing") {
			t.Error("Contains(missing) = true")
		}
	})

	t.Run("rejects redeclaration in the same frame", func(t *testing.T) {
		scope := NewScope(0)
		_ = scope.Add("x", 1)
		err := scope.Add("x", 2)
		if funkerr.KindOf(err) != funkerr.Runtime {
			t.Fatalf("expected Runtime error, got %v", err)
		}
		if h, _ := scope.Get("x"); h != 1 {
			t.Errorf("binding changed to %d", h)
		}
	})

	t.Run("allows shadowing in an inner frame", func(t *testing.T) {
		scope := NewScope(0)
		_ = scope.Add("x", 1)
		if err := scope.Push(); err != nil {
			t.Fatal(err)
		}
		if err := scope.Add("x", 2); err != nil {
			t.Fatalf("shadowing failed: %v", err)
		}
		if h, _ := scope.Get("x"); h != 2 {
			t.Errorf("inner Get(x) = %d, want 2", h)
		}
		if _, err := scope.Pop(); err != nil {
			t.Fatal(err)
		}
		if h, _ := scope.Get("x"); h != 1 {
			t.Errorf("outer Get(x) = %d, want 1", h)
		}
	})

	t.Run("rejects built-in names", func(t *testing.T) {
		scope := NewScope(0, "print")
		err := scope.Add("print", 1)
		if err == nil || !strings.Contains(err.Error(), "Cannot overwrite built-in function: print") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// TestScopeContainsInCurrentScope checks that only the innermost frame counts.
func TestScopeContainsInCurrentScope(t *testing.T) {
	scope := NewScope(0)
	_ = scope.Add("outer", 1)
	_ = scope.Push()
	_ = scope.Add("inner", 2)

	if scope.ContainsInCurrentScope("outer") {
		t.Error("outer should not be in the current frame")
	}
	if !scope.ContainsInCurrentScope("inner") {
		t.Error("inner should be in the current frame")
	}
	if !scope.Contains("outer") {
		t.Error("outer should be visible")
	}
}

// TestScopePushPop tests the depth guard and frame handles.
func TestScopePushPop(t *testing.T) {
	t.Run("pop returns the frame's handles", func(t *testing.T) {
		scope := NewScope(0)
		_ = scope.Push()
		_ = scope.Add("a", 3)
		_ = scope.Add("b", 4)

		handles, err := scope.Pop()
		if err != nil {
			t.Fatal(err)
		}
		if len(handles) != 2 {
			t.Errorf("expected 2 handles, got %v", handles)
		}
		if scope.Contains("a") {
			t.Error("a should be gone after pop")
		}
	})

	t.Run("underflow at the global frame", func(t *testing.T) {
		scope := NewScope(0)
		_, err := scope.Pop()
		if err == nil || !strings.Contains(err.Error(), "Scope stack underflow") {
			t.Errorf("unexpected error: %v", err)
		}
		if scope.Depth() != 0 {
			t.Errorf("depth = %d after failed pop", scope.Depth())
		}
	})

	t.Run("overflow past the maximum depth", func(t *testing.T) {
		scope := NewScope(3)
		for i := 0; i < 3; i++ {
			if err := scope.Push(); err != nil {
				t.Fatalf("push %d: %v", i, err)
			}
		}
		err := scope.Push()
		if err == nil || !strings.Contains(err.Error(), "Scope stack overflow, max depth is 3") {
			t.Errorf("unexpected error: %v", err)
		}
		if scope.Depth() != 3 {
			t.Errorf("depth = %d, want 3", scope.Depth())
		}
	})
}
