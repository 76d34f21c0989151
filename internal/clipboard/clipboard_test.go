package clipboard

import (
	"errors"
	"testing"
)

type fakeCopier struct {
	err  error
	text string
}

func (f *fakeCopier) WriteAll(text string) error {
	f.text = text
	return f.err
}

func TestBinding_CopySuccess(t *testing.T) {
	fc := &fakeCopier{}
	b := NewBinding(fc)

	var ok, failed int
	b.OnSuccess(func() { ok++ })
	b.OnError(func() { failed++ })

	if err := b.Copy(".a{}"); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if fc.text != ".a{}" {
		t.Errorf("copier got %q", fc.text)
	}
	if ok != 1 || failed != 0 {
		t.Errorf("ok=%d failed=%d", ok, failed)
	}
}

func TestBinding_CopyFailure(t *testing.T) {
	b := NewBinding(&fakeCopier{err: errors.New("denied")})

	var ok, failed int
	b.OnSuccess(func() { ok++ })
	b.OnError(func() { failed++ })

	if err := b.Copy("x"); err == nil {
		t.Fatal("expected error")
	}
	if ok != 0 || failed != 1 {
		t.Errorf("ok=%d failed=%d", ok, failed)
	}
}

func TestBinding_WriteDoesNotEmit(t *testing.T) {
	b := NewBinding(&fakeCopier{})
	fired := false
	b.OnSuccess(func() { fired = true })

	if err := b.Write("x"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if fired {
		t.Fatal("Write must not emit")
	}
	b.Emit(nil)
	if !fired {
		t.Fatal("Emit(nil) should run success handlers")
	}
}

func TestBinding_HandlersFireEveryTime(t *testing.T) {
	fc := &fakeCopier{}
	b := NewBinding(fc)
	var calls []string
	b.OnSuccess(func() { calls = append(calls, "ok") })
	b.OnError(func() { calls = append(calls, "err") })

	_ = b.Copy("a")
	fc.err = errors.New("gone")
	_ = b.Copy("b")
	fc.err = nil
	_ = b.Copy("c")

	want := []string{"ok", "err", "ok"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}
