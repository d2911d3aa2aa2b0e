package scalarfield

import "testing"

func TestIndexOrderNaturalZYX(t *testing.T) {
	f := New(2, 3, 4)
	f.Set(1, 2, 3, 42)
	want := 1*3*4 + 2*4 + 3
	if got := f.data[want]; got != 42 {
		t.Fatalf("expected natural z,y,x index %d to hold 42, got %v", want, got)
	}
}

func TestInBounds(t *testing.T) {
	f := New(2, 2, 2)
	if !f.InBounds(0, 0, 0) || !f.InBounds(1, 1, 1) {
		t.Fatal("corners should be in bounds")
	}
	if f.InBounds(2, 0, 0) || f.InBounds(-1, 0, 0) {
		t.Fatal("out-of-range coordinates should not be in bounds")
	}
}

func TestTryAtOutOfBounds(t *testing.T) {
	f := New(2, 2, 2)
	if _, ok := f.TryAt(5, 0, 0); ok {
		t.Fatal("expected TryAt to report out of bounds")
	}
	if v, ok := f.TryAt(0, 0, 0); !ok || v != 0 {
		t.Fatalf("expected in-bounds zero read, got %v, %v", v, ok)
	}
}

func TestNewFromDataLengthMismatch(t *testing.T) {
	_, err := NewFromData(2, 2, 2, make([]float32, 3))
	if err == nil {
		t.Fatal("expected error for mismatched data length")
	}
}
