package heap

import (
	"errors"
	"math/rand"
	"testing"
)

func TestPopEmptyReturnsErrEmpty(t *testing.T) {
	h := New(0)
	_, err := h.Pop()
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

// TestTwoSeedOrder is concrete scenario 2 from the testable-properties
// section: push (d=1,k=1) then (d=0,k=2) at the same voxel; first pop
// must be k=2, and a second pop targeting the same voxel is the caller's
// responsibility to discard (SNIC checks label-already-assigned, not the
// heap itself).
func TestTwoSeedOrder(t *testing.T) {
	h := New(4)
	h.Push(Node{D: 1, K: 1, Z: 0, Y: 0, X: 0})
	h.Push(Node{D: 0, K: 2, Z: 0, Y: 0, X: 0})

	first, err := h.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if first.K != 2 || first.D != 0 {
		t.Fatalf("expected first pop to be k=2,d=0, got %+v", first)
	}

	second, err := h.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if second.K != 1 {
		t.Fatalf("expected second pop to be k=1, got %+v", second)
	}
}

func TestAscendingOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	h := New(100)
	const n = 200
	for i := 0; i < n; i++ {
		h.Push(Node{D: rng.Float64() * 1000, K: uint32(i)})
	}
	var last float64 = -1
	for h.Len() > 0 {
		node, err := h.Pop()
		if err != nil {
			t.Fatal(err)
		}
		if node.D < last {
			t.Fatalf("heap popped out of order: %v after %v", node.D, last)
		}
		last = node.D
	}
}
