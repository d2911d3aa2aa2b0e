package direction

import "testing"

// TestEmptyTrackerReturnsOne is concrete scenario 3 (part 1): an empty
// tracker returns 1 for any query.
func TestEmptyTrackerReturnsOne(t *testing.T) {
	idx := New([3]float64{0, 0, 0}, [3]float64{32, 32, 32}, DefaultConfig())
	got := idx.ParallelScore([3]float64{5, 5, 5}, [3]float64{1, 0, 0})
	if got != 1 {
		t.Fatalf("expected empty-index score 1, got %v", got)
	}
}

// TestSingleRecordAlignment is concrete scenario 3 (part 2): after
// adding one record ((0,0,0),(1,0,0)), querying at (0,0,0) with
// (1,0,0) gives 1, with (0,1,0) gives 0.
func TestSingleRecordAlignment(t *testing.T) {
	idx := New([3]float64{0, 0, 0}, [3]float64{32, 32, 32}, DefaultConfig())
	idx.Add([3]float64{0, 0, 0}, [3]float64{1, 0, 0})

	if got := idx.ParallelScore([3]float64{0, 0, 0}, [3]float64{1, 0, 0}); got != 1 {
		t.Fatalf("expected aligned score 1, got %v", got)
	}
	if got := idx.ParallelScore([3]float64{0, 0, 0}, [3]float64{0, 1, 0}); got != 0 {
		t.Fatalf("expected orthogonal score 0, got %v", got)
	}
}

func TestCellOverflowDropsFromQueriesButKeepsInArray(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPerCell = 2
	idx := New([3]float64{0, 0, 0}, [3]float64{32, 32, 32}, cfg)

	for i := 0; i < 5; i++ {
		idx.Add([3]float64{1, 1, 1}, [3]float64{1, 0, 0})
	}
	if idx.Len() != 5 {
		t.Fatalf("expected all 5 records retained in array, got %d", idx.Len())
	}

	// Query should only ever see at most MaxPerCell contributions from
	// this single overloaded cell.
	got := idx.ParallelScore([3]float64{1, 1, 1}, [3]float64{1, 0, 0})
	if got != 1 {
		t.Fatalf("expected score 1 (all visible records aligned), got %v", got)
	}
}

func TestRecordsBeyondRMaxDoNotContribute(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RMax = 2
	idx := New([3]float64{0, 0, 0}, [3]float64{64, 64, 64}, cfg)
	idx.Add([3]float64{0, 0, 0}, [3]float64{0, 1, 0})

	got := idx.ParallelScore([3]float64{20, 20, 20}, [3]float64{1, 0, 0})
	if got != 1 {
		t.Fatalf("expected far record to be ignored, yielding default score 1, got %v", got)
	}
}
