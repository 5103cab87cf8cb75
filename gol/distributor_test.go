package gol

import (
	"fmt"
	"testing"
	"time"
)

func TestDistributorMatchesReference(t *testing.T) {
	matrix := seededMatrix(t, 11, 15, 13)
	want := referenceRun(matrix, 12)

	for threads := 1; threads <= 16; threads++ {
		t.Run(fmt.Sprintf("threads-%d", threads), func(t *testing.T) {
			engine := NewDistributor(Params{Threads: threads}, matrix)
			engine.Run(12)
			snapshot := settle(t, engine)
			if snapshot.Turn != 12 {
				t.Errorf("turn = %d, want 12", snapshot.Turn)
			}
			if !snapshot.Field.Equal(want) {
				t.Error("field differs from reference")
			}
			engine.Quit()
		})
	}
}

func TestDistributorStopThenRun(t *testing.T) {
	for _, threads := range []int{1, 2, 7} {
		t.Run(fmt.Sprintf("threads-%d", threads), func(t *testing.T) {
			testStopThenRun(t, Params{Threads: threads, Mode: MODE_SHARED})
		})
	}
}

func TestDistributorMonotonic(t *testing.T) {
	testMonotonic(t, Params{Threads: 6, Mode: MODE_SHARED})
}

// The field handed out is a copy, later generations do not change it
func TestDistributorSnapshotIsCopy(t *testing.T) {
	matrix := seededMatrix(t, 4, 10, 10)
	engine := NewDistributor(Params{Threads: 3}, matrix)
	defer engine.Quit()

	engine.Run(2)
	snapshot := settle(t, engine)
	kept := snapshot.Field.Clone()
	engine.Run(6)
	settle(t, engine)
	if !snapshot.Field.Equal(kept) {
		t.Fatal("snapshot changed after further generations")
	}
}

func TestDistributorQuitWhileRunning(t *testing.T) {
	engine := NewDistributor(Params{Threads: 4}, seededMatrix(t, 8, 40, 40))
	engine.Run(1 << 40)
	time.Sleep(2 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		engine.Quit()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("quit did not return")
	}
}
