package gol

import "sync"

// Barrier is a reusable rendezvous for a fixed number of goroutines.
// Consecutive rounds alternate between two phases, each with its own condition
// variable, so a goroutine entering the next round never consumes a wake-up
// meant for stragglers still leaving the previous one.
type Barrier struct {
	parties int
	arrived int
	phase   int
	mutex   sync.Mutex
	passed  [2]*sync.Cond
}

func NewBarrier(parties int) *Barrier {
	if parties < 1 {
		panic("barrier needs at least one party")
	}
	barrier := &Barrier{parties: parties}
	barrier.passed[0] = sync.NewCond(&barrier.mutex)
	barrier.passed[1] = sync.NewCond(&barrier.mutex)
	return barrier
}

// Arrive blocks until all parties have arrived in the current round.
// It returns true for the last goroutine to arrive only.
func (barrier *Barrier) Arrive() bool {
	barrier.mutex.Lock()
	defer barrier.mutex.Unlock()

	phase := barrier.phase
	barrier.arrived++
	if barrier.arrived == barrier.parties {
		barrier.phase = 1 - phase
		barrier.arrived = 0
		barrier.passed[phase].Broadcast()
		return true
	}
	for phase == barrier.phase {
		barrier.passed[phase].Wait()
	}
	return false
}
