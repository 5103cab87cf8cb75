package gol

import (
	"fmt"
	"sync"
	"testing"
)

// Nobody leaves round r before everyone has arrived in round r
func TestBarrierRounds(t *testing.T) {
	const parties, rounds = 8, 200

	barrier := NewBarrier(parties)
	var mutex sync.Mutex
	arrivals := make([]int, rounds)
	lasts := make([]int, rounds)
	completed := 0 // Rounds closed by their last arrival

	var group sync.WaitGroup
	failed := make(chan string, 2*parties*rounds)
	for i := 0; i != parties; i++ {
		group.Add(1)
		go func() {
			defer group.Done()
			for round := 0; round != rounds; round++ {
				mutex.Lock()
				arrivals[round]++
				mutex.Unlock()

				last := barrier.Arrive()

				mutex.Lock()
				if arrivals[round] != parties {
					failed <- fmt.Sprintf("left round %d before everyone arrived", round)
				}
				if last {
					lasts[round]++
					completed++
				}
				// Never ahead of the own generation plus one
				if completed < round || completed > round+1 {
					failed <- fmt.Sprintf("left round %d with %d rounds completed", round, completed)
				}
				mutex.Unlock()
			}
		}()
	}
	group.Wait()
	close(failed)

	for message := range failed {
		t.Fatal(message)
	}
	for round, count := range lasts {
		if count != 1 {
			t.Fatalf("round %d had %d last arrivals", round, count)
		}
	}
}

func TestBarrierSingleParty(t *testing.T) {
	barrier := NewBarrier(1)
	for i := 0; i != 3; i++ {
		if !barrier.Arrive() {
			t.Fatal("single party is always last")
		}
	}
}
