package gol

import (
	"log"
	"sync"
)

// Distributor evolves a field shared by all worker goroutines.
// Workers own disjoint row ranges of a pair of ping-pong matrices and meet at a barrier
// once per generation; the last one to arrive commits the generation.
type Distributor struct {
	fields    [2]Matrix // fields[done%2] is current
	partition Partition
	barrier   *Barrier

	mutex       sync.Mutex // Protects everything below
	can_iterate *sync.Cond // Signalled on Run, Quit and every committed generation
	required    uint64
	done        uint64
	quit        bool // Quit requested
	finished    bool // Quit observed by the last worker of a round, nothing more will be committed

	group sync.WaitGroup
}

type WorkerParams struct {
	start int // First row
	end   int // Last row (not inclusive)
}

func NewDistributor(p Params, matrix Matrix) *Distributor {

	next_matrix, _ := MakeMatrix(matrix.Height(), matrix.Width())
	partition := divideToBlocks(matrix.Height(), p.Threads)
	distributor := &Distributor{
		fields:    [2]Matrix{matrix.Clone(), next_matrix},
		partition: partition,
		barrier:   NewBarrier(len(partition)),
	}
	distributor.can_iterate = sync.NewCond(&distributor.mutex)

	log.Printf("Init: %dx%d-%d (%d threads sharing the field)", matrix.Width(), matrix.Height(),
		p.Threads, len(partition))

	// Create goroutines
	for _, block := range partition {
		distributor.group.Add(1)
		go distributor.worker(WorkerParams{start: block.Start, end: block.End})
	}
	return distributor
}

func (distributor *Distributor) worker(wp WorkerParams) {

	defer distributor.group.Done()
	local_done := uint64(0)

	for {
		// Candidate generation, committed only if it was requested
		matrix := distributor.fields[local_done%2]
		next_matrix := distributor.fields[(local_done+1)%2]
		matrix.stepRange(next_matrix, wp.start, wp.end)

		if distributor.barrier.Arrive() {
			// Last to arrive: wait for permission, then commit for everyone
			distributor.mutex.Lock()
			for distributor.required <= distributor.done && !distributor.quit {
				distributor.can_iterate.Wait()
			}
			if distributor.quit {
				distributor.finished = true
			} else {
				distributor.done++
			}
			distributor.can_iterate.Broadcast()
			finished := distributor.finished
			distributor.mutex.Unlock()
			if finished {
				return
			}
		} else {
			// Wait until the last worker commits this generation or gives up
			distributor.mutex.Lock()
			for distributor.done <= local_done && !distributor.finished {
				distributor.can_iterate.Wait()
			}
			finished := distributor.finished
			distributor.mutex.Unlock()
			if finished {
				return
			}
		}
		local_done++
	}
}

func (distributor *Distributor) Run(iterations uint64) error {
	distributor.mutex.Lock()
	distributor.required += iterations
	distributor.can_iterate.Broadcast()
	distributor.mutex.Unlock()
	return nil
}

func (distributor *Distributor) Required() uint64 {
	distributor.mutex.Lock()
	defer distributor.mutex.Unlock()
	return distributor.required
}

// Stop caps the target at the last committed generation
func (distributor *Distributor) Stop() error {
	distributor.mutex.Lock()
	distributor.required = distributor.done
	settled := distributor.done
	distributor.mutex.Unlock()
	log.Printf("Stop: settled at generation %d", settled)
	return nil
}

func (distributor *Distributor) Status() (Snapshot, bool, error) {
	distributor.mutex.Lock()
	defer distributor.mutex.Unlock()
	if distributor.required != distributor.done {
		return Snapshot{}, false, nil
	}
	// Workers only write the other matrix while done is held
	return Snapshot{
		Turn:  distributor.done,
		Field: distributor.fields[distributor.done%2].Clone(),
	}, true, nil
}

func (distributor *Distributor) Quit() error {
	distributor.mutex.Lock()
	distributor.quit = true
	distributor.can_iterate.Broadcast()
	distributor.mutex.Unlock()
	distributor.group.Wait()
	log.Printf("Quit: %d threads terminated at generation %d", len(distributor.partition), distributor.done)
	return nil
}
