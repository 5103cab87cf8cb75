package gol

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Broker coordinates a ring of workers that share no memory with it.
// It keeps no live rows; the field it holds is the block-wise copy collected on the last Stop.
type Broker struct {
	matrix    Matrix
	partition Partition
	transport Transport
	control   []Endpoint // Broker side of each worker's control link

	required uint64 // Authoritative target generation
	stopped  bool   // Workers are quiescent and matrix is up to date

	ctx    context.Context
	cancel context.CancelFunc
	faults chan error
	group  sync.WaitGroup
}

// NewBroker partitions the field, starts one worker per block and hands out the blocks
func NewBroker(p Params, matrix Matrix) (*Broker, error) {

	transport, err := NewTransport(p.Transport)
	if err != nil {
		return nil, err
	}
	partition := divideToBlocks(matrix.Height(), p.Threads)
	nworker := len(partition)

	log.Printf("Init: %dx%d-%d (%d workers over %s)", matrix.Width(), matrix.Height(), p.Threads,
		nworker, transportName(p.Transport))

	ctx, cancel := context.WithCancel(context.Background())
	broker := &Broker{
		matrix:    matrix.Clone(),
		partition: partition,
		transport: transport,
		control:   make([]Endpoint, nworker),
		stopped:   true,
		ctx:       ctx,
		cancel:    cancel,
		faults:    make(chan error, nworker),
	}

	// Links: one control link per worker, one edge between each worker and its next
	ports := make([]Ports, nworker)
	for i := 0; i != nworker; i++ {
		broker_side, worker_side, err := transport.Link(ctx)
		if err != nil {
			broker.abort()
			return nil, err
		}
		broker.control[i] = broker_side
		ports[i].Control = worker_side
	}
	if nworker > 1 {
		for i := 0; i != nworker; i++ {
			_, next := partition.neighbours(i)
			upper, lower, err := transport.Link(ctx)
			if err != nil {
				broker.abort()
				return nil, err
			}
			ports[i].Next = upper
			ports[next].Prev = lower
		}
	}

	// Create worker goroutines
	for i := 0; i != nworker; i++ {
		worker := NewWorker(i, nworker, ports[i])
		broker.group.Add(1)
		go func() {
			defer broker.group.Done()
			if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
				log.Printf("Worker %d failed: %v", worker.id, err)
				broker.faults <- err
			}
		}()
	}

	// Dispatch neighbours, dimensions and rows
	for i, block := range partition {
		prev, next := partition.neighbours(i)
		rows := make([]bool, block.Rows()*matrix.Width())
		copy(rows, matrix.Rows(block.Start, block.End))
		setup := []Message{
			{Tag: TAG_CONFIGURE, Arg0: uint64(prev), Arg1: uint64(next)},
			{Tag: TAG_DIMENSIONS, Arg0: uint64(block.Rows()), Arg1: uint64(matrix.Width())},
			{Tag: TAG_BLOCK, Cells: rows},
		}
		for _, message := range setup {
			if err := broker.send(i, message); err != nil {
				broker.abort()
				return nil, err
			}
		}
	}

	// Make sure every worker is ready
	for i := range partition {
		if _, err := broker.receive(i, TAG_DONE); err != nil {
			broker.abort()
			return nil, err
		}
	}

	return broker, nil
}

func (broker *Broker) Run(iterations uint64) error {
	broker.required += iterations
	if err := broker.notifyAll(Message{Tag: TAG_RESUME, Arg0: broker.required}); err != nil {
		return broker.fail(err)
	}
	if iterations != 0 {
		broker.stopped = false
	}
	return nil
}

func (broker *Broker) Required() uint64 { return broker.required }

// Stop settles every worker on the furthest generation any of them reached
// and collects the blocks at that generation
func (broker *Broker) Stop() error {

	if err := broker.notifyAll(Message{Tag: TAG_REPORT}); err != nil {
		return broker.fail(err)
	}

	// Furthest generation reached
	settled := uint64(0)
	for i := range broker.partition {
		message, err := broker.receive(i, TAG_DONE)
		if err != nil {
			return broker.fail(err)
		}
		if message.Arg0 > settled {
			settled = message.Arg0
		}
	}
	broker.required = settled
	if err := broker.notifyAll(Message{Tag: TAG_SETTLE, Arg0: settled}); err != nil {
		return broker.fail(err)
	}

	// Collect blocks
	for i, block := range broker.partition {
		message, err := broker.receive(i, TAG_BLOCK)
		if err != nil {
			return broker.fail(err)
		}
		if len(message.Cells) != block.Rows()*broker.matrix.Width() {
			return broker.fail(&PartitionError{i, fmt.Sprintf("returned %d cells for %d rows",
				len(message.Cells), block.Rows())})
		}
		copy(broker.matrix.Rows(block.Start, block.End), message.Cells)
	}

	broker.stopped = true
	log.Printf("Stop: settled at generation %d", settled)
	return nil
}

// Status reconciles the workers if they may still be running.
// Generations requested but not reached yet are requested again and the
// status is reported as not ready.
func (broker *Broker) Status() (Snapshot, bool, error) {
	if !broker.stopped {
		required_backup := broker.required
		if err := broker.Stop(); err != nil {
			return Snapshot{}, false, err
		}
		if broker.required != required_backup {
			if err := broker.Run(required_backup - broker.required); err != nil {
				return Snapshot{}, false, err
			}
			return Snapshot{}, false, nil
		}
	}
	return Snapshot{Turn: broker.required, Field: broker.matrix.Clone()}, true, nil
}

// Quit freezes the workers and terminates them between generations
func (broker *Broker) Quit() error {
	if err := broker.Stop(); err != nil {
		return err
	}
	if err := broker.notifyAll(Message{Tag: TAG_TERMINATE}); err != nil {
		return broker.fail(err)
	}
	broker.group.Wait()
	broker.cancel()
	log.Printf("Quit: %d workers terminated at generation %d", len(broker.partition), broker.required)
	return broker.transport.Close()
}

func (broker *Broker) notifyAll(message Message) error {
	for i := range broker.partition {
		if err := broker.send(i, message); err != nil {
			return err
		}
	}
	return nil
}

func (broker *Broker) send(i int, message Message) error {
	select {
	case broker.control[i].Out <- message:
		return nil
	case err := <-broker.faults:
		return err
	case <-broker.ctx.Done():
		return broker.ctx.Err()
	}
}

func (broker *Broker) receive(i int, tag byte) (Message, error) {
	select {
	case message, ok := <-broker.control[i].In:
		if !ok {
			return message, ErrLinkClosed
		}
		if message.Tag != tag {
			return message, fmt.Errorf("%w: %s from worker %d, expected %s", ErrProtocol,
				tagName(message.Tag), i, tagName(tag))
		}
		return message, nil
	case err := <-broker.faults:
		return Message{}, err
	case <-broker.ctx.Done():
		return Message{}, broker.ctx.Err()
	}
}

// Tear everything down after a failure and pass the failure on
func (broker *Broker) fail(err error) error {
	broker.abort()
	return err
}

func (broker *Broker) abort() {
	broker.cancel()
	broker.group.Wait()
	broker.transport.Close()
}

func transportName(name string) string {
	if name == "" {
		return TRANSPORT_CHAN
	}
	return name
}
