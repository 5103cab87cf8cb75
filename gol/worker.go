package gol

import (
	"context"
	"fmt"
	"log"
)

// Worker evolves one row-block of the field.
// It shares no memory with the broker or other workers; everything it learns
// arrives as a message on one of its ports.
type Worker struct {
	id    int
	ring  int // Number of workers in the ring
	ports Ports

	prev, next  int
	rows, cols  int
	block       []bool // rows*cols cells, current generation
	next_block  []bool // Write to this block
	top_halo    []bool // Last row of the previous worker
	bottom_halo []bool // First row of the next worker

	required uint64 // Local target generation
	done     uint64 // Generations completed

	schedule []exchangeStep
	stage    int // Exchange operations completed for the generation in progress

	snapshot_pending bool // Send block to broker once done reaches required
	terminated       bool
}

func NewWorker(id, ring int, ports Ports) *Worker {
	return &Worker{id: id, ring: ring, ports: ports}
}

// Run receives the setup messages and then serves commands until terminated
func (worker *Worker) Run(ctx context.Context) error {

	if err := worker.configure(ctx); err != nil {
		return err
	}

	for !worker.terminated {
		if worker.done < worker.required {
			// Serve a pending command between generations
			select {
			case message, ok := <-worker.ports.Control.In:
				if !ok {
					return ErrLinkClosed
				}
				if err := worker.handle(ctx, message); err != nil {
					return err
				}
				continue
			default:
			}
			if err := worker.generation(ctx); err != nil {
				return err
			}
			continue
		}
		// Nothing to compute, wait for the next command
		message, err := worker.receive(ctx, worker.ports.Control.In)
		if err != nil {
			return err
		}
		if err := worker.handle(ctx, message); err != nil {
			return err
		}
	}

	log.Printf("Worker %d terminated at generation %d", worker.id, worker.done)
	return nil
}

func (worker *Worker) configure(ctx context.Context) error {

	// Neighbour identities
	message, err := worker.expect(ctx, TAG_CONFIGURE)
	if err != nil {
		return err
	}
	if worker.ring < 1 || worker.id < 0 || worker.id >= worker.ring {
		return &PartitionError{worker.id, fmt.Sprintf("worker outside ring of %d", worker.ring)}
	}
	worker.prev, worker.next = int(message.Arg0), int(message.Arg1)
	if message.Arg0 >= uint64(worker.ring) || message.Arg1 >= uint64(worker.ring) {
		return &PartitionError{worker.id, fmt.Sprintf("neighbours %d/%d outside ring of %d",
			message.Arg0, message.Arg1, worker.ring)}
	}
	if worker.prev != (worker.id-1+worker.ring)%worker.ring || worker.next != (worker.id+1)%worker.ring {
		return &PartitionError{worker.id, fmt.Sprintf("neighbours %d/%d are not adjacent",
			worker.prev, worker.next)}
	}

	// Block dimensions
	message, err = worker.expect(ctx, TAG_DIMENSIONS)
	if err != nil {
		return err
	}
	if message.Arg0 == 0 || message.Arg1 == 0 {
		return &PartitionError{worker.id, fmt.Sprintf("empty block %dx%d", message.Arg0, message.Arg1)}
	}
	worker.rows, worker.cols = int(message.Arg0), int(message.Arg1)

	// Initial contents
	message, err = worker.expect(ctx, TAG_BLOCK)
	if err != nil {
		return err
	}
	if len(message.Cells) != worker.rows*worker.cols {
		return &PartitionError{worker.id, fmt.Sprintf("block of %d cells, expected %d",
			len(message.Cells), worker.rows*worker.cols)}
	}
	worker.block = message.Cells
	worker.next_block = make([]bool, len(worker.block))
	worker.top_halo = make([]bool, worker.cols)
	worker.bottom_halo = make([]bool, worker.cols)
	worker.schedule = exchangeSchedule(worker.id, worker.prev)

	// Notify broker that this worker is ready
	return worker.reply(ctx, Message{Tag: TAG_DONE})
}

// Advance by one generation
// Returns early, keeping the exchange stage, if a command leaves nothing to compute.
func (worker *Worker) generation(ctx context.Context) error {

	// Boundary exchange
	for worker.stage != len(worker.schedule) {
		completed, err := worker.exchange(ctx, worker.schedule[worker.stage])
		if err != nil {
			return err
		}
		if !completed {
			return nil
		}
		worker.stage++
	}
	if len(worker.schedule) == 0 {
		// Alone in the ring: wrap onto own rows
		copy(worker.top_halo, worker.lastRow())
		copy(worker.bottom_halo, worker.firstRow())
	}

	// Compute and swap
	stepBlock(worker.top_halo, worker.block, worker.bottom_halo, worker.next_block, worker.rows, worker.cols)
	worker.block, worker.next_block = worker.next_block, worker.block
	worker.done++
	worker.stage = 0

	if worker.snapshot_pending && worker.done == worker.required {
		return worker.sendBlock(ctx)
	}
	return nil
}

// Perform one exchange operation, serving commands while blocked on the neighbour
// Returns false if a command left nothing to compute.
func (worker *Worker) exchange(ctx context.Context, step exchangeStep) (bool, error) {

	endpoint := worker.ports.Prev
	row := worker.firstRow()
	halo := worker.top_halo
	if step.edge == EDGE_NEXT {
		endpoint = worker.ports.Next
		row = worker.lastRow()
		halo = worker.bottom_halo
	}

	for {
		var command Message
		if step.send {
			copied := make([]bool, len(row))
			copy(copied, row)
			select {
			case endpoint.Out <- Message{Tag: TAG_ROW, Cells: copied}:
				return true, nil
			case message, ok := <-worker.ports.Control.In:
				if !ok {
					return false, ErrLinkClosed
				}
				command = message
			case <-ctx.Done():
				return false, ctx.Err()
			}
		} else {
			select {
			case message, ok := <-endpoint.In:
				if !ok {
					return false, ErrLinkClosed
				}
				if message.Tag != TAG_ROW || len(message.Cells) != worker.cols {
					return false, &PartitionError{worker.id, fmt.Sprintf("bad boundary row: %s of %d cells",
						tagName(message.Tag), len(message.Cells))}
				}
				copy(halo, message.Cells)
				return true, nil
			case message, ok := <-worker.ports.Control.In:
				if !ok {
					return false, ErrLinkClosed
				}
				command = message
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}

		if err := worker.handle(ctx, command); err != nil {
			return false, err
		}
		if worker.terminated || worker.done >= worker.required {
			return false, nil
		}
	}
}

func (worker *Worker) handle(ctx context.Context, message Message) error {
	switch message.Tag {
	case TAG_RESUME:
		if message.Arg0 < worker.done {
			return fmt.Errorf("%w: resume to %d behind generation %d", ErrProtocol, message.Arg0, worker.done)
		}
		worker.required = message.Arg0
	case TAG_REPORT:
		// Report local progress and wait for the generation everyone settles on
		if err := worker.reply(ctx, Message{Tag: TAG_DONE, Arg0: worker.done}); err != nil {
			return err
		}
		settle, err := worker.expect(ctx, TAG_SETTLE)
		if err != nil {
			return err
		}
		if settle.Arg0 < worker.done {
			return fmt.Errorf("%w: settled at %d behind generation %d", ErrProtocol, settle.Arg0, worker.done)
		}
		worker.required = settle.Arg0
		worker.snapshot_pending = true
		if worker.done == worker.required {
			return worker.sendBlock(ctx)
		}
	case TAG_TERMINATE:
		worker.terminated = true
	default:
		return fmt.Errorf("%w: %s on worker %d", ErrProtocol, tagName(message.Tag), worker.id)
	}
	return nil
}

func (worker *Worker) sendBlock(ctx context.Context) error {
	worker.snapshot_pending = false
	copied := make([]bool, len(worker.block))
	copy(copied, worker.block)
	return worker.reply(ctx, Message{Tag: TAG_BLOCK, Cells: copied})
}

func (worker *Worker) firstRow() []bool { return worker.block[:worker.cols] }

func (worker *Worker) lastRow() []bool { return worker.block[(worker.rows-1)*worker.cols:] }

func (worker *Worker) receive(ctx context.Context, in <-chan Message) (Message, error) {
	select {
	case message, ok := <-in:
		if !ok {
			return message, ErrLinkClosed
		}
		return message, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (worker *Worker) expect(ctx context.Context, tag byte) (Message, error) {
	message, err := worker.receive(ctx, worker.ports.Control.In)
	if err != nil {
		return message, err
	}
	if message.Tag != tag {
		return message, fmt.Errorf("%w: %s on worker %d, expected %s", ErrProtocol,
			tagName(message.Tag), worker.id, tagName(tag))
	}
	return message, nil
}

func (worker *Worker) reply(ctx context.Context, message Message) error {
	select {
	case worker.ports.Control.Out <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
