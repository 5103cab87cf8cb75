package gol

const (
	EDGE_PREV = iota
	EDGE_NEXT
)

// One blocking operation of the per-generation boundary exchange
type exchangeStep struct {
	edge int
	send bool
}

// Order of the four exchange operations for the worker at position in the ring.
//
// Edge i joins worker i (upper side, sends its last row down) and worker i+1 (lower side,
// sends its first row up). On edge i the upper side sends first when i is even, otherwise
// the lower side sends first. Even workers serve their next edge before their prev edge,
// odd workers the other way round. Every edge is then served by both ends in the same round
// with opposite directions, which rules out a cycle of blocked senders for any ring size.
// When the ring size is odd the closing edge joins two even workers; worker 0 is its lower
// side and therefore receives first there.
func exchangeSchedule(position, prev int) []exchangeStep {
	if position == prev {
		return nil // Single worker, halo rows are its own rows
	}
	upper_first := position%2 == 0 // on the next edge this worker is the upper side
	lower_first := prev%2 == 1     // on the prev edge this worker is the lower side
	next_edge := []exchangeStep{
		{edge: EDGE_NEXT, send: upper_first},
		{edge: EDGE_NEXT, send: !upper_first},
	}
	prev_edge := []exchangeStep{
		{edge: EDGE_PREV, send: lower_first},
		{edge: EDGE_PREV, send: !lower_first},
	}
	if position%2 == 0 {
		return append(next_edge, prev_edge...)
	}
	return append(prev_edge, next_edge...)
}
