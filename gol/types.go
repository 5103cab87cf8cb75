// Definitions of types that are shared across the controller and workers

package gol

// Message tags exchanged between the broker and its workers
const (
	TAG_CONFIGURE  = iota // Arg0: previous worker, Arg1: next worker
	TAG_DIMENSIONS        // Arg0: rows, Arg1: columns
	TAG_BLOCK             // Cells: row-block contents
	TAG_RESUME            // Arg0: required generation
	TAG_REPORT            // Ask for the local generation count
	TAG_SETTLE            // Arg0: settled required generation
	TAG_TERMINATE
	TAG_DONE // Arg0: local generation count
	TAG_ROW  // Cells: boundary row
)

var tagNames = [...]string{"configure", "dimensions", "block", "resume", "report", "settle",
	"terminate", "done", "row"}

func tagName(tag byte) string {
	if int(tag) < len(tagNames) {
		return tagNames[tag]
	}
	return "unknown"
}

type Message struct {
	Tag   byte
	Arg0  uint64
	Arg1  uint64
	Cells []bool
}

// Endpoint is one side of an ordered, reliable, blocking link
type Endpoint struct {
	In  <-chan Message
	Out chan<- Message
}

// Ports of a single worker
type Ports struct {
	Control Endpoint // From controller (In) and replies to controller (Out)
	Prev    Endpoint // Ring edge shared with the previous worker
	Next    Endpoint // Ring edge shared with the next worker
}

// Snapshot is a consistent copy of the whole field at one generation
type Snapshot struct {
	Turn  uint64
	Field Matrix
}

// Engine is implemented by both coordination styles
type Engine interface {
	// Request more generations without waiting for them
	Run(iterations uint64) error
	// Freeze every worker at one common generation
	Stop() error
	// Snapshot of the field, or ready == false if generations are outstanding
	Status() (snapshot Snapshot, ready bool, err error)
	// Tear down all workers
	Quit() error
	// Target generation requested so far
	Required() uint64
}
