package stubs

// RPC methods served by the game server
var Execute = "Controller.Execute"
var Status = "Controller.Status"

// One line of the control protocol
type ExecuteRequest struct {
	Line string
}

type ExecuteResponse struct {
	Output string // Everything the command printed
	Ended  bool   // END was processed
}

type StatusRequest struct{}

type StatusResponse struct {
	Active bool   // A game is running
	Ready  bool   // No generations outstanding, Cells is valid
	Turn   uint64 // Generations completed
	Width  int
	Height int
	Cells  []bool // Row-major field
}
