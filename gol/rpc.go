package gol

import (
	"errors"
	"net"
	"net/http"
	"net/rpc"
	"strings"
	"sync"

	"github.com/konarkcher/GameOfLife/stubs"
)

// Controller exposes a session over net/rpc.
// Calls are serialised, so the session still sees a single control thread.
type Controller struct {
	mutex   sync.Mutex
	session *Session
}

func NewController(session *Session) *Controller {
	return &Controller{session: session}
}

// Execute runs one line of the control protocol
func (controller *Controller) Execute(req stubs.ExecuteRequest, res *stubs.ExecuteResponse) error {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()

	var output strings.Builder
	res.Ended = controller.session.Execute(req.Line, &output)
	res.Output = output.String()
	return nil
}

// Status reports the field if no generations are outstanding
func (controller *Controller) Status(req stubs.StatusRequest, res *stubs.StatusResponse) error {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()

	snapshot, ready, err := controller.session.Status()
	if errors.Is(err, ErrNoActiveGame) {
		return nil
	}
	if err != nil {
		return err
	}
	res.Active = true
	res.Ready = ready
	if ready {
		res.Turn = snapshot.Turn
		res.Width = snapshot.Field.Width()
		res.Height = snapshot.Field.Height()
		res.Cells = snapshot.Field.cells
	}
	return nil
}

// ServeController answers RPC calls (HTTP CONNECT, as rpc.DialHTTP expects) until the listener closes
func ServeController(listener net.Listener, controller *Controller) error {
	server := rpc.NewServer()
	if err := server.RegisterName("Controller", controller); err != nil {
		return err
	}
	return http.Serve(listener, server)
}

// SnapshotFromStatus rebuilds the field carried by a status response
func SnapshotFromStatus(res stubs.StatusResponse) (Snapshot, error) {
	matrix, err := MakeMatrixFromData(res.Height, res.Width, res.Cells)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Turn: res.Turn, Field: matrix}, nil
}
