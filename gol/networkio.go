package gol

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
)

// Transport names accepted by NewTransport
const (
	TRANSPORT_CHAN = "chan"
	TRANSPORT_PIPE = "pipe"
	TRANSPORT_TCP  = "tcp"
)

// Transport creates the point-to-point links of one simulation
type Transport interface {
	// Link returns both ends of a new link
	Link(ctx context.Context) (a, b Endpoint, err error)
	// Close releases every link created so far
	Close() error
}

func NewTransport(name string) (Transport, error) {
	switch name {
	case TRANSPORT_CHAN, "":
		return chanTransport{}, nil
	case TRANSPORT_PIPE:
		return &connTransport{}, nil
	case TRANSPORT_TCP:
		listener, err := net.ListenTCP("tcp", &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)})
		if err != nil {
			return nil, err
		}
		return &connTransport{listener: listener}, nil
	}
	return nil, fmt.Errorf("%w: transport %q", ErrInvalidArguments, name)
}

// Unbuffered channels: a send completes only when the peer receives it
type chanTransport struct{}

func (chanTransport) Link(context.Context) (Endpoint, Endpoint, error) {
	forward := make(chan Message)
	backward := make(chan Message)
	return Endpoint{In: backward, Out: forward}, Endpoint{In: forward, Out: backward}, nil
}

func (chanTransport) Close() error { return nil }

// Links carried by connections (net.Pipe, or loopback TCP when listener is set)
type connTransport struct {
	listener *net.TCPListener
	mutex    sync.Mutex
	conns    []net.Conn
}

func (transport *connTransport) pair() (net.Conn, net.Conn, error) {
	if transport.listener == nil {
		a, b := net.Pipe()
		return a, b, nil
	}
	// Handshake completes in the backlog, so dialing before accepting does not block
	addr := transport.listener.Addr().(*net.TCPAddr)
	dialed, err := net.DialTCP("tcp", nil, addr)
	if err != nil {
		return nil, nil, err
	}
	accepted, err := transport.listener.AcceptTCP()
	if err != nil {
		dialed.Close()
		return nil, nil, err
	}
	dialed.SetNoDelay(true)
	accepted.SetNoDelay(true)
	return dialed, accepted, nil
}

func (transport *connTransport) Link(ctx context.Context) (Endpoint, Endpoint, error) {
	a, b, err := transport.pair()
	if err != nil {
		return Endpoint{}, Endpoint{}, err
	}
	transport.mutex.Lock()
	transport.conns = append(transport.conns, a, b)
	transport.mutex.Unlock()
	return bridge(ctx, a), bridge(ctx, b), nil
}

func (transport *connTransport) Close() error {
	transport.mutex.Lock()
	defer transport.mutex.Unlock()
	var first error
	for _, conn := range transport.conns {
		if err := conn.Close(); err != nil && first == nil {
			first = err
		}
	}
	transport.conns = nil
	if transport.listener != nil {
		if err := transport.listener.Close(); err != nil && first == nil {
			first = err
		}
		transport.listener = nil
	}
	return first
}

// Bridge a connection to a pair of channels
// A reader goroutine decodes frames into In and a writer goroutine encodes Out,
// so both ends can be used in select statements.
func bridge(ctx context.Context, conn net.Conn) Endpoint {
	in := make(chan Message)
	out := make(chan Message)

	// Repeatedly read data from connection until closed
	go func() {
		defer close(in)
		reader := bufio.NewReader(conn)
		for {
			message, err := readMessage(reader)
			if err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) &&
					!errors.Is(err, io.ErrClosedPipe) && ctx.Err() == nil {
					log.Printf("Connection %s closed: %v", conn.LocalAddr(), err)
				}
				return
			}
			select {
			case in <- message:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Write every message in order
	go func() {
		writer := bufio.NewWriter(conn)
		for {
			select {
			case message := <-out:
				err := writeMessage(writer, message)
				if err == nil {
					err = writer.Flush()
				}
				if err != nil {
					if ctx.Err() == nil {
						log.Printf("Write to %s failed: %v", conn.LocalAddr(), err)
					}
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return Endpoint{In: in, Out: out}
}

// Frame: tag, uvarint arg0, uvarint arg1, uvarint cell count, packed cells
func writeMessage(writer *bufio.Writer, message Message) error {
	var header [1 + 3*binary.MaxVarintLen64]byte
	header[0] = message.Tag
	n := 1
	n += binary.PutUvarint(header[n:], message.Arg0)
	n += binary.PutUvarint(header[n:], message.Arg1)
	n += binary.PutUvarint(header[n:], uint64(len(message.Cells)))
	if _, err := writer.Write(header[:n]); err != nil {
		return err
	}
	if len(message.Cells) == 0 {
		return nil
	}
	packed := make([]byte, compressedSize(len(message.Cells)))
	compressCellsTo(message.Cells, packed)
	_, err := writer.Write(packed)
	return err
}

func readMessage(reader *bufio.Reader) (Message, error) {
	var message Message
	tag, err := reader.ReadByte()
	if err != nil {
		return message, err
	}
	message.Tag = tag
	if message.Arg0, err = binary.ReadUvarint(reader); err != nil {
		return message, unexpected(err)
	}
	if message.Arg1, err = binary.ReadUvarint(reader); err != nil {
		return message, unexpected(err)
	}
	count, err := binary.ReadUvarint(reader)
	if err != nil {
		return message, unexpected(err)
	}
	if count == 0 {
		return message, nil
	}
	packed := make([]byte, compressedSize(int(count)))
	if _, err = io.ReadFull(reader, packed); err != nil {
		return message, unexpected(err)
	}
	message.Cells = decompressCells(packed, int(count))
	return message, nil
}

// EOF inside a frame is a truncated frame
func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
