package gol

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"
)

func sameMessage(a, b Message) bool {
	if a.Tag != b.Tag || a.Arg0 != b.Arg0 || a.Arg1 != b.Arg1 || len(a.Cells) != len(b.Cells) {
		return false
	}
	for i := range a.Cells {
		if a.Cells[i] != b.Cells[i] {
			return false
		}
	}
	return true
}

func TestFrameEncoding(t *testing.T) {
	cells := make([]bool, 77)
	for i := range cells {
		cells[i] = i%3 == 0
	}
	messages := []Message{
		{Tag: TAG_CONFIGURE, Arg0: 5, Arg1: 1},
		{Tag: TAG_RESUME, Arg0: 1 << 50},
		{Tag: TAG_ROW, Cells: cells},
		{Tag: TAG_BLOCK, Cells: []bool{true}},
	}

	var buffer bytes.Buffer
	writer := bufio.NewWriter(&buffer)
	for _, message := range messages {
		if err := writeMessage(writer, message); err != nil {
			t.Fatal(err)
		}
	}
	writer.Flush()

	// Header of the first frame: tag, 5, 1, no cells
	if got := buffer.Bytes()[:4]; !bytes.Equal(got, []byte{TAG_CONFIGURE, 5, 1, 0}) {
		t.Fatalf("header % x", got)
	}

	reader := bufio.NewReader(&buffer)
	for _, want := range messages {
		got, err := readMessage(reader)
		if err != nil {
			t.Fatal(err)
		}
		if !sameMessage(got, want) {
			t.Fatalf("read %+v, want %+v", got, want)
		}
	}
	if _, err := readMessage(reader); !errors.Is(err, io.EOF) {
		t.Fatalf("after last frame: %v", err)
	}
}

func TestTruncatedFrame(t *testing.T) {
	var buffer bytes.Buffer
	writer := bufio.NewWriter(&buffer)
	writeMessage(writer, Message{Tag: TAG_ROW, Cells: make([]bool, 64)})
	writer.Flush()

	truncated := buffer.Bytes()[:buffer.Len()-3]
	_, err := readMessage(bufio.NewReader(bytes.NewReader(truncated)))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("err = %v, want unexpected EOF", err)
	}
}

// Both directions of a bridged connection deliver in order
func TestBridgeOverPipe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	left, right := bridge(ctx, a), bridge(ctx, b)

	go func() {
		for i := uint64(0); i != 100; i++ {
			left.Out <- Message{Tag: TAG_DONE, Arg0: i}
		}
	}()
	for i := uint64(0); i != 100; i++ {
		select {
		case message := <-right.In:
			if message.Tag != TAG_DONE || message.Arg0 != i {
				t.Fatalf("message %d: %+v", i, message)
			}
		case <-ctx.Done():
			t.Fatal("timed out")
		}
	}

	go func() { right.Out <- Message{Tag: TAG_ROW, Cells: []bool{true, false, true}} }()
	select {
	case message := <-left.In:
		if !sameMessage(message, Message{Tag: TAG_ROW, Cells: []bool{true, false, true}}) {
			t.Fatalf("reply %+v", message)
		}
	case <-ctx.Done():
		t.Fatal("timed out")
	}
}

// Closing the transport closes the receiving channels
func TestTransportCloseEndsLinks(t *testing.T) {
	for _, name := range []string{TRANSPORT_PIPE, TRANSPORT_TCP} {
		transport, err := NewTransport(name)
		if err != nil {
			t.Fatal(err)
		}
		a, _, err := transport.Link(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		transport.Close()
		select {
		case _, ok := <-a.In:
			if ok {
				t.Fatalf("%s: message after close", name)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("%s: link still open", name)
		}
	}
}

func TestNewTransportUnknown(t *testing.T) {
	if _, err := NewTransport("carrier-pigeon"); !errors.Is(err, ErrInvalidArguments) {
		t.Fatalf("err = %v", err)
	}
}

func TestCompressionRoundTrip(t *testing.T) {
	cells := []bool{true, false, false, true, true, false, true, false, true}
	packed := make([]byte, compressedSize(len(cells)))
	compressCellsTo(cells, packed)
	if len(packed) != 2 || packed[0] != 0b01011001 || packed[1] != 1 {
		t.Fatalf("packed % 08b", packed)
	}
	if got := decompressCells(packed, len(cells)); !sameMessage(Message{Cells: got}, Message{Cells: cells}) {
		t.Fatalf("unpacked %v", got)
	}
}
