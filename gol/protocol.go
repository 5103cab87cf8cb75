package gol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Messages of the line protocol
const (
	MSG_ALREADY_STARTED = "THE GAME HAS ALREADY STARTED"
	MSG_START_FIRST     = "START THE GAME FIRSTLY"
	MSG_STOP_FIRST      = "STOP THE GAME FIRSTLY"
	MSG_UNKNOWN         = "UNKNOWN COMMAND"
	MSG_INVALID         = "INVALID ARGUMENTS"
	MSG_INVALID_SIZE    = "INVALID FIELD SIZE"
	MSG_MALFORMED       = "MALFORMED SOURCE"
)

// Serve executes one command per line until END or the end of input
func (session *Session) Serve(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if session.Execute(scanner.Text(), out) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	// Input closed without END
	if session.Active() {
		return session.Quit()
	}
	return nil
}

// Execute runs one command line and prints its outcome.
// Returns true once END has been processed.
func (session *Session) Execute(line string, out io.Writer) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return false
	}
	command, args := tokens[0], tokens[1:]

	var err error
	switch command {
	case "START":
		err = session.start(args)
	case "STATUS":
		err = session.status(out)
	case "RUN":
		err = session.run(args)
	case "STOP":
		err = session.Stop()
	case "QUIT":
		err = session.Quit()
	case "END":
		if session.Active() {
			if err := session.Quit(); err != nil {
				report(out, err)
			}
		}
		return true
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
	if err != nil {
		report(out, err)
	}
	return false
}

func (session *Session) start(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: START RANDOM height width | START path", ErrInvalidArguments)
	}
	if session.Active() {
		return ErrAlreadyRunning
	}
	if args[0] != "RANDOM" {
		if len(args) != 1 {
			return fmt.Errorf("%w: START path", ErrInvalidArguments)
		}
		return session.StartFromFile(args[0])
	}
	if len(args) != 3 {
		return fmt.Errorf("%w: START RANDOM height width", ErrInvalidArguments)
	}
	height, err := strconv.Atoi(args[1])
	if err != nil || height < 0 {
		return fmt.Errorf("%w: height %q", ErrInvalidArguments, args[1])
	}
	width, err := strconv.Atoi(args[2])
	if err != nil || width < 0 {
		return fmt.Errorf("%w: width %q", ErrInvalidArguments, args[2])
	}
	return session.StartRandom(height, width)
}

func (session *Session) run(args []string) error {
	if !session.Active() {
		return ErrNoActiveGame
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: RUN iterations", ErrInvalidArguments)
	}
	iterations, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: iterations %q", ErrInvalidArguments, args[0])
	}
	return session.Run(iterations)
}

var errNotReady = errors.New("generations outstanding")

func (session *Session) status(out io.Writer) error {
	snapshot, ready, err := session.Status()
	if err != nil {
		return err
	}
	if !ready {
		return errNotReady
	}
	return writeStatus(out, snapshot, session.params.Glyphs)
}

func report(out io.Writer, err error) {
	var message string
	switch {
	case errors.Is(err, ErrAlreadyRunning):
		message = MSG_ALREADY_STARTED
	case errors.Is(err, ErrNoActiveGame):
		message = MSG_START_FIRST
	case errors.Is(err, errNotReady):
		message = MSG_STOP_FIRST
	case errors.Is(err, ErrUnknownCommand):
		message = MSG_UNKNOWN
	case errors.Is(err, ErrInvalidArguments):
		message = MSG_INVALID
	case errors.Is(err, ErrInvalidSize):
		message = MSG_INVALID_SIZE
	case errors.Is(err, ErrMalformedSource):
		message = MSG_MALFORMED + ": " + strings.TrimPrefix(err.Error(), ErrMalformedSource.Error()+": ")
	default:
		message = "ERROR: " + err.Error()
	}
	fmt.Fprintln(out, message)
}
