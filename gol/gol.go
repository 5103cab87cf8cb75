package gol

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"
)

// Coordination styles
const (
	MODE_RING   = "ring"   // Workers share nothing and exchange boundary rows
	MODE_SHARED = "shared" // Workers share a double-buffered field
)

// Params provides the details of how to run the Game of Life.
type Params struct {
	Threads   int    // Worker capacity; never more workers than rows
	Mode      string // MODE_RING or MODE_SHARED
	Transport string // Ring links: TRANSPORT_CHAN, TRANSPORT_PIPE or TRANSPORT_TCP
	Seed      int64  // Seed of random fields, 0 for a time based seed
	Glyphs    Glyphs
}

// Session owns at most one live simulation, from Start until Quit
type Session struct {
	params Params
	engine Engine
	random *rand.Rand
}

func NewSession(p Params) *Session {
	if p.Threads < 1 {
		p.Threads = 1
	}
	if p.Glyphs == (Glyphs{}) {
		p.Glyphs = DefaultGlyphs
	}
	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Session{params: p, random: rand.New(rand.NewSource(seed))}
}

func (session *Session) Params() Params { return session.params }

func (session *Session) Active() bool { return session.engine != nil }

// Start evolving the given field
func (session *Session) Start(matrix Matrix) error {
	if session.engine != nil {
		return ErrAlreadyRunning
	}
	if matrix.Height() < 1 || matrix.Width() < 1 {
		return ErrInvalidSize
	}
	engine, err := newEngine(session.params, matrix)
	if err != nil {
		return err
	}
	session.engine = engine
	return nil
}

// StartRandom starts a field of height x width random cells
func (session *Session) StartRandom(height, width int) error {
	if session.engine != nil {
		return ErrAlreadyRunning
	}
	matrix, err := randomMatrix(session.random, height, width)
	if err != nil {
		return err
	}
	return session.Start(matrix)
}

// StartFromFile starts the field stored at path
func (session *Session) StartFromFile(path string) error {
	if session.engine != nil {
		return ErrAlreadyRunning
	}
	matrix, err := readSource(path)
	if err != nil {
		return err
	}
	return session.Start(matrix)
}

func (session *Session) Run(iterations uint64) error {
	if session.engine == nil {
		return ErrNoActiveGame
	}
	// The target generation must stay representable
	if iterations > math.MaxUint64-session.engine.Required() {
		return fmt.Errorf("%w: %d more iterations overflow the target", ErrInvalidArguments, iterations)
	}
	return session.check(session.engine.Run(iterations))
}

func (session *Session) Stop() error {
	if session.engine == nil {
		return ErrNoActiveGame
	}
	return session.check(session.engine.Stop())
}

func (session *Session) Status() (Snapshot, bool, error) {
	if session.engine == nil {
		return Snapshot{}, false, ErrNoActiveGame
	}
	snapshot, ready, err := session.engine.Status()
	return snapshot, ready, session.check(err)
}

func (session *Session) Quit() error {
	if session.engine == nil {
		return ErrNoActiveGame
	}
	err := session.engine.Quit()
	session.engine = nil
	return err
}

// An engine that failed has already torn itself down
func (session *Session) check(err error) error {
	if err != nil {
		log.Printf("Simulation aborted: %v", err)
		session.engine = nil
	}
	return err
}

func newEngine(p Params, matrix Matrix) (Engine, error) {
	switch p.Mode {
	case MODE_RING, "":
		return NewBroker(p, matrix)
	case MODE_SHARED:
		if p.Transport != "" && p.Transport != TRANSPORT_CHAN {
			return nil, fmt.Errorf("%w: transport %q needs mode %s", ErrInvalidArguments, p.Transport, MODE_RING)
		}
		return NewDistributor(p, matrix), nil
	}
	return nil, fmt.Errorf("%w: mode %q", ErrInvalidArguments, p.Mode)
}

// ValidateParams reports unusable parameters before any game is started
func ValidateParams(p Params) error {
	if p.Threads < 1 {
		return fmt.Errorf("%w: %d threads", ErrInvalidArguments, p.Threads)
	}
	if p.Mode != MODE_RING && p.Mode != MODE_SHARED && p.Mode != "" {
		return fmt.Errorf("%w: mode %q", ErrInvalidArguments, p.Mode)
	}
	switch p.Transport {
	case "", TRANSPORT_CHAN, TRANSPORT_PIPE, TRANSPORT_TCP:
	default:
		return fmt.Errorf("%w: transport %q", ErrInvalidArguments, p.Transport)
	}
	if p.Mode == MODE_SHARED && p.Transport != "" && p.Transport != TRANSPORT_CHAN {
		return fmt.Errorf("%w: transport %q needs mode %s", ErrInvalidArguments, p.Transport, MODE_RING)
	}
	return nil
}
