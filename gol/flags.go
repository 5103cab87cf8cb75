package gol

import (
	"flag"
	"runtime"
)

// EngineFlags holds the raw command line values shared by the client and the server
type EngineFlags struct {
	threads   int
	mode      string
	transport string
	seed      int64
	glyphs    string
}

// BindFlags registers the engine options on a flag set
func BindFlags(set *flag.FlagSet) *EngineFlags {
	flags := &EngineFlags{}
	set.IntVar(&flags.threads, "t", runtime.NumCPU(), "Number of workers, capped by the field height")
	set.StringVar(&flags.mode, "mode", MODE_RING, "Coordination style: ring or shared")
	set.StringVar(&flags.transport, "transport", TRANSPORT_CHAN, "Ring links: chan, pipe or tcp")
	set.Int64Var(&flags.seed, "seed", 0, "Seed of random fields, 0 for a time based seed")
	set.StringVar(&flags.glyphs, "glyphs", "10", "Live and dead glyphs used by STATUS")
	return flags
}

// Params validates the parsed values
func (flags *EngineFlags) Params() (Params, error) {
	glyphs, err := ParseGlyphs(flags.glyphs)
	if err != nil {
		return Params{}, err
	}
	p := Params{
		Threads:   flags.threads,
		Mode:      flags.mode,
		Transport: flags.transport,
		Seed:      flags.seed,
		Glyphs:    glyphs,
	}
	return p, ValidateParams(p)
}
